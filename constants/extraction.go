package constants

// Extraction methods reported on audit events.
const (
	MethodNative = "native"
	MethodOCR    = "ocr"
)

// DocKind classifies a document within a batch. Everything that is not
// an auxiliary certificate or packing list is treated as an invoice.
type DocKind string

const (
	DocInvoice     DocKind = "INVOICE"
	DocGermination DocKind = "GERMINATION"
	DocPurity      DocKind = "PURITY_ANALYSIS"
	DocPacking     DocKind = "PACKING_LIST"
)
