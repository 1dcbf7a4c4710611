package parser

import (
	"regexp"
	"strings"

	"github.com/agridocs/seed-intake/constants"
	"github.com/agridocs/seed-intake/internal/entity"
	"github.com/agridocs/seed-intake/internal/numeric"
)

// Patterns shared across vendors. Vendor files add their own triggers
// and layout-specific rules on top of these.
var (
	reInvoiceNo = regexp.MustCompile(`(?i)\bINVOICE\s*(?:NO|NUMBER|#)?\s*[:.]?\s*(\d{6,10})\b`)
	rePONumber  = regexp.MustCompile(`(?i)\b(?:CUSTOMER\s+PO|YOUR\s+PO|PURCHASE\s+ORDER|P\.?O\.?\s*(?:NO|NUMBER|#))\s*[:.]?\s*([A-Z0-9][A-Z0-9\-]{3,})`)
	reOrigin    = regexp.MustCompile(`(?i)\bORIGIN\s*[:.]?\s*([A-Z]{2})\b`)
	reTreatment = regexp.MustCompile(`(?i)\b(UNTREATED|FILM\s?COAT(?:ED)?(?:\s+[A-Z0-9+]+)?|THIRAM(?:\s+[A-Z0-9.]+)?|APRON(?:\s+[A-Z0-9]+)?|FARMORE\s+[A-Z0-9]+|B-MOX(?:\s+PRIMED)?)\b`)
	reGermPct   = regexp.MustCompile(`(?i)\bGERM(?:INATION)?\s*[:.]?\s*([\d.,]+)\s*%`)
	rePurityPct = regexp.MustCompile(`(?i)\b(?:PURITY|PURE\s+SEED)\s*[:.]?\s*([\d.,]+)\s*%`)
	reInertPct  = regexp.MustCompile(`(?i)\bINERT(?:\s+MATTER)?\s*[:.]?\s*([\d.,]+)\s*%`)
	reGermDate  = regexp.MustCompile(`(?i)\b(?:TESTED|TEST\s+DATE|DATE)\s*[:.]?\s*(\d{1,2}/(?:\d{1,2}/)?\d{2,4})\b`)
	reSeedCount = regexp.MustCompile(`(?i)\b([\d.,]+)\s*(?:SEEDS|SDS)\b`)
	reQtyLabel  = regexp.MustCompile(`(?i)\bQTY\s*[:.]?\s*([\d.,]+)\b`)
	reQtyUnit   = regexp.MustCompile(`(?i)(?:^|\s)([\d.,]+)\s+(?:EA|LB|KS)\b`)
	reUpcharge  = regexp.MustCompile(`(?i)\bUPCHARGE\s*[:.]?\s*\$?\s*([\d.,]+)\b`)
)

// baseItem converts a completed accumulator into the common line-item
// fields. Percentage clamps are applied here so no literal 100 ever
// leaves a parser.
func baseItem(vendor constants.Vendor, source, invoiceNo, fallbackPO string, a *acc) entity.LineItem {
	it := entity.LineItem{
		Vendor:           string(vendor),
		SourceFile:       source,
		VendorItemNumber: a.get(fItemNo),
		VendorItemDesc:   a.get(fDesc),
		VendorLotNo:      a.get(fLotNo),
		VendorBatchNo:    a.get(fBatchNo),
		OriginCountry:    strings.ToUpper(a.get(fOrigin)),
		VendorInvoiceNo:  invoiceNo,
		Treatment:        a.get(fTreatment),
		Quantity:         a.money(fQuantity),
		TotalPrice:       a.money(fTotal),
		TotalUpcharge:    a.money(fUpcharge),
		GermTestDate:     a.get(fGermDate),
		SeedCount:        a.money(fSeedCount),
	}
	it.PurchaseOrder = a.get(fPO)
	if it.PurchaseOrder == "" {
		it.PurchaseOrder = fallbackPO
	}
	if p := a.percent(fPurity); p != nil {
		v := numeric.ClampPurity(*p)
		it.PurityPct = &v
	}
	if p := a.percent(fInert); p != nil {
		it.InertPct = p
	}
	if g := a.percent(fGerm); g != nil {
		v := numeric.ClampGerm(*g, constants.GermClampFor(vendor))
		it.GermPct = &v
	}
	return it
}
