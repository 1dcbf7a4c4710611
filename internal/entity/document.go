package entity

// Document is one PDF file inside a batch. It exists only for the
// duration of a single extraction run and is never persisted here;
// upload storage belongs to an external collaborator.
type Document struct {
	Name  string
	Bytes []byte
}

// Cell is one positioned unit of native-extracted text. OCR rows carry
// a single cell with X=0 because the analyze service reports no usable
// geometry for these layouts.
type Cell struct {
	X    float64
	Text string
}

// Row is one visual line of a document. Cells are ordered by X
// ascending; Text is the cells joined with single spaces. Rows are not
// mutated after acquisition.
type Row struct {
	Page  int
	Y     float64
	Cells []Cell
	Text  string
}

// Content is the ordered block/line stream of one document. Row order
// is the sole source of truth for field association downstream, so it
// must match reading order exactly.
type Content struct {
	Rows   []Row
	Method string // constants.MethodNative | constants.MethodOCR
	Pages  int
}

// Empty reports whether acquisition produced any usable text.
func (c Content) Empty() bool {
	return len(c.Rows) == 0
}
