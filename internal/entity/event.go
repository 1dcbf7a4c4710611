package entity

// ExtractionEvent is the structured audit record emitted once per
// processed document. The logging sink consuming it is external.
type ExtractionEvent struct {
	Vendor           string `json:"vendor"`
	Filename         string `json:"filename"`
	ExtractionMethod string `json:"extraction_method"` // "native" | "ocr"
	PageCount        int    `json:"page_count"`
	LineCount        int    `json:"line_count"`
}
