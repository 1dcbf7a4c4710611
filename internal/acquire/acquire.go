// Package acquire turns raw PDF bytes into the ordered row stream the
// vendor parsers consume. Native text extraction is attempted first;
// scanned documents fall back to the remote OCR service.
package acquire

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/ledongthuc/pdf"

	"github.com/agridocs/seed-intake/constants"
	"github.com/agridocs/seed-intake/internal/common"
	"github.com/agridocs/seed-intake/internal/entity"
	"github.com/agridocs/seed-intake/internal/ocr"
)

// OCRClient is the fallback used when a PDF yields no native text.
type OCRClient interface {
	Analyze(ctx context.Context, doc []byte) (lines []string, pages int, err error)
}

// Extractor acquires document content. It is a pure transform over the
// input bytes; the source document is never mutated or persisted.
type Extractor struct {
	ocr    OCRClient
	logger *slog.Logger
}

func NewExtractor(ocr OCRClient, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{ocr: ocr, logger: logger}
}

// Acquire returns positioned rows from native extraction, or OCR lines
// when no page yields text. When both paths fail the document counts
// as zero items, never as a batch abort.
func (e *Extractor) Acquire(ctx context.Context, doc entity.Document) (entity.Content, error) {
	content, err := e.extractNative(doc)
	if err == nil && !content.Empty() {
		e.logger.Debug("acquire.native.ok",
			"file", doc.Name, "pages", content.Pages, "rows", len(content.Rows))
		return content, nil
	}
	if err != nil {
		e.logger.Warn("acquire.native.failed", "file", doc.Name, "error", err)
	} else {
		e.logger.Info("acquire.native.empty", "file", doc.Name)
	}

	if e.ocr == nil {
		return entity.Content{}, common.NewAppError("EXTRACTION_FAILED",
			fmt.Sprintf("no native text in %s and no OCR client configured", doc.Name),
			common.ErrExtractionFailed)
	}

	lines, pages, oerr := e.ocr.Analyze(ctx, doc.Bytes)
	if oerr != nil {
		e.logger.Warn("acquire.ocr.failed", "file", doc.Name, "error", oerr)
		return entity.Content{}, common.NewAppError("EXTRACTION_FAILED",
			fmt.Sprintf("ocr fallback failed for %s", doc.Name), common.ErrExtractionFailed)
	}

	rows := make([]entity.Row, 0, len(lines))
	page := 1
	for _, line := range lines {
		rows = append(rows, entity.Row{
			Page:  page,
			Cells: []entity.Cell{{Text: line}},
			Text:  line,
		})
		if line == ocr.PageBreak {
			page++
		}
	}
	e.logger.Debug("acquire.ocr.ok", "file", doc.Name, "pages", pages, "rows", len(rows))
	return entity.Content{Rows: rows, Method: constants.MethodOCR, Pages: pages}, nil
}

func (e *Extractor) extractNative(doc entity.Document) (content entity.Content, err error) {
	// The pdf library panics on corrupt page content (bad stream
	// filters and the like). A malformed document must degrade to the
	// OCR fallback, never take the batch down.
	defer func() {
		if r := recover(); r != nil {
			content = entity.Content{}
			err = fmt.Errorf("parse pdf content: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(doc.Bytes), int64(len(doc.Bytes)))
	if err != nil {
		return entity.Content{}, fmt.Errorf("open pdf: %w", err)
	}

	var rows []entity.Row
	pages := r.NumPage()
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows = append(rows, groupRows(p.Content().Text, i)...)
	}
	return entity.Content{Rows: rows, Method: constants.MethodNative, Pages: pages}, nil
}
