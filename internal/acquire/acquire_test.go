package acquire

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agridocs/seed-intake/constants"
	"github.com/agridocs/seed-intake/internal/common"
	"github.com/agridocs/seed-intake/internal/entity"
	"github.com/agridocs/seed-intake/internal/ocr"
)

type fakeOCR struct {
	lines []string
	pages int
	err   error
	calls int
}

func (f *fakeOCR) Analyze(context.Context, []byte) ([]string, int, error) {
	f.calls++
	return f.lines, f.pages, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// corruptContentPDF builds a structurally valid single-page PDF whose
// content stream declares FlateDecode over bytes that are not zlib
// data. Opening it succeeds; reading the page content does not.
func corruptContentPDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, 5)
	writeObj := func(n int, body string) {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents 4 0 R >>")
	writeObj(4, "<< /Length 9 /Filter /FlateDecode >>\nstream\nnot-zlib!\nendstream")
	xref := buf.Len()
	buf.WriteString("xref\n0 5\n0000000000 65535 f \n")
	for n := 1; n <= 4; n++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[n])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 5 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func TestAcquireFallsBackToOCR(t *testing.T) {
	fake := &fakeOCR{
		lines: []string{"INVOICE NO: 1234567", ocr.PageBreak, "SUBTOTAL 450.00", ocr.PageBreak},
		pages: 2,
	}
	e := NewExtractor(fake, testLogger())

	// Not a PDF, so native extraction fails and OCR takes over.
	content, err := e.Acquire(context.Background(), entity.Document{Name: "scan.pdf", Bytes: []byte("not a pdf")})
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, constants.MethodOCR, content.Method)
	assert.Equal(t, 2, content.Pages)
	require.Len(t, content.Rows, 4)
	assert.Equal(t, "INVOICE NO: 1234567", content.Rows[0].Text)
	assert.Equal(t, 1, content.Rows[0].Page)
	// Rows after the first sentinel belong to page 2.
	assert.Equal(t, 2, content.Rows[2].Page)
}

func TestAcquireCorruptContentStreamFallsBackToOCR(t *testing.T) {
	doc := entity.Document{Name: "corrupt.pdf", Bytes: corruptContentPDF()}

	fake := &fakeOCR{lines: []string{"INVOICE NO: 1234567", ocr.PageBreak}, pages: 1}
	e := NewExtractor(fake, testLogger())

	content, err := e.Acquire(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, constants.MethodOCR, content.Method)
	require.Len(t, content.Rows, 2)
	assert.Equal(t, "INVOICE NO: 1234567", content.Rows[0].Text)

	// Without an OCR fallback the document fails cleanly instead of
	// crashing the batch.
	bare := NewExtractor(nil, testLogger())
	_, err = bare.Acquire(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtractionFailed))
}

func TestAcquireBothPathsFail(t *testing.T) {
	fake := &fakeOCR{err: errors.New("service down")}
	e := NewExtractor(fake, testLogger())

	_, err := e.Acquire(context.Background(), entity.Document{Name: "scan.pdf", Bytes: []byte("not a pdf")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtractionFailed))
}

func TestAcquireNoOCRConfigured(t *testing.T) {
	e := NewExtractor(nil, testLogger())

	_, err := e.Acquire(context.Background(), entity.Document{Name: "scan.pdf", Bytes: []byte("not a pdf")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtractionFailed))
}
