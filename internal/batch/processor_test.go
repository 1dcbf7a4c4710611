package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agridocs/seed-intake/constants"
	"github.com/agridocs/seed-intake/internal/catalog"
	"github.com/agridocs/seed-intake/internal/entity"
	"github.com/agridocs/seed-intake/internal/schema"
)

// fakeAcquirer serves canned line streams keyed by filename.
type fakeAcquirer struct {
	lines map[string][]string
	fail  map[string]bool
}

func (f *fakeAcquirer) Acquire(_ context.Context, doc entity.Document) (entity.Content, error) {
	if f.fail[doc.Name] {
		return entity.Content{}, errors.New("extraction failed")
	}
	rows := make([]entity.Row, 0, len(f.lines[doc.Name]))
	for _, l := range f.lines[doc.Name] {
		rows = append(rows, entity.Row{Page: 1, Cells: []entity.Cell{{Text: l}}, Text: l})
	}
	return entity.Content{Rows: rows, Method: constants.MethodOCR, Pages: 1}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProcessor(t *testing.T, acq Acquirer) *Processor {
	t.Helper()
	v, err := schema.NewValidator()
	require.NoError(t, err)
	queue := NewAcquireQueue(acq, testLogger(), WithWorkers(2))
	return NewProcessor(queue, v, testLogger())
}

func TestProcessBatchEndToEnd(t *testing.T) {
	acq := &fakeAcquirer{
		lines: map[string][]string{
			"invoice.pdf": {
				"INVOICE NO: 1234567",
				"CUSTOMER PO: PO-4455",
				"123456 BEET CHIOGGIA 80 MK",
				"A12345 ORIGIN: US 40 EA",
				"SUBTOTAL 1,200.00",
			},
			"germ.pdf": {
				"GERMINATION REPORT",
				"LOT NO: A12345",
				"GERM: 100% TESTED: 02/10/2024",
			},
		},
	}
	p := newTestProcessor(t, acq)

	inputs := Inputs{
		Catalog:    catalog.New([]string{"80,000 SEEDS"}),
		Treatments: catalog.New([]string{"UNTREATED", "FILM COAT"}),
	}
	docs := []entity.Document{
		{Name: "invoice.pdf", Bytes: []byte("x")},
		{Name: "germ.pdf", Bytes: []byte("x")},
	}

	result, err := p.ProcessBatch(context.Background(), constants.VendorHMClause, docs, inputs)
	require.NoError(t, err)

	// Only the invoice produces line items; the certificate enriches.
	require.Contains(t, result.Items, "invoice.pdf")
	require.NotContains(t, result.Items, "germ.pdf")
	items := result.Items["invoice.pdf"]
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, "123456", it.VendorItemNumber)
	assert.Equal(t, "PO-4455", it.PurchaseOrder)

	// Germination joined from the certificate, clamped at the vendor cap.
	require.NotNil(t, it.GermPct)
	assert.Equal(t, 98.0, *it.GermPct)
	assert.Equal(t, "02/10/2024", it.GermTestDate)

	// Unit cost derives from total and quantity: 1200 / 40.
	require.NotNil(t, it.UnitCost)
	assert.Equal(t, 30.0, *it.UnitCost)

	// Package description resolved through the catalog.
	assert.Equal(t, "80,000 SEEDS", it.PackageDescription)

	require.Len(t, it.Lots, 1)
	assert.Equal(t, "80,000 SEEDS", it.Lots[0].PackageDescription)
	require.NotNil(t, it.Lots[0].UnitCost)
	assert.Equal(t, 30.0, *it.Lots[0].UnitCost)

	// One event per invoice.
	var ev *entity.ExtractionEvent
	for i := range result.Events {
		if result.Events[i].Filename == "invoice.pdf" {
			ev = &result.Events[i]
		}
	}
	require.NotNil(t, ev)
	assert.Equal(t, constants.MethodOCR, ev.ExtractionMethod)
	assert.Equal(t, 1, ev.LineCount)
}

func TestProcessBatchFailedDocumentYieldsEmptySlice(t *testing.T) {
	acq := &fakeAcquirer{
		lines: map[string][]string{
			"good.pdf": {
				"INVOICE NO: 1234567",
				"123456 BEET CHIOGGIA",
				"A12345 40 EA",
				"SUBTOTAL 1,200.00",
			},
		},
		fail: map[string]bool{"bad.pdf": true},
	}
	p := newTestProcessor(t, acq)

	docs := []entity.Document{
		{Name: "good.pdf", Bytes: []byte("x")},
		{Name: "bad.pdf", Bytes: []byte("x")},
	}
	result, err := p.ProcessBatch(context.Background(), constants.VendorHMClause, docs, Inputs{})
	require.NoError(t, err)

	assert.Len(t, result.Items["good.pdf"], 1)
	items, ok := result.Items["bad.pdf"]
	require.True(t, ok)
	assert.Empty(t, items)
}

func TestProcessBatchUnknownVendor(t *testing.T) {
	p := newTestProcessor(t, &fakeAcquirer{})
	_, err := p.ProcessBatch(context.Background(), constants.Vendor("NOBODY"), nil, Inputs{})
	assert.Error(t, err)
}

func TestAcquireQueueCollectsAll(t *testing.T) {
	acq := &fakeAcquirer{
		lines: map[string][]string{
			"a.pdf": {"line"},
			"b.pdf": {"line"},
		},
		fail: map[string]bool{"c.pdf": true},
	}
	q := NewAcquireQueue(acq, testLogger(), WithWorkers(3))

	docs := []entity.Document{
		{Name: "a.pdf"}, {Name: "b.pdf"}, {Name: "c.pdf"},
	}
	contents, errs := q.AcquireAll(context.Background(), docs)
	assert.Len(t, contents, 2)
	require.Len(t, errs, 1)
	assert.Error(t, errs["c.pdf"])
}
