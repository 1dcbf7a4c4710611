package parser

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureHandler records emitted log records so tests can assert on
// warning events.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}
func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.records))
	for _, r := range h.records {
		out = append(out, r.Message)
	}
	return out
}

func TestHMClauseParse(t *testing.T) {
	p := &hmClause{logger: slog.New(&captureHandler{})}

	content := contentFromLines(
		"HM CLAUSE INC",
		"INVOICE NO: 1234567",
		"CUSTOMER PO: PO-4455",
		"123456 BEET CHIOGGIA 80 MK",
		"A12345 ORIGIN: US 40 EA",
		"GERM: 95% TESTED: 01/15/2024",
		"SUBTOTAL 1,200.00",
		"654321 ONION YELLOW",
		"B67890 ORIGIN: IT 10 EA",
		"GERM: 100%",
		"SUBTOTAL 450.00",
	)

	items := p.Parse(content, "invoice.pdf")
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "123456", first.VendorItemNumber)
	assert.Equal(t, "BEET CHIOGGIA 80 MK", first.VendorItemDesc)
	assert.Equal(t, "1234567", first.VendorInvoiceNo)
	assert.Equal(t, "PO-4455", first.PurchaseOrder)
	assert.Equal(t, "invoice.pdf", first.SourceFile)
	require.Len(t, first.Lots, 1)
	assert.Equal(t, "A12345", first.Lots[0].VendorLotNo)
	assert.Equal(t, "US", first.Lots[0].OriginCountry)
	require.NotNil(t, first.Lots[0].Quantity)
	assert.Equal(t, 40.0, *first.Lots[0].Quantity)
	require.NotNil(t, first.Lots[0].GermPct)
	assert.Equal(t, 95.0, *first.Lots[0].GermPct)
	assert.Equal(t, "01/15/2024", first.Lots[0].GermTestDate)
	require.NotNil(t, first.TotalPrice)
	assert.Equal(t, 1200.0, *first.TotalPrice)
	// Item-level fields come from the first lot.
	assert.Equal(t, "A12345", first.VendorLotNo)
	require.NotNil(t, first.Quantity)
	assert.Equal(t, 40.0, *first.Quantity)

	second := items[1]
	assert.Equal(t, "654321", second.VendorItemNumber)
	require.Len(t, second.Lots, 1)
	assert.Equal(t, "B67890", second.Lots[0].VendorLotNo)
	require.NotNil(t, second.TotalPrice)
	assert.Equal(t, 450.0, *second.TotalPrice)
	// 100% germ is clamped to the vendor limit.
	require.NotNil(t, second.GermPct)
	assert.Equal(t, 98.0, *second.GermPct)
}

func TestHMClauseParseIsIdempotent(t *testing.T) {
	p := &hmClause{logger: slog.New(&captureHandler{})}
	content := contentFromLines(
		"123456 BEET CHIOGGIA",
		"A12345 40 EA",
		"SUBTOTAL 1,200.00",
	)
	a := p.Parse(content, "invoice.pdf")
	b := p.Parse(content, "invoice.pdf")
	assert.Equal(t, a, b)
}

func TestHMClauseDisqualifiedTriggers(t *testing.T) {
	p := &hmClause{logger: slog.New(&captureHandler{})}
	content := contentFromLines(
		"FREIGHT",
		"123456 NOT AN ITEM",
		"A12345 40 EA",
	)
	items := p.Parse(content, "invoice.pdf")
	assert.Empty(t, items)
}

func TestHMClauseItemWithoutLotsDropped(t *testing.T) {
	p := &hmClause{logger: slog.New(&captureHandler{})}
	content := contentFromLines(
		"123456 BEET CHIOGGIA",
		"SUBTOTAL 1,200.00",
	)
	items := p.Parse(content, "invoice.pdf")
	assert.Empty(t, items)
}

func TestHMClauseDiscountsFIFO(t *testing.T) {
	p := &hmClause{logger: slog.New(&captureHandler{})}
	content := contentFromLines(
		"123456 BEET CHIOGGIA",
		"A12345 40 EA",
		"SUBTOTAL 1,200.00",
		"123456 BEET CHIOGGIA",
		"C11111 60 EA",
		"SUBTOTAL 1,800.00",
		"DISCOUNT 123456 100.00",
		"DISCOUNT 123456 50.00",
	)
	items := p.Parse(content, "invoice.pdf")
	require.Len(t, items, 2)

	require.NotNil(t, items[0].TotalDiscount)
	assert.Equal(t, 100.0, *items[0].TotalDiscount)
	require.NotNil(t, items[1].TotalDiscount)
	assert.Equal(t, 50.0, *items[1].TotalDiscount)
}

func TestHMClauseDiscountMismatchWarns(t *testing.T) {
	h := &captureHandler{}
	p := &hmClause{logger: slog.New(h)}
	content := contentFromLines(
		"123456 BEET CHIOGGIA",
		"A12345 40 EA",
		"SUBTOTAL 1,200.00",
		"DISCOUNT 999999 25.00",
	)
	items := p.Parse(content, "invoice.pdf")
	require.Len(t, items, 1)
	assert.Nil(t, items[0].TotalDiscount)
	assert.Contains(t, h.messages(), "parser.discount.mismatch")
}
