package parser

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/agridocs/seed-intake/constants"
	"github.com/agridocs/seed-intake/internal/entity"
)

// Bejo invoices trigger on an 8-digit material code and carry a
// 9-digit batch number per line. Documents are frequently scanned, so
// this parser sees the OCR line stream more often than native blocks.
// Amounts and seed counts use European grouping ("45.000 SEEDS",
// "1.234,56").
type bejo struct {
	logger *slog.Logger
}

var (
	reBejoMaterial = regexp.MustCompile(`^(\d{8})\b\s*(.*)$`)
	reBejoBatch    = regexp.MustCompile(`(?i)\bBATCH\s*(?:NO|NUMBER|#)?\s*[:.]?\s*(\d{9})\b`)
	reBejoSeeds    = regexp.MustCompile(`(?i)\b(\d{1,3}(?:\.\d{3})+|\d+)\s*(?:SEEDS|SDS)\b`)
	reBejoAmount   = regexp.MustCompile(`(?i)\b(?:AMOUNT|TOTAL)\s*(?:EUR|USD)?\s*[:.]?\s*([\d.,]+)`)
)

func (p *bejo) Vendor() constants.Vendor { return constants.VendorBejo }

func (p *bejo) Parse(content entity.Content, sourceFile string) []entity.LineItem {
	rows := content.Rows
	invoiceNo := docSearch(rows, reInvoiceNo)
	fallbackPO := docSearch(rows, rePONumber)

	seg := &segmenter{
		trigger: func(i int, rows []entity.Row, a *acc) bool {
			m := reBejoMaterial.FindStringSubmatch(rows[i].Text)
			if m == nil {
				return false
			}
			a.set(fItemNo, m[1])
			a.set(fDesc, m[2])
			return true
		},
		rules: []fieldRule{
			{re: reBejoBatch, field: fBatchNo},
			// Dotted groups are thousands separators on Bejo documents.
			{re: reBejoSeeds, field: fSeedCount, transform: func(m []string) string {
				return strings.ReplaceAll(m[1], ".", "")
			}},
			{re: reBejoAmount, field: fTotal},
			{re: reQtyLabel, field: fQuantity},
			{re: reTreatment, field: fTreatment},
			{re: reOrigin, field: fOrigin},
			{re: reGermPct, field: fGerm},
			{re: reGermDate, field: fGermDate},
			{re: rePONumber, field: fPO},
		},
		complete: func(a *acc) bool {
			return a.has(fItemNo) && a.has(fBatchNo)
		},
		build: func(a *acc) entity.LineItem {
			return baseItem(constants.VendorBejo, sourceFile, invoiceNo, fallbackPO, a)
		},
	}
	return seg.run(rows)
}
