package parser

import (
	"log/slog"
	"regexp"
	"strconv"

	"github.com/agridocs/seed-intake/constants"
	"github.com/agridocs/seed-intake/internal/entity"
)

// Rijk Zwaan prints labeled item and batch rows. Extended amounts sit
// in a totals column near a Subtotal label; candidates carrying a
// per-unit suffix ("/EA") are unit prices and must be skipped when
// resolving the total.
type rijkZwaan struct {
	logger *slog.Logger
}

var (
	reRZItem     = regexp.MustCompile(`(?i)^ITEM\s*[:#]?\s*(\d{7})\b\s*(.*)$`)
	reRZBatch    = regexp.MustCompile(`(?i)\bBATCH\s*[:#]?\s*(\d{10})\b`)
	reRZSubtotal = regexp.MustCompile(`(?i)\bSUBTOTAL\b`)
)

func (p *rijkZwaan) Vendor() constants.Vendor { return constants.VendorRijkZwaan }

func (p *rijkZwaan) Parse(content entity.Content, sourceFile string) []entity.LineItem {
	rows := content.Rows
	invoiceNo := docSearch(rows, reInvoiceNo)
	fallbackPO := docSearch(rows, rePONumber)

	seg := &segmenter{
		trigger: func(i int, rows []entity.Row, a *acc) bool {
			m := reRZItem.FindStringSubmatch(rows[i].Text)
			if m == nil {
				return false
			}
			a.set(fItemNo, m[1])
			a.set(fDesc, m[2])
			return true
		},
		rules: []fieldRule{
			{re: reRZBatch, field: fBatchNo},
			{re: reGermPct, field: fGerm},
			{re: reGermDate, field: fGermDate},
			{re: reSeedCount, field: fSeedCount},
			{re: reQtyLabel, field: fQuantity},
			{re: reQtyUnit, field: fQuantity},
			{re: reOrigin, field: fOrigin},
			{re: reTreatment, field: fTreatment},
			{re: rePONumber, field: fPO},
		},
		onRow: func(a *acc, i int, rows []entity.Row) {
			if a.has(fTotal) || !reRZSubtotal.MatchString(rows[i].Text) {
				return
			}
			if v := moneyNear(rows, i, 4, 0); v != nil {
				a.set(fTotal, strconv.FormatFloat(*v, 'f', -1, 64))
			}
		},
		complete: func(a *acc) bool {
			return a.has(fItemNo) && a.has(fBatchNo)
		},
		build: func(a *acc) entity.LineItem {
			return baseItem(constants.VendorRijkZwaan, sourceFile, invoiceNo, fallbackPO, a)
		},
	}
	return seg.run(rows)
}
