package parser

import (
	"log/slog"
	"regexp"

	"github.com/agridocs/seed-intake/constants"
	"github.com/agridocs/seed-intake/internal/entity"
	"github.com/agridocs/seed-intake/internal/numeric"
)

// Vilmorin invoices trigger on a 6-digit SKU with a labeled 10-digit
// lot number. Discounts ("REMISE") are keyed by item number and apply
// to every line sharing that number, unlike HM Clause's positional
// FIFO list.
type vilmorin struct {
	logger *slog.Logger
}

var (
	reVilSKU      = regexp.MustCompile(`^(\d{6})\b\s*(.*)$`)
	reVilLot      = regexp.MustCompile(`(?i)\bLOT\s*(?:NO|NUMBER|#)?\s*[:.]?\s*(\d{10})\b`)
	reVilTotal    = regexp.MustCompile(`(?i)\b(?:MONTANT|AMOUNT|TOTAL)\s*[:.]?\s*([\d.,]+)`)
	reVilDiscount = regexp.MustCompile(`(?i)\b(?:REMISE|DISCOUNT)\b.*?\b(\d{6})\b\s+([\d.,]+)`)
)

var vilDisqualifiers = []string{"FREIGHT", "CUSTOMER NUMBER", "CUST NO", "REMISE", "DISCOUNT"}

func (p *vilmorin) Vendor() constants.Vendor { return constants.VendorVilmorin }

func (p *vilmorin) Parse(content entity.Content, sourceFile string) []entity.LineItem {
	rows := content.Rows
	invoiceNo := docSearch(rows, reInvoiceNo)
	fallbackPO := docSearch(rows, rePONumber)

	seg := &segmenter{
		trigger: func(i int, rows []entity.Row, a *acc) bool {
			m := reVilSKU.FindStringSubmatch(rows[i].Text)
			if m == nil || windowContains(rows, i, 1, 0, vilDisqualifiers...) {
				return false
			}
			a.set(fItemNo, m[1])
			a.set(fDesc, m[2])
			return true
		},
		rules: []fieldRule{
			{re: reVilLot, field: fLotNo},
			{re: reVilTotal, field: fTotal},
			{re: reQtyLabel, field: fQuantity},
			{re: reQtyUnit, field: fQuantity},
			{re: reUpcharge, field: fUpcharge},
			{re: reGermPct, field: fGerm},
			{re: rePurityPct, field: fPurity},
			{re: reInertPct, field: fInert},
			{re: reGermDate, field: fGermDate},
			{re: reOrigin, field: fOrigin},
			{re: reTreatment, field: fTreatment},
			{re: reSeedCount, field: fSeedCount},
			{re: rePONumber, field: fPO},
		},
		complete: func(a *acc) bool {
			return a.has(fItemNo) && a.has(fLotNo)
		},
		build: func(a *acc) entity.LineItem {
			return baseItem(constants.VendorVilmorin, sourceFile, invoiceNo, fallbackPO, a)
		},
	}
	items := seg.run(rows)

	p.applyDiscounts(rows, items)
	return items
}

// applyDiscounts builds an item-number keyed discount map and stamps
// the amount on every line sharing the number.
func (p *vilmorin) applyDiscounts(rows []entity.Row, items []entity.LineItem) {
	discounts := make(map[string]float64)
	for _, row := range rows {
		m := reVilDiscount.FindStringSubmatch(row.Text)
		if m == nil {
			continue
		}
		if amt := numeric.ParseMoney(m[2]); amt != nil {
			discounts[m[1]] = *amt
		}
	}
	if len(discounts) == 0 {
		return
	}
	for idx := range items {
		if amt, ok := discounts[items[idx].VendorItemNumber]; ok && items[idx].TotalDiscount == nil {
			a := amt
			items[idx].TotalDiscount = &a
		}
	}
}
