package parser

import (
	"log/slog"
	"regexp"

	"github.com/agridocs/seed-intake/constants"
	"github.com/agridocs/seed-intake/internal/entity"
)

// Enza Zaden uses a two-line item marker: a bare 5-digit position
// index, then the 8-digit article code plus description on the next
// line. Germination dates print as month/year.
type enzaZaden struct {
	logger *slog.Logger
}

var (
	reEnzaIndex   = regexp.MustCompile(`^\d{5}$`)
	reEnzaArticle = regexp.MustCompile(`^(\d{8})\b\s*(.*)$`)
	reEnzaLot     = regexp.MustCompile(`(?i)\bLOT\s*(?:NO|NUMBER|#)?\s*[:.]?\s*([A-Z0-9]{8,11})\b`)
)

func (p *enzaZaden) Vendor() constants.Vendor { return constants.VendorEnzaZaden }

func (p *enzaZaden) Parse(content entity.Content, sourceFile string) []entity.LineItem {
	rows := content.Rows
	invoiceNo := docSearch(rows, reInvoiceNo)
	fallbackPO := docSearch(rows, rePONumber)

	seg := &segmenter{
		trigger: func(i int, rows []entity.Row, a *acc) bool {
			if !reEnzaIndex.MatchString(rows[i].Text) || i+1 >= len(rows) {
				return false
			}
			m := reEnzaArticle.FindStringSubmatch(rows[i+1].Text)
			if m == nil {
				return false
			}
			a.set(fItemNo, m[1])
			a.set(fDesc, m[2])
			return true
		},
		rules: []fieldRule{
			{re: reEnzaLot, field: fLotNo},
			{re: reGermPct, field: fGerm},
			{re: reGermDate, field: fGermDate},
			{re: reSeedCount, field: fSeedCount},
			{re: reQtyLabel, field: fQuantity},
			{re: reQtyUnit, field: fQuantity},
			{re: reSakataPrice, field: fTotal},
			{re: reOrigin, field: fOrigin},
			{re: reTreatment, field: fTreatment},
			{re: rePONumber, field: fPO},
		},
		complete: func(a *acc) bool {
			return a.has(fItemNo) && a.has(fLotNo)
		},
		build: func(a *acc) entity.LineItem {
			return baseItem(constants.VendorEnzaZaden, sourceFile, invoiceNo, fallbackPO, a)
		},
	}
	return seg.run(rows)
}
