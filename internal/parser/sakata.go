package parser

import (
	"log/slog"
	"regexp"

	"github.com/agridocs/seed-intake/constants"
	"github.com/agridocs/seed-intake/internal/entity"
)

// Sakata invoices open each line with a letter+5-digit lot code; the
// item number and financials follow on labeled rows. Germination and
// purity never appear on the invoice itself — they arrive on separate
// certificates and are joined in by lot key during enrichment.
type sakata struct {
	logger *slog.Logger
}

var (
	reSakataLot    = regexp.MustCompile(`^([A-Z]\d{5})\b\s*(.*)$`)
	reSakataItemNo = regexp.MustCompile(`(?i)\bITEM\s*(?:NO|NUMBER|#)?\s*[:.]?\s*(\d{5,7})\b`)
	reSakataDesc   = regexp.MustCompile(`(?i)^DESC(?:RIPTION)?\s*[:.]?\s*(.+)$`)
	reSakataPrice  = regexp.MustCompile(`(?i)\b(?:PRICE|AMOUNT|TOTAL)\s*[:.]?\s*\$?\s*([\d.,]+)`)
)

func (p *sakata) Vendor() constants.Vendor { return constants.VendorSakata }

func (p *sakata) Parse(content entity.Content, sourceFile string) []entity.LineItem {
	rows := content.Rows
	invoiceNo := docSearch(rows, reInvoiceNo)
	fallbackPO := docSearch(rows, rePONumber)

	seg := &segmenter{
		trigger: func(i int, rows []entity.Row, a *acc) bool {
			m := reSakataLot.FindStringSubmatch(rows[i].Text)
			if m == nil {
				return false
			}
			a.set(fLotNo, m[1])
			a.set(fDesc, m[2])
			return true
		},
		rules: []fieldRule{
			{re: reSakataItemNo, field: fItemNo},
			{re: reSakataDesc, field: fDesc},
			{re: reQtyLabel, field: fQuantity},
			{re: reQtyUnit, field: fQuantity},
			{re: reSakataPrice, field: fTotal},
			{re: reOrigin, field: fOrigin},
			{re: reTreatment, field: fTreatment},
			{re: reSeedCount, field: fSeedCount},
			{re: reUpcharge, field: fUpcharge},
			{re: rePONumber, field: fPO},
		},
		complete: func(a *acc) bool {
			return a.has(fItemNo) && a.has(fLotNo)
		},
		build: func(a *acc) entity.LineItem {
			return baseItem(constants.VendorSakata, sourceFile, invoiceNo, fallbackPO, a)
		},
	}
	return seg.run(rows)
}
