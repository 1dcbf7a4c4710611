package parser

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/agridocs/seed-intake/constants"
	"github.com/agridocs/seed-intake/internal/entity"
	"github.com/agridocs/seed-intake/internal/numeric"
)

// HM Clause invoices key items on a 6-digit SKU with one or more lot
// blocks (letter + 5 digits) underneath. Discounts appear as a flat
// list near a DISCOUNT keyword and are assigned to repeated item
// numbers in occurrence order.
type hmClause struct {
	logger *slog.Logger
}

var (
	reHMSKU      = regexp.MustCompile(`^(\d{6})\b\s*(.*)$`)
	reHMLotStart = regexp.MustCompile(`^([A-Z]\d{5})\b`)
	reHMSubtotal = regexp.MustCompile(`(?i)\b(?:SUBTOTAL|EXTENDED)\b`)
	reHMDiscount = regexp.MustCompile(`(?i)\bDISCOUNT\b`)
	reHMItemRef  = regexp.MustCompile(`\b(\d{6})\b`)
)

// 6-digit matches sitting next to these labels are amounts or account
// references, not item boundaries.
var hmDisqualifiers = []string{"FREIGHT", "CUSTOMER NUMBER", "CUST NO", "DISCOUNT"}

func (p *hmClause) Vendor() constants.Vendor { return constants.VendorHMClause }

func (p *hmClause) Parse(content entity.Content, sourceFile string) []entity.LineItem {
	rows := content.Rows
	invoiceNo := docSearch(rows, reInvoiceNo)
	fallbackPO := docSearch(rows, rePONumber)

	lotRules := []fieldRule{
		{re: reOrigin, field: fOrigin},
		{re: reQtyUnit, field: fQuantity},
		{re: reGermPct, field: fGerm},
		{re: rePurityPct, field: fPurity},
		{re: reInertPct, field: fInert},
		{re: reGermDate, field: fGermDate},
	}
	itemRules := []fieldRule{
		{re: reTreatment, field: fTreatment},
		{re: reSeedCount, field: fSeedCount},
		{re: reUpcharge, field: fUpcharge},
		{re: rePONumber, field: fPO},
	}

	var items []entity.LineItem
	var curItem *acc
	var curLot *acc
	var curLots []*acc

	flushItem := func() {
		if curItem == nil {
			return
		}
		if curItem.has(fItemNo) && len(curLots) > 0 {
			items = append(items, p.buildItem(curItem, curLots, invoiceNo, fallbackPO, sourceFile))
		}
		curItem, curLot, curLots = nil, nil, nil
	}

	for i, row := range rows {
		if m := reHMSKU.FindStringSubmatch(row.Text); m != nil {
			if !windowContains(rows, i, 1, 0, hmDisqualifiers...) {
				flushItem()
				curItem = newAcc()
				curItem.set(fItemNo, m[1])
				curItem.set(fDesc, m[2])
				continue
			}
		}
		if curItem == nil {
			continue
		}
		if m := reHMLotStart.FindStringSubmatch(row.Text); m != nil {
			curLot = newAcc()
			curLot.set(fLotNo, m[1])
			curLots = append(curLots, curLot)
		}
		if reHMSubtotal.MatchString(row.Text) && !curItem.has(fTotal) {
			if v := moneyNear(rows, i, 3, 3); v != nil {
				curItem.set(fTotal, strconv.FormatFloat(*v, 'f', -1, 64))
			}
		}
		if curLot != nil {
			applyRules(curLot, lotRules, row.Text)
		}
		applyRules(curItem, itemRules, row.Text)
	}
	flushItem()

	p.applyDiscounts(rows, items)
	return items
}

func (p *hmClause) buildItem(a *acc, lots []*acc, invoiceNo, fallbackPO, source string) entity.LineItem {
	it := baseItem(constants.VendorHMClause, source, invoiceNo, fallbackPO, a)
	clamp := constants.GermClampFor(constants.VendorHMClause)
	for _, la := range lots {
		lot := entity.Lot{
			VendorLotNo:   la.get(fLotNo),
			OriginCountry: strings.ToUpper(la.get(fOrigin)),
			Quantity:      la.money(fQuantity),
			GermTestDate:  la.get(fGermDate),
		}
		if g := la.percent(fGerm); g != nil {
			v := numeric.ClampGerm(*g, clamp)
			lot.GermPct = &v
		}
		if pv := la.percent(fPurity); pv != nil {
			v := numeric.ClampPurity(*pv)
			lot.PurityPct = &v
		}
		if iv := la.percent(fInert); iv != nil {
			lot.InertPct = iv
		}
		it.Lots = append(it.Lots, lot)
	}

	// The first lot stands in for item-level fields the invoice prints
	// only at lot granularity.
	first := it.Lots[0]
	if it.VendorLotNo == "" {
		it.VendorLotNo = first.VendorLotNo
	}
	if it.OriginCountry == "" {
		it.OriginCountry = first.OriginCountry
	}
	if it.GermPct == nil {
		it.GermPct = first.GermPct
	}
	if it.PurityPct == nil {
		it.PurityPct = first.PurityPct
	}
	if it.InertPct == nil {
		it.InertPct = first.InertPct
	}
	if it.GermTestDate == "" {
		it.GermTestDate = first.GermTestDate
	}
	if it.Quantity == nil {
		sum := 0.0
		n := 0
		for _, lot := range it.Lots {
			if lot.Quantity != nil {
				sum += *lot.Quantity
				n++
			}
		}
		if n > 0 {
			it.Quantity = &sum
		}
	}
	return it
}

// applyDiscounts extracts (item number, amount) pairs near DISCOUNT
// keywords and distributes them FIFO across occurrences of the same
// item number. Pairs that find no unassigned occurrence are dropped
// with a warning rather than silently defaulted.
func (p *hmClause) applyDiscounts(rows []entity.Row, items []entity.LineItem) {
	type pair struct {
		itemNo string
		amount float64
	}
	var pairs []pair
	for i, row := range rows {
		if !reHMDiscount.MatchString(row.Text) {
			continue
		}
		itemNo := ""
		if m := reHMItemRef.FindStringSubmatch(row.Text); m != nil {
			itemNo = m[1]
		} else {
			for d := 1; d <= 3 && i-d >= 0; d++ {
				if m := reHMItemRef.FindStringSubmatch(rows[i-d].Text); m != nil {
					itemNo = m[1]
					break
				}
			}
		}
		if itemNo == "" {
			continue
		}
		if amt := moneyNear(rows, i, 0, 1); amt != nil {
			pairs = append(pairs, pair{itemNo: itemNo, amount: *amt})
		}
	}

	assigned := 0
	for _, pr := range pairs {
		matched := false
		for idx := range items {
			if items[idx].VendorItemNumber == pr.itemNo && items[idx].TotalDiscount == nil {
				amt := pr.amount
				items[idx].TotalDiscount = &amt
				matched = true
				assigned++
				break
			}
		}
		if !matched {
			p.logger.Warn("parser.discount.mismatch",
				"vendor", string(constants.VendorHMClause),
				"item_no", pr.itemNo,
				"discounts", len(pairs),
				"assigned", assigned,
			)
		}
	}
}
