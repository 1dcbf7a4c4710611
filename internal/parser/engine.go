package parser

import (
	"regexp"
	"strings"

	"github.com/agridocs/seed-intake/internal/entity"
	"github.com/agridocs/seed-intake/internal/numeric"
)

// Accumulator field names shared across vendors.
const (
	fItemNo    = "item_no"
	fDesc      = "description"
	fLotNo     = "lot_no"
	fBatchNo   = "batch_no"
	fOrigin    = "origin"
	fPO        = "purchase_order"
	fTreatment = "treatment"
	fQuantity  = "quantity"
	fTotal     = "total_price"
	fUpcharge  = "upcharge"
	fPurity    = "purity"
	fInert     = "inert"
	fGerm      = "germ"
	fGermDate  = "germ_date"
	fSeedCount = "seed_count"
)

// acc is the mutable accumulator for one item-or-lot context. Fields
// follow a first-occurrence-wins policy for the accumulator lifetime.
type acc struct {
	fields map[string]string
}

func newAcc() *acc {
	return &acc{fields: make(map[string]string)}
}

func (a *acc) set(field, v string) {
	if _, ok := a.fields[field]; ok {
		return
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	a.fields[field] = v
}

func (a *acc) get(field string) string {
	return a.fields[field]
}

func (a *acc) has(field string) bool {
	_, ok := a.fields[field]
	return ok
}

func (a *acc) money(field string) *float64 {
	if !a.has(field) {
		return nil
	}
	return numeric.ParseMoney(a.get(field))
}

func (a *acc) percent(field string) *float64 {
	if !a.has(field) {
		return nil
	}
	return numeric.ParsePercent(a.get(field))
}

// fieldRule binds a pattern to an accumulator field. Rules run in
// table order against each row; a rule whose field is already set is
// skipped, making the no-overwrite policy explicit and auditable.
type fieldRule struct {
	re        *regexp.Regexp
	field     string
	transform func(m []string) string
}

func applyRules(a *acc, rules []fieldRule, text string) {
	for _, r := range rules {
		if a.has(r.field) {
			continue
		}
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v := m[0]
		if r.transform != nil {
			v = r.transform(m)
		} else if len(m) > 1 {
			v = m[1]
		}
		a.set(r.field, v)
	}
}

// segmenter drives the shared IDLE -> ACCUMULATING -> FLUSH walk for
// the flat vendors (one line item per trigger, no nested lots).
type segmenter struct {
	// trigger inspects row i (and neighbors, for multi-line markers)
	// and seeds the fresh accumulator when it opens a new context.
	trigger func(i int, rows []entity.Row, a *acc) bool
	rules   []fieldRule
	// onRow runs positional heuristics that need the row index
	// (anchor-window lookups). Optional.
	onRow func(a *acc, i int, rows []entity.Row)
	// complete is the minimum-completeness floor; incomplete
	// accumulators are dropped silently, never emitted malformed.
	complete func(a *acc) bool
	build    func(a *acc) entity.LineItem
}

func (s *segmenter) run(rows []entity.Row) []entity.LineItem {
	var items []entity.LineItem
	var cur *acc

	flush := func() {
		if cur == nil {
			return
		}
		if s.complete(cur) {
			items = append(items, s.build(cur))
		}
		cur = nil
	}

	for i := range rows {
		next := newAcc()
		if s.trigger(i, rows, next) {
			flush()
			cur = next
		}
		if cur == nil {
			continue
		}
		if s.onRow != nil {
			s.onRow(cur, i, rows)
		}
		applyRules(cur, s.rules, rows[i].Text)
	}
	flush()
	return items
}

var reMoneyToken = regexp.MustCompile(`-?\d[\d.,]*\d|\d`)

// Tokens that mark a numeric value as a unit price rather than a total.
var unitPriceMarkers = []string{"/EA", "/LB", "/M", "/UNIT", "/KS"}

// moneyNear finds the monetary value associated with an anchor row by
// scanning the anchor itself, then up to back rows above and fwd rows
// below, nearest first. Rows carrying unit-price suffixes are skipped
// when hunting totals.
func moneyNear(rows []entity.Row, i, back, fwd int) *float64 {
	candidates := []int{i}
	for d := 1; d <= back || d <= fwd; d++ {
		if d <= back && i-d >= 0 {
			candidates = append(candidates, i-d)
		}
		if d <= fwd && i+d < len(rows) {
			candidates = append(candidates, i+d)
		}
	}
	for _, idx := range candidates {
		text := rows[idx].Text
		if hasUnitPriceMarker(text) {
			continue
		}
		matches := reMoneyToken.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		// Rightmost token: tabular layouts put the extended amount in
		// the last column.
		if v := numeric.ParseMoney(matches[len(matches)-1]); v != nil {
			return v
		}
	}
	return nil
}

func hasUnitPriceMarker(text string) bool {
	upper := strings.ToUpper(text)
	for _, m := range unitPriceMarkers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}

// windowContains reports whether any of the labels occurs within back
// rows above or fwd rows below row i (inclusive of row i). Used by
// disqualification filters around false trigger matches.
func windowContains(rows []entity.Row, i, back, fwd int, labels ...string) bool {
	lo := i - back
	if lo < 0 {
		lo = 0
	}
	hi := i + fwd
	if hi > len(rows)-1 {
		hi = len(rows) - 1
	}
	for idx := lo; idx <= hi; idx++ {
		upper := strings.ToUpper(rows[idx].Text)
		for _, l := range labels {
			if strings.Contains(upper, l) {
				return true
			}
		}
	}
	return false
}
