// Package enrich joins invoice line items with the quality data that
// arrives on separate PDFs: germination certificates, purity analyses
// and packing lists. All lookup maps are built for the full batch
// before any lookup happens, because auxiliary documents may appear
// anywhere in upload order relative to the invoice.
package enrich

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/agridocs/seed-intake/constants"
	"github.com/agridocs/seed-intake/internal/entity"
	"github.com/agridocs/seed-intake/internal/numeric"
)

// GermRecord is one germination-certificate entry.
type GermRecord struct {
	GermPct  *float64
	TestDate string
}

// PurityRecord is one purity-analysis entry.
type PurityRecord struct {
	PurityPct    *float64
	InertPct     *float64
	OtherCropPct *float64
	WeedSeedPct  *float64
}

// PackingRecord is one packing-list entry.
type PackingRecord struct {
	Packages    *float64
	NetWeightLB *float64
	Treatment   string
}

// Maps holds the per-batch lookup maps, keyed by normalized lot/batch
// identifiers. Read-only after Build.
type Maps struct {
	Germ    map[string]GermRecord
	Purity  map[string]PurityRecord
	Packing map[string]PackingRecord
}

// KeyNormalizer must be identical on the map-build and lookup sides or
// every join silently misses.
type KeyNormalizer func(string) string

// NormalizeExact trims and uppercases.
func NormalizeExact(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizePrefix truncates the normalized key to its first n
// characters, for vendors whose certificates extend the invoice lot
// code with sublot suffixes.
func NormalizePrefix(n int) KeyNormalizer {
	return func(s string) string {
		s = NormalizeExact(s)
		if len(s) > n {
			return s[:n]
		}
		return s
	}
}

// NormalizerFor returns the join-key normalizer used for a vendor.
func NormalizerFor(v constants.Vendor) KeyNormalizer {
	switch v {
	case constants.VendorSakata:
		return NormalizePrefix(6)
	default:
		return NormalizeExact
	}
}

var (
	reKindGerm    = regexp.MustCompile(`(?i)\bGERMINATION\s+(?:REPORT|CERTIFICATE|RESULTS)\b`)
	reKindPurity  = regexp.MustCompile(`(?i)\b(?:CERTIFICATE\s+OF\s+ANALYSIS|PURITY\s+ANALYSIS)\b`)
	reKindPacking = regexp.MustCompile(`(?i)\bPACKING\s+LIST\b`)

	reLotKey   = regexp.MustCompile(`(?i)\b(?:LOT|BATCH)\s*(?:NO|NUMBER|#)?\s*[:.]?\s*([A-Z0-9\-]{5,})\b`)
	reGermPct  = regexp.MustCompile(`(?i)\bGERM(?:INATION)?\s*[:.]?\s*([\d.,]+)\s*%`)
	reTestDate = regexp.MustCompile(`(?i)\b(?:TESTED|TEST\s+DATE|DATE\s+OF\s+TEST)\s*[:.]?\s*(\d{1,2}/(?:\d{1,2}/)?\d{2,4})\b`)
	rePureSeed = regexp.MustCompile(`(?i)\bPURE\s+SEED\s*[:.]?\s*([\d.,]+)\s*%`)
	reInert    = regexp.MustCompile(`(?i)\bINERT(?:\s+MATTER)?\s*[:.]?\s*([\d.,]+)\s*%`)
	reOther    = regexp.MustCompile(`(?i)\bOTHER\s+CROP\s*[:.]?\s*([\d.,]+)\s*%`)
	reWeed     = regexp.MustCompile(`(?i)\bWEED\s+SEED\s*[:.]?\s*([\d.,]+)\s*%`)
	rePackages = regexp.MustCompile(`(?i)\b(?:PACKAGES|CARTONS|UNITS)\s*[:.]?\s*([\d.,]+)\b`)
	reNetWt    = regexp.MustCompile(`(?i)\bNET\s+(?:WEIGHT|WT)\s*[:.]?\s*([\d.,]+)\s*(?:LB|LBS)?\b`)
	reTreat    = regexp.MustCompile(`(?i)\bTREAT(?:MENT|ED)?\s*[:.]?\s*([A-Z0-9 +\-]+)$`)
)

// DetectKind classifies a document by its marker phrases. Anything
// unrecognized is treated as an invoice.
func DetectKind(c entity.Content) constants.DocKind {
	for _, row := range c.Rows {
		switch {
		case reKindGerm.MatchString(row.Text):
			return constants.DocGermination
		case reKindPurity.MatchString(row.Text):
			return constants.DocPurity
		case reKindPacking.MatchString(row.Text):
			return constants.DocPacking
		}
	}
	return constants.DocInvoice
}

// Build scans every auxiliary document in the batch and constructs the
// lookup maps. germClamp is the vendor's germination clamp; purity is
// always clamped to 99.99.
func Build(aux map[constants.DocKind][]entity.Content, norm KeyNormalizer, germClamp float64, logger *slog.Logger) *Maps {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Maps{
		Germ:    make(map[string]GermRecord),
		Purity:  make(map[string]PurityRecord),
		Packing: make(map[string]PackingRecord),
	}
	for _, c := range aux[constants.DocGermination] {
		buildGerm(m.Germ, c.Rows, norm, germClamp)
	}
	for _, c := range aux[constants.DocPurity] {
		buildPurity(m.Purity, c.Rows, norm)
	}
	for _, c := range aux[constants.DocPacking] {
		buildPacking(m.Packing, c.Rows, norm)
	}
	logger.Debug("enrich.maps.built",
		"germ", len(m.Germ), "purity", len(m.Purity), "packing", len(m.Packing))
	return m
}

func buildGerm(dst map[string]GermRecord, rows []entity.Row, norm KeyNormalizer, clamp float64) {
	key := ""
	for _, row := range rows {
		if m := reLotKey.FindStringSubmatch(row.Text); m != nil {
			key = norm(m[1])
		}
		if key == "" {
			continue
		}
		rec := dst[key]
		if rec.GermPct == nil {
			if m := reGermPct.FindStringSubmatch(row.Text); m != nil {
				if v := numeric.ParsePercent(m[1]); v != nil {
					g := numeric.ClampGerm(*v, clamp)
					rec.GermPct = &g
				}
			}
		}
		if rec.TestDate == "" {
			if m := reTestDate.FindStringSubmatch(row.Text); m != nil {
				rec.TestDate = m[1]
			}
		}
		dst[key] = rec
	}
}

func buildPurity(dst map[string]PurityRecord, rows []entity.Row, norm KeyNormalizer) {
	key := ""
	for _, row := range rows {
		if m := reLotKey.FindStringSubmatch(row.Text); m != nil {
			key = norm(m[1])
		}
		if key == "" {
			continue
		}
		rec := dst[key]
		setPct(&rec.PurityPct, rePureSeed, row.Text, true)
		setPct(&rec.InertPct, reInert, row.Text, false)
		setPct(&rec.OtherCropPct, reOther, row.Text, false)
		setPct(&rec.WeedSeedPct, reWeed, row.Text, false)
		dst[key] = rec
	}
}

func buildPacking(dst map[string]PackingRecord, rows []entity.Row, norm KeyNormalizer) {
	key := ""
	for _, row := range rows {
		if m := reLotKey.FindStringSubmatch(row.Text); m != nil {
			key = norm(m[1])
		}
		if key == "" {
			continue
		}
		rec := dst[key]
		if rec.Packages == nil {
			if m := rePackages.FindStringSubmatch(row.Text); m != nil {
				rec.Packages = numeric.ParseMoney(m[1])
			}
		}
		if rec.NetWeightLB == nil {
			if m := reNetWt.FindStringSubmatch(row.Text); m != nil {
				rec.NetWeightLB = numeric.ParseMoney(m[1])
			}
		}
		if rec.Treatment == "" {
			if m := reTreat.FindStringSubmatch(row.Text); m != nil {
				rec.Treatment = strings.TrimSpace(m[1])
			}
		}
		dst[key] = rec
	}
}

func setPct(dst **float64, re *regexp.Regexp, text string, clampPurity bool) {
	if *dst != nil {
		return
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return
	}
	v := numeric.ParsePercent(m[1])
	if v == nil {
		return
	}
	if clampPurity {
		c := numeric.ClampPurity(*v)
		v = &c
	}
	*dst = v
}

// Merge copies matched auxiliary fields onto items and their lots,
// filling only fields that are still null/empty. A key miss is a
// normal outcome, not an error.
func Merge(items []entity.LineItem, m *Maps, norm KeyNormalizer) {
	if m == nil {
		return
	}
	for i := range items {
		mergeItem(&items[i], m, norm)
		for l := range items[i].Lots {
			mergeLot(&items[i].Lots[l], m, norm)
		}
	}
}

func mergeItem(it *entity.LineItem, m *Maps, norm KeyNormalizer) {
	key := norm(it.LotOrBatch())
	if key == "" {
		return
	}
	if g, ok := m.Germ[key]; ok {
		if it.GermPct == nil {
			it.GermPct = g.GermPct
		}
		if it.GermTestDate == "" {
			it.GermTestDate = g.TestDate
		}
	}
	if p, ok := m.Purity[key]; ok {
		if it.PurityPct == nil {
			it.PurityPct = p.PurityPct
		}
		if it.InertPct == nil {
			it.InertPct = p.InertPct
		}
		if it.OtherCropPct == nil {
			it.OtherCropPct = p.OtherCropPct
		}
		if it.WeedSeedPct == nil {
			it.WeedSeedPct = p.WeedSeedPct
		}
	}
	if pk, ok := m.Packing[key]; ok {
		if it.Treatment == "" {
			it.Treatment = pk.Treatment
		}
	}
}

func mergeLot(lot *entity.Lot, m *Maps, norm KeyNormalizer) {
	key := norm(lot.VendorLotNo)
	if key == "" {
		return
	}
	if g, ok := m.Germ[key]; ok {
		if lot.GermPct == nil {
			lot.GermPct = g.GermPct
		}
		if lot.GermTestDate == "" {
			lot.GermTestDate = g.TestDate
		}
	}
	if p, ok := m.Purity[key]; ok {
		if lot.PurityPct == nil {
			lot.PurityPct = p.PurityPct
		}
		if lot.InertPct == nil {
			lot.InertPct = p.InertPct
		}
		if lot.OtherCropPct == nil {
			lot.OtherCropPct = p.OtherCropPct
		}
		if lot.WeedSeedPct == nil {
			lot.WeedSeedPct = p.WeedSeedPct
		}
	}
	if pk, ok := m.Packing[key]; ok {
		if lot.Packages == nil {
			lot.Packages = pk.Packages
		}
		if lot.NetWeightLB == nil {
			lot.NetWeightLB = pk.NetWeightLB
		}
	}
}
