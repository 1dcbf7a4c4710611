// Package parser holds the per-vendor document parsers. Each parser is
// a segmentation state machine over the acquired row stream: a
// vendor-specific trigger opens an accumulator, ordered field rules
// fill it (first match wins, never overwritten), and the next trigger
// or end of stream flushes it into a line item — provided it reached
// minimum completeness (item number plus lot/batch identifier).
package parser

import (
	"log/slog"
	"regexp"

	"github.com/agridocs/seed-intake/constants"
	"github.com/agridocs/seed-intake/internal/entity"
)

// Parser converts one document's row stream into ordered line items.
// Parsing is pure per call: the same content always yields the same
// item list.
type Parser interface {
	Vendor() constants.Vendor
	Parse(content entity.Content, sourceFile string) []entity.LineItem
}

// ForVendor returns the parser for a vendor, or false for unknown ones.
func ForVendor(v constants.Vendor, logger *slog.Logger) (Parser, bool) {
	if logger == nil {
		logger = slog.Default()
	}
	switch v {
	case constants.VendorHMClause:
		return &hmClause{logger: logger}, true
	case constants.VendorSakata:
		return &sakata{logger: logger}, true
	case constants.VendorBejo:
		return &bejo{logger: logger}, true
	case constants.VendorEnzaZaden:
		return &enzaZaden{logger: logger}, true
	case constants.VendorRijkZwaan:
		return &rijkZwaan{logger: logger}, true
	case constants.VendorVilmorin:
		return &vilmorin{logger: logger}, true
	}
	return nil, false
}

// docSearch returns the first capture of re across the whole document.
// Used for invoice-level metadata stamped onto every item.
func docSearch(rows []entity.Row, re *regexp.Regexp) string {
	for _, r := range rows {
		if m := re.FindStringSubmatch(r.Text); m != nil {
			return m[1]
		}
	}
	return ""
}
