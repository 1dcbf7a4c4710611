package calc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/agridocs/seed-intake/internal/catalog"
	"github.com/agridocs/seed-intake/internal/numeric"
)

// SimilarityFloor is the minimum normalized similarity (0-1) a fuzzy
// candidate must clear before it is accepted as a package description.
const SimilarityFloor = 0.6

// Vendor descriptions encode pack sizes as "<n> MK" (thousand seeds),
// "<n> MIL" (million seeds) or "<n> LB"/"<n>#" (pound weight).
var rePackToken = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(MK|MIL|LB|#)`)

// InferPackageDescription maps a free-text vendor description to a
// canonical catalog string. A recognized quantity+unit token is
// converted to its canonical form and returned only when the catalog
// contains it verbatim; otherwise the whole description falls back to
// approximate matching against the catalog, returning the best match
// at or above SimilarityFloor, or "" when nothing clears it.
func InferPackageDescription(desc string, cat *catalog.Catalog) string {
	if cat == nil || cat.Len() == 0 {
		return ""
	}
	if m := rePackToken.FindStringSubmatch(desc); m != nil {
		if candidate := canonicalPack(m[1], m[2]); candidate != "" && cat.Contains(candidate) {
			return candidate
		}
	}
	return fuzzyLookup(desc, cat)
}

func canonicalPack(qty, unit string) string {
	n, err := strconv.ParseFloat(qty, 64)
	if err != nil || n <= 0 {
		return ""
	}
	switch strings.ToUpper(unit) {
	case "MK":
		return fmt.Sprintf("%s SEEDS", numeric.GroupThousands(int64(n*1_000)))
	case "MIL":
		return fmt.Sprintf("%s SEEDS", numeric.GroupThousands(int64(n*1_000_000)))
	case "LB", "#":
		return fmt.Sprintf("%s LB", numeric.GroupThousands(int64(n)))
	}
	return ""
}

func fuzzyLookup(desc string, cat *catalog.Catalog) string {
	norm := strings.ToUpper(strings.TrimSpace(desc))
	if norm == "" {
		return ""
	}
	best := ""
	bestScore := 0.0
	for _, entry := range cat.Entries() {
		if s := similarity(norm, entry); s > bestScore {
			bestScore = s
			best = entry
		}
	}
	if bestScore >= SimilarityFloor {
		return best
	}
	return ""
}

// similarity is Levenshtein distance normalized to a 0-1 scale over
// the longer string.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	max := len(a)
	if len(b) > max {
		max = len(b)
	}
	if max == 0 {
		return 0
	}
	d := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(d)/float64(max)
}
