// Package numeric normalizes the number formats that appear on vendor
// documents: currency strings with either comma or dot thousands
// separators, percentages, and the ERP-mandated clamps for values at
// exactly 100.
package numeric

import (
	"regexp"
	"strconv"
	"strings"
)

// ERP validation rejects purity/germination values of 100, so parsed
// values are clamped just below. Business rule, not a parsing artifact.
const (
	PurityClamp = 99.99
)

var reNumericJunk = regexp.MustCompile(`[^0-9.,\-]`)

// ParseMoney normalizes a currency string to a float. Both "1,234.56"
// and "1.234,56" styles are accepted; when both separators appear, the
// rightmost one is taken as the decimal separator. Returns nil when no
// digits survive normalization.
func ParseMoney(s string) *float64 {
	s = reNumericJunk.ReplaceAllString(s, "")
	if s == "" || s == "-" {
		return nil
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// European style: dots group thousands, comma is decimal.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		// Comma only: a trailing 2-digit group is a decimal separator,
		// anything else is thousands grouping.
		if len(s)-lastComma-1 == 2 && strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ".") > 1:
		// More than one dot after comma removal: the rightmost group is
		// the fractional part, earlier dots group thousands.
		idx := strings.LastIndex(s, ".")
		s = strings.ReplaceAll(s[:idx], ".", "") + s[idx:]
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParsePercent parses a percentage token ("99.5", "99.5%", "99,5 %").
func ParsePercent(s string) *float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	return ParseMoney(s)
}

// ClampPurity caps purity-adjacent percentages below 100.
func ClampPurity(v float64) float64 {
	if v >= 100 {
		return PurityClamp
	}
	return v
}

// ClampGerm caps germination percentages at the vendor-specific value
// (98 or 99 depending on vendor).
func ClampGerm(v, clamp float64) float64 {
	if v >= 100 {
		return clamp
	}
	return v
}

// GroupThousands renders n with comma grouping ("80000" -> "80,000").
func GroupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	out := b.String()
	if neg {
		out = "-" + out
	}
	return out
}
