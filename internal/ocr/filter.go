package ocr

import (
	"log/slog"
	"strings"
)

// Vendor invoices end with legal/warranty notice pages whose dense
// text would otherwise flood the parsers with false trigger matches.
// A page containing any of these phrases is skipped entirely.
var boilerplatePhrases = []string{
	"LIMITATION OF WARRANTY AND LIABILITY",
	"CONDITIONS OF SALE AND LIMITATION OF WARRANTY",
	"DISCLAIMER OF WARRANTIES AND REMEDIES",
	"GENERAL CONDITIONS OF SALE AND DELIVERY",
	"SEED IS NOT WARRANTED",
}

// flattenPages converts the analyze result into an ordered line stream.
// Every retained page is terminated with a PageBreak sentinel so "N
// lines after this marker" heuristics never bleed across page seams.
func flattenPages(res *analyzeResponse, logger *slog.Logger) ([]string, int) {
	var lines []string
	for i, page := range res.AnalyzeResult.Pages {
		var sb strings.Builder
		for _, l := range page.Lines {
			sb.WriteString(l.Content)
			sb.WriteByte(' ')
		}
		if isBoilerplate(sb.String()) {
			logger.Debug("ocr.page.skipped_boilerplate", "page", i+1)
			continue
		}
		for _, l := range page.Lines {
			lines = append(lines, l.Content)
		}
		lines = append(lines, PageBreak)
	}
	return lines, len(res.AnalyzeResult.Pages)
}

func isBoilerplate(pageText string) bool {
	upper := strings.ToUpper(pageText)
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(upper, phrase) {
			return true
		}
	}
	return false
}
