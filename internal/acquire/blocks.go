package acquire

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/agridocs/seed-intake/internal/entity"
)

// Text fragments within this Y distance belong to the same visual line.
const rowTolerance = 2.0

// groupRows clusters positioned text fragments into visual rows and
// orders them into reading order: rows top to bottom (PDF Y decreases
// downward), cells left to right. Downstream field association depends
// on this ordering, so it must stay stable.
func groupRows(texts []pdf.Text, page int) []entity.Row {
	if len(texts) == 0 {
		return nil
	}

	var rows []entity.Row
	for _, t := range texts {
		content := strings.TrimSpace(t.S)
		if content == "" {
			continue
		}
		placed := false
		for i := range rows {
			if abs(rows[i].Y-t.Y) < rowTolerance {
				rows[i].Cells = append(rows[i].Cells, entity.Cell{X: t.X, Text: content})
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, entity.Row{
				Page:  page,
				Y:     t.Y,
				Cells: []entity.Cell{{X: t.X, Text: content}},
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Y > rows[j].Y })
	for i := range rows {
		sort.SliceStable(rows[i].Cells, func(a, b int) bool {
			return rows[i].Cells[a].X < rows[i].Cells[b].X
		})
		parts := make([]string, len(rows[i].Cells))
		for j, c := range rows[i].Cells {
			parts[j] = c.Text
		}
		rows[i].Text = strings.Join(parts, " ")
	}
	return rows
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
