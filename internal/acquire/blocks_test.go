package acquire

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRows(t *testing.T) {
	// Fragments arrive in arbitrary order; Y decreases down the page.
	texts := []pdf.Text{
		{S: "SUBTOTAL", X: 10, Y: 700},
		{S: "1,200.00", X: 400, Y: 700.5},
		{S: "123456", X: 10, Y: 750},
		{S: "BEET CHIOGGIA", X: 80, Y: 749},
		{S: "   ", X: 200, Y: 750},
	}

	rows := groupRows(texts, 1)
	require.Len(t, rows, 2)

	// Top row first.
	assert.Equal(t, "123456 BEET CHIOGGIA", rows[0].Text)
	assert.Equal(t, "SUBTOTAL 1,200.00", rows[1].Text)
	assert.Equal(t, 1, rows[0].Page)
	require.Len(t, rows[0].Cells, 2)
	assert.Equal(t, "123456", rows[0].Cells[0].Text)
}

func TestGroupRowsToleranceBoundary(t *testing.T) {
	texts := []pdf.Text{
		{S: "A", X: 0, Y: 100},
		{S: "B", X: 10, Y: 98.5}, // within tolerance, same row
		{S: "C", X: 0, Y: 97.9}, // measured against the first fragment: separate row
	}
	rows := groupRows(texts, 1)
	require.Len(t, rows, 2)
	assert.Equal(t, "A B", rows[0].Text)
	assert.Equal(t, "C", rows[1].Text)
}

func TestGroupRowsEmpty(t *testing.T) {
	assert.Nil(t, groupRows(nil, 1))
}
