package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func TestUnitCost(t *testing.T) {
	t.Run("full formula", func(t *testing.T) {
		got := UnitCost(fp(1000), fp(50), fp(150), fp(4))
		require.NotNil(t, got)
		assert.Equal(t, 225.0, *got)
	})

	t.Run("price only", func(t *testing.T) {
		got := UnitCost(fp(100), nil, nil, fp(3))
		require.NotNil(t, got)
		assert.Equal(t, 33.3333, *got)
	})

	t.Run("nil quantity", func(t *testing.T) {
		assert.Nil(t, UnitCost(fp(100), nil, nil, nil))
	})

	t.Run("zero quantity", func(t *testing.T) {
		assert.Nil(t, UnitCost(fp(100), nil, nil, fp(0)))
	})

	t.Run("negative quantity", func(t *testing.T) {
		assert.Nil(t, UnitCost(fp(100), nil, nil, fp(-2)))
	})

	t.Run("discount exceeding price goes negative", func(t *testing.T) {
		got := UnitCost(fp(100), nil, fp(150), fp(2))
		require.NotNil(t, got)
		assert.Equal(t, -25.0, *got)
	})
}
