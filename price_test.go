package matchbook

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceFromString(t *testing.T) {
	p, err := PriceFromString("150.00")
	require.NoError(t, err)
	assert.Equal(t, "150.00", p.String())
}

func TestPriceFromMinorUnits(t *testing.T) {
	p, err := PriceFromMinorUnits(15050)
	require.NoError(t, err)
	assert.Equal(t, "150.50", p.String())
	assert.EqualValues(t, 15050, p.MinorUnits())
}

func TestPriceRejectsNonPositive(t *testing.T) {
	_, err := PriceFromString("0")
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = PriceFromString("-1.00")
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = PriceFromMinorUnits(0)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewPrice(decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestPriceOrdering(t *testing.T) {
	low, err := PriceFromString("100.00")
	require.NoError(t, err)
	high, err := PriceFromString("100.01")
	require.NoError(t, err)

	assert.True(t, low.LessThan(high))
	assert.True(t, high.GreaterThan(low))
	assert.Equal(t, -1, low.Cmp(high))
}

func TestPriceEqualityIsValueBased(t *testing.T) {
	a, err := PriceFromString("99.50")
	require.NoError(t, err)
	b, err := PriceFromMinorUnits(9950)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, 0, a.Cmp(b))
}

func TestPriceInvalidString(t *testing.T) {
	_, err := PriceFromString("not-a-number")
	assert.ErrorIs(t, err, ErrInvalidPrice)
}
