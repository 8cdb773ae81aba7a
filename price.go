package matchbook

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// minorUnitExponent fixes the decimal scale used when converting to and
// from integer minor units (e.g. cents), satisfying spec's "at least 2
// fractional digits of precision" requirement.
const minorUnitExponent = 2

// Price is a strictly positive decimal monetary value. It wraps
// decimal.Decimal rather than float64 — the wider retrieval pack keys
// order prices on decimal.Decimal throughout (johnayoung-go-crypto-quant-toolkit,
// sujalsin-microCoin, mkhoshkam-orderbook), and spec's own design notes rule
// out floating point as an ordered-map key.
//
// Price is deliberately not used as a native Go map key anywhere in this
// package: decimal.Decimal carries an unexported *big.Int, so two Prices
// built from the same numeric value are not guaranteed to compare equal
// under Go's map-key (==) semantics even though Cmp/Equal report them
// equal. Anything that needs Price-keyed lookup (the order book's ladders)
// uses a comparator-ordered structure instead of a map.
type Price struct {
	value decimal.Decimal
}

// NewPrice constructs a Price from a decimal.Decimal, rejecting values that
// are not strictly positive.
func NewPrice(value decimal.Decimal) (Price, error) {
	if value.Sign() <= 0 {
		return Price{}, fmt.Errorf("%w: %s is not strictly positive", ErrInvalidPrice, value.String())
	}
	return Price{value: value}, nil
}

// PriceFromMinorUnits constructs a Price from an integer count of minor
// units (e.g. cents), rejecting non-positive input.
func PriceFromMinorUnits(minorUnits int64) (Price, error) {
	if minorUnits <= 0 {
		return Price{}, fmt.Errorf("%w: %d minor units is not strictly positive", ErrInvalidPrice, minorUnits)
	}
	return Price{value: decimal.New(minorUnits, -minorUnitExponent)}, nil
}

// PriceFromString parses a decimal string into a Price.
func PriceFromString(s string) (Price, error) {
	value, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("%w: %q: %v", ErrInvalidPrice, s, err)
	}
	return NewPrice(value)
}

// Decimal returns the underlying decimal value.
func (p Price) Decimal() decimal.Decimal { return p.value }

// MinorUnits returns the price rounded to the nearest integer minor unit.
func (p Price) MinorUnits() int64 {
	return p.value.Shift(minorUnitExponent).Round(0).IntPart()
}

// Cmp returns -1, 0, or 1 as p is numerically less than, equal to, or
// greater than other.
func (p Price) Cmp(other Price) int { return p.value.Cmp(other.value) }

// Equal reports whether p and other are numerically equal.
func (p Price) Equal(other Price) bool { return p.value.Equal(other.value) }

// LessThan reports whether p is numerically less than other.
func (p Price) LessThan(other Price) bool { return p.value.LessThan(other.value) }

// GreaterThan reports whether p is numerically greater than other.
func (p Price) GreaterThan(other Price) bool { return p.value.GreaterThan(other.value) }

// Sub returns p - other as a decimal.Decimal, used for spread calculation.
func (p Price) Sub(other Price) decimal.Decimal { return p.value.Sub(other.value) }

func (p Price) String() string { return p.value.StringFixed(minorUnitExponent) }

// MarshalJSON encodes p as its String form, e.g. "150.00".
func (p Price) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }
