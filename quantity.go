package matchbook

import "fmt"

// Quantity is a non-negative, 64-bit unit count. The public constructor
// rejects zero; the internal zero-allowing path exists only for the
// residual of a fully filled order (spec §3/§4.B).
type Quantity uint64

// NewQuantity constructs a Quantity, rejecting zero.
func NewQuantity(v uint64) (Quantity, error) {
	if v == 0 {
		return 0, fmt.Errorf("%w: quantity must be non-zero", ErrInvalidQuantity)
	}
	return Quantity(v), nil
}

// newZeroQuantity permits the zero value. Only Order.Fill should reach for
// this, when an order's remaining quantity legitimately reaches zero.
func newZeroQuantity() Quantity { return Quantity(0) }

// MustQuantity panics if v is zero. Convenient for tests and literals where
// the value is known to be valid.
func MustQuantity(v uint64) Quantity {
	q, err := NewQuantity(v)
	if err != nil {
		panic(err)
	}
	return q
}

func (q Quantity) Uint64() uint64 { return uint64(q) }

// Add performs checked addition, failing on 64-bit overflow.
func (q Quantity) Add(other Quantity) (Quantity, error) {
	sum := uint64(q) + uint64(other)
	if sum < uint64(q) {
		return 0, fmt.Errorf("%w: addition overflow", ErrInvalidQuantity)
	}
	return Quantity(sum), nil
}

// Sub performs checked subtraction. It fails if other exceeds q
// (InsufficientQuantityError), or if the result would be zero, since a
// Quantity's public invariant forbids zero.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	result, err := q.subAllowZero(other)
	if err != nil {
		return 0, err
	}
	if result.Uint64() == 0 {
		return 0, fmt.Errorf("%w: subtraction would produce a zero quantity", ErrInvalidQuantity)
	}
	return result, nil
}

// subAllowZero is the internal counterpart to Sub used by Order.Fill, where
// a fully filled order's residual of zero is the expected outcome rather
// than an error.
func (q Quantity) subAllowZero(other Quantity) (Quantity, error) {
	if other.Uint64() > q.Uint64() {
		return 0, &InsufficientQuantityError{Requested: other, Available: q}
	}
	return Quantity(uint64(q) - uint64(other)), nil
}

// Mul performs checked scalar multiplication, failing on zero scalar or
// overflow.
func (q Quantity) Mul(scalar uint64) (Quantity, error) {
	if scalar == 0 {
		return 0, fmt.Errorf("%w: multiplication by zero", ErrInvalidQuantity)
	}
	product := uint64(q) * scalar
	if uint64(q) != 0 && product/uint64(q) != scalar {
		return 0, fmt.Errorf("%w: multiplication overflow", ErrInvalidQuantity)
	}
	return Quantity(product), nil
}

// Div performs checked integer division, failing on a zero divisor or a
// zero result.
func (q Quantity) Div(divisor uint64) (Quantity, error) {
	if divisor == 0 {
		return 0, fmt.Errorf("%w: division by zero", ErrInvalidQuantity)
	}
	result := uint64(q) / divisor
	if result == 0 {
		return 0, fmt.Errorf("%w: division result is zero", ErrInvalidQuantity)
	}
	return Quantity(result), nil
}

// MinQuantity returns the smaller of a and b.
func MinQuantity(a, b Quantity) Quantity {
	if a < b {
		return a
	}
	return b
}

// MaxQuantity returns the larger of a and b.
func MaxQuantity(a, b Quantity) Quantity {
	if a > b {
		return a
	}
	return b
}

// CanBeSatisfiedBy reports whether requested <= available.
func CanBeSatisfiedBy(requested, available Quantity) bool {
	return requested <= available
}
