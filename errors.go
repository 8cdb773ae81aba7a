package matchbook

import (
	"errors"
	"fmt"
)

// Sentinel errors for the caller-visible, non-fatal taxonomy of spec §7.
// Construction paths wrap one of these with fmt.Errorf("%w: ...", ...) so
// callers can still test with errors.Is against the sentinel, matching the
// wrapping idiom internal/net/server.go uses around its own errors.
var (
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidSymbol   = errors.New("invalid symbol")
	ErrInvalidOrderID  = errors.New("invalid order id")

	// ErrInvalidOrderSide is raised when AddOrder receives an order that is
	// not active for matching on arrival (resolves spec §9 open question a),
	// and when Order.Fill is applied to such an order.
	ErrInvalidOrderSide = errors.New("order is not active for matching")

	ErrSerialization   = errors.New("snapshot serialization failed")
	ErrDeserialization = errors.New("snapshot deserialization failed")

	// ErrEmptyOrderBook is reserved for operations requiring non-empty
	// state; the operations described in this package never return it
	// directly (spec §7 lists it as reserved, not required).
	ErrEmptyOrderBook = errors.New("order book is empty")
)

// InsufficientQuantityError reports an arithmetic or fill request that
// exceeds the quantity actually available.
type InsufficientQuantityError struct {
	Requested Quantity
	Available Quantity
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient quantity: requested %d, available %d", e.Requested.Uint64(), e.Available.Uint64())
}

// OrderNotFoundError is raised when a cancellation or lookup targets an
// unknown OrderID. The book is left unchanged.
type OrderNotFoundError struct {
	ID OrderID
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order not found: %s", e.ID)
}

func newOrderNotFoundError(id OrderID) error {
	return &OrderNotFoundError{ID: id}
}

// InvariantViolationError marks a defect in the engine itself: an
// index/ladder disagreement or an inactive resting order found mid-match.
// The book's state is undefined once this is raised and must be discarded.
type InvariantViolationError struct {
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Reason)
}

// newInvariantViolationError logs the violation once, immediately, before
// handing it back to the caller — the one place this package's own state
// is worth narrating before the book is poisoned.
func newInvariantViolationError(reason string) error {
	err := &InvariantViolationError{Reason: reason}
	logger.Error().Str("reason", reason).Msg("order book invariant violation")
	return err
}
