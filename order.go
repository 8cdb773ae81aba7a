package matchbook

import (
	"fmt"
	"time"
)

// Side is which side of the book an order rests on.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "Buy"
	}
	return "Sell"
}

func parseSide(s string) (Side, error) {
	switch s {
	case "Buy":
		return Buy, nil
	case "Sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}

// OrderStatus is a position in the order lifecycle state machine of spec §3:
//
//	Active -> PartiallyFilled -> Filled
//	Active -> Filled
//	Active | PartiallyFilled -> Cancelled
//
// Filled and Cancelled are terminal; there is no transition out of either.
type OrderStatus int

const (
	StatusActive OrderStatus = iota
	StatusPartiallyFilled
	StatusFilled
	StatusCancelled
)

func (s OrderStatus) String() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusPartiallyFilled:
		return "PartiallyFilled"
	case StatusFilled:
		return "Filled"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

func parseStatus(s string) (OrderStatus, error) {
	switch s {
	case "Active":
		return StatusActive, nil
	case "PartiallyFilled":
		return StatusPartiallyFilled, nil
	case "Filled":
		return StatusFilled, nil
	case "Cancelled":
		return StatusCancelled, nil
	default:
		return 0, fmt.Errorf("unknown status %q", s)
	}
}

// Order is a resting or in-flight limit order and its fill accounting.
type Order struct {
	ID                OrderID
	UserID            UserID
	Side              Side
	Price             Price
	OriginalQuantity  Quantity
	RemainingQuantity Quantity
	Status            OrderStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewOrder constructs a new, Active order with remaining == original and
// both timestamps set from clock.
func NewOrder(clock Clock, id OrderID, user UserID, side Side, price Price, qty Quantity) Order {
	now := clock.Now()
	return Order{
		ID:                id,
		UserID:            user,
		Side:              side,
		Price:             price,
		OriginalQuantity:  qty,
		RemainingQuantity: qty,
		Status:            StatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// IsActive reports whether the order is active for matching, i.e.
// Active or PartiallyFilled.
func (o Order) IsActive() bool {
	return o.Status == StatusActive || o.Status == StatusPartiallyFilled
}

// IsFilled reports whether the order has reached the terminal Filled state.
func (o Order) IsFilled() bool { return o.Status == StatusFilled }

// FilledQuantity returns original - remaining.
func (o Order) FilledQuantity() Quantity {
	return Quantity(o.OriginalQuantity.Uint64() - o.RemainingQuantity.Uint64())
}

// CanMatch reports whether o and other are opposite sides, both active for
// matching, and crossing in price (buy.Price >= sell.Price).
func (o Order) CanMatch(other Order) bool {
	if o.Side == other.Side {
		return false
	}
	if !o.IsActive() || !other.IsActive() {
		return false
	}
	buy, sell := o, other
	if o.Side == Sell {
		buy, sell = other, o
	}
	return !buy.Price.LessThan(sell.Price)
}

// Fill applies a partial or complete execution of qty against the order.
// qty must not exceed RemainingQuantity. Status transitions to Filled when
// the residual reaches zero, otherwise PartiallyFilled. An order that is not
// active for matching is rejected with ErrInvalidOrderSide and left unchanged.
func (o *Order) Fill(clock Clock, qty Quantity) error {
	if !o.IsActive() {
		return fmt.Errorf("%w: order %s has status %s", ErrInvalidOrderSide, o.ID, o.Status)
	}
	remaining, err := o.RemainingQuantity.subAllowZero(qty)
	if err != nil {
		return err
	}
	o.RemainingQuantity = remaining
	o.UpdatedAt = clock.Now()
	if remaining.Uint64() == 0 {
		o.Status = StatusFilled
	} else {
		o.Status = StatusPartiallyFilled
	}
	return nil
}

// Cancel transitions the order to the terminal Cancelled state. An order that
// is already Filled or Cancelled is left unchanged.
func (o *Order) Cancel(clock Clock) {
	if !o.IsActive() {
		return
	}
	o.Status = StatusCancelled
	o.UpdatedAt = clock.Now()
}
