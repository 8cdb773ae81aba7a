package matchbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPrice(t *testing.T, s string) Price {
	t.Helper()
	p, err := PriceFromString(s)
	require.NoError(t, err)
	return p
}

func TestNewOrderStartsActive(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	order := NewOrder(clock, NewOrderID(), NewUserID(), Buy, mustPrice(t, "150.00"), MustQuantity(100))

	assert.Equal(t, StatusActive, order.Status)
	assert.True(t, order.IsActive())
	assert.False(t, order.IsFilled())
	assert.Equal(t, order.OriginalQuantity, order.RemainingQuantity)
	assert.Equal(t, order.CreatedAt, order.UpdatedAt)
}

func TestOrderFillPartial(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	order := NewOrder(clock, NewOrderID(), NewUserID(), Buy, mustPrice(t, "150.00"), MustQuantity(100))

	clock.Advance(time.Second)
	require.NoError(t, order.Fill(clock, MustQuantity(40)))

	assert.Equal(t, StatusPartiallyFilled, order.Status)
	assert.EqualValues(t, 60, order.RemainingQuantity)
	assert.EqualValues(t, 40, order.FilledQuantity())
	assert.True(t, order.UpdatedAt.After(order.CreatedAt))
}

func TestOrderFillComplete(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	order := NewOrder(clock, NewOrderID(), NewUserID(), Sell, mustPrice(t, "150.00"), MustQuantity(100))

	require.NoError(t, order.Fill(clock, MustQuantity(100)))

	assert.Equal(t, StatusFilled, order.Status)
	assert.EqualValues(t, 0, order.RemainingQuantity)
	assert.False(t, order.IsActive())
	assert.True(t, order.IsFilled())
}

func TestOrderFillRejectsExcess(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	order := NewOrder(clock, NewOrderID(), NewUserID(), Buy, mustPrice(t, "150.00"), MustQuantity(10))

	err := order.Fill(clock, MustQuantity(11))
	var insufficient *InsufficientQuantityError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, StatusActive, order.Status)
}

func TestOrderCancelIsTerminal(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	order := NewOrder(clock, NewOrderID(), NewUserID(), Buy, mustPrice(t, "150.00"), MustQuantity(10))

	clock.Advance(time.Second)
	order.Cancel(clock)

	assert.Equal(t, StatusCancelled, order.Status)
	assert.False(t, order.IsActive())
	assert.True(t, order.UpdatedAt.After(order.CreatedAt))
}

func TestOrderCanMatch(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	buy := NewOrder(clock, NewOrderID(), NewUserID(), Buy, mustPrice(t, "150.10"), MustQuantity(10))
	sell := NewOrder(clock, NewOrderID(), NewUserID(), Sell, mustPrice(t, "150.00"), MustQuantity(10))

	assert.True(t, buy.CanMatch(sell))
	assert.True(t, sell.CanMatch(buy))

	farSell := NewOrder(clock, NewOrderID(), NewUserID(), Sell, mustPrice(t, "151.00"), MustQuantity(10))
	assert.False(t, buy.CanMatch(farSell))

	sameSideBuy := NewOrder(clock, NewOrderID(), NewUserID(), Buy, mustPrice(t, "150.00"), MustQuantity(10))
	assert.False(t, buy.CanMatch(sameSideBuy))

	cancelled := sell
	cancelled.Cancel(clock)
	assert.False(t, buy.CanMatch(cancelled))
}
