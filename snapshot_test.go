package matchbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S6: a book with both ladders populated and at least one trade already
// executed must round-trip through Serialize/Deserialize such that every
// observable query agrees, and an identical follow-up order produces the
// same trades and the same resulting state in both books.
func TestScenario_SnapshotDurability(t *testing.T) {
	book, clock := newTestBook(t, "COMPLEX")

	for i := 0; i < 20; i++ {
		submit(t, book, clock, Buy, "100.00", 10)
		submit(t, book, clock, Buy, "99.50", 10)
		submit(t, book, clock, Sell, "101.00", 10)
		submit(t, book, clock, Sell, "101.50", 10)
	}
	_, trades := submit(t, book, clock, Buy, "101.00", 250)
	require.NotEmpty(t, trades)

	data, err := book.Serialize()
	require.NoError(t, err)

	restored, err := Deserialize(data, clock)
	require.NoError(t, err)

	assertBooksAgree(t, book, restored)

	followUp := NewOrder(clock, NewOrderID(), NewUserID(), Sell, mustPrice(t, "99.50"), MustQuantity(15))
	clock.Advance(time.Millisecond)

	tradesA, errA := book.AddOrder(followUp)
	tradesB, errB := restored.AddOrder(followUp)

	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, tradesA, tradesB)
	assertBooksAgree(t, book, restored)
}

func assertBooksAgree(t *testing.T, a, b *OrderBook) {
	t.Helper()

	bidA, okA := a.BestBid()
	bidB, okB := b.BestBid()
	assert.Equal(t, okA, okB)
	if okA {
		assert.True(t, bidA.Equal(bidB))
	}

	askA, okA := a.BestAsk()
	askB, okB := b.BestAsk()
	assert.Equal(t, okA, okB)
	if okA {
		assert.True(t, askA.Equal(askB))
	}

	spreadA, okA := a.Spread()
	spreadB, okB := b.Spread()
	assert.Equal(t, okA, okB)
	if okA {
		assert.True(t, spreadA.Equal(spreadB))
	}

	assert.Equal(t, a.OrderCount(), b.OrderCount())

	depthA := a.MarketDepth(10)
	depthB := b.MarketDepth(10)
	assert.Equal(t, depthA, depthB)

	for id := range a.index {
		orderA, okA := a.GetOrder(id)
		orderB, okB := b.GetOrder(id)
		assert.Equal(t, okA, okB)
		assert.Equal(t, orderA, orderB)
	}
}

func TestSnapshotRejectsInvalidJSON(t *testing.T) {
	_, err := Deserialize([]byte("not json"), realClock{})
	assert.ErrorIs(t, err, ErrDeserialization)
}

func TestSnapshotRoundTripEmptyBook(t *testing.T) {
	sym, err := NewSymbol("EMPTY")
	require.NoError(t, err)
	book := NewOrderBook(sym)

	data, err := book.Serialize()
	require.NoError(t, err)

	restored, err := Deserialize(data, realClock{})
	require.NoError(t, err)

	assert.True(t, restored.IsEmpty())
	assert.Equal(t, sym, restored.Symbol())
}
