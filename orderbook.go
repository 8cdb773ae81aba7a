package matchbook

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
)

// DefaultMaxRecentTrades bounds the recent-trades ring when a caller does
// not override it via NewOrderBookWithOptions.
const DefaultMaxRecentTrades = 1000

// PriceLevel is the FIFO queue of resting orders at a single price. It is
// exported so callers (and tests) can inspect ladder state directly, the
// same role the teacher's own PriceLevel plays in
// internal/tests/orderbook_test.go.
type PriceLevel struct {
	Price  Price
	Orders []*Order
}

// ladderLocation is the routing metadata the id index carries — never an
// aliased order handle, per spec's ownership model (§9): the book is the
// sole owner of every resting Order.
type ladderLocation struct {
	side  Side
	price Price
}

// OrderBook is a single-symbol limit order book: dual price-indexed FIFO
// ladders (bids sorted highest-first, asks lowest-first), an id index for
// O(1) cancel routing, and a bounded ring of recent trades.
//
// OrderBook is single-threaded and synchronous by contract (spec §5): it
// has no internal locking and is not safe for concurrent use. Callers
// needing to run many books concurrently must give each book its own
// goroutine and route submissions to it, rather than share one book.
type OrderBook struct {
	symbol Symbol
	clock  Clock

	bids *btree.BTreeG[*PriceLevel]
	asks *btree.BTreeG[*PriceLevel]

	index map[OrderID]ladderLocation

	recentTrades    []Trade
	maxRecentTrades int
}

// NewOrderBook constructs an empty OrderBook for symbol using the system
// wall clock.
func NewOrderBook(symbol Symbol) *OrderBook {
	return NewOrderBookWithClock(symbol, realClock{})
}

// NewOrderBookWithClock constructs an empty OrderBook using an injected
// Clock, for deterministic tests.
func NewOrderBookWithClock(symbol Symbol, clock Clock) *OrderBook {
	return &OrderBook{
		symbol: symbol,
		clock:  clock,
		bids: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price.GreaterThan(b.Price) // highest bid sorts first
		}),
		asks: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price.LessThan(b.Price) // lowest ask sorts first
		}),
		index:           make(map[OrderID]ladderLocation),
		maxRecentTrades: DefaultMaxRecentTrades,
	}
}

// NewOrderBookWithOptions is NewOrderBookWithClock with an overridable
// recent-trades bound (spec §9's default of 1000).
func NewOrderBookWithOptions(symbol Symbol, clock Clock, maxRecentTrades int) *OrderBook {
	book := NewOrderBookWithClock(symbol, clock)
	if maxRecentTrades > 0 {
		book.maxRecentTrades = maxRecentTrades
	}
	return book
}

// Symbol returns the book's trading symbol.
func (b *OrderBook) Symbol() Symbol { return b.symbol }

// IsEmpty reports whether the book holds no resting orders.
func (b *OrderBook) IsEmpty() bool { return len(b.index) == 0 }

// OrderCount returns the number of resting orders across both ladders.
func (b *OrderBook) OrderCount() int { return len(b.index) }

// RecentTrades returns a copy of the bounded recent-trades ring, in
// chronological order.
func (b *OrderBook) RecentTrades() []Trade {
	return append([]Trade(nil), b.recentTrades...)
}

func (b *OrderBook) ladderFor(side Side) *btree.BTreeG[*PriceLevel] {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

func (b *OrderBook) opposingLadder(side Side) *btree.BTreeG[*PriceLevel] {
	if side == Buy {
		return b.asks
	}
	return b.bids
}

// crosses reports whether an incoming order on side at incomingPrice
// crosses a resting order at restingPrice on the opposing ladder.
func crosses(side Side, incomingPrice, restingPrice Price) bool {
	if side == Buy {
		return !incomingPrice.LessThan(restingPrice) // buy crosses when price >= ask
	}
	return !incomingPrice.GreaterThan(restingPrice) // sell crosses when price <= bid
}

// AddOrder submits order to the book (spec §4.F.1). On success it returns the
// full list of trades the order generated (possibly empty), committing any
// residual quantity to the book. A rejected incoming order leaves the book
// untouched; an *InvariantViolationError from the match loop is returned
// after fills may already have been applied, and the book must then be
// discarded.
//
// An order that arrives already Filled or Cancelled is rejected with
// ErrInvalidOrderSide rather than silently ignored — resolving spec §9's
// open question (a) in favor of treating a non-active incoming order as a
// caller bug.
func (b *OrderBook) AddOrder(order Order) ([]Trade, error) {
	if !order.IsActive() {
		return nil, fmt.Errorf("%w: order %s arrived with status %s", ErrInvalidOrderSide, order.ID, order.Status)
	}

	trades, err := b.match(&order)
	if err != nil {
		return nil, err
	}

	if order.RemainingQuantity.Uint64() > 0 && order.IsActive() {
		b.rest(order)
	}

	b.recordTrades(trades)
	return trades, nil
}

// match runs the crossing loop of spec §4.F.2 against the opposing ladder,
// mutating incoming and any resting orders it consumes. It returns the
// trades generated, or a fatal *InvariantViolationError if the book's own
// invariants are found broken mid-match.
func (b *OrderBook) match(incoming *Order) ([]Trade, error) {
	var trades []Trade
	opposing := b.opposingLadder(incoming.Side)

	for {
		best, ok := opposing.MinMut()
		if !ok {
			break
		}
		if !crosses(incoming.Side, incoming.Price, best.Price) {
			break
		}

		head := best.Orders[0]
		if !head.IsActive() {
			return nil, newInvariantViolationError(fmt.Sprintf(
				"resting order %s at price %s is not active for matching", head.ID, best.Price))
		}

		execQty := MinQuantity(incoming.RemainingQuantity, head.RemainingQuantity)

		var buyID, sellID OrderID
		if incoming.Side == Buy {
			buyID, sellID = incoming.ID, head.ID
		} else {
			buyID, sellID = head.ID, incoming.ID
		}

		trade := Trade{
			BuyOrderID:  buyID,
			SellOrderID: sellID,
			Price:       head.Price, // the resting (maker) order sets the execution price
			Quantity:    execQty,
			Timestamp:   b.clock.Now(),
		}

		if err := incoming.Fill(b.clock, execQty); err != nil {
			return nil, newInvariantViolationError(fmt.Sprintf("incoming order fill failed: %v", err))
		}
		if err := head.Fill(b.clock, execQty); err != nil {
			return nil, newInvariantViolationError(fmt.Sprintf("resting order %s fill failed: %v", head.ID, err))
		}

		trades = append(trades, trade)

		if head.IsFilled() {
			best.Orders = best.Orders[1:]
			delete(b.index, head.ID)
			if len(best.Orders) == 0 {
				opposing.Delete(best)
			}
		}

		if incoming.RemainingQuantity.Uint64() == 0 {
			break
		}
	}

	return trades, nil
}

// rest inserts order into its own side's ladder, appended to the end of its
// level's FIFO, and records it in the id index.
func (b *OrderBook) rest(order Order) {
	ladder := b.ladderFor(order.Side)
	key := &PriceLevel{Price: order.Price}
	if level, ok := ladder.GetMut(key); ok {
		level.Orders = append(level.Orders, &order)
	} else {
		ladder.Set(&PriceLevel{Price: order.Price, Orders: []*Order{&order}})
	}
	b.index[order.ID] = ladderLocation{side: order.Side, price: order.Price}
}

func (b *OrderBook) recordTrades(trades []Trade) {
	if len(trades) == 0 {
		return
	}
	b.recentTrades = append(b.recentTrades, trades...)
	if excess := len(b.recentTrades) - b.maxRecentTrades; b.maxRecentTrades > 0 && excess > 0 {
		b.recentTrades = append([]Trade(nil), b.recentTrades[excess:]...)
	}
}

// CancelOrder removes a resting order from the book by id (spec §4.F.3).
// It fails with *OrderNotFoundError for an unknown id, leaving the book
// unchanged.
func (b *OrderBook) CancelOrder(id OrderID) (Order, error) {
	loc, ok := b.index[id]
	if !ok {
		return Order{}, newOrderNotFoundError(id)
	}

	ladder := b.ladderFor(loc.side)
	level, ok := ladder.GetMut(&PriceLevel{Price: loc.price})
	if !ok {
		return Order{}, newInvariantViolationError(fmt.Sprintf(
			"index points to missing price level for order %s", id))
	}

	idx := -1
	for i, o := range level.Orders {
		if o.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Order{}, newInvariantViolationError(fmt.Sprintf(
			"order %s missing from its indexed price level", id))
	}

	cancelled := level.Orders[idx]
	level.Orders = append(level.Orders[:idx], level.Orders[idx+1:]...)
	if len(level.Orders) == 0 {
		ladder.Delete(level)
	}
	delete(b.index, id)

	cancelled.Cancel(b.clock)
	return *cancelled, nil
}

// GetOrder looks up a resting order by id.
func (b *OrderBook) GetOrder(id OrderID) (Order, bool) {
	loc, ok := b.index[id]
	if !ok {
		return Order{}, false
	}
	level, ok := b.ladderFor(loc.side).Get(&PriceLevel{Price: loc.price})
	if !ok {
		return Order{}, false
	}
	for _, o := range level.Orders {
		if o.ID == id {
			return *o, true
		}
	}
	return Order{}, false
}

// BestBid returns the highest resting buy price, if any.
func (b *OrderBook) BestBid() (Price, bool) {
	level, ok := b.bids.Min()
	if !ok {
		return Price{}, false
	}
	return level.Price, true
}

// BestAsk returns the lowest resting sell price, if any.
func (b *OrderBook) BestAsk() (Price, bool) {
	level, ok := b.asks.Min()
	if !ok {
		return Price{}, false
	}
	return level.Price, true
}

// Spread returns BestAsk - BestBid, or false if either side is empty.
// Always non-negative by invariant (spec §3 invariant 4, §8 property 2).
func (b *OrderBook) Spread() (decimal.Decimal, bool) {
	bid, bidOk := b.BestBid()
	ask, askOk := b.BestAsk()
	if !bidOk || !askOk {
		return decimal.Decimal{}, false
	}
	return ask.Sub(bid), true
}

// BestBidQuantity sums the remaining quantity of every order resting at the
// best bid level.
func (b *OrderBook) BestBidQuantity() (Quantity, bool) {
	level, ok := b.bids.Min()
	if !ok {
		return 0, false
	}
	return levelQuantity(level), true
}

// BestAskQuantity sums the remaining quantity of every order resting at the
// best ask level.
func (b *OrderBook) BestAskQuantity() (Quantity, bool) {
	level, ok := b.asks.Min()
	if !ok {
		return 0, false
	}
	return levelQuantity(level), true
}

func levelQuantity(level *PriceLevel) Quantity {
	var total uint64
	for _, o := range level.Orders {
		total += o.RemainingQuantity.Uint64()
	}
	return Quantity(total)
}
