package matchbook

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/btree"
)

// Snapshot is a stable, JSON-compatible representation of an entire
// OrderBook's state (spec §6). No example in the retrieval pack reaches for
// a third-party codec for a structure this narrow; encoding/json with
// tagged structs is the ecosystem default the pack's own order/trade types
// already use for wire representations (e.g. sujalsin-microCoin's Order).
type Snapshot struct {
	Symbol          string          `json:"symbol"`
	Bids            []levelRecord   `json:"bids"`
	Asks            []levelRecord   `json:"asks"`
	Orders          indexRecordMap  `json:"orders"`
	RecentTrades    []tradeRecord   `json:"recent_trades"`
	MaxRecentTrades int             `json:"max_recent_trades"`
}

type indexRecordMap = map[string]indexRecord

type indexRecord struct {
	Side  string `json:"side"`
	Price string `json:"price"`
}

type levelRecord struct {
	Price  string        `json:"price"`
	Orders []orderRecord `json:"orders"`
}

type orderRecord struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Side              string    `json:"side"`
	Price             string    `json:"price"`
	OriginalQuantity  uint64    `json:"original_quantity"`
	RemainingQuantity uint64    `json:"remaining_quantity"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type tradeRecord struct {
	BuyOrderID  string    `json:"buy_order_id"`
	SellOrderID string    `json:"sell_order_id"`
	Price       string    `json:"price"`
	Quantity    uint64    `json:"quantity"`
	Timestamp   time.Time `json:"timestamp"`
}

// priceRecord renders p with at least two decimal places and without
// rounding away any finer digits, so the price survives a round trip.
func priceRecord(p Price) string {
	return p.value.StringFixed(max(minorUnitExponent, -p.value.Exponent()))
}

func toOrderRecord(o Order) orderRecord {
	return orderRecord{
		ID:                o.ID.String(),
		UserID:            o.UserID.String(),
		Side:              o.Side.String(),
		Price:             priceRecord(o.Price),
		OriginalQuantity:  o.OriginalQuantity.Uint64(),
		RemainingQuantity: o.RemainingQuantity.Uint64(),
		Status:            o.Status.String(),
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func fromOrderRecord(rec orderRecord) (Order, error) {
	id, err := ParseOrderID(rec.ID)
	if err != nil {
		return Order{}, err
	}
	userID, err := ParseUserID(rec.UserID)
	if err != nil {
		return Order{}, err
	}
	side, err := parseSide(rec.Side)
	if err != nil {
		return Order{}, err
	}
	price, err := PriceFromString(rec.Price)
	if err != nil {
		return Order{}, err
	}
	status, err := parseStatus(rec.Status)
	if err != nil {
		return Order{}, err
	}

	return Order{
		ID:                id,
		UserID:            userID,
		Side:              side,
		Price:             price,
		OriginalQuantity:  Quantity(rec.OriginalQuantity),
		RemainingQuantity: Quantity(rec.RemainingQuantity),
		Status:            status,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}, nil
}

func toTradeRecord(t Trade) tradeRecord {
	return tradeRecord{
		BuyOrderID:  t.BuyOrderID.String(),
		SellOrderID: t.SellOrderID.String(),
		Price:       priceRecord(t.Price),
		Quantity:    t.Quantity.Uint64(),
		Timestamp:   t.Timestamp,
	}
}

func fromTradeRecord(rec tradeRecord) (Trade, error) {
	buyID, err := ParseOrderID(rec.BuyOrderID)
	if err != nil {
		return Trade{}, err
	}
	sellID, err := ParseOrderID(rec.SellOrderID)
	if err != nil {
		return Trade{}, err
	}
	price, err := PriceFromString(rec.Price)
	if err != nil {
		return Trade{}, err
	}
	return Trade{
		BuyOrderID:  buyID,
		SellOrderID: sellID,
		Price:       price,
		Quantity:    Quantity(rec.Quantity),
		Timestamp:   rec.Timestamp,
	}, nil
}

func serializeLadder(ladder *btree.BTreeG[*PriceLevel]) []levelRecord {
	var records []levelRecord
	ladder.Scan(func(level *PriceLevel) bool {
		rec := levelRecord{
			Price:  priceRecord(level.Price),
			Orders: make([]orderRecord, len(level.Orders)),
		}
		for i, o := range level.Orders {
			rec.Orders[i] = toOrderRecord(*o)
		}
		records = append(records, rec)
		return true
	})
	return records
}

func deserializeLadder(book *OrderBook, ladder *btree.BTreeG[*PriceLevel], side Side, records []levelRecord) error {
	for _, rec := range records {
		price, err := PriceFromString(rec.Price)
		if err != nil {
			return err
		}
		level := &PriceLevel{Price: price, Orders: make([]*Order, len(rec.Orders))}
		for i, orderRec := range rec.Orders {
			order, err := fromOrderRecord(orderRec)
			if err != nil {
				return err
			}
			order.Side = side
			level.Orders[i] = &order
			book.index[order.ID] = ladderLocation{side: side, price: price}
		}
		ladder.Set(level)
	}
	return nil
}

// Serialize produces a deterministic, JSON-compatible snapshot of the
// entire book (spec §4.G/§6).
func (b *OrderBook) Serialize() ([]byte, error) {
	snap := Snapshot{
		Symbol:          b.symbol.String(),
		Bids:            serializeLadder(b.bids),
		Asks:            serializeLadder(b.asks),
		Orders:          make(indexRecordMap, len(b.index)),
		RecentTrades:    make([]tradeRecord, 0, len(b.recentTrades)),
		MaxRecentTrades: b.maxRecentTrades,
	}
	for id, loc := range b.index {
		snap.Orders[id.String()] = indexRecord{Side: loc.side.String(), Price: priceRecord(loc.price)}
	}
	for _, t := range b.recentTrades {
		snap.RecentTrades = append(snap.RecentTrades, toTradeRecord(t))
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// Deserialize reconstructs an OrderBook from a snapshot produced by
// Serialize, such that all subsequent operations yield identical results to
// the original (spec §8 property 10). clock is the time source the
// reconstructed book uses for any further mutation.
func Deserialize(data []byte, clock Clock) (*OrderBook, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}

	symbol, err := NewSymbol(snap.Symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}

	book := NewOrderBookWithOptions(symbol, clock, snap.MaxRecentTrades)

	if err := deserializeLadder(book, book.bids, Buy, snap.Bids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	if err := deserializeLadder(book, book.asks, Sell, snap.Asks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}

	for _, rec := range snap.RecentTrades {
		trade, err := fromTradeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
		}
		book.recentTrades = append(book.recentTrades, trade)
	}

	return book, nil
}
