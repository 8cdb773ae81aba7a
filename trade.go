package matchbook

import (
	"time"

	"github.com/rs/zerolog"
)

// Trade is an immutable execution record. Once created it is never
// mutated, narrowed from the teacher's Party/CounterParty *Order pointers
// (internal/common/trade.go) down to the buy/sell ids spec's wire format
// names, since this package has no asset-class or ownership fields worth
// carrying alongside a trade.
type Trade struct {
	BuyOrderID  OrderID
	SellOrderID OrderID
	Price       Price
	Quantity    Quantity
	Timestamp   time.Time
}

// MarshalZerologObject lets a Trade be logged as a structured event, e.g.
// logger.Info().Object("trade", trade).Msg("executed").
func (t Trade) MarshalZerologObject(e *zerolog.Event) {
	e.Str("buy_order_id", t.BuyOrderID.String()).
		Str("sell_order_id", t.SellOrderID.String()).
		Str("price", t.Price.String()).
		Uint64("quantity", t.Quantity.Uint64()).
		Time("timestamp", t.Timestamp)
}
