package matchbook

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
)

// DepthLevel is the aggregated state of one price level, as returned by
// MarketDepth.
type DepthLevel struct {
	Price      Price    `json:"price"`
	Quantity   Quantity `json:"quantity"`
	OrderCount int      `json:"order_count"`
}

// MarketDepth is the aggregated top-of-book view returned by
// OrderBook.MarketDepth: up to k levels per side, in price priority, plus
// the current spread.
type MarketDepth struct {
	Bids   []DepthLevel     `json:"bids"`
	Asks   []DepthLevel     `json:"asks"`
	Spread *decimal.Decimal `json:"spread,omitempty"`
}

// MarketDepth walks up to k best levels per side, in price priority
// (descending for bids, ascending for asks), aggregating remaining
// quantity and order count per level (spec §4.F.4).
func (b *OrderBook) MarketDepth(k int) MarketDepth {
	depth := MarketDepth{
		Bids: collectDepth(b.bids, k),
		Asks: collectDepth(b.asks, k),
	}
	if spread, ok := b.Spread(); ok {
		depth.Spread = &spread
	}
	return depth
}

func collectDepth(ladder *btree.BTreeG[*PriceLevel], k int) []DepthLevel {
	var levels []DepthLevel
	ladder.Scan(func(level *PriceLevel) bool {
		if len(levels) >= k {
			return false
		}
		qty := levelQuantity(level)
		if qty.Uint64() == 0 {
			// Defense in depth: shouldn't occur given invariant F.2/F.5.
			return true
		}
		levels = append(levels, DepthLevel{
			Price:      level.Price,
			Quantity:   qty,
			OrderCount: len(level.Orders),
		})
		return true
	})
	return levels
}
