package match

import (
	"time"

	"github.com/shopspring/decimal"
)

// match dispatches an incoming order to its execution policy and applies it
// against the book. Caller holds b.mu for the full call (spec.md §4.1).
//
// MARKET orders are undefined-price by convention, but Order.Price is a
// decimal.NullDecimal: if a caller sets one anyway, spec.md §9 resolves the
// ambiguity by honoring it as a cap in the crossing predicate (matching the
// original source) rather than silently discarding it. Callers that want
// unconstrained MARKET semantics simply submit no price.
func (b *OrderBook) match(o *Order) {
	switch o.Type {
	case Market:
		b.sweep(o, o.Price, true)
	case Limit:
		b.sweep(o, o.Price, false)
	case IOC:
		b.sweep(o, o.Price, true)
	case FOK:
		b.applyFOK(o)
	}
}

// opposite returns the ladder an incoming order crosses against.
func (b *OrderBook) opposite(side Side) *ladder {
	if side == Buy {
		return b.asks
	}
	return b.bids
}

// crosses reports whether an order with the given side and (optional) limit
// price is willing to trade at restingPrice (spec.md §3 crossing predicate).
// An absent limit (MARKET, or IOC/FOK with no price) crosses any price.
func crosses(side Side, limit decimal.NullDecimal, restingPrice decimal.Decimal) bool {
	if !limit.Valid {
		return true
	}
	if side == Buy {
		return limit.Decimal.GreaterThanOrEqual(restingPrice)
	}
	return limit.Decimal.LessThanOrEqual(restingPrice)
}

// sweep walks the opposite ladder from best price outward, filling the
// incoming order against resting orders in strict price-time priority,
// until the order is filled, the book runs out of crossable liquidity, or
// (for LIMIT) the next level no longer crosses. cancelResidual is true for
// MARKET and IOC: any quantity left after the sweep is discarded rather
// than resting (spec.md §3's IOC/MARKET policy). limit is the incoming
// order's own price; when absent, every resting price crosses.
func (b *OrderBook) sweep(o *Order, limit decimal.NullDecimal, cancelResidual bool) {
	if o.Timestamp == 0 {
		o.Timestamp = time.Now().UnixNano()
	}

	book := b.opposite(o.Side)

	for o.Quantity.IsPositive() {
		resting := book.peekFront()
		if resting == nil {
			break
		}
		if !crosses(o.Side, limit, resting.Price.Decimal) {
			break
		}

		b.fill(o, resting, book)
	}

	if o.Quantity.IsPositive() && !cancelResidual {
		b.rest(o)
	}
}

// fill executes one match between the incoming taker o and the resting
// maker at the front of book, for min(o.Quantity, maker.Quantity). The
// trade price is always the maker's resting price (spec.md §3: "price
// improvement always goes to the resting order").
func (b *OrderBook) fill(o *Order, maker *Order, book *ladder) {
	qty := o.Quantity
	if maker.Quantity.LessThan(qty) {
		qty = maker.Quantity
	}

	trade := Trade{
		MakerOrderID:  maker.ID,
		TakerOrderID:  o.ID,
		Symbol:        b.symbol,
		Price:         maker.Price.Decimal,
		Quantity:      qty,
		AggressorSide: o.Side,
		Timestamp:     time.Now().UnixNano(),
	}

	o.Quantity = o.Quantity.Sub(qty)
	remaining := maker.Quantity.Sub(qty)

	if remaining.IsZero() {
		book.remove(maker.Price.Decimal, maker.ID)
		delete(b.orderLookup, maker.ID)
		b.depthSink.OnDepthChange(DepthChange{
			Symbol: b.symbol, Side: maker.Side, Price: maker.Price.Decimal, SizeDiff: qty.Neg(),
		})
	} else {
		book.updateQuantity(maker, remaining)
		b.depthSink.OnDepthChange(DepthChange{
			Symbol: b.symbol, Side: maker.Side, Price: maker.Price.Decimal, SizeDiff: qty.Neg(),
		})
	}

	b.tradeSink.OnTrade(trade)
}

// rest inserts an order's remaining quantity onto its own side of the book,
// at the back of its price level's FIFO queue (time priority).
func (b *OrderBook) rest(o *Order) {
	side := b.ladderFor(o.Side)
	side.insert(o, false)
	b.orderLookup[o.ID] = orderLocation{price: o.Price.Decimal, side: o.Side}

	b.depthSink.OnDepthChange(DepthChange{
		Symbol: b.symbol, Side: o.Side, Price: o.Price.Decimal, SizeDiff: o.Quantity,
	})
}

// applyFOK implements Fill-Or-Kill: the order either executes in full
// immediately, or not at all. spec.md §9 resolves the ambiguity in the
// original source (which matched first and rolled back on shortfall) by
// pre-checking feasibility with a read-only walk of the opposite ladder
// before mutating anything, so a failed FOK never partially fills.
func (b *OrderBook) applyFOK(o *Order) {
	if o.Timestamp == 0 {
		o.Timestamp = time.Now().UnixNano()
	}

	if !b.fokFeasible(o) {
		return
	}
	b.sweep(o, o.Price, true)
}

// fokFeasible reports whether the opposite ladder currently holds enough
// crossable quantity to fill o in full, without mutating any state.
func (b *OrderBook) fokFeasible(o *Order) bool {
	book := b.opposite(o.Side)

	need := o.Quantity
	el := book.frontLevel()
	for el != nil && need.IsPositive() {
		lv := el.Value.(*level)
		if !crosses(o.Side, o.Price, lv.price) {
			break
		}
		need = need.Sub(lv.total)
		el = el.Next()
	}
	return !need.IsPositive()
}
