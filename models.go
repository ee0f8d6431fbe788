// Package match implements the core of a price-time priority matching engine
// for a multi-symbol central limit order book.
package match

import (
	"github.com/shopspring/decimal"
)

// Side is the direction of an order.
type Side int8

const (
	Buy Side = 1
	Sell Side = 2
)

// String implements fmt.Stringer for diagnostic output.
func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// OrderType is the execution policy of an order. The set is closed: the core
// only knows how to apply the four policies below (spec.md §3).
type OrderType string

const (
	Market OrderType = "market"
	Limit  OrderType = "limit"
	IOC    OrderType = "ioc" // Immediate-Or-Cancel
	FOK    OrderType = "fok" // Fill-Or-Kill
)

// Order is the mutable state of a single order. Quantity is decremented in
// place during matching; everything else is set once at submission time.
//
// Price is optional: required for LIMIT, undefined for MARKET, optional for
// IOC/FOK (absence means "match at any crossable price").
type Order struct {
	ID        uint64
	Symbol    string
	Side      Side
	Type      OrderType
	Quantity  decimal.Decimal
	Price     decimal.NullDecimal
	Timestamp int64 // unix nano, set by the receiver, diagnostic only
	IsActive  bool

	// Intrusive FIFO linked-list pointers within a price level. Never
	// serialized; owned exclusively by the ladder that holds the order.
	next *Order
	prev *Order
}

// Trade is the immutable record of one fill. Price is always the maker's
// resting price, never the taker's limit.
type Trade struct {
	MakerOrderID  uint64
	TakerOrderID  uint64
	Symbol        string
	Price         decimal.Decimal
	Quantity      decimal.Decimal
	AggressorSide Side
	Timestamp     int64
}

// BestBidOffer is a snapshot of the top of book. A zero value on one side
// (no bids, or no asks) leaves that side's fields at their zero value; check
// HasBid/HasOffer before reading Best*.
type BestBidOffer struct {
	BestBid            decimal.Decimal
	BestBidQuantity    decimal.Decimal
	BestOffer          decimal.Decimal
	BestOfferQuantity  decimal.Decimal
	HasBid             bool
	HasOffer           bool
}

// PriceLevelView is a read-only aggregate view of one price level, as
// returned by depth queries and snapshots.
type PriceLevelView struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// Depth is a labeled bid/ask depth response. spec.md §9 leaves the
// bid/ask tagging of the depth response as an open question; this core
// resolves it by returning a labeled pair rather than a concatenated slice.
type Depth struct {
	Bids []PriceLevelView
	Asks []PriceLevelView
}

// EventKind tags an OrderEvent with the mutation it carries.
type EventKind int8

const (
	EventSubmit EventKind = iota
	EventCancel
	EventModify
)

// OrderEvent is a single intent enqueued on the engine's event queue. The
// total order of OrderEvents applied across all books is the engine's
// observable history (spec.md §5).
type OrderEvent struct {
	Kind        EventKind
	Symbol      string
	Order       *Order          // set for EventSubmit
	OrderID     uint64          // set for EventCancel/EventModify
	NewQuantity decimal.Decimal // set for EventModify
}

// DepthChange describes how one applied event altered aggregate depth at a
// single price level, for downstream consumers that rebuild depth
// incrementally instead of re-polling GetOrderBookDepth.
type DepthChange struct {
	Symbol   string
	Side     Side
	Price    decimal.Decimal
	SizeDiff decimal.Decimal
}
