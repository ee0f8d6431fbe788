package match

import (
	"sync"

	"github.com/shopspring/decimal"
)

// orderLocation is the value side of order_lookup (spec.md §3): enough to
// find a resting order's level without scanning both ladders.
type orderLocation struct {
	price decimal.Decimal
	side  Side
}

// OrderBook is the per-symbol resting state: two price ladders, a side
// index for O(log n) cancel/modify, and the sinks that observe its
// mutations. All exported methods acquire mu for their full call, matching
// spec.md §4.1 ("All mutating and reading operations acquire the book's
// exclusive guard for the full call") and §5's single per-book guard.
type OrderBook struct {
	mu sync.Mutex

	symbol string
	bids   *ladder
	asks   *ladder

	// orderLookup is order_lookup from spec.md §3: id -> (price, side).
	// Invariant I1: its key set is exactly the ids resting in bids ∪ asks.
	orderLookup map[uint64]orderLocation

	tradeSink TradeSink
	bboSink   BBOSink
	depthSink DepthSink

	nextTradeSeq uint64
}

// OrderBookOption configures an OrderBook at construction time.
type OrderBookOption func(*OrderBook)

// WithTradeSink wires a trade sink into the book.
func WithTradeSink(s TradeSink) OrderBookOption {
	return func(b *OrderBook) { b.tradeSink = s }
}

// WithBBOSink wires a BBO sink into the book.
func WithBBOSink(s BBOSink) OrderBookOption {
	return func(b *OrderBook) { b.bboSink = s }
}

// WithDepthSink wires a depth-change sink into the book.
func WithDepthSink(s DepthSink) OrderBookOption {
	return func(b *OrderBook) { b.depthSink = s }
}

// NewOrderBook creates an empty order book for symbol.
func NewOrderBook(symbol string, opts ...OrderBookOption) *OrderBook {
	b := &OrderBook{
		symbol:      symbol,
		bids:        newLadder(Buy),
		asks:        newLadder(Sell),
		orderLookup: make(map[uint64]orderLocation),
		tradeSink:   TradeSinkFunc(func(Trade) {}),
		bboSink:     noopBBOSink{},
		depthSink:   noopDepthSink{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Symbol returns the book's symbol.
func (b *OrderBook) Symbol() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.symbol
}

// AddOrder applies a SUBMIT. It returns false only on validation failure
// (LIMIT without a price, spec.md §4.1); every other accepted outcome,
// including full fill, partial fill, and IOC/FOK residual cancellation,
// returns true. Fills and residual state are observable only via the
// trade/BBO sinks.
func (b *OrderBook) AddOrder(o *Order) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if o.Type == Limit && !o.Price.Valid {
		return false
	}

	o.IsActive = true
	b.match(o)

	b.emitBBO()
	return true
}

// CancelOrder removes a resting order. Returns false if it is not resting
// (already filled, cancelled, or never submitted); idempotent.
func (b *OrderBook) CancelOrder(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	loc, ok := b.orderLookup[id]
	if !ok {
		return false
	}

	side := b.ladderFor(loc.side)
	resting := side.order(id)
	var qty decimal.Decimal
	if resting != nil {
		qty = resting.Quantity
	}

	side.remove(loc.price, id)
	delete(b.orderLookup, id)

	b.depthSink.OnDepthChange(DepthChange{
		Symbol:   b.symbol,
		Side:     loc.side,
		Price:    loc.price,
		SizeDiff: qty.Neg(),
	})
	b.emitBBO()
	return true
}

// ModifyOrder changes the quantity of a resting order in place. Price is
// never modifiable, and changing quantity never moves the order within its
// level's FIFO queue (spec.md §9's "modify does not re-queue" divergence).
// new_quantity = 0 is treated as a cancel (spec.md §9's suggested
// resolution of the "modify to zero" open question), rather than leaving a
// dead zero-quantity entry at the head of the queue.
func (b *OrderBook) ModifyOrder(id uint64, newQuantity decimal.Decimal) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	loc, ok := b.orderLookup[id]
	if !ok {
		return false
	}

	side := b.ladderFor(loc.side)
	resting := side.order(id)
	if resting == nil {
		return false
	}

	if newQuantity.IsZero() {
		diff := resting.Quantity.Neg()
		side.remove(loc.price, id)
		delete(b.orderLookup, id)
		b.depthSink.OnDepthChange(DepthChange{Symbol: b.symbol, Side: loc.side, Price: loc.price, SizeDiff: diff})
		b.emitBBO()
		return true
	}

	diff := newQuantity.Sub(resting.Quantity)
	side.updateQuantity(resting, newQuantity)
	b.depthSink.OnDepthChange(DepthChange{Symbol: b.symbol, Side: loc.side, Price: loc.price, SizeDiff: diff})
	b.emitBBO()
	return true
}

// GetBBO returns a snapshot of the top of book.
func (b *OrderBook) GetBBO() BestBidOffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bbo()
}

// GetOrderBookDepth returns up to levels price levels per side, bids in
// descending price order and asks in ascending price order.
func (b *OrderBook) GetOrderBookDepth(levels int) Depth {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Depth{
		Bids: b.bids.depth(levels),
		Asks: b.asks.depth(levels),
	}
}

// bbo computes the current top of book. Caller must hold mu.
func (b *OrderBook) bbo() BestBidOffer {
	var out BestBidOffer
	if bid := b.bids.peekFront(); bid != nil {
		if el := b.bids.prices.Front(); el != nil {
			lv := el.Value.(*level)
			out.BestBid = lv.price
			out.BestBidQuantity = lv.total
			out.HasBid = true
		}
	}
	if ask := b.asks.peekFront(); ask != nil {
		if el := b.asks.prices.Front(); el != nil {
			lv := el.Value.(*level)
			out.BestOffer = lv.price
			out.BestOfferQuantity = lv.total
			out.HasOffer = true
		}
	}
	return out
}

func (b *OrderBook) emitBBO() {
	b.bboSink.OnBBOUpdate(b.symbol, b.bbo())
}

func (b *OrderBook) ladderFor(side Side) *ladder {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

// restingOrderCount reports total resting orders on both sides, used by
// tests asserting invariants P1/P2.
func (b *OrderBook) restingOrderCount() int64 {
	return b.bids.orderCount() + b.asks.orderCount()
}
