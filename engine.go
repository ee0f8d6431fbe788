package match

import (
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// BookFactory builds the sinks for a newly registered symbol. Engines that
// don't need per-symbol sinks can ignore it and always return zero options.
type BookFactory func(symbol string) []OrderBookOption

// EventObserver is notified after every applied event, regardless of
// symbol. Used by the metrics package to count submit/cancel/modify
// outcomes without the match package importing metrics (metrics already
// imports match for its types, so the dependency only runs one way).
type EventObserver func(kind EventKind, accepted bool)

// MatchingEngine owns one OrderBook per symbol and the single global event
// queue that serializes mutations across all of them (spec.md §5). Reads
// (GetBBO, GetOrderBookDepth) bypass the queue and hit the target book's
// own guard directly, since they don't need to participate in the total
// mutation order.
type MatchingEngine struct {
	queue *eventQueue

	mu      sync.RWMutex
	books   map[string]*OrderBook
	factory BookFactory

	wg       sync.WaitGroup
	shutdown chan struct{}
	once     sync.Once

	observer           EventObserver
	queueDepthObserver func(depth int)
}

// SetEventObserver wires an EventObserver into the engine. Call before
// Start; not safe to change concurrently with a running consumer.
func (e *MatchingEngine) SetEventObserver(o EventObserver) {
	e.observer = o
}

// SetQueueDepthObserver wires a callback invoked with the queue's pending
// length after every applied event. Call before Start.
func (e *MatchingEngine) SetQueueDepthObserver(o func(depth int)) {
	e.queueDepthObserver = o
}

// NewMatchingEngine creates an engine with an empty book registry. Call
// Start to launch its consumer goroutine before submitting events.
func NewMatchingEngine(factory BookFactory) *MatchingEngine {
	if factory == nil {
		factory = func(string) []OrderBookOption { return nil }
	}
	return &MatchingEngine{
		queue:    newEventQueue(DefaultQueueCapacity),
		books:    make(map[string]*OrderBook),
		factory:  factory,
		shutdown: make(chan struct{}),
	}
}

// Start launches the single consumer goroutine that drains the event queue
// in arrival order and applies each event to its symbol's book.
func (e *MatchingEngine) Start() {
	e.wg.Add(1)
	go e.run()
}

func (e *MatchingEngine) run() {
	defer e.wg.Done()
	for {
		ev, ok := e.queue.pop()
		if !ok {
			return
		}
		e.applyRecovering(ev)
		e.queue.done()
	}
}

// applyRecovering dispatches ev and recovers a panic from inside it. A
// failed event is logged and discarded rather than killing the consumer
// goroutine: the book's guard is released by the panicking call's own
// deferred Unlock before recover runs, so the book is left in whatever
// state it reached and the loop picks up the next event. It never gets
// stuck mid-event.
func (e *MatchingEngine) applyRecovering(ev OrderEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic applying event", "symbol", ev.Symbol, "kind", ev.Kind, "panic", r)
			if e.observer != nil {
				e.observer(ev.Kind, false)
			}
		}
	}()
	e.apply(ev)
}

func (e *MatchingEngine) apply(ev OrderEvent) {
	book := e.bookFor(ev.Symbol)

	var accepted bool
	switch ev.Kind {
	case EventSubmit:
		accepted = book.AddOrder(ev.Order)
		if !accepted {
			logger.Warn("rejected order", "symbol", ev.Symbol, "order_id", ev.Order.ID, "type", ev.Order.Type)
		}
	case EventCancel:
		accepted = book.CancelOrder(ev.OrderID)
		if !accepted {
			logger.Warn("cancel on unknown order", "symbol", ev.Symbol, "order_id", ev.OrderID)
		}
	case EventModify:
		accepted = book.ModifyOrder(ev.OrderID, ev.NewQuantity)
		if !accepted {
			logger.Warn("modify on unknown order", "symbol", ev.Symbol, "order_id", ev.OrderID)
		}
	}

	if e.observer != nil {
		e.observer(ev.Kind, accepted)
	}
	if e.queueDepthObserver != nil {
		e.queueDepthObserver(int(e.queue.pending()) - 1)
	}
}

// bookFor returns the OrderBook for symbol, creating it on first use.
func (e *MatchingEngine) bookFor(symbol string) *OrderBook {
	e.mu.RLock()
	b, ok := e.books[symbol]
	e.mu.RUnlock()
	if ok {
		return b
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok = e.books[symbol]; ok {
		return b
	}
	b = NewOrderBook(symbol, e.factory(symbol)...)
	e.books[symbol] = b
	return b
}

// Submit enqueues a new order for symbol. It returns ErrShutdown if the
// engine has already begun shutting down; otherwise the order is applied
// asynchronously by the consumer goroutine in FIFO order relative to every
// other accepted event, regardless of symbol (spec.md §5).
func (e *MatchingEngine) Submit(o *Order) error {
	if !e.queue.push(OrderEvent{Kind: EventSubmit, Symbol: o.Symbol, Order: o}) {
		return ErrShutdown
	}
	return nil
}

// Cancel enqueues a cancel for order id on symbol.
func (e *MatchingEngine) Cancel(symbol string, id uint64) error {
	if !e.queue.push(OrderEvent{Kind: EventCancel, Symbol: symbol, OrderID: id}) {
		return ErrShutdown
	}
	return nil
}

// Modify enqueues a quantity change for order id on symbol.
func (e *MatchingEngine) Modify(symbol string, id uint64, newQuantity decimal.Decimal) error {
	if !e.queue.push(OrderEvent{Kind: EventModify, Symbol: symbol, OrderID: id, NewQuantity: newQuantity}) {
		return ErrShutdown
	}
	return nil
}

// GetBBO returns the current top of book for symbol, or ok=false if no
// book has been created for it yet.
func (e *MatchingEngine) GetBBO(symbol string) (bbo BestBidOffer, ok bool) {
	e.mu.RLock()
	b, ok := e.books[symbol]
	e.mu.RUnlock()
	if !ok {
		return BestBidOffer{}, false
	}
	return b.GetBBO(), true
}

// GetOrderBookDepth returns up to levels price levels per side for symbol,
// or ok=false if no book has been created for it yet.
func (e *MatchingEngine) GetOrderBookDepth(symbol string, levels int) (depth Depth, ok bool) {
	e.mu.RLock()
	b, ok := e.books[symbol]
	e.mu.RUnlock()
	if !ok {
		return Depth{}, false
	}
	return b.GetOrderBookDepth(levels), true
}

// Shutdown stops accepting new events, waits for the queue to drain, and
// returns once the consumer goroutine has exited. Safe to call more than
// once; only the first call closes the queue, and every call runs the
// closers passed to it. Any closers (e.g. a Kafka or Redis
// sink's Close) are run afterward, in order, and their errors combined
// with multierr instead of stopping at the first failure.
func (e *MatchingEngine) Shutdown(closers ...func() error) error {
	e.once.Do(func() {
		close(e.shutdown)
		e.queue.close()
	})
	e.wg.Wait()

	var err error
	for _, c := range closers {
		err = multierr.Append(err, c())
	}
	return err
}

// PendingEvents reports how many events have been accepted but not yet
// fully applied, including one the consumer is currently processing, for
// diagnostics and tests asserting drain-on-shutdown behavior.
func (e *MatchingEngine) PendingEvents() int {
	return int(e.queue.pending())
}
