// Package marketdata rebuilds a read-only view of aggregate depth from a
// stream of match.DepthChange events, for downstream consumers that
// receive those events over a message queue instead of holding a direct
// reference to the match.OrderBook that produced them.
package marketdata

import (
	"sync"
	"sync/atomic"

	"github.com/igrmk/treemap/v2"
	"github.com/shopspring/decimal"

	match "github.com/clobcore/matching-engine"
)

// AggregatedBook tracks per-price-level aggregate size on both sides of
// one symbol's book. It never sees individual orders, only the net
// quantity delta each applied event produced, so it cannot answer FIFO or
// per-order questions, only depth ones.
type AggregatedBook struct {
	mu sync.RWMutex

	symbol string
	seq    atomic.Uint64

	bids *treemap.TreeMap[decimal.Decimal, decimal.Decimal] // descending best-first
	asks *treemap.TreeMap[decimal.Decimal, decimal.Decimal] // ascending best-first
}

// NewAggregatedBook creates an empty AggregatedBook for symbol.
func NewAggregatedBook(symbol string) *AggregatedBook {
	return &AggregatedBook{
		symbol: symbol,
		bids: treemap.NewWithKeyCompare[decimal.Decimal, decimal.Decimal](func(a, b decimal.Decimal) bool {
			return a.GreaterThan(b)
		}),
		asks: treemap.NewWithKeyCompare[decimal.Decimal, decimal.Decimal](func(a, b decimal.Decimal) bool {
			return a.LessThan(b)
		}),
	}
}

// SequenceID returns the number of events replayed so far, for gap
// detection by callers consuming this off an ordered transport.
func (ab *AggregatedBook) SequenceID() uint64 {
	return ab.seq.Load()
}

// Replay applies one depth change to the aggregated view. A level whose
// running total reaches zero or below is removed rather than kept at
// zero, mirroring ladder's own invariant that empty levels don't persist.
func (ab *AggregatedBook) Replay(c match.DepthChange) {
	ab.mu.Lock()
	defer ab.mu.Unlock()

	side := ab.sideMap(c.Side)
	current, _ := side.Get(c.Price)
	next := current.Add(c.SizeDiff)

	if next.Sign() <= 0 {
		side.Del(c.Price)
	} else {
		side.Set(c.Price, next)
	}

	ab.seq.Add(1)
}

func (ab *AggregatedBook) sideMap(side match.Side) *treemap.TreeMap[decimal.Decimal, decimal.Decimal] {
	if side == match.Buy {
		return ab.bids
	}
	return ab.asks
}

// Depth returns the aggregated size resting at price on side. Zero if
// nothing rests there.
func (ab *AggregatedBook) Depth(side match.Side, price decimal.Decimal) decimal.Decimal {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	qty, _ := ab.sideMap(side).Get(price)
	return qty
}

// Snapshot returns up to levels price levels per side, best price first.
func (ab *AggregatedBook) Snapshot(levels int) match.Depth {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	return match.Depth{
		Bids: collect(ab.bids, levels),
		Asks: collect(ab.asks, levels),
	}
}

func collect(m *treemap.TreeMap[decimal.Decimal, decimal.Decimal], limit int) []match.PriceLevelView {
	out := make([]match.PriceLevelView, 0, limit)
	it := m.Iterator()
	for i := 0; i < limit && it.Valid(); i++ {
		out = append(out, match.PriceLevelView{Price: it.Key(), Quantity: it.Value()})
		it.Next()
	}
	return out
}
