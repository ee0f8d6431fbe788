// Package sinks provides match.TradeSink/BBOSink/DepthSink implementations
// for tests and for shipping engine events to external systems.
package sinks

import (
	"sync"

	match "github.com/clobcore/matching-engine"
)

// MemoryTradeSink records every trade in memory, in arrival order. Useful
// for tests asserting on the exact sequence of fills.
type MemoryTradeSink struct {
	mu     sync.RWMutex
	trades []match.Trade
}

func NewMemoryTradeSink() *MemoryTradeSink {
	return &MemoryTradeSink{trades: make([]match.Trade, 0)}
}

func (s *MemoryTradeSink) OnTrade(t match.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, t)
}

// Trades returns a copy of every trade recorded so far.
func (s *MemoryTradeSink) Trades() []match.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]match.Trade, len(s.trades))
	copy(out, s.trades)
	return out
}

func (s *MemoryTradeSink) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trades)
}

// MemoryBBOSink records the last BBO observed per symbol.
type MemoryBBOSink struct {
	mu   sync.RWMutex
	last map[string]match.BestBidOffer
}

func NewMemoryBBOSink() *MemoryBBOSink {
	return &MemoryBBOSink{last: make(map[string]match.BestBidOffer)}
}

func (s *MemoryBBOSink) OnBBOUpdate(symbol string, bbo match.BestBidOffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[symbol] = bbo
}

func (s *MemoryBBOSink) Last(symbol string) (match.BestBidOffer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bbo, ok := s.last[symbol]
	return bbo, ok
}

// MemoryDepthSink records every depth change in memory, in arrival order.
type MemoryDepthSink struct {
	mu      sync.RWMutex
	changes []match.DepthChange
}

func NewMemoryDepthSink() *MemoryDepthSink {
	return &MemoryDepthSink{changes: make([]match.DepthChange, 0)}
}

func (s *MemoryDepthSink) OnDepthChange(c match.DepthChange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes = append(s.changes, c)
}

func (s *MemoryDepthSink) Changes() []match.DepthChange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]match.DepthChange, len(s.changes))
	copy(out, s.changes)
	return out
}

// DiscardTradeSink discards every trade, useful for benchmarking.
type DiscardTradeSink struct{}

func (DiscardTradeSink) OnTrade(match.Trade) {}
