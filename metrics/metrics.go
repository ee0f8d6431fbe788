// Package metrics exposes Prometheus counters and gauges for the matching
// engine, wired onto match.TradeSink/BBOSink and the engine's event and
// queue-depth observers so collection needs no changes to the matching
// core itself.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	match "github.com/clobcore/matching-engine"
)

var (
	tradesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "match_trades_total",
		Help: "Total number of trades executed, by symbol.",
	}, []string{"symbol"})

	tradeQuantity = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "match_trade_quantity_total",
		Help: "Total quantity traded, by symbol.",
	}, []string{"symbol"})

	bestBid = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "match_best_bid",
		Help: "Current best bid price, by symbol.",
	}, []string{"symbol"})

	bestOffer = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "match_best_offer",
		Help: "Current best offer price, by symbol.",
	}, []string{"symbol"})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "match_event_queue_depth",
		Help: "Number of events currently queued but not yet applied.",
	})

	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "match_events_total",
		Help: "Total events applied by the engine, by kind and outcome.",
	}, []string{"kind", "outcome"})
)

// RecordEvent increments the applied-event counter. kind is "submit",
// "cancel", or "modify"; outcome is "accepted" or "rejected".
func RecordEvent(kind, outcome string) {
	eventsTotal.WithLabelValues(kind, outcome).Inc()
}

// EventObserver adapts RecordEvent to match.EventObserver, for
// MatchingEngine.SetEventObserver.
func EventObserver() match.EventObserver {
	return func(kind match.EventKind, accepted bool) {
		outcome := "rejected"
		if accepted {
			outcome = "accepted"
		}
		RecordEvent(eventKindLabel(kind), outcome)
	}
}

func eventKindLabel(kind match.EventKind) string {
	switch kind {
	case match.EventSubmit:
		return "submit"
	case match.EventCancel:
		return "cancel"
	case match.EventModify:
		return "modify"
	default:
		return "unknown"
	}
}

// QueueDepthObserver adapts SetQueueDepth to a
// MatchingEngine.SetQueueDepthObserver callback.
func QueueDepthObserver() func(depth int) {
	return SetQueueDepth
}

// TradeSink returns a match.TradeSink that records trade count and volume.
func TradeSink() match.TradeSink {
	return match.TradeSinkFunc(func(t match.Trade) {
		tradesTotal.WithLabelValues(t.Symbol).Inc()
		qty, _ := t.Quantity.Float64()
		tradeQuantity.WithLabelValues(t.Symbol).Add(qty)
	})
}

// BBOSink returns a match.BBOSink that records the current top of book.
func BBOSink() match.BBOSink {
	return match.BBOSinkFunc(func(symbol string, bbo match.BestBidOffer) {
		if bbo.HasBid {
			bid, _ := bbo.BestBid.Float64()
			bestBid.WithLabelValues(symbol).Set(bid)
		}
		if bbo.HasOffer {
			offer, _ := bbo.BestOffer.Float64()
			bestOffer.WithLabelValues(symbol).Set(offer)
		}
	})
}

// SetQueueDepth records the engine's current pending event count.
func SetQueueDepth(n int) {
	queueDepth.Set(float64(n))
}
