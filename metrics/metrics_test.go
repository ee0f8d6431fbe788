package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	match "github.com/clobcore/matching-engine"
)

func TestTradeSinkRecordsCountAndVolume(t *testing.T) {
	sink := TradeSink()
	sink.OnTrade(match.Trade{Symbol: "BTC-USD-METRICS-1", Quantity: decimal.RequireFromString("2.5")})

	count := testutil.ToFloat64(tradesTotal.WithLabelValues("BTC-USD-METRICS-1"))
	assert.Equal(t, float64(1), count)

	volume := testutil.ToFloat64(tradeQuantity.WithLabelValues("BTC-USD-METRICS-1"))
	assert.Equal(t, 2.5, volume)
}

func TestBBOSinkRecordsOnlyPresentSides(t *testing.T) {
	sink := BBOSink()
	sink.OnBBOUpdate("ETH-USD-METRICS-1", match.BestBidOffer{
		HasBid:  true,
		BestBid: decimal.RequireFromString("100"),
	})

	got := testutil.ToFloat64(bestBid.WithLabelValues("ETH-USD-METRICS-1"))
	assert.Equal(t, float64(100), got)
	assert.Equal(t, 0, testutil.CollectAndCount(bestOffer), "an absent offer side must not be recorded")
}

func TestEventObserverRecordsOutcome(t *testing.T) {
	obs := EventObserver()
	obs(match.EventSubmit, true)

	got := testutil.ToFloat64(eventsTotal.WithLabelValues("submit", "accepted"))
	assert.GreaterOrEqual(t, got, float64(1))
}
