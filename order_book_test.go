package match

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBook(trades *[]Trade) *OrderBook {
	sink := TradeSinkFunc(func(t Trade) { *trades = append(*trades, t) })
	return NewOrderBook("BTC-USD", WithTradeSink(sink))
}

func TestAddOrderLimitRestsWhenNonCrossing(t *testing.T) {
	var trades []Trade
	b := newTestBook(&trades)

	ok := b.AddOrder(limitOrder(1, Buy, 100, 10))
	require.True(t, ok)

	assert.Empty(t, trades)
	bbo := b.GetBBO()
	require.True(t, bbo.HasBid)
	assert.True(t, decimal.NewFromInt(100).Equal(bbo.BestBid))
	assert.False(t, bbo.HasOffer)
}

func TestAddOrderLimitRejectsMissingPrice(t *testing.T) {
	var trades []Trade
	b := newTestBook(&trades)

	o := &Order{ID: 1, Side: Buy, Type: Limit, Quantity: decimal.NewFromInt(1)}
	ok := b.AddOrder(o)
	assert.False(t, ok)
}

func TestAddOrderLimitCrossesAndFills(t *testing.T) {
	var trades []Trade
	b := newTestBook(&trades)

	require.True(t, b.AddOrder(limitOrder(1, Sell, 100, 5)))
	require.True(t, b.AddOrder(limitOrder(2, Buy, 101, 5)))

	require.Len(t, trades, 1)
	assert.Equal(t, uint64(1), trades[0].MakerOrderID)
	assert.Equal(t, uint64(2), trades[0].TakerOrderID)
	assert.True(t, decimal.NewFromInt(100).Equal(trades[0].Price), "trade price must be the maker's price")
	assert.Zero(t, b.restingOrderCount())
}

func TestAddOrderPriceTimePriority(t *testing.T) {
	var trades []Trade
	b := newTestBook(&trades)

	require.True(t, b.AddOrder(limitOrder(1, Sell, 100, 3)))
	require.True(t, b.AddOrder(limitOrder(2, Sell, 100, 3)))

	taker := limitOrder(3, Buy, 100, 3)
	require.True(t, b.AddOrder(taker))

	require.Len(t, trades, 1)
	assert.Equal(t, uint64(1), trades[0].MakerOrderID, "earlier resting order at the same price fills first")
}

func TestAddOrderPartialFillLeavesResidual(t *testing.T) {
	var trades []Trade
	b := newTestBook(&trades)

	require.True(t, b.AddOrder(limitOrder(1, Sell, 100, 3)))
	require.True(t, b.AddOrder(limitOrder(2, Buy, 100, 5)))

	require.Len(t, trades, 1)
	assert.True(t, decimal.NewFromInt(3).Equal(trades[0].Quantity))

	bbo := b.GetBBO()
	require.True(t, bbo.HasBid)
	assert.True(t, decimal.NewFromInt(2).Equal(bbo.BestBidQuantity))
}

func TestAddOrderMarketNeverRests(t *testing.T) {
	var trades []Trade
	b := newTestBook(&trades)

	require.True(t, b.AddOrder(limitOrder(1, Sell, 100, 2)))

	taker := &Order{ID: 2, Side: Buy, Type: Market, Quantity: decimal.NewFromInt(10)}
	require.True(t, b.AddOrder(taker))

	require.Len(t, trades, 1)
	assert.True(t, decimal.NewFromInt(2).Equal(trades[0].Quantity))
	assert.Zero(t, b.restingOrderCount(), "unfilled market residual is discarded, never rested")
}

func TestAddOrderIOCCancelsResidual(t *testing.T) {
	var trades []Trade
	b := newTestBook(&trades)

	require.True(t, b.AddOrder(limitOrder(1, Sell, 100, 2)))

	taker := &Order{
		ID: 2, Side: Buy, Type: IOC,
		Quantity: decimal.NewFromInt(5),
		Price:    decimal.NewNullDecimal(decimal.NewFromInt(100)),
	}
	require.True(t, b.AddOrder(taker))

	require.Len(t, trades, 1)
	assert.Zero(t, b.restingOrderCount())
}

func TestAddOrderFOKRejectsWhenInfeasible(t *testing.T) {
	var trades []Trade
	b := newTestBook(&trades)

	require.True(t, b.AddOrder(limitOrder(1, Sell, 100, 2)))

	taker := &Order{
		ID: 2, Side: Buy, Type: FOK,
		Quantity: decimal.NewFromInt(10),
		Price:    decimal.NewNullDecimal(decimal.NewFromInt(100)),
	}
	require.True(t, b.AddOrder(taker))

	assert.Empty(t, trades, "FOK must not partially fill when full quantity is infeasible")
	assert.True(t, decimal.NewFromInt(2).Equal(b.asks.peekFront().Quantity), "the untouched resting order proves no partial match occurred")
}

func TestAddOrderFOKFillsWhenFeasibleAcrossLevels(t *testing.T) {
	var trades []Trade
	b := newTestBook(&trades)

	require.True(t, b.AddOrder(limitOrder(1, Sell, 100, 2)))
	require.True(t, b.AddOrder(limitOrder(2, Sell, 101, 3)))

	taker := &Order{
		ID: 3, Side: Buy, Type: FOK,
		Quantity: decimal.NewFromInt(5),
		Price:    decimal.NewNullDecimal(decimal.NewFromInt(101)),
	}
	require.True(t, b.AddOrder(taker))

	require.Len(t, trades, 2)
	assert.Zero(t, b.restingOrderCount())
}

func TestCancelOrderRemovesRestingOrder(t *testing.T) {
	var trades []Trade
	b := newTestBook(&trades)

	require.True(t, b.AddOrder(limitOrder(1, Buy, 100, 5)))
	ok := b.CancelOrder(1)
	assert.True(t, ok)
	assert.Zero(t, b.restingOrderCount())

	assert.False(t, b.CancelOrder(1), "cancel is idempotent")
}

func TestModifyOrderChangesQuantityInPlace(t *testing.T) {
	var trades []Trade
	b := newTestBook(&trades)

	require.True(t, b.AddOrder(limitOrder(1, Buy, 100, 5)))
	ok := b.ModifyOrder(1, decimal.NewFromInt(8))
	require.True(t, ok)

	bbo := b.GetBBO()
	assert.True(t, decimal.NewFromInt(8).Equal(bbo.BestBidQuantity))
}

func TestModifyOrderToZeroActsAsCancel(t *testing.T) {
	var trades []Trade
	b := newTestBook(&trades)

	require.True(t, b.AddOrder(limitOrder(1, Buy, 100, 5)))
	ok := b.ModifyOrder(1, decimal.Zero)
	require.True(t, ok)
	assert.Zero(t, b.restingOrderCount())
}

func TestGetOrderBookDepthLimitsLevels(t *testing.T) {
	var trades []Trade
	b := newTestBook(&trades)

	for i := int64(0); i < 5; i++ {
		require.True(t, b.AddOrder(limitOrder(uint64(i+1), Buy, 100-i, 1)))
	}

	depth := b.GetOrderBookDepth(2)
	assert.Len(t, depth.Bids, 2)
	assert.True(t, decimal.NewFromInt(100).Equal(depth.Bids[0].Price))
}
