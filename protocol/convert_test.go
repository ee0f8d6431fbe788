package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	match "github.com/clobcore/matching-engine"
)

func TestToOrderParsesLimitOrder(t *testing.T) {
	o, err := ToOrder(PlaceOrderRequest{
		OrderID:  1,
		Symbol:   "BTC-USD",
		Side:     SideBuy,
		Type:     OrderTypeLimit,
		Quantity: "1.5",
		Price:    "100.25",
	})
	require.NoError(t, err)
	assert.Equal(t, match.Buy, o.Side)
	assert.Equal(t, match.Limit, o.Type)
	assert.True(t, o.Price.Valid)
}

func TestToOrderLeavesMarketPriceInvalid(t *testing.T) {
	o, err := ToOrder(PlaceOrderRequest{
		OrderID:  1,
		Symbol:   "BTC-USD",
		Side:     SideSell,
		Type:     OrderTypeMarket,
		Quantity: "2",
	})
	require.NoError(t, err)
	assert.False(t, o.Price.Valid)
}

func TestToOrderRejectsBadQuantity(t *testing.T) {
	_, err := ToOrder(PlaceOrderRequest{Quantity: "not-a-number"})
	assert.Error(t, err)
}

func TestFromTradeCarriesValues(t *testing.T) {
	t0 := match.Trade{
		MakerOrderID: 1, TakerOrderID: 2, Symbol: "BTC-USD",
		AggressorSide: match.Sell,
	}
	ev := FromTrade(t0)
	assert.Equal(t, SideSell, ev.AggressorSide)
	assert.Equal(t, "BTC-USD", ev.Symbol)
}

func TestFromBBOOmitsEmptySides(t *testing.T) {
	resp := FromBBO("BTC-USD", match.BestBidOffer{HasBid: false, HasOffer: false})
	assert.Empty(t, resp.BestBid)
	assert.Empty(t, resp.BestOffer)
}
