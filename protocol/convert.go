package protocol

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	match "github.com/clobcore/matching-engine"
)

// ToMatchSide converts a wire Side to match.Side.
func ToMatchSide(s Side) match.Side {
	if s == SideBuy {
		return match.Buy
	}
	return match.Sell
}

// FromMatchSide converts a match.Side to its wire encoding.
func FromMatchSide(s match.Side) Side {
	if s == match.Buy {
		return SideBuy
	}
	return SideSell
}

// ToMatchOrderType converts a wire OrderType to match.OrderType.
func ToMatchOrderType(t OrderType) match.OrderType {
	switch t {
	case OrderTypeMarket:
		return match.Market
	case OrderTypeIOC:
		return match.IOC
	case OrderTypeFOK:
		return match.FOK
	default:
		return match.Limit
	}
}

// ToOrder converts a PlaceOrderRequest into a match.Order. Quantity must
// parse as a decimal; an empty Price is left invalid, matching a MARKET
// order or a priceless IOC/FOK.
func ToOrder(req PlaceOrderRequest) (*match.Order, error) {
	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return nil, errors.Wrapf(err, "parse quantity %q", req.Quantity)
	}

	o := &match.Order{
		ID:       req.OrderID,
		Symbol:   req.Symbol,
		Side:     ToMatchSide(req.Side),
		Type:     ToMatchOrderType(req.Type),
		Quantity: qty,
	}

	if req.Price != "" {
		p, err := decimal.NewFromString(req.Price)
		if err != nil {
			return nil, errors.Wrapf(err, "parse price %q", req.Price)
		}
		o.Price = decimal.NewNullDecimal(p)
	}

	return o, nil
}

// FromTrade converts a match.Trade to its wire representation.
func FromTrade(t match.Trade) TradeEvent {
	return TradeEvent{
		MakerOrderID:  t.MakerOrderID,
		TakerOrderID:  t.TakerOrderID,
		Symbol:        t.Symbol,
		Price:         t.Price.String(),
		Quantity:      t.Quantity.String(),
		AggressorSide: FromMatchSide(t.AggressorSide),
		Timestamp:     t.Timestamp,
	}
}

// FromDepth converts a match.Depth to its wire representation.
func FromDepth(symbol string, d match.Depth) DepthResponse {
	out := DepthResponse{
		Symbol: symbol,
		Bids:   make([]DepthLevel, len(d.Bids)),
		Asks:   make([]DepthLevel, len(d.Asks)),
	}
	for i, lv := range d.Bids {
		out.Bids[i] = DepthLevel{Price: lv.Price.String(), Quantity: lv.Quantity.String()}
	}
	for i, lv := range d.Asks {
		out.Asks[i] = DepthLevel{Price: lv.Price.String(), Quantity: lv.Quantity.String()}
	}
	return out
}

// FromBBO converts a match.BestBidOffer to its wire representation. Sides
// with no resting liquidity are left as empty strings.
func FromBBO(symbol string, bbo match.BestBidOffer) BBOResponse {
	out := BBOResponse{Symbol: symbol}
	if bbo.HasBid {
		out.BestBid = bbo.BestBid.String()
		out.BestBidQuantity = bbo.BestBidQuantity.String()
	}
	if bbo.HasOffer {
		out.BestOffer = bbo.BestOffer.String()
		out.BestOfferQuantity = bbo.BestOfferQuantity.String()
	}
	return out
}
