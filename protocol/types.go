// Package protocol defines the wire representation of orders, trades, and
// depth, independent of the matching core's internal decimal.Decimal and
// intrusive-list types (spec.md §6).
package protocol

// Side is the wire encoding of match.Side: "buy" or "sell".
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderType is the wire encoding of match.OrderType.
type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
	OrderTypeIOC    OrderType = "ioc"
	OrderTypeFOK    OrderType = "fok"
)

// PlaceOrderRequest is the inbound payload for a new order submission.
// Price is a decimal string, omitted for MARKET orders.
type PlaceOrderRequest struct {
	OrderID  uint64    `json:"order_id"`
	Symbol   string    `json:"symbol"`
	Side     Side      `json:"side"`
	Type     OrderType `json:"type"`
	Quantity string    `json:"quantity"`
	Price    string    `json:"price,omitempty"`
}

// CancelOrderRequest is the inbound payload for a cancel.
type CancelOrderRequest struct {
	Symbol  string `json:"symbol"`
	OrderID uint64 `json:"order_id"`
}

// ModifyOrderRequest is the inbound payload for a quantity change.
type ModifyOrderRequest struct {
	Symbol      string `json:"symbol"`
	OrderID     uint64 `json:"order_id"`
	NewQuantity string `json:"new_quantity"`
}

// TradeEvent is the outbound wire representation of a match.Trade.
type TradeEvent struct {
	MakerOrderID  uint64 `json:"maker_order_id"`
	TakerOrderID  uint64 `json:"taker_order_id"`
	Symbol        string `json:"symbol"`
	Price         string `json:"price"`
	Quantity      string `json:"quantity"`
	AggressorSide Side   `json:"aggressor_side"`
	Timestamp     int64  `json:"timestamp"`
}

// DepthLevel is one price/quantity pair in a DepthResponse.
type DepthLevel struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// DepthResponse is the outbound wire representation of match.Depth: a
// labeled pair of bid/ask levels (spec.md §9's depth-tagging resolution).
type DepthResponse struct {
	Symbol string       `json:"symbol"`
	Bids   []DepthLevel `json:"bids"`
	Asks   []DepthLevel `json:"asks"`
}

// BBOResponse is the outbound wire representation of match.BestBidOffer.
type BBOResponse struct {
	Symbol            string `json:"symbol"`
	BestBid           string `json:"best_bid,omitempty"`
	BestBidQuantity   string `json:"best_bid_quantity,omitempty"`
	BestOffer         string `json:"best_offer,omitempty"`
	BestOfferQuantity string `json:"best_offer_quantity,omitempty"`
}
