package match

import "errors"

var (
	// ErrMissingLimitPrice describes a LIMIT order submitted without a
	// price. OrderBook.AddOrder reports this case as false rather than an
	// error; kept for callers building a typed-error API on top.
	ErrMissingLimitPrice = errors.New("match: limit order requires a price")

	// ErrOrderNotFound describes a cancel/modify against an id that is not
	// resting. OrderBook.CancelOrder/ModifyOrder report this as a bool
	// instead of an error, since the engine applies them asynchronously
	// off its event queue; callers that want a typed error (e.g. a
	// synchronous wrapper, or a protocol handler translating a rejection
	// to a wire error code) can use this sentinel directly.
	ErrOrderNotFound = errors.New("match: order not found")

	// ErrShutdown is returned by engine operations once Shutdown has been requested.
	ErrShutdown = errors.New("match: engine is shutting down")

	// ErrUnknownSymbol describes a read query against a symbol with no
	// book. MatchingEngine.GetBBO/GetOrderBookDepth report this as
	// ok=false rather than an error, for the same reason as
	// ErrOrderNotFound above; kept for callers building a typed-error API
	// on top.
	ErrUnknownSymbol = errors.New("match: unknown symbol")

	// ErrCorruptSnapshot is returned by DecodeSnapshot when the trailing
	// checksum does not match the payload.
	ErrCorruptSnapshot = errors.New("match: corrupt snapshot")
)
