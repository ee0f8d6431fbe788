package match

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"

	"github.com/rs/xid"
)

// OrderBookSnapshot is the full recoverable state of a single OrderBook:
// both ladders, best price first, in FIFO order within each level. Taking
// and restoring a snapshot is the only supported way to move a book's
// state across process restarts (spec.md §7).
type OrderBookSnapshot struct {
	ID            string   `json:"id"`
	Symbol        string   `json:"symbol"`
	SchemaVersion int      `json:"schema_version"`
	Bids          []*Order `json:"bids"`
	Asks          []*Order `json:"asks"`
}

// Snapshot captures the book's current state. Safe to call concurrently
// with other operations; it acquires the book's guard for its duration.
func (b *OrderBook) Snapshot() OrderBookSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return OrderBookSnapshot{
		ID:            xid.New().String(),
		Symbol:        b.symbol,
		SchemaVersion: SnapshotSchemaVersion,
		Bids:          drainOrdered(b.bids),
		Asks:          drainOrdered(b.asks),
	}
}

// drainOrdered walks a ladder best-price-first, FIFO-first within each
// level, without mutating it.
func drainOrdered(l *ladder) []*Order {
	out := make([]*Order, 0, l.count)
	for el := l.prices.Front(); el != nil; el = el.Next() {
		lv := el.Value.(*level)
		for o := lv.head; o != nil; o = o.next {
			cp := *o
			cp.next, cp.prev = nil, nil
			out = append(out, &cp)
		}
	}
	return out
}

// Restore replaces the book's entire resting state with snapshot. It is
// meant to run against a freshly constructed, empty OrderBook before the
// engine starts accepting new events; restoring into a book with existing
// resting orders would silently merge state and is the caller's mistake to
// avoid. Restore preserves each order's original FIFO position within its
// level, i.e. maker priority survives a restart.
func (b *OrderBook) Restore(s OrderBookSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.symbol = s.Symbol
	b.bids = newLadder(Buy)
	b.asks = newLadder(Sell)
	b.orderLookup = make(map[uint64]orderLocation)

	for _, o := range s.Bids {
		o.IsActive = true
		b.bids.insert(o, false)
		b.orderLookup[o.ID] = orderLocation{price: o.Price.Decimal, side: Buy}
	}
	for _, o := range s.Asks {
		o.IsActive = true
		b.asks.insert(o, false)
		b.orderLookup[o.ID] = orderLocation{price: o.Price.Decimal, side: Sell}
	}
}

// EncodeSnapshot serializes a snapshot to JSON and appends a trailing
// 4-byte CRC32 footer, following the teacher corpus's
// snapshot.bin layout: [JSON payload][crc32(payload) as uint32 BE].
// DecodeSnapshot verifies the checksum before unmarshaling.
func EncodeSnapshot(s OrderBookSnapshot) ([]byte, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	sum := crc32.ChecksumIEEE(payload)

	var buf bytes.Buffer
	buf.Write(payload)
	if err := binary.Write(&buf, binary.BigEndian, sum); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot is the inverse of EncodeSnapshot. It returns an error if
// the trailing checksum does not match the payload, indicating a
// truncated or corrupted snapshot file.
func DecodeSnapshot(data []byte) (OrderBookSnapshot, error) {
	var s OrderBookSnapshot
	if len(data) < 4 {
		return s, ErrCorruptSnapshot
	}

	payload := data[:len(data)-4]
	want := binary.BigEndian.Uint32(data[len(data)-4:])
	if crc32.ChecksumIEEE(payload) != want {
		return s, ErrCorruptSnapshot
	}

	if err := json.Unmarshal(payload, &s); err != nil {
		return s, err
	}
	return s, nil
}
