package match

import (
	"github.com/huandu/skiplist"
	"github.com/shopspring/decimal"
)

// level is one price bucket: a FIFO-ordered doubly linked list of resting
// orders plus their aggregate quantity. Invariant (spec.md I4): total always
// equals the sum of the list's order quantities, and the list is non-empty
// for as long as the level exists in the ladder.
type level struct {
	price decimal.Decimal
	total decimal.Decimal
	head  *Order
	tail  *Order
	count int
}

// ladder is the price-ordered book for one side of one symbol's OrderBook.
// Levels are kept in a huandu/skiplist keyed by price with a side-specific
// comparator, so Front() is always the best price for that side (spec.md §3,
// §9 "Ladder direction"): bids sort descending, asks ascending.
//
// Deliberately NOT a plain Go map keyed by decimal.Decimal: two decimals
// equal in value but built through different constructors can carry
// different internal scale, so Go's map equality (==) over decimal.Decimal
// is unsafe as a price key (spec.md §9's numerical-hazards warning
// generalizes beyond floats). Every price-keyed lookup instead goes through
// the skiplist's comparator-driven Get, which compares values, not bit
// patterns.
type ladder struct {
	side   Side
	prices *skiplist.SkipList
	orders map[uint64]*Order
	count  int64
}

func newLadder(side Side) *ladder {
	var cmp skiplist.GreaterThanFunc
	if side == Buy {
		cmp = func(lhs, rhs any) int {
			l := lhs.(decimal.Decimal)
			r := rhs.(decimal.Decimal)
			if l.GreaterThan(r) {
				return -1
			} else if l.LessThan(r) {
				return 1
			}
			return 0
		}
	} else {
		cmp = func(lhs, rhs any) int {
			l := lhs.(decimal.Decimal)
			r := rhs.(decimal.Decimal)
			if l.LessThan(r) {
				return -1
			} else if l.GreaterThan(r) {
				return 1
			}
			return 0
		}
	}

	return &ladder{
		side:   side,
		prices: skiplist.New(cmp),
		orders: make(map[uint64]*Order),
	}
}

// order finds a resting order on this side by id.
func (l *ladder) order(id uint64) *Order {
	return l.orders[id]
}

// insert adds an order to its price level, at the tail (time priority), or
// at the head of the level when front is true.
func (l *ladder) insert(o *Order, front bool) {
	var lv *level
	if el := l.prices.Get(o.Price.Decimal); el != nil {
		lv = el.Value.(*level)
	} else {
		lv = &level{price: o.Price.Decimal}
		l.prices.Set(o.Price.Decimal, lv)
	}

	if front {
		o.next = lv.head
		o.prev = nil
		if lv.head != nil {
			lv.head.prev = o
		}
		lv.head = o
		if lv.tail == nil {
			lv.tail = o
		}
	} else {
		o.prev = lv.tail
		o.next = nil
		if lv.tail != nil {
			lv.tail.next = o
		}
		lv.tail = o
		if lv.head == nil {
			lv.head = o
		}
	}

	lv.total = lv.total.Add(o.Quantity)
	lv.count++
	l.orders[o.ID] = o
	l.count++
}

// remove unlinks the order with the given id at the given price (I4: a
// level that empties is removed from the ladder).
func (l *ladder) remove(price decimal.Decimal, id uint64) {
	el := l.prices.Get(price)
	if el == nil {
		return
	}
	lv := el.Value.(*level)

	o, ok := l.orders[id]
	if !ok {
		return
	}

	if o.prev != nil {
		o.prev.next = o.next
	} else {
		lv.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		lv.tail = o.prev
	}
	o.next, o.prev = nil, nil

	lv.total = lv.total.Sub(o.Quantity)
	lv.count--
	delete(l.orders, id)
	l.count--

	if lv.count == 0 {
		l.prices.RemoveElement(el)
	}
}

// updateQuantity changes a resting order's remaining quantity in place,
// without touching its position in the FIFO list (spec.md §9 "Modify does
// not re-queue").
func (l *ladder) updateQuantity(o *Order, newQuantity decimal.Decimal) {
	if el := l.prices.Get(o.Price.Decimal); el != nil {
		lv := el.Value.(*level)
		lv.total = lv.total.Add(newQuantity.Sub(o.Quantity))
	}
	o.Quantity = newQuantity
}

// peekFront returns the best resting order without removing it, or nil.
func (l *ladder) peekFront() *Order {
	el := l.prices.Front()
	if el == nil {
		return nil
	}
	return el.Value.(*level).head
}

// popFront removes and returns the best resting order, or nil.
func (l *ladder) popFront() *Order {
	o := l.peekFront()
	if o != nil {
		l.remove(o.Price.Decimal, o.ID)
	}
	return o
}

// frontLevel returns the best price level's skiplist element without
// removing anything, used by the FOK feasibility pre-check to walk levels
// without mutating the book.
func (l *ladder) frontLevel() *skiplist.Element {
	return l.prices.Front()
}

// depth returns up to limit levels, best price first.
func (l *ladder) depth(limit int) []PriceLevelView {
	out := make([]PriceLevelView, 0, limit)
	el := l.prices.Front()
	for i := 0; i < limit && el != nil; i++ {
		lv := el.Value.(*level)
		out = append(out, PriceLevelView{Price: lv.price, Quantity: lv.total})
		el = el.Next()
	}
	return out
}

// orderCount returns the number of resting orders on this side.
func (l *ladder) orderCount() int64 {
	return l.count
}
