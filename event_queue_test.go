package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueueFIFOOrder(t *testing.T) {
	q := newEventQueue(4)
	q.push(OrderEvent{OrderID: 1})
	q.push(OrderEvent{OrderID: 2})
	q.push(OrderEvent{OrderID: 3})

	for _, want := range []uint64{1, 2, 3} {
		ev, ok := q.pop()
		require.True(t, ok)
		assert.Equal(t, want, ev.OrderID)
	}
}

func TestEventQueueCloseDrainsThenStops(t *testing.T) {
	q := newEventQueue(4)
	require.True(t, q.push(OrderEvent{OrderID: 1}))
	q.close()

	assert.False(t, q.push(OrderEvent{OrderID: 2}), "push after close must be rejected")

	ev, ok := q.pop()
	require.True(t, ok, "closed queue must still yield events pushed before close")
	assert.Equal(t, uint64(1), ev.OrderID)

	_, ok = q.pop()
	assert.False(t, ok, "pop on a drained, closed queue returns ok=false")
}

func TestEventQueuePendingStaysPositiveUntilDone(t *testing.T) {
	q := newEventQueue(4)
	q.push(OrderEvent{OrderID: 1})
	assert.EqualValues(t, 1, q.pending())

	_, ok := q.pop()
	require.True(t, ok)
	assert.EqualValues(t, 1, q.pending(), "popped but not yet applied event is still pending")

	q.done()
	assert.EqualValues(t, 0, q.pending())
}

func TestEventQueuePopBlocksUntilPush(t *testing.T) {
	q := newEventQueue(4)
	done := make(chan OrderEvent, 1)

	go func() {
		ev, ok := q.pop()
		if ok {
			done <- ev
		}
	}()

	q.push(OrderEvent{OrderID: 42})
	ev := <-done
	assert.Equal(t, uint64(42), ev.OrderID)
}
