package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DispatchesInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	var calls []string

	bus.Subscribe("first", HandlerFunc(func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.BookID)
		return nil
	}))
	bus.Subscribe("second", HandlerFunc(func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.BookID)
		assert.False(t, e.At.IsZero(), "publish should stamp the event time")
		return nil
	}))

	err := bus.Publish(context.Background(),
		Event{Type: BookLinked, BookID: "b1"},
		Event{Type: BookLinked, BookID: "b2"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"first:b1", "second:b1", "first:b2", "second:b2"}, calls)
}

func TestBus_StopsAtFirstError(t *testing.T) {
	bus := NewBus()
	boom := errors.New("disk full")
	var reached bool

	bus.Subscribe("ledger", HandlerFunc(func(context.Context, Event) error { return boom }))
	bus.Subscribe("trending", HandlerFunc(func(context.Context, Event) error {
		reached = true
		return nil
	}))

	err := bus.Publish(context.Background(), Event{Type: ReviewAdded, BookID: "b1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "ledger handling review.added for book b1")
	assert.False(t, reached)
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, Discard{}.Publish(context.Background(), Event{Type: BookUnlinked}))
}
