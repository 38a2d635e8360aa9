package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeNotifier(t *testing.T) {
	t.Run("delivers only subscribed tables", func(t *testing.T) {
		n := NewChangeNotifier()
		ch, unsubscribe := n.Subscribe("movies")
		defer unsubscribe()

		n.Publish("genres")
		select {
		case table := <-ch:
			t.Fatalf("unexpected signal for %s", table)
		default:
		}

		n.Publish("movies")
		select {
		case table := <-ch:
			assert.Equal(t, "movies", table)
		case <-time.After(time.Second):
			t.Fatal("expected signal")
		}
	})

	t.Run("coalesces pending signals", func(t *testing.T) {
		n := NewChangeNotifier()
		ch, unsubscribe := n.Subscribe()
		defer unsubscribe()

		n.Publish("movies")
		n.Publish("movies")
		n.Publish("genres")

		require.Len(t, ch, 1)
		<-ch
		assert.Len(t, ch, 0)
	})

	t.Run("unsubscribe closes the channel", func(t *testing.T) {
		n := NewChangeNotifier()
		ch, unsubscribe := n.Subscribe()
		unsubscribe()
		unsubscribe()

		_, ok := <-ch
		assert.False(t, ok)

		// Publishing after unsubscribe must not panic.
		n.Publish("movies")
	})

	t.Run("nil notifier ignores publish", func(t *testing.T) {
		var n *ChangeNotifier
		assert.NotPanics(t, func() { n.Publish("movies") })
	})
}
