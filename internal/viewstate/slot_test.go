package viewstate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlot(t *testing.T) {
	t.Run("subscribe delivers current value", func(t *testing.T) {
		s := NewSlot("initial")
		ch, unsubscribe := s.Subscribe()
		defer unsubscribe()

		assert.Equal(t, "initial", <-ch)
	})

	t.Run("pending values are replaced by the latest", func(t *testing.T) {
		s := NewSlot(0)
		ch, unsubscribe := s.Subscribe()
		defer unsubscribe()

		s.Set(1)
		s.Set(2)
		s.Set(3)

		require.Len(t, ch, 1)
		assert.Equal(t, 3, <-ch)
		assert.Equal(t, uint64(3), s.Version())
		assert.Equal(t, 3, s.Get())
	})

	t.Run("unsubscribe closes the channel", func(t *testing.T) {
		s := NewSlot(0)
		ch, unsubscribe := s.Subscribe()
		<-ch
		unsubscribe()
		unsubscribe()

		_, ok := <-ch
		assert.False(t, ok)
		assert.NotPanics(t, func() { s.Set(1) })
	})
}

func TestResource(t *testing.T) {
	t.Run("older ticket cannot overwrite newer result", func(t *testing.T) {
		r := newResource("")
		first := r.begin()
		second := r.begin()

		assert.True(t, r.publish(second, "second", nil))
		assert.False(t, r.publish(first, "first", nil))
		assert.Equal(t, "second", r.Data.Get())
	})

	t.Run("older ticket may publish before newer one", func(t *testing.T) {
		r := newResource("")
		first := r.begin()
		second := r.begin()

		assert.True(t, r.publish(first, "first", nil))
		assert.True(t, r.publish(second, "second", nil))
		assert.Equal(t, "second", r.Data.Get())
	})

	t.Run("failure keeps stale data and sets error", func(t *testing.T) {
		r := newResource("")
		r.publish(r.begin(), "loaded", nil)

		boom := errors.New("boom")
		r.publish(r.begin(), "", boom)
		assert.Equal(t, "loaded", r.Data.Get())
		assert.Equal(t, boom, r.Err.Get())

		r.publish(r.begin(), "reloaded", nil)
		assert.Equal(t, "reloaded", r.Data.Get())
		assert.NoError(t, r.Err.Get())
	})

	t.Run("publishLatest accepts only the latest ticket", func(t *testing.T) {
		r := newResource("")
		first := r.begin()
		assert.True(t, r.publishLatest(first, "a", nil))
		assert.True(t, r.publishLatest(first, "a again", nil))

		second := r.begin()
		assert.False(t, r.publishLatest(first, "stale", nil))
		assert.True(t, r.publishLatest(second, "b", nil))
		assert.Equal(t, "b", r.Data.Get())
	})
}

func TestFlag(t *testing.T) {
	f := newFlag()
	assert.False(t, f.Get())

	f.inc()
	f.inc()
	assert.True(t, f.Get())

	f.dec()
	assert.True(t, f.Get(), "still one operation in flight")

	f.dec()
	assert.False(t, f.Get())

	f.dec()
	assert.False(t, f.Get(), "extra dec must not go negative")
}
