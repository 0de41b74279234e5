package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typetest/internal/model"
)

func TestCountdownExpiresOnce(t *testing.T) {
	c := New(model.ModeTime, 15)
	require.Equal(t, 15, c.Seconds())
	c.Start()

	expiries := 0
	for i := 1; i <= 15; i++ {
		tick, ok := c.Advance()
		require.True(t, ok)
		assert.Equal(t, 15-i, tick.Seconds)
		assert.Equal(t, i, tick.Elapsed)
		if tick.Expired {
			expiries++
			assert.Equal(t, 15, i, "expiry must land on the tick reaching zero")
		}
	}
	for i := 0; i < 3; i++ {
		tick, ok := c.Advance()
		require.True(t, ok)
		assert.Equal(t, 0, tick.Seconds)
		assert.False(t, tick.Expired)
	}
	assert.Equal(t, 1, expiries)
}

func TestCountUpIsUnbounded(t *testing.T) {
	c := New(model.ModeWords, 0)
	c.Start()
	for i := 1; i <= 120; i++ {
		tick, ok := c.Advance()
		require.True(t, ok)
		require.Equal(t, i, tick.Seconds)
		require.False(t, tick.Expired)
	}
}

func TestStoppedClockIgnoresTicks(t *testing.T) {
	c := New(model.ModeWords, 0)
	_, ok := c.Advance()
	assert.False(t, ok)

	c.Stop()
	c.Stop()
	assert.False(t, c.Running())

	c.Start()
	gen := c.Generation()
	c.Advance()
	c.Stop()
	assert.NotEqual(t, gen, c.Generation())
	_, ok = c.Advance()
	assert.False(t, ok)
	assert.Equal(t, 1, c.Seconds())
}

func TestResetRewinds(t *testing.T) {
	c := New(model.ModeTime, 30)
	c.Start()
	c.Advance()
	c.Advance()
	c.Reset(model.ModeTime, 30)
	assert.False(t, c.Running())
	assert.Equal(t, 30, c.Seconds())
	assert.Equal(t, 0, c.Elapsed())

	c.Reset(model.ModeWords, 30)
	assert.Equal(t, 0, c.Seconds())
}
