package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateWindowSaturation(t *testing.T) {
	w := NewRateWindow(3, time.Second)
	t0 := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	assert.False(t, w.Record(t0))
	assert.False(t, w.Record(t0.Add(100*time.Millisecond)))
	assert.Equal(t, 2, w.Len())

	// third send fills the window inside one second
	assert.True(t, w.Record(t0.Add(200*time.Millisecond)))
	assert.Equal(t, 3, w.Len())
	assert.Equal(t, t0, w.Oldest())

	// oldest is now t0+100ms, more than a second before
	assert.False(t, w.Record(t0.Add(1200*time.Millisecond)))
	assert.Equal(t, t0.Add(200*time.Millisecond), w.Oldest())
}

func TestRateWindowBoundaryIsExclusive(t *testing.T) {
	w := NewRateWindow(2, time.Second)
	t0 := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	w.Record(t0)
	assert.False(t, w.Record(t0.Add(time.Second)))
}

func TestRateWindowDefaults(t *testing.T) {
	w := NewRateWindow(0, 0)
	assert.Equal(t, DefaultWindowSize, len(w.times))
	assert.Equal(t, DefaultWindowSpan, w.span)
}
