package session

import "time"

const (
	// DefaultWindowSize is how many send timestamps the rate guard keeps.
	DefaultWindowSize = 500
	// DefaultWindowSpan is the period the exchange measures its limit over.
	DefaultWindowSpan = time.Second
)

// RateWindow is a fixed-capacity ring of the most recent send times.
type RateWindow struct {
	times []time.Time
	span  time.Duration
	next  int
	full  bool
}

func NewRateWindow(size int, span time.Duration) *RateWindow {
	if size <= 0 {
		size = DefaultWindowSize
	}
	if span <= 0 {
		span = DefaultWindowSpan
	}
	return &RateWindow{times: make([]time.Time, size), span: span}
}

// Record appends a send time, evicting the oldest once full. It reports
// whether the window is full and its oldest entry is within span of now,
// i.e. the client is sending faster than size messages per span.
func (w *RateWindow) Record(now time.Time) bool {
	w.times[w.next] = now
	w.next = (w.next + 1) % len(w.times)
	if w.next == 0 {
		w.full = true
	}
	if !w.full {
		return false
	}
	return w.Oldest().After(now.Add(-w.span))
}

func (w *RateWindow) Len() int {
	if w.full {
		return len(w.times)
	}
	return w.next
}

// Oldest returns the earliest recorded time still in the window.
func (w *RateWindow) Oldest() time.Time {
	if !w.full {
		return w.times[0]
	}
	return w.times[w.next]
}
