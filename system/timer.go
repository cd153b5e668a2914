package system

import "math"

// Timer is a repeating wall-clock timer polled once per tick.
type Timer struct {
	Interval float64
	elapsed  float64
}

func NewTimer(interval float64) Timer {
	return Timer{Interval: interval}
}

// Tick advances the timer by dt and reports whether it fired. It fires at
// most once per call; the remainder carries over so the cadence stays
// independent of the frame rate. An interval <= 0 fires every tick.
func (t *Timer) Tick(dt float64) bool {
	if t.Interval <= 0 {
		return true
	}
	t.elapsed += dt
	if t.elapsed < t.Interval {
		return false
	}
	t.elapsed = math.Mod(t.elapsed, t.Interval)
	return true
}

// Reset clears the accumulated time.
func (t *Timer) Reset() {
	t.elapsed = 0
}
