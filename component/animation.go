package component

// Animator cycles a frame cursor on a repeating timer. Frames are indices
// into a sprite row starting at Base.
type Animator struct {
	Interval float64
	Frames   int
	Base     int

	elapsed float64
	current int
}

// NewAnimator creates an animator advancing one frame every interval seconds.
func NewAnimator(interval float64, base, frames int) Animator {
	if frames <= 0 {
		frames = 1
	}
	return Animator{Interval: interval, Base: base, Frames: frames}
}

// Tick advances the timer and reports whether the frame changed. A long
// tick advances at most one frame, like a repeating timer polled once.
func (a *Animator) Tick(dt float64) bool {
	if a == nil || a.Interval <= 0 || a.Frames <= 1 {
		return false
	}
	a.elapsed += dt
	if a.elapsed < a.Interval {
		return false
	}
	for a.elapsed >= a.Interval {
		a.elapsed -= a.Interval
	}
	a.current = (a.current + 1) % a.Frames
	return true
}

// SetBase switches to another animation row without resetting the cursor.
func (a *Animator) SetBase(base int) {
	if a == nil {
		return
	}
	a.Base = base
}

// Frame returns the absolute sprite index.
func (a *Animator) Frame() int {
	if a == nil {
		return 0
	}
	return a.Base + a.current
}

// Reset rewinds to the first frame.
func (a *Animator) Reset() {
	if a == nil {
		return
	}
	a.elapsed = 0
	a.current = 0
}
