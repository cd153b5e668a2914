package common

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// IsFinite reports whether both components are neither NaN nor infinite.
func IsFinite(v cp.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Direction returns the unit vector pointing from `from` to `to`. The second
// result is false when the points coincide or the direction is not finite.
func Direction(from, to cp.Vector) (cp.Vector, bool) {
	return Normalize(to.Sub(from))
}

// Normalize returns v scaled to unit length, or false for a zero-length or
// non-finite vector. cp.Vector.Normalize quietly returns zero instead.
func Normalize(v cp.Vector) (cp.Vector, bool) {
	l := v.Length()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return cp.Vector{}, false
	}
	out := cp.Vector{X: v.X / l, Y: v.Y / l}
	if !IsFinite(out) {
		return cp.Vector{}, false
	}
	return out, true
}

// RandomInRect returns a uniformly distributed point in [min, max).
func RandomInRect(rng *rand.Rand, min, max cp.Vector) cp.Vector {
	return cp.Vector{
		X: min.X + rng.Float64()*(max.X-min.X),
		Y: min.Y + rng.Float64()*(max.Y-min.Y),
	}
}

// RandomInAnnulus returns a point at a uniform angle and a uniform radius in
// [rMin, rMax) around center.
func RandomInAnnulus(rng *rand.Rand, center cp.Vector, rMin, rMax float64) cp.Vector {
	angle := rng.Float64() * 2 * math.Pi
	r := rMin + rng.Float64()*(rMax-rMin)
	return center.Add(cp.ForAngle(angle).Mult(r))
}

// Clamp returns v limited to the rectangle [min, max].
func Clamp(v, min, max cp.Vector) cp.Vector {
	return cp.Vector{X: cp.Clamp(v.X, min.X, max.X), Y: cp.Clamp(v.Y, min.Y, max.Y)}
}
