package obj

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/common"
)

// Camera maps world coordinates, centered on the origin, to a fixed logical
// screen. It follows a target smoothly and never shows space outside the
// world rectangle.
type Camera struct {
	Pos cp.Vector

	screenW int
	screenH int
	zoom    float64

	// smoothing factor (0..1). higher -> faster follow. e.g. 0.15
	smooth float64
	// world half extents (0 means unbounded)
	halfW float64
	halfH float64
}

// NewCamera creates a camera with the given logical screen size and initial zoom.
func NewCamera(screenW, screenH int, zoom float64) *Camera {
	if zoom <= 0 {
		zoom = 1
	}
	return &Camera{screenW: screenW, screenH: screenH, zoom: zoom, smooth: 0.15}
}

// SetZoom updates the camera zoom.
func (c *Camera) SetZoom(z float64) {
	if z <= 0 {
		return
	}
	c.zoom = z
}

func (c *Camera) Zoom() float64 {
	return c.zoom
}

// SetScreenSize updates the logical screen size used by the camera.
func (c *Camera) SetScreenSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.screenW = w
	c.screenH = h
}

// SetWorldBounds limits the view to [-halfW, halfW] x [-halfH, halfH].
func (c *Camera) SetWorldBounds(halfW, halfH float64) {
	c.halfW = halfW
	c.halfH = halfH
}

func (c *Camera) SetSmooth(f float64) {
	c.smooth = cp.Clamp(f, 0, 1)
}

// ViewTopLeft returns the world-space top-left of the current view.
func (c *Camera) ViewTopLeft() cp.Vector {
	return cp.Vector{
		X: c.Pos.X - float64(c.screenW)/c.zoom/2,
		Y: c.Pos.Y - float64(c.screenH)/c.zoom/2,
	}
}

// WorldToScreen converts a world position to screen pixels.
func (c *Camera) WorldToScreen(p cp.Vector) (float32, float32) {
	tl := c.ViewTopLeft()
	return float32((p.X - tl.X) * c.zoom), float32((p.Y - tl.Y) * c.zoom)
}

// ScreenToWorld converts screen pixels to a world position.
func (c *Camera) ScreenToWorld(x, y int) cp.Vector {
	tl := c.ViewTopLeft()
	return cp.Vector{X: tl.X + float64(x)/c.zoom, Y: tl.Y + float64(y)/c.zoom}
}

// Visible reports whether a circle of the given radius overlaps the view.
func (c *Camera) Visible(p cp.Vector, radius float64) bool {
	tl := c.ViewTopLeft()
	w := float64(c.screenW) / c.zoom
	h := float64(c.screenH) / c.zoom
	return p.X+radius >= tl.X && p.X-radius <= tl.X+w &&
		p.Y+radius >= tl.Y && p.Y-radius <= tl.Y+h
}

// Update moves the camera toward target. Call once per simulation tick to
// get consistent smoothing.
func (c *Camera) Update(target cp.Vector) {
	if c.smooth <= 0 || c.smooth >= 1 {
		c.Pos = target
	} else {
		c.Pos.X = common.Lerp(c.Pos.X, target.X, c.smooth)
		c.Pos.Y = common.Lerp(c.Pos.Y, target.Y, c.smooth)
	}
	c.settle()
}

// SnapTo immediately centers the camera on p, e.g. at the start of a run.
func (c *Camera) SnapTo(p cp.Vector) {
	c.Pos = p
	c.settle()
}

// settle snaps to the 1/zoom grid so texels land on whole pixels, then clamps
// to the world bounds.
func (c *Camera) settle() {
	c.Pos.X = math.Round(c.Pos.X*c.zoom) / c.zoom
	c.Pos.Y = math.Round(c.Pos.Y*c.zoom) / c.zoom

	c.Pos.X = clampAxis(c.Pos.X, c.halfW, float64(c.screenW)/c.zoom/2)
	c.Pos.Y = clampAxis(c.Pos.Y, c.halfH, float64(c.screenH)/c.zoom/2)
}

func clampAxis(v, worldHalf, viewHalf float64) float64 {
	if worldHalf <= 0 {
		return v
	}
	limit := worldHalf - viewHalf
	if limit < 0 {
		// world smaller than view: center on world
		return 0
	}
	return cp.Clamp(v, -limit, limit)
}
