package obj

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func TestCameraClampsToWorld(t *testing.T) {
	cases := []struct {
		name   string
		target cp.Vector
		want   cp.Vector
	}{
		{"center", cp.Vector{}, cp.Vector{}},
		{"inside", cp.Vector{X: 100, Y: -50}, cp.Vector{X: 100, Y: -50}},
		{"right_edge", cp.Vector{X: 1400}, cp.Vector{X: 1500 - 640}},
		{"bottom_left", cp.Vector{X: -5000, Y: 5000}, cp.Vector{X: -(1500 - 640), Y: 1250 - 360}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cam := NewCamera(1280, 720, 1)
			cam.SetWorldBounds(1500, 1250)
			cam.SnapTo(c.target)
			if cam.Pos != c.want {
				t.Fatalf("pos = %v, want %v", cam.Pos, c.want)
			}
		})
	}
}

func TestCameraCentersSmallWorld(t *testing.T) {
	cam := NewCamera(1280, 720, 1)
	cam.SetWorldBounds(100, 100)
	cam.SnapTo(cp.Vector{X: 80, Y: -80})
	if cam.Pos != (cp.Vector{}) {
		t.Fatalf("small world should stay centered, got %v", cam.Pos)
	}
}

func TestCameraScreenRoundTrip(t *testing.T) {
	cam := NewCamera(1280, 720, 2)
	cam.SnapTo(cp.Vector{X: 10, Y: 20})

	x, y := cam.WorldToScreen(cp.Vector{X: 10, Y: 20})
	if x != 640 || y != 360 {
		t.Fatalf("camera center should map to screen center, got %v,%v", x, y)
	}
	p := cam.ScreenToWorld(640+40, 360-20)
	if p != (cp.Vector{X: 30, Y: 10}) {
		t.Fatalf("screen to world = %v", p)
	}
	if !cam.Visible(cp.Vector{X: 10 + 320, Y: 20}, 0) || cam.Visible(cp.Vector{X: 10 + 400, Y: 20}, 5) {
		t.Fatalf("visibility is off")
	}
}

func TestCameraSmoothFollow(t *testing.T) {
	cam := NewCamera(1280, 720, 1)
	cam.SetSmooth(0.5)
	cam.Update(cp.Vector{X: 100})
	if cam.Pos.X != 50 {
		t.Fatalf("expected halfway, got %v", cam.Pos.X)
	}
	cam.SetSmooth(0)
	cam.Update(cp.Vector{X: 100})
	if cam.Pos.X != 100 {
		t.Fatalf("zero smoothing should jump, got %v", cam.Pos.X)
	}
}
