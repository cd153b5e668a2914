package spatial

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/ecs"
)

// Linear scans every point on each query.
type Linear struct {
	points []Point
}

func NewLinear() *Linear {
	return &Linear{}
}

func (l *Linear) Rebuild(points []Point) {
	l.points = append(l.points[:0], points...)
}

func (l *Linear) QueryRadius(center cp.Vector, radius float64) []ecs.Entity {
	if radius < 0 || len(l.points) == 0 {
		return nil
	}
	var out []ecs.Entity
	for _, p := range l.points {
		if within(p.Pos, center, radius) {
			out = append(out, p.ID)
		}
	}
	return out
}

func (l *Linear) Len() int {
	return len(l.points)
}
