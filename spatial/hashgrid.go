package spatial

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/ecs"
)

// HashGrid stores points as zero-radius static shapes in a chipmunk space
// using its spatial hash broadphase.
type HashGrid struct {
	cellSize float64
	space    *cp.Space
	count    int
}

func NewHashGrid(cellSize float64) *HashGrid {
	g := &HashGrid{cellSize: cellSize}
	g.reset(0)
	return g
}

func (g *HashGrid) reset(n int) {
	g.space = cp.NewSpace()
	cells := n * 2
	if cells < 1000 {
		cells = 1000
	}
	g.space.UseSpatialHash(g.cellSize, cells)
	g.count = 0
}

func (g *HashGrid) Rebuild(points []Point) {
	g.reset(len(points))
	body := g.space.StaticBody
	for _, p := range points {
		shape := cp.NewCircle(body, 0, p.Pos)
		shape.UserData = p
		g.space.AddShape(shape)
	}
	g.count = len(points)
}

func (g *HashGrid) QueryRadius(center cp.Vector, radius float64) []ecs.Entity {
	if radius < 0 || g.count == 0 {
		return nil
	}
	var out []ecs.Entity
	g.space.BBQuery(cp.NewBBForCircle(center, radius), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		p, ok := shape.UserData.(Point)
		if ok && within(p.Pos, center, radius) {
			out = append(out, p.ID)
		}
	}, nil)
	return out
}

func (g *HashGrid) Len() int {
	return g.count
}
