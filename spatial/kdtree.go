package spatial

import (
	"math"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/ecs"
)

type kdNode struct {
	point       Point
	axis        int
	left, right int // -1 when absent
}

// KDTree is a 2-d tree built by median split on alternating axes.
type KDTree struct {
	nodes   []kdNode
	root    int
	scratch []Point
}

func NewKDTree() *KDTree {
	return &KDTree{root: -1}
}

func (t *KDTree) Rebuild(points []Point) {
	t.nodes = t.nodes[:0]
	t.scratch = append(t.scratch[:0], points...)
	t.root = t.build(t.scratch, 0)
}

func axisValue(v cp.Vector, axis int) float64 {
	if axis == 0 {
		return v.X
	}
	return v.Y
}

func (t *KDTree) build(pts []Point, depth int) int {
	if len(pts) == 0 {
		return -1
	}
	axis := depth % 2
	slices.SortFunc(pts, func(a, b Point) int {
		av, bv := axisValue(a.Pos, axis), axisValue(b.Pos, axis)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	})
	mid := len(pts) / 2
	idx := len(t.nodes)
	t.nodes = append(t.nodes, kdNode{point: pts[mid], axis: axis, left: -1, right: -1})
	left := t.build(pts[:mid], depth+1)
	right := t.build(pts[mid+1:], depth+1)
	t.nodes[idx].left = left
	t.nodes[idx].right = right
	return idx
}

func (t *KDTree) QueryRadius(center cp.Vector, radius float64) []ecs.Entity {
	if radius < 0 || t.root < 0 {
		return nil
	}
	var out []ecs.Entity
	stack := []int{t.root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[i]
		if within(n.point.Pos, center, radius) {
			out = append(out, n.point.ID)
		}
		d := axisValue(center, n.axis) - axisValue(n.point.Pos, n.axis)
		// Equal keys can land on either side of the split.
		if d-radius <= 0 && n.left >= 0 {
			stack = append(stack, n.left)
		}
		if d+radius >= 0 && n.right >= 0 {
			stack = append(stack, n.right)
		}
	}
	return out
}

// Nearest returns the stored point closest to center.
func (t *KDTree) Nearest(center cp.Vector) (Point, bool) {
	if t.root < 0 {
		return Point{}, false
	}
	best := -1
	bestDist := math.Inf(1)
	var walk func(i int)
	walk = func(i int) {
		if i < 0 {
			return
		}
		n := &t.nodes[i]
		if d := n.point.Pos.DistanceSq(center); d < bestDist {
			bestDist = d
			best = i
		}
		d := axisValue(center, n.axis) - axisValue(n.point.Pos, n.axis)
		near, far := n.left, n.right
		if d > 0 {
			near, far = far, near
		}
		walk(near)
		if d*d <= bestDist {
			walk(far)
		}
	}
	walk(t.root)
	return t.nodes[best].point, true
}

func (t *KDTree) Len() int {
	return len(t.nodes)
}
