// Package spatial holds the point indices used for proximity queries.
//
// Every index is a snapshot: QueryRadius reflects positions as of the last
// Rebuild, never the live positions of the entities.
package spatial

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/ecs"
)

// Point is one indexed position.
type Point struct {
	ID  ecs.Entity
	Pos cp.Vector
}

// Index answers radius queries over a set of points.
type Index interface {
	// Rebuild replaces the whole content of the index.
	Rebuild(points []Point)
	// QueryRadius returns every id whose stored position is within radius
	// (inclusive) of center. The order is unspecified.
	QueryRadius(center cp.Vector, radius float64) []ecs.Entity
	Len() int
}

const (
	KindKDTree = "kdtree"
	KindGrid   = "grid"
	KindLinear = "linear"
)

var ErrUnknownKind = errors.New("spatial: unknown index kind")

// New builds an empty index of the requested kind. cellSize is only used by
// the grid.
func New(kind string, cellSize float64) (Index, error) {
	switch kind {
	case KindKDTree, "":
		return NewKDTree(), nil
	case KindGrid:
		if cellSize <= 0 {
			return nil, fmt.Errorf("spatial: grid cell size %v must be positive", cellSize)
		}
		return NewHashGrid(cellSize), nil
	case KindLinear:
		return NewLinear(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func within(a, b cp.Vector, radius float64) bool {
	return a.DistanceSq(b) <= radius*radius
}
