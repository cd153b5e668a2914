package ecs

// SparseSet is a cache-friendly storage for components keyed by entity slot.
// Values live in a dense slice; iteration order changes on removal.
type SparseSet[T any] struct {
	denseEntities []Entity
	denseValues   []T
	sparse        []int
}

// Has returns true if the exact handle (slot and generation) is stored.
func (s *SparseSet[T]) Has(e Entity) bool {
	idx, ok := s.index(e)
	return ok && s.denseEntities[idx] == e
}

func (s *SparseSet[T]) index(e Entity) (int, bool) {
	if s == nil || !e.Valid() {
		return 0, false
	}
	slot := e.Index() - 1
	if slot >= len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[slot]
	if idx < 0 || idx >= len(s.denseEntities) {
		return 0, false
	}
	return idx, true
}

// Get returns a pointer to the stored value, or nil. The pointer is valid
// until the next Set or Remove.
func (s *SparseSet[T]) Get(e Entity) *T {
	if !s.Has(e) {
		return nil
	}
	return &s.denseValues[s.sparse[e.Index()-1]]
}

// Set inserts or updates the value for e. A stale handle occupying the same
// slot is replaced.
func (s *SparseSet[T]) Set(e Entity, v T) {
	if s == nil || !e.Valid() {
		return
	}
	slot := e.Index() - 1
	for slot >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if idx, ok := s.index(e); ok {
		s.denseEntities[idx] = e
		s.denseValues[idx] = v
		return
	}
	s.denseEntities = append(s.denseEntities, e)
	s.denseValues = append(s.denseValues, v)
	s.sparse[slot] = len(s.denseEntities) - 1
}

// Remove deletes the value for e if present and reports whether it did.
func (s *SparseSet[T]) Remove(e Entity) bool {
	if !s.Has(e) {
		return false
	}
	slot := e.Index() - 1
	idx := s.sparse[slot]
	last := len(s.denseEntities) - 1
	lastEntity := s.denseEntities[last]

	s.denseEntities[idx] = lastEntity
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[lastEntity.Index()-1] = idx

	var zero T
	s.denseValues[last] = zero
	s.denseEntities = s.denseEntities[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[slot] = -1
	return true
}

// Len returns the number of stored values.
func (s *SparseSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseEntities)
}

// Entities returns the dense entity list. Callers must not modify it.
func (s *SparseSet[T]) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.denseEntities
}

// Values returns the dense value list. Callers may modify elements in place.
func (s *SparseSet[T]) Values() []T {
	if s == nil {
		return nil
	}
	return s.denseValues
}

// Each calls f for every stored value. f must not add or remove entries.
func (s *SparseSet[T]) Each(f func(e Entity, v *T)) {
	if s == nil || f == nil {
		return
	}
	for i := range s.denseValues {
		f(s.denseEntities[i], &s.denseValues[i])
	}
}

// Clear removes every entry but keeps allocated capacity.
func (s *SparseSet[T]) Clear() {
	if s == nil {
		return
	}
	var zero T
	for i := range s.denseValues {
		s.denseValues[i] = zero
	}
	s.denseEntities = s.denseEntities[:0]
	s.denseValues = s.denseValues[:0]
	for i := range s.sparse {
		s.sparse[i] = -1
	}
}
