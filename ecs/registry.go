package ecs

// Registry tracks entity generations and free ids.
type Registry struct {
	gen   []generation
	free  []entityID
	alive int
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Create allocates a handle, recycling a freed slot when one is available.
func (r *Registry) Create() Entity {
	if r == nil {
		return 0
	}
	r.alive++
	if n := len(r.free); n > 0 {
		id := r.free[n-1]
		r.free = r.free[:n-1]
		return makeEntity(id, r.gen[id-1])
	}
	r.gen = append(r.gen, 0)
	return makeEntity(entityID(len(r.gen)), 0)
}

// Destroy invalidates e. It returns true only for the call that actually
// killed the entity; stale or already-destroyed handles return false.
func (r *Registry) Destroy(e Entity) bool {
	if !r.IsAlive(e) {
		return false
	}
	id := e.id()
	r.gen[id-1]++
	r.free = append(r.free, id)
	r.alive--
	return true
}

// IsAlive reports whether an entity handle is valid.
func (r *Registry) IsAlive(e Entity) bool {
	if r == nil || !e.Valid() || int(e.id()) > len(r.gen) {
		return false
	}
	return r.gen[e.id()-1] == e.generation()
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return r.alive
}

// Reset drops every entity. Handles issued before the reset stay dead.
func (r *Registry) Reset() {
	if r == nil {
		return
	}
	freed := make([]bool, len(r.gen))
	for _, id := range r.free {
		freed[id-1] = true
	}
	for i := range r.gen {
		if !freed[i] {
			r.gen[i]++
			r.free = append(r.free, entityID(i+1))
		}
	}
	r.alive = 0
}
