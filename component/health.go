package component

// Health is a reusable health record for anything that can take damage.
// Current is never clamped: overkill leaves it negative.
type Health struct {
	Max     float64
	Current float64

	OnDamage func(h *Health, amount float64)
	OnDeath  func(h *Health)
}

// NewHealth creates a Health with max/current initialized.
func NewHealth(max float64) Health {
	if max <= 0 {
		max = 1
	}
	return Health{Max: max, Current: max}
}

// Alive reports whether the owner is still alive.
func (h *Health) Alive() bool {
	return h != nil && h.Current > 0
}

// ApplyDamage subtracts amount. Returns true when this call crossed the
// owner from alive to dead.
func (h *Health) ApplyDamage(amount float64) bool {
	if h == nil || amount <= 0 {
		return false
	}
	wasAlive := h.Current > 0
	h.Current -= amount
	if h.OnDamage != nil {
		h.OnDamage(h, amount)
	}
	if wasAlive && h.Current <= 0 {
		if h.OnDeath != nil {
			h.OnDeath(h)
		}
		return true
	}
	return false
}

// Fraction returns Current/Max clamped to [0, 1] for display.
func (h *Health) Fraction() float64 {
	if h == nil || h.Max <= 0 {
		return 0
	}
	f := h.Current / h.Max
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
