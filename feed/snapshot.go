// Package feed streams simulation snapshots to remote viewers over
// WebSockets.
package feed

import (
	"github.com/milk9111/survivors/component"
	"github.com/milk9111/survivors/system"
)

type PlayerView struct {
	X, Y   float64
	Health float64
	Alive  bool
	Angle  float64
}

type TargetView struct {
	ID     uint64
	X, Y   float64
	Health float64
}

// Snapshot is one frame of the alive-target set plus the targets removed
// since the previous frame.
type Snapshot struct {
	Tick       uint64
	Elapsed    float64
	Player     PlayerView
	Targets    []TargetView
	Removed    []uint64
	Population int
	Kills      int
	Wave       int
}

// FromWorld captures the current state of w.
func FromWorld(w *system.World, removed []component.RemovalEvent) Snapshot {
	s := FromStats(w.Stats(), removed)
	if p, ok := w.Player(); ok {
		s.Player = PlayerView{X: p.Pos.X, Y: p.Pos.Y, Health: p.Health.Current, Alive: p.Alive(), Angle: w.Weapon().Angle}
	}
	targets := w.Targets()
	s.Targets = make([]TargetView, 0, len(targets))
	for _, t := range targets {
		s.Targets = append(s.Targets, TargetView{ID: uint64(t.ID), X: t.Pos.X, Y: t.Pos.Y, Health: t.Health})
	}
	return s
}

// FromStats is the last frame of a finished run: counters and removals only,
// with no player or targets left.
func FromStats(st system.Stats, removed []component.RemovalEvent) Snapshot {
	s := Snapshot{
		Tick:       st.Tick,
		Elapsed:    st.Elapsed,
		Population: st.Population,
		Kills:      st.Kills,
		Wave:       st.Wave,
	}
	for _, r := range removed {
		s.Removed = append(s.Removed, uint64(r.Entity))
	}
	return s
}

// Frame picks the snapshot for the session's current state given the
// removals drained from it. ok is false between runs when there is nothing
// new to send.
func Frame(s *system.Session, removed []component.RemovalEvent) (Snapshot, bool) {
	if w := s.World(); w != nil {
		return FromWorld(w, removed), true
	}
	if len(removed) == 0 {
		return Snapshot{}, false
	}
	return FromStats(s.LastRun(), removed), true
}
