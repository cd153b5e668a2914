package system

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func TestStateMachineHooks(t *testing.T) {
	var log []string
	m := NewStateMachine(StateMenu)
	m.On(StateMenu, StateHooks{OnExit: func() { log = append(log, "exit menu") }})
	m.On(StatePlaying, StateHooks{OnEnter: func() { log = append(log, "enter playing") }})

	if m.Apply() {
		t.Fatalf("nothing pending")
	}
	m.Set(StatePlaying)
	if m.Current() != StateMenu {
		t.Fatalf("Set must not transition immediately")
	}
	if !m.Apply() || m.Current() != StatePlaying {
		t.Fatalf("transition not applied")
	}
	if len(log) != 2 || log[0] != "exit menu" || log[1] != "enter playing" {
		t.Fatalf("hooks ran as %v", log)
	}
}

func TestSessionLifecycle(t *testing.T) {
	spec := testSpec()
	spec.Wave.BatchLimit = 0
	s := NewSession(spec)

	var started, ended int
	var final Stats
	s.OnRunStart = func(*World) { started++ }
	s.OnRunEnd = func(st Stats) { ended++; final = st }

	steps := []struct {
		action func()
		want   GameState
	}{
		{func() {}, StateMenu},
		{func() {}, StateMenu},
		{s.Start, StateBootstrapping},
		{func() {}, StatePlaying},
	}
	for i, step := range steps {
		step.action()
		s.Update(Input{}, 0.016)
		if s.State() != step.want {
			t.Fatalf("step %d: state = %s, want %s", i, s.State(), step.want)
		}
	}
	if started != 1 || s.World() == nil {
		t.Fatalf("run not started")
	}

	s.World().player.Health.Current = 0
	s.Update(Input{}, 0.016)
	if s.State() != StateMenu {
		t.Fatalf("player death should return to the menu, got %s", s.State())
	}
	if ended != 1 || s.World() != nil {
		t.Fatalf("run not torn down: ended=%d", ended)
	}
	if final.Tick == 0 || s.LastRun().Tick != final.Tick {
		t.Fatalf("final stats not recorded: %+v", final)
	}
}

func TestSessionAutoStartAndApplySpec(t *testing.T) {
	s := NewSession(testSpec())
	s.AutoStart = true
	for i := 0; i < 4; i++ {
		s.Update(Input{}, 0.016)
	}
	if s.State() != StatePlaying {
		t.Fatalf("auto start should reach playing, got %s", s.State())
	}

	spec := testSpec()
	spec.Enemy.Speed = 5
	if err := s.ApplySpec(spec); err != nil {
		t.Fatalf("ApplySpec: %v", err)
	}
	if s.World().Spec().Enemy.Speed != 5 {
		t.Fatalf("live world did not get the new spec")
	}
	spec.World.Resolver = "psychic"
	if err := s.ApplySpec(spec); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestSessionKeepsFinalTickRemovals(t *testing.T) {
	spec := testSpec()
	spec.Wave.BatchLimit = 0
	s := NewSession(spec)
	s.AutoStart = true
	for s.State() != StatePlaying {
		s.Update(Input{}, 0.016)
	}

	w := s.World()
	victim := w.SpawnTarget(cp.Vector{X: 200})
	w.targets.Get(victim.ID).Health.Current = 0
	w.player.Health.Current = 0
	s.Update(Input{}, 0.016)
	if s.World() != nil {
		t.Fatalf("run should have been torn down")
	}

	removed := s.DrainRemovals()
	if len(removed) != 1 || removed[0].Entity != victim.ID || removed[0].Pos != (cp.Vector{X: 200}) {
		t.Fatalf("final tick removals = %+v", removed)
	}
	if again := s.DrainRemovals(); len(again) != 0 {
		t.Fatalf("removals drained twice: %+v", again)
	}
}
