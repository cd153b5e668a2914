package system

import (
	"context"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/prefabs"
)

func TestWaveScriptBatchLimit(t *testing.T) {
	cases := []struct {
		name string
		src  string
		in   WaveInputs
		want int
	}{
		{"passthrough", `x := 1`, WaveInputs{BatchLimit: 10}, 10},
		{"by_wave", `batch_limit = wave * 2`, WaveInputs{Wave: 3, BatchLimit: 10}, 6},
		{"negative_clamped", `batch_limit = -4`, WaveInputs{BatchLimit: 10}, 0},
		{"reads_all", `batch_limit = cap - population + int(elapsed)`, WaveInputs{Cap: 50, Population: 45, Elapsed: 2.5}, 7},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := NewWaveScript(c.name, []byte(c.src))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			got, err := s.BatchLimit(context.Background(), c.in)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if got != c.want {
				t.Fatalf("batch_limit = %d, want %d", got, c.want)
			}
		})
	}
}

func TestWaveScriptErrors(t *testing.T) {
	if _, err := NewWaveScript("bad", []byte(`batch_limit = (`)); err == nil {
		t.Fatalf("expected compile error")
	}
	s, err := NewWaveScript("runtime", []byte("f := wave\nbatch_limit = f()"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got, err := s.BatchLimit(context.Background(), WaveInputs{BatchLimit: 9})
	if err == nil {
		t.Fatalf("expected runtime error")
	}
	if got != 9 {
		t.Fatalf("fallback = %d, want 9", got)
	}
}

func TestEmbeddedRampScript(t *testing.T) {
	s, err := LoadWaveScript("ramp.tengo")
	if err != nil {
		t.Fatalf("LoadWaveScript: %v", err)
	}
	got, err := s.BatchLimit(context.Background(), WaveInputs{Wave: 1, Population: 0, Cap: 500, BatchLimit: 10})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got != 20 {
		t.Fatalf("early wave on an empty map should double the batch, got %d", got)
	}
	got, _ = s.BatchLimit(context.Background(), WaveInputs{Wave: 1, Population: 497, Cap: 500, BatchLimit: 10})
	if got != 3 {
		t.Fatalf("batch should be limited by the deficit, got %d", got)
	}
}

func TestSpawnWaveUsesScript(t *testing.T) {
	w := newTestWorld(t, func(s *prefabs.GameSpec) { s.Wave.Script = "ramp.tengo" })
	w.SetAnchor(cp.Vector{})
	if n := w.SpawnWave(); n != 20 {
		t.Fatalf("scripted wave spawned %d, want 20", n)
	}
}
