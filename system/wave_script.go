package system

import (
	"context"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/survivors/prefabs"
)

// WaveInputs are the globals a wave script can read.
type WaveInputs struct {
	Wave       int
	Population int
	Cap        int
	Elapsed    float64
	BatchLimit int
}

// WaveScript lets a tengo script pick the batch size of each wave by
// reassigning the batch_limit global.
type WaveScript struct {
	name     string
	compiled *tengo.Compiled
}

// LoadWaveScript compiles a script from the prefab scripts folder.
func LoadWaveScript(name string) (*WaveScript, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return NewWaveScript(name, src)
}

func NewWaveScript(name string, src []byte) (*WaveScript, error) {
	script := tengo.NewScript(src)
	_ = script.Add("wave", 0)
	_ = script.Add("population", 0)
	_ = script.Add("cap", 0)
	_ = script.Add("elapsed", 0.0)
	_ = script.Add("batch_limit", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &WaveScript{name: name, compiled: compiled}, nil
}

func (s *WaveScript) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// BatchLimit runs the script with fresh inputs and returns its batch_limit.
// Negative results clamp to zero.
func (s *WaveScript) BatchLimit(ctx context.Context, in WaveInputs) (int, error) {
	if s == nil || s.compiled == nil {
		return in.BatchLimit, nil
	}
	vars := []struct {
		name  string
		value any
	}{
		{"wave", in.Wave},
		{"population", in.Population},
		{"cap", in.Cap},
		{"elapsed", in.Elapsed},
		{"batch_limit", in.BatchLimit},
	}
	for _, v := range vars {
		if err := s.compiled.Set(v.name, v.value); err != nil {
			return in.BatchLimit, fmt.Errorf("script: set %s: %w", v.name, err)
		}
	}
	if err := s.compiled.RunContext(ctx); err != nil {
		return in.BatchLimit, fmt.Errorf("script: run %s: %w", s.name, err)
	}
	n := s.compiled.Get("batch_limit").Int()
	if n < 0 {
		n = 0
	}
	return n, nil
}
