package main

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	blipFreq   = 880.0
	blipLength = 60 * time.Millisecond
	// more kills in one snapshot than this still play a single chord
	maxVoices = 4
)

// blipper plays a short tone per removed target. All methods are safe on a
// nil receiver and before Init.
type blipper struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

func newBlipper() *blipper {
	return &blipper{mixer: &beep.Mixer{}}
}

func (b *blipper) Init() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(b.mixer)
	b.initialized = true
	return nil
}

// Kill queues one blip per kill, each voice a little higher.
func (b *blipper) Kill(n int) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized || b.muted {
		return
	}
	n = min(n, maxVoices)
	speaker.Lock()
	for i := 0; i < n; i++ {
		tone := &blipGenerator{sr: sampleRate, freq: blipFreq * (1 + 0.25*float64(i)), gain: 0.25 / float64(n)}
		b.mixer.Add(beep.Take(sampleRate.N(blipLength), tone))
	}
	speaker.Unlock()
}

func (b *blipper) Toggle() {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.muted = !b.muted
	b.mu.Unlock()
}

func (b *blipper) Close() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	b.initialized = false
}

// blipGenerator is a sine with a linear decay over blipLength.
type blipGenerator struct {
	sr   beep.SampleRate
	freq float64
	gain float64
	pos  int
}

func (g *blipGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	total := float64(g.sr.N(blipLength))
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		env := math.Max(0, 1-float64(g.pos)/total)
		v := g.gain * env * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *blipGenerator) Err() error {
	return nil
}
