package main

import (
	"encoding/binary"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	audioSampleRate = 44100
	killVolume      = 0.25
	hurtVolume      = 0.2
)

// SoundBank holds the synthesized effects. Each effect owns one player that
// is rewound on replay, so a burst of kills in one frame plays once.
type SoundBank struct {
	ctx  *audio.Context
	kill *audio.Player
	hurt *audio.Player
}

func NewSoundBank() *SoundBank {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(audioSampleRate)
	}
	s := &SoundBank{ctx: ctx}
	s.kill = ctx.NewPlayerFromBytes(tone(880, 0.06, killVolume))
	s.hurt = ctx.NewPlayerFromBytes(tone(160, 0.12, hurtVolume))
	return s
}

func (s *SoundBank) Kill() {
	s.play(s.kill)
}

// Hurt is rate limited by the length of the clip: contact damage arrives
// every tick while an enemy touches the player.
func (s *SoundBank) Hurt() {
	if s == nil || s.hurt == nil || s.hurt.IsPlaying() {
		return
	}
	s.play(s.hurt)
}

func (s *SoundBank) play(p *audio.Player) {
	if s == nil || p == nil {
		return
	}
	if err := p.Rewind(); err != nil {
		return
	}
	p.Play()
}

// tone renders a decaying sine as 16-bit little-endian stereo PCM.
func tone(freq, seconds, volume float64) []byte {
	n := int(seconds * audioSampleRate)
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / audioSampleRate
		env := 1 - float64(i)/float64(n)
		v := int16(volume * env * math.Sin(2*math.Pi*freq*t) * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(v))
	}
	return buf
}
