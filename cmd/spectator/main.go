package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/survivors/feed"
)

const burstFrames = 6

type burst struct {
	x, y float64
	left int
}

type spectator struct {
	screen tcell.Screen
	scale  float64
	sound  *blipper

	last   feed.Snapshot
	seen   map[uint64][2]float64
	bursts []burst
}

func main() {
	url := flag.String("url", "ws://localhost:8081/feed", "feed to watch")
	scale := flag.Float64("scale", 40, "world units per terminal cell")
	mute := flag.Bool("mute", false, "disable the kill blip")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	client, err := feed.Dial(ctx, *url)
	cancel()
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer client.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("screen init: %v", err)
	}

	s := &spectator{screen: screen, scale: *scale, seen: map[uint64][2]float64{}}
	if !*mute {
		s.sound = newBlipper()
		if err := s.sound.Init(); err != nil {
			log.Printf("[Spectator] audio disabled: %v", err)
		}
	}
	err = s.run(client)
	s.sound.Close()
	screen.Fini()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (s *spectator) run(client *feed.Client) error {
	snaps := make(chan feed.Snapshot, 4)
	errs := make(chan error, 1)
	go func() {
		for {
			snap, err := client.Next()
			if err != nil {
				errs <- err
				return
			}
			snaps <- snap
		}
	}()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !s.handleInput(ev) {
				return nil
			}
		case snap := <-snaps:
			s.apply(snap)
			s.draw()
		case err := <-errs:
			return fmt.Errorf("feed closed: %w", err)
		}
	}
}

func (s *spectator) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
			return false
		}
		switch ev.Rune() {
		case 'm':
			s.sound.Toggle()
		case '+':
			s.scale = max(5, s.scale*0.8)
		case '-':
			s.scale = min(400, s.scale*1.25)
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return true
}

func (s *spectator) apply(snap feed.Snapshot) {
	if len(snap.Removed) > 0 {
		s.sound.Kill(len(snap.Removed))
	}
	for _, id := range snap.Removed {
		if pos, ok := s.seen[id]; ok {
			s.bursts = append(s.bursts, burst{x: pos[0], y: pos[1], left: burstFrames})
			delete(s.seen, id)
		}
	}
	for _, t := range snap.Targets {
		s.seen[t.ID] = [2]float64{t.X, t.Y}
	}
	kept := s.bursts[:0]
	for _, b := range s.bursts {
		if b.left--; b.left > 0 {
			kept = append(kept, b)
		}
	}
	s.bursts = kept
	s.last = snap
}

// cell maps a world position to a terminal cell relative to the player.
// Terminal cells are about twice as tall as wide; y grows downward like the
// world's.
func (s *spectator) cell(x, y float64) (int, int, bool) {
	w, h := s.screen.Size()
	cx := int((x-s.last.Player.X)/s.scale) + w/2
	cy := int((y-s.last.Player.Y)/(s.scale*2)) + h/2
	return cx, cy, cx >= 0 && cy >= 1 && cx < w && cy < h
}

func (s *spectator) draw() {
	s.screen.Clear()

	for _, b := range s.bursts {
		if x, y, ok := s.cell(b.x, b.y); ok {
			s.screen.SetContent(x, y, '*', nil, tcell.StyleDefault.Foreground(tcell.ColorYellow))
		}
	}
	for _, t := range s.last.Targets {
		x, y, ok := s.cell(t.X, t.Y)
		if !ok {
			continue
		}
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		if t.Health < 100 {
			style = tcell.StyleDefault.Foreground(tcell.ColorPurple)
		}
		s.screen.SetContent(x, y, 'x', nil, style)
	}
	if x, y, ok := s.cell(s.last.Player.X, s.last.Player.Y); ok {
		style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
		if !s.last.Player.Alive {
			style = tcell.StyleDefault.Foreground(tcell.ColorGray)
		}
		s.screen.SetContent(x, y, '@', nil, style)
	}

	status := fmt.Sprintf(" t=%.1fs  hp=%.0f  enemies=%d  wave=%d  kills=%d  scale=%.0f  [q]uit [+/-]zoom [m]ute",
		s.last.Elapsed, s.last.Player.Health, s.last.Population, s.last.Wave, s.last.Kills, s.scale)
	for i, r := range status {
		s.screen.SetContent(i, 0, r, nil, tcell.StyleDefault.Foreground(tcell.ColorBlue))
	}
	s.screen.Show()
}
