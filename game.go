package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/component"
	"github.com/milk9111/survivors/feed"
	"github.com/milk9111/survivors/obj"
	"github.com/milk9111/survivors/prefabs"
	"github.com/milk9111/survivors/records"
	"github.com/milk9111/survivors/system"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	minZoom = 0.5
	maxZoom = 3.0
)

// Options are the command line switches that outlive a single run.
type Options struct {
	Watch    bool
	FeedAddr string
	Seed     int64
	AutoAim  bool
}

type Game struct {
	opts Options

	session *system.Session
	camera  *obj.Camera
	input   *obj.Input
	menu    *MenuUI
	hud     *HUD
	sound   *SoundBank
	store   *records.Store
	bursts  []burst

	watcher *prefabs.Watcher
	hub     *feed.Hub
	srv     *http.Server

	quit bool
}

func NewGame(spec prefabs.GameSpec, opts Options) (*Game, error) {
	g := &Game{
		opts:   opts,
		camera: obj.NewCamera(baseWidth, baseHeight, 1),
		store:  records.Open(),
		sound:  NewSoundBank(),
	}
	g.input = obj.NewInput(g.camera)
	g.hud = NewHUD()
	g.menu = NewMenuUI(g)

	g.session = system.NewSession(spec)
	g.session.OnRunStart = g.runStarted
	g.session.OnRunEnd = g.runEnded

	if opts.Watch {
		w, err := prefabs.NewWatcher()
		if err != nil {
			log.Printf("[Game] hot reload disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	if opts.FeedAddr != "" {
		g.serveFeed(opts.FeedAddr)
	}
	return g, nil
}

func (g *Game) serveFeed(addr string) {
	g.hub = feed.NewHub()
	mux := http.NewServeMux()
	mux.Handle("/feed", g.hub.Handler())
	g.srv = &http.Server{Addr: addr, Handler: mux}
	go func() {
		log.Printf("[Game] feed listening on ws://%s/feed", addr)
		if err := g.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[Game] feed stopped: %v", err)
		}
	}()
}

func (g *Game) runStarted(w *system.World) {
	spec := w.Spec()
	g.camera.SetWorldBounds(spec.World.HalfWidth, spec.World.HalfHeight)
	g.camera.SnapTo(cp.Vector{})
	g.bursts = g.bursts[:0]
	w.Emitter.Subscribe(func(evt component.CombatEvent) {
		switch evt.Type {
		case component.EventDeath:
			g.sound.Kill()
		case component.EventContact:
			g.sound.Hurt()
		case component.EventPlayerDeath:
			g.hud.Notify("you died")
		}
	})
}

func (g *Game) runEnded(s system.Stats) {
	best, err := g.store.Submit(s.Elapsed, s.Kills)
	if err != nil {
		log.Printf("[Game] save record: %v", err)
	}
	if best {
		g.hud.Notify("new best!")
	}
	g.menu.Refresh(g.store.Best())
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	dt := 1.0 / float64(ebiten.TPS())

	g.input.Update()
	g.pollReload()
	g.hud.Update(dt)
	if g.input.CopyPressed {
		g.hud.Copy()
	}

	switch g.session.State() {
	case system.StateMenu:
		g.menu.Update()
		if g.input.StartPressed {
			g.session.Start()
		}
		if g.input.QuitPressed {
			g.quit = true
		}
	case system.StatePlaying:
		if g.input.QuitPressed {
			g.session.Quit()
		}
		if g.input.ZoomDelta != 0 {
			g.camera.SetZoom(cp.Clamp(g.camera.Zoom()+g.input.ZoomDelta, minZoom, maxZoom))
		}
	}

	var playerPos cp.Vector
	if w := g.session.World(); w != nil {
		if p, ok := w.Player(); ok {
			playerPos = p.Pos
		}
	}
	g.session.Update(g.input.Sim(playerPos), dt)

	if w := g.session.World(); w != nil {
		if p, ok := w.Player(); ok {
			g.camera.Update(p.Pos)
		}
	}
	removed := g.session.DrainRemovals()
	g.addBursts(removed)
	if g.hub != nil {
		if snap, ok := feed.Frame(g.session, removed); ok {
			g.hub.Broadcast(snap)
		}
	}
	g.tickBursts()
	return nil
}

// pollReload applies prefab changes without blocking the frame.
func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(name)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("[Game] watcher: %v", err)
		default:
			return
		}
	}
}

func (g *Game) reload(name string) {
	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		log.Printf("[Game] reload %s: %v", name, err)
		g.hud.Notify("reload failed: " + name)
		return
	}
	if g.opts.Seed != 0 {
		spec.World.Seed = g.opts.Seed
	}
	if g.opts.AutoAim {
		spec.Weapon.AutoAim = true
	}
	if err := g.session.ApplySpec(spec); err != nil {
		log.Printf("[Game] apply %s: %v", name, err)
		g.hud.Notify("reload rejected: " + name)
		return
	}
	log.Printf("[Game] reloaded %s", name)
	g.hud.Notify("reloaded " + name)
}

func (g *Game) Draw(screen *ebiten.Image) {
	w := g.session.World()
	if w != nil {
		drawWorld(screen, g.camera, w, g.bursts)
	} else {
		screen.Fill(backgroundColor(g.session.Spec()))
	}
	g.hud.Draw(screen, g.session, g.store.Best())
	if g.session.State() == system.StateMenu {
		g.menu.Draw(screen)
	}
}

// Close stops background services. Safe to call more than once.
func (g *Game) Close() {
	if g.watcher != nil {
		g.watcher.Close()
		g.watcher = nil
	}
	if g.hub != nil {
		g.hub.Close()
		g.hub = nil
	}
	if g.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := g.srv.Shutdown(ctx); err != nil {
			log.Printf("[Game] feed shutdown: %v", err)
		}
		g.srv = nil
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
