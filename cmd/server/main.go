package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/milk9111/survivors/feed"
	"github.com/milk9111/survivors/prefabs"
	"github.com/milk9111/survivors/records"
	"github.com/milk9111/survivors/system"
)

func main() {
	addr := flag.String("addr", ":8081", "address serving the snapshot feed")
	tps := flag.Int("tps", 30, "simulation ticks per second")
	seed := flag.Int64("seed", 0, "world seed (0 = time based)")
	watch := flag.Bool("watch", false, "reload prefabs from disk when they change")
	flag.Parse()

	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		log.Fatalf("load prefabs: %v", err)
	}
	if *seed != 0 {
		spec.World.Seed = *seed
	}
	spec.Weapon.AutoAim = true
	if *tps <= 0 {
		*tps = 30
	}

	store := records.Open()
	hub := feed.NewHub()

	session := system.NewSession(spec)
	session.AutoStart = true
	session.OnRunEnd = func(s system.Stats) {
		log.Printf("[Server] run over after %.1fs: %d kills, wave %d", s.Elapsed, s.Kills, s.Wave)
		if _, err := store.Submit(s.Elapsed, s.Kills); err != nil {
			log.Printf("[Server] save record: %v", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/feed", hub.Handler())
	srv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		log.Printf("[Server] feed listening on ws://%s/feed", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	var reload <-chan string
	if *watch {
		w, err := prefabs.NewWatcher()
		if err != nil {
			log.Printf("[Server] hot reload disabled: %v", err)
		} else {
			defer w.Close()
			reload = w.Events
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	dt := 1.0 / float64(*tps)
	ticker := time.NewTicker(time.Duration(float64(time.Second) * dt))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			session.Update(system.Input{Fire: true}, dt)
			if snap, ok := feed.Frame(session, session.DrainRemovals()); ok {
				hub.Broadcast(snap)
			}
		case name, ok := <-reload:
			if !ok {
				reload = nil
				continue
			}
			applyReload(session, name, *seed)
		case sig := <-sigChan:
			log.Printf("[Server] received %v, shutting down", sig)
			hub.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Printf("[Server] shutdown: %v", err)
			}
			return
		}
	}
}

func applyReload(session *system.Session, name string, seed int64) {
	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		log.Printf("[Server] reload %s: %v", name, err)
		return
	}
	if seed != 0 {
		spec.World.Seed = seed
	}
	spec.Weapon.AutoAim = true
	if err := session.ApplySpec(spec); err != nil {
		log.Printf("[Server] apply %s: %v", name, err)
		return
	}
	log.Printf("[Server] reloaded %s", name)
}
