package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/survivors/prefabs"
)

func main() {
	seed := flag.Int64("seed", 0, "world seed (0 = time based)")
	autoAim := flag.Bool("autoaim", false, "aim at the nearest enemy instead of the cursor")
	watch := flag.Bool("watch", false, "reload prefabs from disk when they change")
	feedAddr := flag.String("feed", "", "serve the snapshot feed on this address (e.g. :8081)")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		log.Fatalf("load prefabs: %v", err)
	}
	if *seed != 0 {
		spec.World.Seed = *seed
	}
	if *autoAim {
		spec.Weapon.AutoAim = true
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("survivors")

	game, err := NewGame(spec, Options{Watch: *watch, FeedAddr: *feedAddr, Seed: *seed, AutoAim: *autoAim})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
