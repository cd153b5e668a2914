package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/survivors/records"
	"github.com/milk9111/survivors/system"
	"golang.design/x/clipboard"
)

const noticeSeconds = 2.5

// HUD prints run stats in the corner. F2 copies the current text to the
// system clipboard.
type HUD struct {
	text string

	notice     string
	noticeLeft float64

	clipboardOK bool
}

func NewHUD() *HUD {
	h := &HUD{}
	if err := clipboard.Init(); err != nil {
		log.Printf("[HUD] clipboard unavailable: %v", err)
	} else {
		h.clipboardOK = true
	}
	return h
}

// Notify shows a short message under the stats.
func (h *HUD) Notify(msg string) {
	h.notice = msg
	h.noticeLeft = noticeSeconds
}

func (h *HUD) Update(dt float64) {
	if h.noticeLeft > 0 {
		h.noticeLeft -= dt
		if h.noticeLeft <= 0 {
			h.notice = ""
		}
	}
}

func (h *HUD) Copy() {
	if !h.clipboardOK || h.text == "" {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(h.text))
	h.Notify("stats copied")
}

func (h *HUD) Draw(screen *ebiten.Image, s *system.Session, best records.Record) {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.0f  state: %s\n", ebiten.ActualFPS(), s.State())
	if w := s.World(); w != nil {
		st := w.Stats()
		fmt.Fprintf(&b, "time %.1fs  health %.0f  enemies %d  wave %d  kills %d\n",
			st.Elapsed, st.PlayerHealth, st.Population, st.Wave, st.Kills)
		fmt.Fprintf(&b, "index %s (%d rebuilds)  resolver %s\n", w.Spec().World.Index, st.Rebuilds, w.Spec().World.Resolver)
	} else if last := s.LastRun(); last.Tick > 0 {
		fmt.Fprintf(&b, "last run: %.1fs  %d kills  wave %d\n", last.Elapsed, last.Kills, last.Wave)
	}
	fmt.Fprintf(&b, "best: %.1fs  %d kills  (%d runs)", best.BestSurvival, best.BestKills, best.Runs)
	h.text = b.String()

	ebitenutil.DebugPrint(screen, h.text)
	if h.notice != "" {
		ebitenutil.DebugPrintAt(screen, h.notice, 4, 16*5)
	}
	ebitenutil.DebugPrintAt(screen, "WASD move  mouse aim  LMB/space fire  +/- zoom  F2 copy  Esc quit", 4, baseHeight-16)
}
