package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/component"
	"github.com/milk9111/survivors/obj"
	"github.com/milk9111/survivors/prefabs"
	"github.com/milk9111/survivors/system"
	"golang.org/x/image/colornames"
)

const (
	targetRadius     = 12.0
	playerRadius     = 14.0
	projectileRadius = 4.0
	decorationRadius = 6.0
	burstFrames      = 12
)

var (
	decorationColors = [...]color.Color{
		color.NRGBA{R: 150, G: 165, B: 130, A: 255},
		color.NRGBA{R: 170, G: 150, B: 120, A: 255},
	}
	// one shade per animation frame so the walk cycle is visible
	targetColors = [...]color.Color{
		colornames.Firebrick,
		colornames.Crimson,
		colornames.Firebrick,
		colornames.Darkred,
	}
)

// burst marks where a target was removed. It fades over burstFrames frames.
type burst struct {
	pos  cp.Vector
	left int
}

func (g *Game) addBursts(removed []component.RemovalEvent) {
	for _, r := range removed {
		g.bursts = append(g.bursts, burst{pos: r.Pos, left: burstFrames})
	}
}

func (g *Game) tickBursts() {
	kept := g.bursts[:0]
	for _, b := range g.bursts {
		if b.left--; b.left > 0 {
			kept = append(kept, b)
		}
	}
	g.bursts = kept
}

func backgroundColor(spec prefabs.GameSpec) color.Color {
	if spec.World.Background == nil || spec.World.Background.Color == nil {
		return colornames.Darkslategray
	}
	return spec.World.Background.Color
}

// drawWorld renders back to front: ground, decorations, targets, bursts,
// projectiles, player and weapon.
func drawWorld(screen *ebiten.Image, cam *obj.Camera, w *system.World, bursts []burst) {
	spec := w.Spec()
	zoom := float32(cam.Zoom())
	screen.Fill(colornames.Black)

	half := cp.Vector{X: spec.World.HalfWidth, Y: spec.World.HalfHeight}
	x0, y0 := cam.WorldToScreen(half.Neg())
	x1, y1 := cam.WorldToScreen(half)
	vector.FillRect(screen, x0, y0, x1-x0, y1-y0, backgroundColor(spec), false)

	for _, d := range w.Decorations() {
		if !cam.Visible(d.Pos, decorationRadius) {
			continue
		}
		x, y := cam.WorldToScreen(d.Pos)
		s := decorationRadius * zoom
		vector.FillRect(screen, x-s/2, y-s/2, s, s, decorationColors[d.Variant%len(decorationColors)], false)
	}

	for _, t := range w.Targets() {
		if !cam.Visible(t.Pos, targetRadius) {
			continue
		}
		x, y := cam.WorldToScreen(t.Pos)
		clr := targetColors[t.Frame%len(targetColors)]
		vector.FillCircle(screen, x, y, targetRadius*zoom, clr, true)
		if t.Health < spec.Enemy.Health {
			frac := float32(math.Max(0, t.Health/spec.Enemy.Health))
			bw := 2 * targetRadius * zoom
			vector.FillRect(screen, x-bw/2, y-(targetRadius+5)*zoom, bw*frac, 2*zoom, colornames.Limegreen, false)
		}
	}

	for _, b := range bursts {
		if !cam.Visible(b.pos, targetRadius*2) {
			continue
		}
		x, y := cam.WorldToScreen(b.pos)
		grow := float32(burstFrames-b.left) / burstFrames
		alpha := uint8(255 * b.left / burstFrames)
		vector.StrokeCircle(screen, x, y, (targetRadius+grow*targetRadius)*zoom, 2, color.NRGBA{R: 255, G: 220, B: 80, A: alpha}, true)
	}

	for _, p := range w.Projectiles() {
		if !cam.Visible(p.Pos, projectileRadius) {
			continue
		}
		x, y := cam.WorldToScreen(p.Pos)
		vector.FillCircle(screen, x, y, projectileRadius*zoom, colornames.Gold, true)
	}

	player, ok := w.Player()
	if !ok {
		return
	}
	px, py := cam.WorldToScreen(player.Pos)
	body := colornames.Steelblue
	if player.State == component.PlayerMoving && player.Anim.Frame()%2 == 1 {
		body = colornames.Lightsteelblue
	}
	if !player.Alive() {
		body = colornames.Gray
	}
	vector.FillCircle(screen, px, py, playerRadius*zoom, body, true)
	// eye on the facing side
	eye := float32(playerRadius / 2)
	if player.FacingLeft {
		eye = -eye
	}
	vector.FillCircle(screen, px+eye*zoom, py-4*zoom, 2.5*zoom, colornames.White, true)

	wp := w.Weapon()
	wx, wy := cam.WorldToScreen(wp.Pos)
	vector.StrokeLine(screen, px, py, wx, wy, 3*zoom, colornames.Lightgrey, true)

	frac := float32(player.Health.Fraction())
	vector.FillRect(screen, px-20*zoom, py+(playerRadius+6)*zoom, 40*zoom*frac, 3*zoom, colornames.Tomato, false)
}
