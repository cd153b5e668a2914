package obj

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/system"
)

const (
	stickDeadZone = 0.3
	stickAimReach = 200.0
)

// Input holds the per-frame state polled from keyboard, mouse and the first
// gamepad.
type Input struct {
	// Move is the raw direction; each axis is -1, 0 or +1 (or a stick value).
	Move cp.Vector
	// Cursor is the aim point in world coordinates.
	Cursor cp.Vector
	// CursorValid is false when neither the mouse nor a stick aimed this frame.
	CursorValid bool
	// FireHeld is true while the fire button or trigger is down.
	FireHeld bool

	StartPressed bool
	QuitPressed  bool
	CopyPressed  bool
	ZoomDelta    float64

	camera    *Camera
	lastMouse [2]int
	mouseSeen bool
}

func NewInput(camera *Camera) *Input {
	return &Input{camera: camera}
}

// Update polls devices. Call once per ebiten Update.
func (i *Input) Update() {
	mx, my := ebiten.CursorPosition()
	if !i.mouseSeen || mx != i.lastMouse[0] || my != i.lastMouse[1] {
		i.mouseSeen = true
		i.CursorValid = true
	}
	i.lastMouse = [2]int{mx, my}
	i.Cursor = i.camera.ScreenToWorld(mx, my)

	var move cp.Vector
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		move.X -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		move.X += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		move.Y -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		move.Y += 1
	}

	i.FireHeld = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || ebiten.IsKeyPressed(ebiten.KeySpace)
	i.StartPressed = inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	i.QuitPressed = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	i.CopyPressed = inpututil.IsKeyJustPressed(ebiten.KeyF2)

	i.ZoomDelta = 0
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		i.ZoomDelta += 0.25
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		i.ZoomDelta -= 0.25
	}

	// Gamepad: left stick moves, right stick aims around the player, triggers fire
	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		gid := ids[0]
		lx := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadZone {
			move = cp.Vector{X: lx, Y: ly}
		}
		if ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonFrontBottomRight) {
			i.FireHeld = true
		}
		if inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight) {
			i.StartPressed = true
		}
		if inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterLeft) {
			i.QuitPressed = true
		}

		rx := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisRightStickVertical)
		if mag := math.Hypot(rx, ry); mag > stickDeadZone {
			i.Cursor = i.camera.Pos.Add(cp.Vector{X: rx / mag, Y: ry / mag}.Mult(stickAimReach))
			i.CursorValid = true
		}
	}
	i.Move = move
}

// Sim converts the polled state into the simulation's input. Without a
// valid cursor the weapon falls back to auto-aim.
func (i *Input) Sim(player cp.Vector) system.Input {
	in := system.Input{Move: i.Move, Fire: i.FireHeld}
	if i.CursorValid && i.Cursor.DistanceSq(player) > 0 {
		cursor := i.Cursor
		in.Cursor = &cursor
	}
	return in
}
