package drive

import (
	"sync"

	"github.com/san-kum/tankbot/internal/hw"
	"github.com/san-kum/tankbot/internal/units"
)

// curveScale maps a cubed stick value in [-100, 100] back onto the same range.
const curveScale = 1e-4

// Group is one side of the drivetrain. *hw.MotorGroup satisfies it.
type Group interface {
	Set(cmd float64)
	Get() float64
	Position() units.Angle
}

// TankDrive mixes arcade commands onto a left and right motor group.
// It is safe for concurrent use.
type TankDrive struct {
	left, right Group

	mu   sync.Mutex
	cmdX float64
	cmdY float64
	rot  float64
}

func NewTankDrive(left, right Group) *TankDrive {
	return &TankDrive{left: left, right: right}
}

// Arcade drives forward at drive while rotating clockwise at rot.
func (t *TankDrive) Arcade(drive, rot float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cmdY, t.rot = drive, rot
	t.update()
}

// ArcadeXY also records a lateral command. A tank base cannot strafe, so x
// is stored for Commands but never reaches the motors.
func (t *TankDrive) ArcadeXY(x, y, rot float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cmdX, t.cmdY, t.rot = x, y, rot
	t.update()
}

// Tank stores left+right as the drive command and left-right as rotation,
// so each side receives twice its input: Tank(5, 3) sets left 10, right 6.
func (t *TankDrive) Tank(left, right float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cmdY, t.rot = left+right, left-right
	t.update()
}

// Update re-sends the stored commands. Values are not clamped here; the
// motor groups clamp what reaches the hardware.
func (t *TankDrive) Update() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.update()
}

func (t *TankDrive) update() {
	t.left.Set(t.cmdY + t.rot)
	t.right.Set(t.cmdY - t.rot)
}

func (t *TankDrive) Stop() {
	t.ArcadeXY(0, 0, 0)
}

func (t *TankDrive) Commands() (x, y, rot float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cmdX, t.cmdY, t.rot
}

// LeftSplitArcade drives from the left stick's vertical axis and steers from
// the right stick's horizontal axis.
func (t *TankDrive) LeftSplitArcade(pad hw.Gamepad) {
	t.Arcade(pad.Axis(hw.Axis3), pad.Axis(hw.Axis1))
}

// LeftSplitArcadeCurved is LeftSplitArcade with a cubic response curve, which
// keeps full range while giving finer control near center.
func (t *TankDrive) LeftSplitArcadeCurved(pad hw.Gamepad) {
	y := pad.Axis(hw.Axis3)
	r := pad.Axis(hw.Axis1)
	t.Arcade(y*y*y*curveScale, r*r*r*curveScale)
}

func (t *TankDrive) Left() Group  { return t.left }
func (t *TankDrive) Right() Group { return t.right }
