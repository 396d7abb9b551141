package drive

import (
	"math"
	"testing"

	"github.com/san-kum/tankbot/internal/hw"
	"github.com/san-kum/tankbot/internal/units"
)

type fakeGroup struct {
	cmd float64
	pos units.Angle
}

func (g *fakeGroup) Set(cmd float64)       { g.cmd = cmd }
func (g *fakeGroup) Get() float64          { return g.cmd }
func (g *fakeGroup) Position() units.Angle { return g.pos }

type fakePad map[hw.AxisID]float64

func (p fakePad) Axis(id hw.AxisID) float64 { return p[id] }

func TestTankDriveMixing(t *testing.T) {
	tests := []struct {
		name        string
		apply       func(*TankDrive)
		left, right float64
	}{
		{"arcade forward", func(td *TankDrive) { td.Arcade(50, 0) }, 50, 50},
		{"arcade turn", func(td *TankDrive) { td.Arcade(0, 30) }, 30, -30},
		{"arcade mixed", func(td *TankDrive) { td.Arcade(40, 10) }, 50, 30},
		{"arcade unclamped", func(td *TankDrive) { td.Arcade(90, 40) }, 130, 50},
		{"arcade xy ignores x", func(td *TankDrive) { td.ArcadeXY(70, 20, 5) }, 25, 15},
		{"tank doubles", func(td *TankDrive) { td.Tank(5, 3) }, 10, 6},
		{"tank spin", func(td *TankDrive) { td.Tank(20, -20) }, 40, -40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, r := &fakeGroup{}, &fakeGroup{}
			td := NewTankDrive(l, r)
			tt.apply(td)
			if l.cmd != tt.left || r.cmd != tt.right {
				t.Errorf("left=%v right=%v, want %v %v", l.cmd, r.cmd, tt.left, tt.right)
			}
		})
	}
}

func TestTankDriveStop(t *testing.T) {
	l, r := &fakeGroup{}, &fakeGroup{}
	td := NewTankDrive(l, r)
	td.ArcadeXY(10, 60, 20)
	td.Stop()
	if l.cmd != 0 || r.cmd != 0 {
		t.Errorf("Stop left=%v right=%v", l.cmd, r.cmd)
	}
	if x, y, rot := td.Commands(); x != 0 || y != 0 || rot != 0 {
		t.Errorf("Commands after Stop = %v %v %v", x, y, rot)
	}
}

func TestTankDriveCommands(t *testing.T) {
	td := NewTankDrive(&fakeGroup{}, &fakeGroup{})
	td.ArcadeXY(1, 2, 3)
	if x, y, rot := td.Commands(); x != 1 || y != 2 || rot != 3 {
		t.Errorf("Commands() = %v %v %v", x, y, rot)
	}
	td.Tank(5, 3)
	if _, y, rot := td.Commands(); y != 8 || rot != 2 {
		t.Errorf("after Tank: y=%v rot=%v", y, rot)
	}
}

func TestTankDriveUpdateResends(t *testing.T) {
	l, r := &fakeGroup{}, &fakeGroup{}
	td := NewTankDrive(l, r)
	td.Arcade(10, 5)
	l.cmd, r.cmd = 0, 0

	td.Update()
	if l.cmd != 15 || r.cmd != 5 {
		t.Errorf("Update: left=%v right=%v", l.cmd, r.cmd)
	}
}

func TestLeftSplitArcade(t *testing.T) {
	pad := fakePad{hw.Axis3: 100, hw.Axis1: -50}

	l, r := &fakeGroup{}, &fakeGroup{}
	td := NewTankDrive(l, r)

	td.LeftSplitArcade(pad)
	if l.cmd != 50 || r.cmd != 150 {
		t.Errorf("linear: left=%v right=%v", l.cmd, r.cmd)
	}

	td.LeftSplitArcadeCurved(pad)
	// 100³·1e-4 = 100, (-50)³·1e-4 = -12.5
	if math.Abs(l.cmd-87.5) > 1e-9 || math.Abs(r.cmd-112.5) > 1e-9 {
		t.Errorf("curved: left=%v right=%v", l.cmd, r.cmd)
	}
}
