package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/tankbot/internal/config"
	"github.com/san-kum/tankbot/internal/hw"
	"github.com/san-kum/tankbot/internal/robot"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if !c.IsSet(0, 0) || !c.IsSet(3, 3) || c.IsSet(1, 0) {
		t.Error("IsSet mismatch")
	}
	if got, want := c.String(), "⠁⢀\n"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}

	c.Unset(0, 0)
	c.Clear()
	if c.String() != "⠀⠀\n" {
		t.Errorf("Clear left %q", c.String())
	}
}

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           [][2]int
	}{
		{"horizontal", 0, 0, 3, 0, [][2]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"vertical reversed", 1, 3, 1, 0, [][2]int{{1, 0}, {1, 1}, {1, 2}, {1, 3}}},
		{"diagonal", 0, 0, 3, 3, [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
		{"point", 2, 2, 2, 2, [][2]int{{2, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(4, 2)
			c.DrawLine(tt.x0, tt.y0, tt.x1, tt.y1)
			count := 0
			for y := 0; y < c.DotsHigh(); y++ {
				for x := 0; x < c.DotsWide(); x++ {
					if c.IsSet(x, y) {
						count++
					}
				}
			}
			if count != len(tt.want) {
				t.Errorf("set %d dots, want %d", count, len(tt.want))
			}
			for _, p := range tt.want {
				if !c.IsSet(p[0], p[1]) {
					t.Errorf("dot %v not set", p)
				}
			}
		})
	}
}

func TestProjection(t *testing.T) {
	c := NewCanvas(10, 5)
	p := NewProjection(c, 72)

	tests := []struct {
		name         string
		x, y         float64
		wantX, wantY int
	}{
		{"top left", -72, 72, 0, 0},
		{"bottom right", 72, -72, 19, 19},
		{"center", 0, 0, 10, 10},
	}
	for _, tt := range tests {
		gx, gy := p.Dot(tt.x, tt.y)
		if gx != tt.wantX || gy != tt.wantY {
			t.Errorf("%s: Dot(%v, %v) = (%d, %d), want (%d, %d)", tt.name, tt.x, tt.y, gx, gy, tt.wantX, tt.wantY)
		}
	}
}

func TestKeyPad(t *testing.T) {
	k := NewKeyPad(40)
	k.Nudge(hw.Axis3, 1)
	k.Nudge(hw.Axis3, 1)
	k.Nudge(hw.Axis3, 1)
	k.Nudge(hw.Axis1, -1)
	k.Nudge(hw.AxisID(9), 1)

	if got := k.Axis(hw.Axis3); got != 100 {
		t.Errorf("Axis3 = %v, want clamp at 100", got)
	}
	if got := k.Axis(hw.Axis1); got != -40 {
		t.Errorf("Axis1 = %v", got)
	}
	if k.Axis(hw.AxisID(0)) != 0 || k.Axis(hw.AxisID(9)) != 0 {
		t.Error("out-of-range axes should read zero")
	}

	k.Center()
	if k.Axis(hw.Axis3) != 0 || k.Axis(hw.Axis1) != 0 {
		t.Error("Center left axes deflected")
	}
}

func TestCommandBar(t *testing.T) {
	tests := []struct {
		cmd  float64
		want string
	}{
		{0, "░░░░│░░░░   +0"},
		{50, "░░░░│██░░  +50"},
		{-100, "████│░░░░ -100"},
		{250, "░░░░│████ +100"},
	}
	for _, tt := range tests {
		if got := CommandBar(tt.cmd, 4); got != tt.want {
			t.Errorf("CommandBar(%v) = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != Themes[0].Name {
		t.Error("unknown theme should fall back to the first")
	}
	seen := map[string]bool{}
	th := Themes[0]
	for range Themes {
		seen[th.Name] = true
		th = nextTheme(th)
	}
	if len(seen) != len(ThemeNames()) {
		t.Errorf("nextTheme visited %d of %d themes", len(seen), len(Themes))
	}
}

func newTestSim(t *testing.T) *robot.Sim {
	t.Helper()
	s, err := robot.New(config.GetPreset("quick"), robot.Options{Clock: clock.NewMock()})
	if err != nil {
		t.Fatalf("robot.New: %v", err)
	}
	return s
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m FieldModel, keys ...string) FieldModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(FieldModel)
	}
	return m
}

func TestFieldModelTeleop(t *testing.T) {
	s := newTestSim(t)
	m := press(NewFieldModel(s, "teleop", true), "w", "w", "d")

	// Curved mapping: 50 forward becomes 12.5, 25 turn becomes 1.5625.
	if got, want := s.Left.Get(), 12.5+1.5625; math.Abs(got-want) > 1e-9 {
		t.Errorf("left = %v, want %v", got, want)
	}
	if got, want := s.Right.Get(), 12.5-1.5625; math.Abs(got-want) > 1e-9 {
		t.Errorf("right = %v, want %v", got, want)
	}

	m = press(m, " ")
	if s.Left.Get() != 0 || s.Right.Get() != 0 {
		t.Errorf("space should stop the drive, got %v/%v", s.Left.Get(), s.Right.Get())
	}
	if m.Pad().Axis(hw.Axis3) != 0 {
		t.Error("space should center the pad")
	}
}

func TestFieldModelAutonomousIgnoresSticks(t *testing.T) {
	s := newTestSim(t)
	press(NewFieldModel(s, "auto", false), "w", "a")
	if s.Left.Get() != 0 || s.Right.Get() != 0 {
		t.Errorf("autonomous view drove the robot: %v/%v", s.Left.Get(), s.Right.Get())
	}
}

func TestFieldModelTickAndView(t *testing.T) {
	s := newTestSim(t)
	m := NewFieldModel(s, "square", false)

	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(FieldModel)
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if len(m.trail) != 1 || len(m.headings) != 1 {
		t.Errorf("trail=%d headings=%d after one tick", len(m.trail), len(m.headings))
	}

	view := m.View()
	for _, want := range []string{"SQUARE", "AUTONOMOUS", "Tracked", "Drift"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = press(m, "c")
	if len(m.trail) != 0 {
		t.Error("c should clear the trail")
	}
}

func TestFieldModelQuit(t *testing.T) {
	s := newTestSim(t)
	m := press(NewFieldModel(s, "teleop", true), "w")

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if s.Left.Get() != 0 {
		t.Error("quitting teleop should stop the drive")
	}
}
