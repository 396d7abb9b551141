package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/tankbot/internal/hw"
	"github.com/san-kum/tankbot/internal/robot"
	"github.com/san-kum/tankbot/internal/sim"
)

const (
	fieldCols     = 60
	fieldRows     = 30
	tileIn        = 24.0
	fieldHalfIn   = 3 * tileIn
	robotHalfIn   = 7.5
	trailCapacity = 2000
	graphCapacity = 240
	frameRate     = time.Second / 30
)

type TickMsg time.Time

// FieldModel shows a simulated robot on a six-tile-square field, with its
// true pose, tracked pose and a heading graph. In teleop mode w/s/a/d drive
// it through a KeyPad.
type FieldModel struct {
	sim      *robot.Sim
	pad      *KeyPad
	teleop   bool
	title    string
	theme    Theme
	st       styles
	canvas   *Canvas
	proj     Projection
	trail    []sim.Pose
	headings []float64
	truePose sim.Pose
	tracked  sim.Pose
	showHelp bool
}

func NewFieldModel(s *robot.Sim, title string, teleop bool) FieldModel {
	c := NewCanvas(fieldCols, fieldRows)
	theme := Themes[0]
	return FieldModel{
		sim:      s,
		pad:      NewKeyPad(25),
		teleop:   teleop,
		title:    title,
		theme:    theme,
		st:       newStyles(theme),
		canvas:   c,
		proj:     NewProjection(c, fieldHalfIn),
		trail:    make([]sim.Pose, 0, trailCapacity),
		headings: make([]float64, 0, graphCapacity),
	}
}

// Pad exposes the teleop gamepad.
func (m FieldModel) Pad() *KeyPad { return m.pad }

func (m FieldModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m FieldModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.teleop {
				m.sim.Drive.Stop()
			}
			return m, tea.Quit
		case "w", "up":
			m.pad.Nudge(hw.Axis3, 1)
		case "s", "down":
			m.pad.Nudge(hw.Axis3, -1)
		case "d", "right":
			m.pad.Nudge(hw.Axis1, 1)
		case "a", "left":
			m.pad.Nudge(hw.Axis1, -1)
		case " ":
			m.pad.Center()
		case "c":
			m.trail = m.trail[:0]
			m.headings = m.headings[:0]
		case "t":
			m.theme = nextTheme(m.theme)
			m.st = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
		if m.teleop {
			m.sim.Drive.LeftSplitArcadeCurved(m.pad)
		}
		return m, nil
	case TickMsg:
		m.sample()
		return m, tick()
	}
	return m, nil
}

// sample reads both poses and extends the trail and heading history.
func (m *FieldModel) sample() {
	m.truePose = m.sim.TruePose()
	m.tracked = robot.TrackedPose(m.sim.Drive)

	if n := len(m.trail); n == 0 || m.trail[n-1].DistTo(m.truePose) > 0.25 {
		if n == trailCapacity {
			m.trail = append(m.trail[:0], m.trail[n/2:]...)
		}
		m.trail = append(m.trail, m.truePose)
	}

	if len(m.headings) == graphCapacity {
		m.headings = append(m.headings[:0], m.headings[1:]...)
	}
	m.headings = append(m.headings, m.truePose.Heading)
}

func (m FieldModel) draw() {
	m.canvas.Clear()

	w, h := m.canvas.DotsWide()-1, m.canvas.DotsHigh()-1
	for i := 0; i <= 6; i++ {
		x, y := m.proj.Dot(-fieldHalfIn+float64(i)*tileIn, fieldHalfIn-float64(i)*tileIn)
		if i == 0 || i == 6 {
			m.canvas.DrawLine(x, 0, x, h)
			m.canvas.DrawLine(0, y, w, y)
			continue
		}
		m.canvas.DrawDotted(x, 0, x, h, 4)
		m.canvas.DrawDotted(0, y, w, y, 4)
	}

	for _, p := range m.trail {
		m.proj.Point(p.X, p.Y)
	}

	m.drawRobot(m.truePose)
	m.drawMarker(m.tracked)
}

// drawRobot outlines the chassis and a heading tick toward the front.
func (m FieldModel) drawRobot(p sim.Pose) {
	sin, cos := math.Sincos(p.Heading * math.Pi / 180)
	// Body frame: forward is (sin, cos), right is (cos, -sin).
	at := func(fwd, right float64) (float64, float64) {
		return p.X + fwd*sin + right*cos, p.Y + fwd*cos - right*sin
	}

	corners := [4][2]float64{
		{robotHalfIn, -robotHalfIn},
		{robotHalfIn, robotHalfIn},
		{-robotHalfIn, robotHalfIn},
		{-robotHalfIn, -robotHalfIn},
	}
	for i := range corners {
		j := (i + 1) % len(corners)
		x0, y0 := at(corners[i][0], corners[i][1])
		x1, y1 := at(corners[j][0], corners[j][1])
		m.proj.Line(x0, y0, x1, y1)
	}

	fx, fy := at(robotHalfIn+4, 0)
	m.proj.Line(p.X, p.Y, fx, fy)
}

func (m FieldModel) drawMarker(p sim.Pose) {
	x, y := m.proj.Dot(p.X, p.Y)
	for d := -2; d <= 2; d++ {
		m.canvas.Set(x+d, y+d)
		m.canvas.Set(x+d, y-d)
	}
}

func (m FieldModel) View() string {
	m.draw()
	fieldView := m.st.field.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(m.st.header.Render(strings.ToUpper(m.title)) + "\n")

	mode := "AUTONOMOUS"
	if m.teleop {
		mode = "TELEOP"
	}
	s.WriteString(m.st.good.Render(mode) + "\n\n")

	row := func(label, value string) {
		s.WriteString(m.st.label.Render(label) + m.st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.sim.Plant.Time().Seconds()))
	row("True", formatPose(m.truePose))
	row("Tracked", formatPose(m.tracked))

	drift := m.truePose.DistTo(m.tracked)
	s.WriteString(m.st.label.Render("Drift") + m.st.errorStyle(drift).Render(fmt.Sprintf("%.2fin", drift)) + "\n\n")

	row("Left", CommandBar(m.sim.Left.Get(), 8))
	row("Right", CommandBar(m.sim.Right.Get(), 8))
	if m.teleop {
		row("Stick", fmt.Sprintf("fwd %+4.0f  turn %+4.0f", m.pad.Axis(hw.Axis3), m.pad.Axis(hw.Axis1)))
	}

	if len(m.headings) > 1 {
		chart := asciigraph.Plot(m.headings,
			asciigraph.Height(6),
			asciigraph.Width(32),
			asciigraph.Caption("heading (deg)"))
		s.WriteString(m.st.graph.Render(chart) + "\n")
	}

	help := "Q:Quit C:Clear T:Theme ?:Help"
	if m.teleop {
		help = "W/S:Throttle A/D:Turn Space:Center\n" + help
	}
	s.WriteString(m.st.help.Render(help))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, fieldView, m.st.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  w / up      more throttle      a / left    turn left
  s / down    less throttle      d / right   turn right
  space       center sticks      c           clear trail
  t           cycle theme        q           quit
`

func formatPose(p sim.Pose) string {
	return fmt.Sprintf("(%6.1f, %6.1f) %6.1f°", p.X, p.Y, p.Heading)
}
