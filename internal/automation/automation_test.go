package automation

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"github.com/san-kum/tankbot/internal/units"
)

type call struct {
	action string
	value  float64
	speed  float64
}

type fakeDriver struct {
	calls  []call
	failAt int
	waited time.Duration
}

func (f *fakeDriver) record(c call) error {
	f.calls = append(f.calls, c)
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return errors.New("stalled")
	}
	return nil
}

func (f *fakeDriver) DriveFor(_ context.Context, t units.Length, s float64) error {
	return f.record(call{ActionDriveFor, t.Inches(), s})
}

func (f *fakeDriver) DriveForPID(_ context.Context, t units.Length) error {
	return f.record(call{ActionDriveForPID, t.Inches(), 0})
}

func (f *fakeDriver) TurnFor(_ context.Context, t units.Angle, s float64) error {
	return f.record(call{ActionTurnFor, t.Degrees(), s})
}

func (f *fakeDriver) TurnForPID(_ context.Context, t units.Angle) error {
	return f.record(call{ActionTurnForPID, t.Degrees(), 0})
}

func (f *fakeDriver) TurnTo(_ context.Context, t units.Angle, s float64) error {
	return f.record(call{ActionTurnTo, t.Degrees(), s})
}

func (f *fakeDriver) TurnToPID(_ context.Context, t units.Angle) error {
	return f.record(call{ActionTurnToPID, t.Degrees(), 0})
}

func (f *fakeDriver) Wait(ctx context.Context, d time.Duration) error {
	f.waited += d
	return ctx.Err()
}

func TestRunDispatches(t *testing.T) {
	r := &Routine{
		Name: "all",
		Steps: []Step{
			{Action: ActionDriveFor, Distance: 12, Speed: 50},
			{Action: ActionDriveForPID, Distance: -6},
			{Action: ActionTurnFor, Angle: 90, Speed: 30},
			{Action: ActionTurnForPID, Angle: -45},
			{Action: ActionWait, Wait: time.Second},
			{Action: ActionTurnTo, Angle: 180, Speed: 25},
			{Action: ActionTurnToPID, Angle: 0},
		},
	}

	d := &fakeDriver{}
	if err := r.Run(context.Background(), d, zaptest.NewLogger(t).Sugar()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []call{
		{ActionDriveFor, 12, 50},
		{ActionDriveForPID, -6, 0},
		{ActionTurnFor, 90, 30},
		{ActionTurnForPID, -45, 0},
		{ActionTurnTo, 180, 25},
		{ActionTurnToPID, 0, 0},
	}
	if len(d.calls) != len(want) {
		t.Fatalf("got %d calls, want %d: %+v", len(d.calls), len(want), d.calls)
	}
	for i := range want {
		got := d.calls[i]
		if got.action != want[i].action || math.Abs(got.value-want[i].value) > 1e-9 || got.speed != want[i].speed {
			t.Errorf("call %d = %+v, want %+v", i, got, want[i])
		}
	}
	if d.waited != time.Second {
		t.Errorf("waited %v", d.waited)
	}
}

func TestRunStopsOnError(t *testing.T) {
	d := &fakeDriver{failAt: 2}
	err := Builtin["square"].Run(context.Background(), d, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(d.calls) != 2 {
		t.Errorf("ran %d steps after failure", len(d.calls))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		steps  []Step
		errs   int
		target error
	}{
		{"ok", []Step{{Action: ActionDriveForPID, Distance: 5}}, 0, nil},
		{"empty", nil, 1, ErrInvalidStep},
		{"unknown", []Step{{Action: "strafe"}}, 1, ErrUnknownAction},
		{"missing speed", []Step{{Action: ActionTurnTo, Angle: 90}}, 1, ErrInvalidStep},
		{"bad wait", []Step{{Action: ActionWait}}, 1, ErrInvalidStep},
		{"several", []Step{{Action: "jump"}, {Action: ActionDriveFor, Distance: 3}, {Action: ActionWait, Wait: -1}}, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Routine{Name: tt.name, Steps: tt.steps}).Validate()
			if n := len(multierr.Errors(err)); n != tt.errs {
				t.Errorf("got %d errors, want %d: %v", n, tt.errs, err)
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("err = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestBuiltinsValid(t *testing.T) {
	for _, name := range BuiltinNames() {
		if err := Builtin[name].Validate(); err != nil {
			t.Errorf("builtin %q invalid: %v", name, err)
		}
	}
}

func TestLoadRoutine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auto.yaml")
	data := []byte(`
name: skills
steps:
  - action: drive_for
    distance: 48
    speed: 70
  - action: wait
    wait: 500ms
  - action: turn_to_pid
    angle: -90
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	r, err := Get(path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if r.Name != "skills" || len(r.Steps) != 3 {
		t.Fatalf("routine = %+v", r)
	}
	if r.Steps[1].Wait != 500*time.Millisecond || r.Steps[2].Angle != -90 {
		t.Errorf("steps = %+v", r.Steps)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(bad, []byte("name: x\nsteps:\n  - action: fly\n"), 0644)
	if _, err := LoadRoutine(bad); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("LoadRoutine(bad) err = %v", err)
	}
}

func TestSaveRoutineRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.yaml")
	if err := SaveRoutine(path, Builtin["out_and_back"]); err != nil {
		t.Fatal(err)
	}
	r, err := LoadRoutine(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Steps) != 4 || r.Steps[1].Wait != 250*time.Millisecond {
		t.Errorf("round trip lost steps: %+v", r.Steps)
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := Get("figure_eight"); !errors.Is(err, ErrUnknownRoutine) {
		t.Errorf("Get(figure_eight) err = %v", err)
	}
}
