package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/tankbot/internal/units"
)

// Actions a routine step may name.
const (
	ActionDriveFor    = "drive_for"
	ActionDriveForPID = "drive_for_pid"
	ActionTurnFor     = "turn_for"
	ActionTurnForPID  = "turn_for_pid"
	ActionTurnTo      = "turn_to"
	ActionTurnToPID   = "turn_to_pid"
	ActionWait        = "wait"
)

var (
	ErrUnknownAction  = errors.New("automation: unknown action")
	ErrInvalidStep    = errors.New("automation: invalid step")
	ErrUnknownRoutine = errors.New("automation: unknown routine")
)

// Routine is a scripted autonomous sequence.
type Routine struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one motion. Distance is inches, Angle degrees and Speed percent;
// Speed only applies to the open-loop actions.
type Step struct {
	Action   string        `yaml:"action"`
	Distance float64       `yaml:"distance,omitempty"`
	Angle    float64       `yaml:"angle,omitempty"`
	Speed    float64       `yaml:"speed,omitempty"`
	Wait     time.Duration `yaml:"wait,omitempty"`
}

// Driver is the motion surface a routine runs against. *drive.SmartDrive
// satisfies it.
type Driver interface {
	DriveFor(ctx context.Context, target units.Length, speed float64) error
	DriveForPID(ctx context.Context, target units.Length) error
	TurnFor(ctx context.Context, target units.Angle, speed float64) error
	TurnForPID(ctx context.Context, target units.Angle) error
	TurnTo(ctx context.Context, target units.Angle, speed float64) error
	TurnToPID(ctx context.Context, target units.Angle) error
	Wait(ctx context.Context, d time.Duration) error
}

func LoadRoutine(path string) (*Routine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r Routine
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func SaveRoutine(path string, r *Routine) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every bad step at once.
func (r *Routine) Validate() error {
	var errs error
	if len(r.Steps) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: routine %q has no steps", ErrInvalidStep, r.Name))
	}
	for i, s := range r.Steps {
		if err := s.validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("step %d: %w", i+1, err))
		}
	}
	return errs
}

func (s Step) validate() error {
	switch s.Action {
	case ActionDriveFor, ActionTurnFor, ActionTurnTo:
		if s.Speed == 0 {
			return fmt.Errorf("%w: %s needs a non-zero speed", ErrInvalidStep, s.Action)
		}
	case ActionDriveForPID, ActionTurnForPID, ActionTurnToPID:
	case ActionWait:
		if s.Wait <= 0 {
			return fmt.Errorf("%w: wait needs a positive duration", ErrInvalidStep)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, s.Action)
	}
	return nil
}

// Run executes the steps in order and stops at the first error.
func (r *Routine) Run(ctx context.Context, d Driver, logger *zap.SugaredLogger) error {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	logger.Infow("routine started", "name", r.Name, "steps", len(r.Steps))

	for i, s := range r.Steps {
		logger.Infow("step", "n", i+1, "of", len(r.Steps), "action", s.Action)
		if err := s.run(ctx, d); err != nil {
			return fmt.Errorf("routine %s step %d (%s): %w", r.Name, i+1, s.Action, err)
		}
	}

	logger.Infow("routine finished", "name", r.Name)
	return nil
}

func (s Step) run(ctx context.Context, d Driver) error {
	dist := units.Inches(s.Distance)
	ang := units.Degrees(s.Angle)

	switch s.Action {
	case ActionDriveFor:
		return d.DriveFor(ctx, dist, s.Speed)
	case ActionDriveForPID:
		return d.DriveForPID(ctx, dist)
	case ActionTurnFor:
		return d.TurnFor(ctx, ang, s.Speed)
	case ActionTurnForPID:
		return d.TurnForPID(ctx, ang)
	case ActionTurnTo:
		return d.TurnTo(ctx, ang, s.Speed)
	case ActionTurnToPID:
		return d.TurnToPID(ctx, ang)
	case ActionWait:
		return d.Wait(ctx, s.Wait)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, s.Action)
	}
}

// Builtin routines, available by name without a file.
var Builtin = map[string]*Routine{
	"square": {
		Name:        "square",
		Description: "Two-foot square under PID, ending where it started",
		Steps: []Step{
			{Action: ActionDriveForPID, Distance: 24},
			{Action: ActionTurnToPID, Angle: 90},
			{Action: ActionDriveForPID, Distance: 24},
			{Action: ActionTurnToPID, Angle: 180},
			{Action: ActionDriveForPID, Distance: 24},
			{Action: ActionTurnToPID, Angle: 270},
			{Action: ActionDriveForPID, Distance: 24},
			{Action: ActionTurnToPID, Angle: 0},
		},
	},
	"out_and_back": {
		Name:        "out_and_back",
		Description: "Open-loop drive out, turn around and return",
		Steps: []Step{
			{Action: ActionDriveFor, Distance: 36, Speed: 60},
			{Action: ActionWait, Wait: 250 * time.Millisecond},
			{Action: ActionTurnFor, Angle: 180, Speed: 40},
			{Action: ActionDriveFor, Distance: 36, Speed: 60},
		},
	},
	"zigzag": {
		Name:        "zigzag",
		Description: "Alternating 45° headings with open-loop turns",
		Steps: []Step{
			{Action: ActionTurnTo, Angle: 45, Speed: 35},
			{Action: ActionDriveFor, Distance: 18, Speed: 50},
			{Action: ActionTurnTo, Angle: -45, Speed: 35},
			{Action: ActionDriveFor, Distance: 18, Speed: 50},
			{Action: ActionTurnToPID, Angle: 0},
		},
	},
}

// Get returns a builtin routine by name, or loads it from a file path.
func Get(nameOrPath string) (*Routine, error) {
	if r, ok := Builtin[nameOrPath]; ok {
		return r, nil
	}
	if _, err := os.Stat(nameOrPath); err == nil {
		return LoadRoutine(nameOrPath)
	}
	return nil, fmt.Errorf("%w: %q (builtin: %v)", ErrUnknownRoutine, nameOrPath, BuiltinNames())
}

func BuiltinNames() []string {
	names := make([]string, 0, len(Builtin))
	for name := range Builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
