package viz

import (
	"math"

	"github.com/san-kum/tankbot/internal/hw"
)

// KeyPad is a Gamepad driven by key presses. Terminals report no key
// release, so each press nudges an axis and the value holds until changed.
type KeyPad struct {
	step float64
	axes [5]float64
}

func NewKeyPad(step float64) *KeyPad {
	if step <= 0 {
		step = 25
	}
	return &KeyPad{step: step}
}

func (k *KeyPad) Axis(id hw.AxisID) float64 {
	if id < hw.Axis1 || id > hw.Axis4 {
		return 0
	}
	return k.axes[id]
}

// Nudge moves an axis by n steps, clamped to [-100, 100].
func (k *KeyPad) Nudge(id hw.AxisID, n float64) {
	if id < hw.Axis1 || id > hw.Axis4 {
		return
	}
	k.axes[id] = math.Max(-100, math.Min(100, k.axes[id]+n*k.step))
}

// Center returns every axis to zero.
func (k *KeyPad) Center() {
	k.axes = [5]float64{}
}
