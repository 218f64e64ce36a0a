// Package overrides merges user-entered range/output values with scene
// defaults into the effective per-job settings.
//
// An enabled override is a one-shot snapshot: enabling it copies the scene
// value once and then decouples, so later scene edits do not leak into the
// user's fields until an explicit re-sync.
package overrides

import (
	"errors"
	"fmt"
	"strings"

	"midrender/internal/scene"
)

var (
	// ErrInvalidRange reports an effective frame start after the frame end.
	ErrInvalidRange = errors.New("invalid frame range")
	// ErrMissingOutput reports an empty effective output path.
	ErrMissingOutput = errors.New("no output path set")
)

// Values holds the override toggles and the user-entered fields behind them.
// Disabled toggles mean the corresponding scene value wins, whatever the
// stale user fields contain.
type Values struct {
	RangeEnabled bool
	FrameStart   int
	FrameEnd     int

	OutputEnabled bool
	OutputPath    string
}

// SyncRange copies the current scene range into the user fields.
func (v *Values) SyncRange(st scene.State) {
	v.FrameStart = st.FrameStart
	v.FrameEnd = st.FrameEnd
}

// SyncOutput copies the current scene output path into the user field.
func (v *Values) SyncOutput(st scene.State) {
	v.OutputPath = st.OutputPath
}

// EnableRange turns the range override on, seeding it from the scene once.
func (v *Values) EnableRange(st scene.State) {
	v.RangeEnabled = true
	v.SyncRange(st)
}

// EnableOutput turns the output override on, seeding it from the scene once.
func (v *Values) EnableOutput(st scene.State) {
	v.OutputEnabled = true
	v.SyncOutput(st)
}

// Effective is the resolved per-job range and output.
type Effective struct {
	FrameStart int
	FrameEnd   int
	OutputPath string
}

// Resolve computes the effective settings for one job unit and validates
// them. A validation failure aborts the submission before anything is
// written.
func (v Values) Resolve(unit scene.Unit) (Effective, error) {
	eff := Effective{
		FrameStart: unit.FrameStart,
		FrameEnd:   unit.FrameEnd,
		OutputPath: unit.OutputPath,
	}
	if v.RangeEnabled {
		eff.FrameStart = v.FrameStart
		eff.FrameEnd = v.FrameEnd
	}
	if v.OutputEnabled && strings.TrimSpace(v.OutputPath) != "" {
		eff.OutputPath = v.OutputPath
	}

	if eff.FrameStart > eff.FrameEnd {
		return Effective{}, fmt.Errorf("%w: start frame %d is after end frame %d", ErrInvalidRange, eff.FrameStart, eff.FrameEnd)
	}
	if strings.TrimSpace(eff.OutputPath) == "" {
		return Effective{}, fmt.Errorf("%w: set one in render settings or use the override", ErrMissingOutput)
	}
	return eff, nil
}
