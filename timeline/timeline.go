// Package timeline converts user-supplied durations and frame markers into a
// consistent set of frame indices for a jump video edit.
//
// A jump has five meaningful frame indices (slate, lead-in, exit, freeze, end)
// and six durations (slate, lead-in, working, freeze, jump, total), kept in
// both seconds and frames. Everything is derived from the probed frame rate,
// the exit frame number, and the requested durations.
package timeline

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidFrameRate indicates a frame rate that is zero or negative.
	ErrInvalidFrameRate = errors.New("invalid frame rate")

	// ErrInvalidDuration indicates a negative duration or frame number input.
	ErrInvalidDuration = errors.New("invalid duration")
)

// Params holds the raw inputs a timeline is built from.
//
// Durations are in seconds. SlateFrame and ExitFrame are frame indices into
// the source stream. A zero JumpTime is valid but usually comes pre-defaulted
// by the caller.
type Params struct {
	SlateTime   float64
	LeadinTime  float64
	WorkingTime float64
	FreezeTime  float64
	JumpTime    float64
	SlateFrame  int
	ExitFrame   int
}

// Markers are the five frame indices of interest, in source-stream numbering.
type Markers struct {
	Slate  int
	LeadIn int
	Exit   int
	Freeze int
	End    int
}

// Durations are the six jump durations in seconds.
type Durations struct {
	Slate   float64
	LeadIn  float64
	Working float64
	Freeze  float64
	Jump    float64
	Total   float64
}

// FrameCounts are the six jump durations expressed in whole frames.
type FrameCounts struct {
	Slate   int
	LeadIn  int
	Working int
	Freeze  int
	Jump    int
	Total   int
}

// Timeline is the fully derived edit timeline for one job.
//
// A Timeline is immutable once built. It is owned by the job that created it
// and is discarded after the filter graph has been assembled.
type Timeline struct {
	FrameRate float64
	Markers   Markers
	Secs      Durations
	Frames    FrameCounts
}

// FramesFromSeconds converts a duration in seconds to a whole number of
// frames at the given frame rate. Ties round half away from zero, so
// 2.5 frames becomes 3 (and -2.5 would become -3). The rule is fixed here
// and used for every seconds-to-frames conversion in the package.
func FramesFromSeconds(seconds, frameRate float64) int {
	return int(math.Round(seconds * frameRate))
}

// SecondsFromFrames converts a frame count back to seconds.
func SecondsFromFrames(frames int, frameRate float64) float64 {
	return float64(frames) / frameRate
}

// Rebase re-expresses a source-stream frame marker in the coordinate space of
// a trimmed segment whose own frame zero corresponds to source frame
// segmentZero. Markers computed against the original stream are meaningless
// after a trim until they have been rebased.
func Rebase(marker, segmentZero int) int {
	return marker - segmentZero
}

// Build derives the complete timeline from the job parameters.
//
// Marker invariants:
//
//	leadin = exit - frames(leadin_secs)   (clamped, see below)
//	freeze = exit + frames(working_secs)
//	end    = exit + frames(jump_secs)
//
// Boundary correction: if the requested lead-in would start before the first
// frame of the source, the lead-in marker is reset to 0 and the lead-in
// duration is recomputed as the exit frame converted back to seconds, so the
// lead-in segment spans frame 0 to the exit frame instead of failing. The
// correction is applied exactly once, here; callers must not adjust the exit
// frame afterwards and expect it to be re-applied.
func Build(p Params, frameRate float64) (*Timeline, error) {
	if frameRate <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidFrameRate, frameRate)
	}
	if err := validateParams(p); err != nil {
		return nil, err
	}

	secs := Durations{
		Slate:   p.SlateTime,
		LeadIn:  p.LeadinTime,
		Working: p.WorkingTime,
		Freeze:  p.FreezeTime,
		Jump:    p.JumpTime,
	}

	markers := Markers{
		Slate:  p.SlateFrame,
		LeadIn: p.ExitFrame - FramesFromSeconds(p.LeadinTime, frameRate),
		Exit:   p.ExitFrame,
		Freeze: p.ExitFrame + FramesFromSeconds(p.WorkingTime, frameRate),
		End:    p.ExitFrame + FramesFromSeconds(p.JumpTime, frameRate),
	}

	// Lead-in would start before the first frame: pin it to the start and
	// stretch the lead-in duration to cover frame 0 up to the exit.
	if markers.LeadIn < 0 {
		markers.LeadIn = 0
		secs.LeadIn = SecondsFromFrames(markers.Exit, frameRate)
	}

	secs.Total = secs.Jump + secs.Freeze + secs.LeadIn + secs.Slate

	frames := FrameCounts{
		Slate:   FramesFromSeconds(secs.Slate, frameRate),
		LeadIn:  FramesFromSeconds(secs.LeadIn, frameRate),
		Working: FramesFromSeconds(secs.Working, frameRate),
		Freeze:  FramesFromSeconds(secs.Freeze, frameRate),
		Jump:    FramesFromSeconds(secs.Jump, frameRate),
		Total:   FramesFromSeconds(secs.Total, frameRate),
	}

	return &Timeline{
		FrameRate: frameRate,
		Markers:   markers,
		Secs:      secs,
		Frames:    frames,
	}, nil
}

// FreezeLoopStart returns the loop start index for the freeze-frame hold in
// the main segment. The main segment is produced by trimming the source at
// the lead-in marker, so the freeze marker must be rebased into the trimmed
// segment's own numbering; the loop filter then wants the frame after that
// rebased index.
func (t *Timeline) FreezeLoopStart() int {
	return Rebase(t.Markers.Freeze, t.Markers.LeadIn) + 1
}

// FadeOutStart returns the start time in seconds for the closing fade of the
// main segment, which fades out over the final fadeDuration seconds of
// lead-in + jump + freeze.
func (t *Timeline) FadeOutStart(fadeDuration float64) float64 {
	return t.Secs.LeadIn + t.Secs.Jump + t.Secs.Freeze - fadeDuration
}

func validateParams(p Params) error {
	checks := []struct {
		name  string
		value float64
	}{
		{"slate_time", p.SlateTime},
		{"leadin_time", p.LeadinTime},
		{"working_time", p.WorkingTime},
		{"freeze_time", p.FreezeTime},
		{"jump_time", p.JumpTime},
	}
	for _, c := range checks {
		if c.value < 0 {
			return fmt.Errorf("%w: %s cannot be negative (got %g)", ErrInvalidDuration, c.name, c.value)
		}
	}
	if p.ExitFrame < 0 {
		return fmt.Errorf("%w: exit_frame cannot be negative (got %d)", ErrInvalidDuration, p.ExitFrame)
	}
	if p.SlateFrame < 0 {
		return fmt.Errorf("%w: slate_frame cannot be negative (got %d)", ErrInvalidDuration, p.SlateFrame)
	}
	return nil
}
