// Package models provides the shared data structures for job execution:
// encode progress samples and per-job results.
package models

import (
	"fmt"
	"time"
)

// EncodingProgress is one snapshot of ffmpeg's stats output while a job's
// pipeline is running.
type EncodingProgress struct {
	Frame       int64   // current output frame number
	FPS         float64 // frames per second being processed
	CurrentTime string  // current output timestamp (HH:MM:SS.MS)
	Speed       float64 // realtime multiplier (2.34 means 2.34x realtime)

	TotalDuration float64 // expected output duration in seconds
	Progress      float64 // percentage complete (0-100)

	StartTime time.Time
	UpdatedAt time.Time
}

// ProgressCallback receives progress updates during an encode.
type ProgressCallback func(progress *EncodingProgress)

// NewEncodingProgress creates a progress tracker for an encode expected to
// produce totalDuration seconds of output.
func NewEncodingProgress(totalDuration float64) *EncodingProgress {
	now := time.Now()
	return &EncodingProgress{
		TotalDuration: totalDuration,
		StartTime:     now,
		UpdatedAt:     now,
	}
}

// CalculateProgress updates the percentage from the current output position.
func (ep *EncodingProgress) CalculateProgress(currentSeconds float64) {
	if ep.TotalDuration > 0 {
		ep.Progress = (currentSeconds / ep.TotalDuration) * 100
		if ep.Progress > 100 {
			ep.Progress = 100
		}
	}
	ep.UpdatedAt = time.Now()
}

// String renders a single-line status suitable for overwriting with \r.
func (ep *EncodingProgress) String() string {
	return fmt.Sprintf("frame=%d fps=%.1f time=%s speed=%.2fx (%.0f%%)",
		ep.Frame, ep.FPS, ep.CurrentTime, ep.Speed, ep.Progress)
}
