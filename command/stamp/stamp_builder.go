// Package stamp builds the frame-stamping pipeline: a re-encode of the whole
// source with a frame-number and timestamp box burned into the top-left
// corner, used to read off the exit and slate frame numbers for a jump edit.
package stamp

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"jumpstamper/command"
	"jumpstamper/ffmpeg"
	"jumpstamper/filtergraph"
	"jumpstamper/profile"
)

// StampBuilder assembles the ffmpeg invocation for one stamping job.
type StampBuilder struct {
	inputPath  string
	outputPath string

	overlay profile.OverlayProfile
	encoder profile.EncoderProfile

	// source duration in seconds, used only for progress reporting
	duration float64

	runner *ffmpeg.Runner
}

// NewStampBuilder creates a stamping pipeline builder for one job.
func NewStampBuilder(inputPath, outputPath string, overlay profile.OverlayProfile, encoder profile.EncoderProfile) *StampBuilder {
	return &StampBuilder{
		inputPath:  inputPath,
		outputPath: outputPath,
		overlay:    overlay,
		encoder:    encoder,
		runner:     ffmpeg.NewRunner("", zerolog.Nop()),
	}
}

// SetDuration sets the expected output duration for percentage reporting.
func (s *StampBuilder) SetDuration(seconds float64) *StampBuilder {
	s.duration = seconds
	return s
}

// SetRunner replaces the default ffmpeg runner.
func (s *StampBuilder) SetRunner(runner *ffmpeg.Runner) *StampBuilder {
	s.runner = runner
	return s
}

// BuildArgs constructs the complete ffmpeg argument list.
func (s *StampBuilder) BuildArgs() ([]string, error) {
	graph := filtergraph.Input(0).
		Filter("drawtext", s.overlay.FrameCounter.FilterArgs()...).
		Filter("scale",
			filtergraph.KV("width", s.encoder.ScaleWidth),
			filtergraph.KV("height", s.encoder.ScaleHeight)).
		Filter("fps", filtergraph.KV("fps", formatFloat(s.encoder.FPS)))

	compiled, err := filtergraph.Compile(graph)
	if err != nil {
		return nil, err
	}

	args := []string{
		"-i", s.inputPath,
		"-filter_complex", compiled.FilterComplex,
		"-map", compiled.OutputLabel,
	}
	args = append(args, s.encoder.OutputArgs()...)
	args = append(args, s.outputPath)
	return args, nil
}

// Run builds the arguments and executes ffmpeg, blocking until it exits.
func (s *StampBuilder) Run() error {
	args, err := s.BuildArgs()
	if err != nil {
		return err
	}
	return s.runner.Run(args, s.duration)
}

// DryRun returns the equivalent command line without executing it.
func (s *StampBuilder) DryRun() (string, error) {
	args, err := s.BuildArgs()
	if err != nil {
		return "", err
	}
	return s.runner.Binary() + " " + strings.Join(args, " "), nil
}

// GetTaskType returns the task type identifier.
func (s *StampBuilder) GetTaskType() command.TaskType {
	return command.TaskTypeStamp
}

// GetInputPath returns the source media path.
func (s *StampBuilder) GetInputPath() string {
	return s.inputPath
}

// GetOutputPath returns the output media path.
func (s *StampBuilder) GetOutputPath() string {
	return s.outputPath
}

var _ command.Command = (*StampBuilder)(nil)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
