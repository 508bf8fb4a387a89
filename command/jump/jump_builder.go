// Package jump builds the full jump-edit pipeline: an optional slate segment
// and the main segment (lead-in through freeze and fade-out), concatenated,
// scaled and handed to the encoder bundle.
package jump

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"jumpstamper/command"
	"jumpstamper/ffmpeg"
	"jumpstamper/filtergraph"
	"jumpstamper/profile"
	"jumpstamper/timeline"
)

const (
	// slates two seconds or longer get a fade in and out; shorter ones
	// would spend most of their screen time mid-fade
	slateFadeDuration = 0.5
	slateFadeMinimum  = 2.0

	// the main segment always fades out over its final two seconds
	jumpFadeDuration = 2.0
)

// the PTS of trimmed and looped frames are rewritten so every segment starts
// at timestamp zero with monotonic frame times
const setptsExpr = "N/FRAME_RATE/TB"

// cropToAction crops to the action area: center 80% of the width, top 90%
// of the height.
func cropToAction() []filtergraph.Arg {
	return []filtergraph.Arg{
		filtergraph.KV("x", "0.1*in_w"),
		filtergraph.KV("y", "0"),
		filtergraph.KV("w", "0.8*in_w"),
		filtergraph.KV("h", "0.9*in_h"),
	}
}

// JumpBuilder assembles the ffmpeg invocation for one jump job.
//
// The builder only constructs the filter graph and argument list; it writes
// no files and spawns no processes until Run.
type JumpBuilder struct {
	inputPath  string
	outputPath string

	tl      *timeline.Timeline
	overlay profile.OverlayProfile
	encoder profile.EncoderProfile

	annotation string
	runner     *ffmpeg.Runner
}

// NewJumpBuilder creates a jump pipeline builder for one job.
func NewJumpBuilder(inputPath, outputPath string, tl *timeline.Timeline, overlay profile.OverlayProfile, encoder profile.EncoderProfile) *JumpBuilder {
	return &JumpBuilder{
		inputPath:  inputPath,
		outputPath: outputPath,
		tl:         tl,
		overlay:    overlay,
		encoder:    encoder,
		runner:     ffmpeg.NewRunner("", zerolog.Nop()),
	}
}

// SetAnnotation sets the free-text annotation drawn along the bottom edge.
func (j *JumpBuilder) SetAnnotation(text string) *JumpBuilder {
	j.annotation = text
	return j
}

// SetRunner replaces the default ffmpeg runner (binary path, logger,
// progress callback).
func (j *JumpBuilder) SetRunner(runner *ffmpeg.Runner) *JumpBuilder {
	j.runner = runner
	return j
}

// BuildArgs constructs the complete ffmpeg argument list.
//
// The source file is supplied once per segment, so the slate (when present)
// and the main segment each trim their own input stream.
func (j *JumpBuilder) BuildArgs() ([]string, error) {
	hasSlate := j.tl.Secs.Slate > 0

	mainInput := 0
	if hasSlate {
		mainInput = 1
	}

	var segments []*filtergraph.Stage
	if hasSlate {
		segments = append(segments, j.buildSlateSegment())
	}
	segments = append(segments, j.buildMainSegment(mainInput))

	joined := filtergraph.Concat(segments...).
		Filter("scale",
			filtergraph.KV("width", j.encoder.ScaleWidth),
			filtergraph.KV("height", j.encoder.ScaleHeight)).
		Filter("fps", filtergraph.KV("fps", formatFloat(j.encoder.FPS)))

	compiled, err := filtergraph.Compile(joined)
	if err != nil {
		return nil, err
	}

	var args []string
	for i := 0; i < compiled.InputCount; i++ {
		args = append(args, "-i", j.inputPath)
	}
	args = append(args,
		"-filter_complex", compiled.FilterComplex,
		"-map", compiled.OutputLabel,
	)
	args = append(args, j.encoder.OutputArgs()...)
	args = append(args, j.outputPath)
	return args, nil
}

// buildSlateSegment holds the slate frame for the slate duration: crop, trim
// to the single slate frame, loop it, reset timestamps, and fade in and out
// when the slate is long enough.
func (j *JumpBuilder) buildSlateSegment() *filtergraph.Stage {
	slate := filtergraph.Input(0).
		Filter("crop", cropToAction()...).
		Filter("trim",
			filtergraph.KV("start_frame", strconv.Itoa(j.tl.Markers.Slate)),
			filtergraph.KV("end_frame", strconv.Itoa(j.tl.Markers.Slate+1))).
		Filter("loop",
			filtergraph.KV("loop", strconv.Itoa(j.tl.Frames.Slate)),
			filtergraph.KV("size", "1"),
			filtergraph.KV("start", "1")).
		Filter("setpts", filtergraph.Arg{Value: setptsExpr})

	if j.tl.Secs.Slate >= slateFadeMinimum {
		slate = slate.
			Filter("fade",
				filtergraph.KV("type", "in"),
				filtergraph.KV("start_time", "0"),
				filtergraph.KV("duration", formatFloat(slateFadeDuration))).
			Filter("fade",
				filtergraph.KV("type", "out"),
				filtergraph.KV("start_time", formatFloat(j.tl.Secs.Slate-slateFadeDuration)),
				filtergraph.KV("duration", formatFloat(slateFadeDuration)))
	}

	return slate
}

// buildMainSegment trims the source from the lead-in to the end marker,
// overlays the elapsed-time and annotation boxes, holds the freeze frame and
// fades out.
//
// The freeze loop start comes from the timeline's rebased marker: after the
// trim the segment has its own zero-based frame numbering, so the raw freeze
// marker would hold the wrong frame.
func (j *JumpBuilder) buildMainSegment(inputIndex int) *filtergraph.Stage {
	main := filtergraph.Input(inputIndex).
		Filter("trim",
			filtergraph.KV("start_frame", strconv.Itoa(j.tl.Markers.LeadIn)),
			filtergraph.KV("end_frame", strconv.Itoa(j.tl.Markers.End))).
		Filter("setpts", filtergraph.Arg{Value: setptsExpr}).
		Filter("crop", cropToAction()...)

	// no working time means nothing to score: the elapsed-time box is
	// simply not drawn
	if text := profile.ElapsedTimeText(j.tl.Secs.LeadIn, j.tl.Secs.Working); text != "" {
		main = main.Filter("drawtext", j.overlay.Timestamp.WithText(text).FilterArgs()...)
	}

	main = main.Filter("drawtext", j.overlay.Annotation.WithText(j.annotation).FilterArgs()...)

	return main.
		Filter("loop",
			filtergraph.KV("loop", strconv.Itoa(j.tl.Frames.Freeze)),
			filtergraph.KV("size", "1"),
			filtergraph.KV("start", strconv.Itoa(j.tl.FreezeLoopStart()))).
		Filter("setpts", filtergraph.Arg{Value: setptsExpr}).
		Filter("fade",
			filtergraph.KV("type", "out"),
			filtergraph.KV("start_time", formatFloat(j.tl.FadeOutStart(jumpFadeDuration))),
			filtergraph.KV("duration", formatFloat(jumpFadeDuration)))
}

// Run builds the arguments and executes ffmpeg, blocking until it exits.
func (j *JumpBuilder) Run() error {
	args, err := j.BuildArgs()
	if err != nil {
		return err
	}
	return j.runner.Run(args, j.tl.Secs.Total)
}

// DryRun returns the equivalent command line without executing it.
func (j *JumpBuilder) DryRun() (string, error) {
	args, err := j.BuildArgs()
	if err != nil {
		return "", err
	}
	return j.runner.Binary() + " " + strings.Join(args, " "), nil
}

// GetTaskType returns the task type identifier.
func (j *JumpBuilder) GetTaskType() command.TaskType {
	return command.TaskTypeJump
}

// GetInputPath returns the source media path.
func (j *JumpBuilder) GetInputPath() string {
	return j.inputPath
}

// GetOutputPath returns the output media path.
func (j *JumpBuilder) GetOutputPath() string {
	return j.outputPath
}

var _ command.Command = (*JumpBuilder)(nil)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
