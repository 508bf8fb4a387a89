// jumpstamper stamps frame numbers onto skydiving competition videos and
// cuts frame-accurate jump edits: slate, lead-in, working time overlay,
// freeze frame and fade-out, assembled into a single ffmpeg invocation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jumpstamper/command"
	"jumpstamper/command/jump"
	"jumpstamper/command/stamp"
	"jumpstamper/config"
	"jumpstamper/ffmpeg"
	"jumpstamper/ffprobe"
	"jumpstamper/logging"
	"jumpstamper/models"
	"jumpstamper/profile"
	"jumpstamper/timeline"
)

func main() {
	root := newRootCommand()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "jumpstamper",
		Short:         "Stamp frame numbers onto jump videos and cut frame-accurate jump edits",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	f := root.Flags()

	// job parameters
	f.StringP("input", "i", "", "input video file")
	f.StringP("output", "o", "", "output video file")
	f.Bool("stamp", false, "burn a frame counter into the whole video instead of cutting a jump edit")
	f.Float64("slate-time", 0, "seconds to hold the slate frame (0 = no slate)")
	f.Float64("leadin-time", 0, "seconds of playback before the exit")
	f.Float64("working-time", 0, "seconds of scored working time")
	f.Float64("freeze-time", 0, "seconds to hold the freeze frame at the end")
	f.Float64("jump-time", 60, "seconds of playback after the exit")
	f.Int("slate-frame", 0, "frame number of the slate, read off a stamped copy")
	f.Int("exit-frame", 0, "frame number of the exit, read off a stamped copy")
	f.String("annotation", "", "text drawn along the bottom edge")

	// profiles and tool settings
	f.String("overlay-prof", "", "overlay profile name")
	f.String("encoder-prof", "", "encoder profile name (default, 1080_30, quick, hevc, nvenc, vaapi, null)")
	f.String("font-file", "", "font file for the overlays")
	f.String("ffmpeg", "", "path to the ffmpeg binary")
	f.String("ffprobe", "", "path to the ffprobe binary")

	// batch and behavior
	f.String("batch", "", "CSV or XLSX sheet of jobs, one per row")
	f.String("config", "", "settings file (default: search standard locations)")
	f.Bool("dry-run", false, "print the ffmpeg commands without running them")
	f.BoolP("verbose", "v", false, "enable debug logging")

	return root
}

func run(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()

	configPath, _ := f.GetString("config")
	settings, err := config.LoadSettings(configPath)
	if err != nil {
		return err
	}
	mergeSettingsFlags(cmd, settings)

	logging.Init(settings.Verbose)
	logger := logging.WithComponent("driver")

	var jobs []*config.Job
	if batchPath, _ := f.GetString("batch"); batchPath != "" {
		batch, warnings, err := config.LoadBatch(batchPath, settings)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			logger.Warn().Str("batch", batchPath).Msg(w)
		}
		jobs = batch
	} else {
		jobs = []*config.Job{jobFromFlags(cmd, settings)}
	}

	if len(jobs) == 0 {
		return fmt.Errorf("no runnable jobs")
	}

	results := make([]*models.JobResult, 0, len(jobs))
	for i, job := range jobs {
		results = append(results, runJob(i, job, settings))
	}

	succeeded, failed := models.Summarize(results)
	for _, r := range results {
		if !r.Success {
			logger.Error().Int("job", r.Index+1).Str("input", r.InputPath).Err(r.Err).Msg("job failed")
		}
	}
	logger.Info().Int("succeeded", succeeded).Int("failed", failed).Msg("run complete")

	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(jobs))
	}
	return nil
}

// mergeSettingsFlags applies the flag layer over the settings file.
func mergeSettingsFlags(cmd *cobra.Command, settings *config.Settings) {
	f := cmd.Flags()

	if v, _ := f.GetString("ffmpeg"); v != "" {
		settings.FFmpegPath = v
	}
	if v, _ := f.GetString("ffprobe"); v != "" {
		settings.FFprobePath = v
	}
	if v, _ := f.GetString("font-file"); v != "" {
		settings.FontFile = v
	}
	if v, _ := f.GetString("overlay-prof"); v != "" {
		settings.OverlayProf = v
	}
	if v, _ := f.GetString("encoder-prof"); v != "" {
		settings.EncoderProf = v
	}
	if f.Changed("verbose") {
		settings.Verbose, _ = f.GetBool("verbose")
	}
	if f.Changed("dry-run") {
		settings.DryRun, _ = f.GetBool("dry-run")
	}
}

// jobFromFlags builds the single-job run from the command line.
func jobFromFlags(cmd *cobra.Command, settings *config.Settings) *config.Job {
	f := cmd.Flags()
	job := config.DefaultJob(settings)

	job.InputFile, _ = f.GetString("input")
	job.OutputFile, _ = f.GetString("output")
	job.Stamp, _ = f.GetBool("stamp")
	job.SlateTime, _ = f.GetFloat64("slate-time")
	job.LeadinTime, _ = f.GetFloat64("leadin-time")
	job.WorkingTime, _ = f.GetFloat64("working-time")
	job.FreezeTime, _ = f.GetFloat64("freeze-time")
	job.JumpTime, _ = f.GetFloat64("jump-time")
	job.SlateFrame, _ = f.GetInt("slate-frame")
	job.ExitFrame, _ = f.GetInt("exit-frame")
	job.Annotation, _ = f.GetString("annotation")

	return job
}

// runJob processes one job end to end: validate, probe, resolve profiles,
// build the pipeline, then run (or dry-run) it. A failed job never aborts
// the batch.
func runJob(index int, job *config.Job, settings *config.Settings) *models.JobResult {
	logger := logging.WithComponent("job").With().Int("job", index+1).Logger()

	if err := job.Validate(); err != nil {
		return failureResult(index, job.InputFile, err)
	}

	prober := ffprobe.NewProber(settings.FFprobePath)
	info, err := prober.Probe(job.InputFile)
	if err != nil {
		return failureResult(index, job.InputFile, err)
	}
	logger.Debug().
		Int("width", info.Width).Int("height", info.Height).
		Float64("rate", info.FrameRate).Str("codec", info.CodecName).
		Msg("probed input")

	overlay := profile.ResolveOverlay(profile.ParseOverlayID(job.OverlayProf), info, settings.FontFile)
	encoder := profile.ResolveEncoder(profile.ParseEncoderID(job.EncoderProf), info)

	runner := ffmpeg.NewRunner(settings.FFmpegPath, logging.WithComponent("ffmpeg")).
		SetProgressCallback(printProgress)

	var pipeline command.Command
	if job.Stamp {
		pipeline = stamp.NewStampBuilder(job.InputFile, job.OutputFile, overlay, encoder).
			SetDuration(info.Duration).
			SetRunner(runner)
	} else {
		tl, err := timeline.Build(timeline.Params{
			SlateTime:   job.SlateTime,
			LeadinTime:  job.LeadinTime,
			WorkingTime: job.WorkingTime,
			FreezeTime:  job.FreezeTime,
			JumpTime:    job.JumpTime,
			SlateFrame:  job.SlateFrame,
			ExitFrame:   job.ExitFrame,
		}, info.FrameRate)
		if err != nil {
			return failureResult(index, job.InputFile, err)
		}
		logger.Info().
			Int("leadin", tl.Markers.LeadIn).Int("exit", tl.Markers.Exit).
			Int("freeze", tl.Markers.Freeze).Int("end", tl.Markers.End).
			Msg("timeline markers")

		pipeline = jump.NewJumpBuilder(job.InputFile, job.OutputFile, tl, overlay, encoder).
			SetAnnotation(job.Annotation).
			SetRunner(runner)
	}

	trace, err := pipeline.DryRun()
	if err != nil {
		return failureResult(index, job.InputFile, err)
	}
	fmt.Println(trace)

	if settings.DryRun {
		return successResult(index, job.InputFile, job.OutputFile, trace)
	}

	if err := pipeline.Run(); err != nil {
		fmt.Println()
		return failureResult(index, job.InputFile, err)
	}
	fmt.Println()
	logger.Info().Str("output", job.OutputFile).Msg("encoded")

	return successResult(index, job.InputFile, job.OutputFile, trace)
}

func printProgress(p *models.EncodingProgress) {
	fmt.Printf("\r%s", p.String())
}

func successResult(index int, input, output, trace string) *models.JobResult {
	r, err := models.NewJobResultSuccess(index, input, output, trace)
	if err != nil {
		r, _ = models.NewJobResultFailure(index, input, err)
	}
	return r
}

func failureResult(index int, input string, jobErr error) *models.JobResult {
	r, err := models.NewJobResultFailure(index, input, jobErr)
	if err != nil {
		return &models.JobResult{Index: index, InputPath: input, Err: jobErr}
	}
	return r
}
