package ffmpeg

import (
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"

	"jumpstamper/models"
)

// Runner executes ffmpeg invocations for the stamper.
//
// Execution is fire-and-forget per job: Run blocks until the process exits
// and no timeout or cancellation is applied. A hung ffmpeg hangs the batch,
// which is an accepted trade-off for a sequential conversion tool.
type Runner struct {
	binary     string
	logger     zerolog.Logger
	onProgress models.ProgressCallback
}

// NewRunner creates a Runner using the given ffmpeg binary path.
// An empty path falls back to "ffmpeg".
func NewRunner(binary string, logger zerolog.Logger) *Runner {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Runner{binary: binary, logger: logger}
}

// SetProgressCallback registers a callback invoked with every progress
// sample parsed from ffmpeg stderr.
func (r *Runner) SetProgressCallback(callback models.ProgressCallback) *Runner {
	r.onProgress = callback
	return r
}

// Binary returns the configured ffmpeg binary path.
func (r *Runner) Binary() string {
	return r.binary
}

// Run executes ffmpeg with the given arguments, streaming stderr through the
// progress parser. totalDuration is the expected output duration in seconds,
// used for percentage reporting; pass 0 when unknown.
func (r *Runner) Run(args []string, totalDuration float64) error {
	cmd := exec.Command(r.binary, args...)

	r.logger.Debug().Str("binary", r.binary).Strs("args", args).Msg("starting ffmpeg")

	if r.onProgress == nil {
		output, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("ffmpeg failed: %w\noutput: %s", err, string(output))
		}
		return nil
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to get stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	parser := NewProgressParser()
	progress := models.NewEncodingProgress(totalDuration)
	if streamErr := parser.StreamProgress(stderr, progress, r.onProgress); streamErr != nil {
		r.logger.Warn().Err(streamErr).Msg("progress stream ended early")
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}
