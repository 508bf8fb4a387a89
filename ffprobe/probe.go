// Package ffprobe extracts video stream metadata from media files using the
// ffprobe command-line tool.
//
// The stamper only needs three facts about a source file: the frame rate and
// the pixel dimensions of its first video stream. Frame rates arrive from
// ffprobe either as a plain integer ("30") or as a rational ("30000/1001",
// usual for NTSC material); both forms are reduced to a float64.
package ffprobe

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var (
	// ErrProbeFailure indicates the file could not be probed at all.
	ErrProbeFailure = errors.New("probe failed")

	// ErrNoVideoStream indicates the file has no video track.
	ErrNoVideoStream = errors.New("no video stream found")

	// ErrInvalidFrameRate indicates the probed frame rate field was neither
	// an integer nor a numerator/denominator ratio, or reduced to <= 0.
	ErrInvalidFrameRate = errors.New("invalid frame rate")
)

// Stream is one media stream as reported by ffprobe.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	RFrameRate string `json:"r_frame_rate,omitempty"`
	Duration   string `json:"duration,omitempty"`
}

// VideoInfo holds the metadata the stamper needs from the first video stream.
type VideoInfo struct {
	Width     int
	Height    int
	FrameRate float64
	CodecName string

	// Duration of the stream in seconds; 0 when the container does not
	// report one (progress then shows no percentage).
	Duration float64
}

type probeOutput struct {
	Streams []Stream `json:"streams"`
}

// Prober runs ffprobe. The zero value uses "ffprobe" from PATH.
type Prober struct {
	binary string
}

// NewProber creates a Prober using the given ffprobe binary path.
// An empty path falls back to "ffprobe".
func NewProber(binary string) *Prober {
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{binary: binary}
}

// Probe analyzes a media file and returns the metadata of its first video
// stream.
//
// Returns ErrProbeFailure if ffprobe cannot read the file, ErrNoVideoStream
// if no video track is present, and ErrInvalidFrameRate if the rate field
// is malformed. All three are fatal for the job being processed.
func (p *Prober) Probe(sourcePath string) (*VideoInfo, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("%w: source path cannot be empty", ErrProbeFailure)
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		sourcePath,
	}

	cmd := exec.Command(p.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%w: %v (output: %s)", ErrProbeFailure, err, strings.TrimSpace(string(output)))
	}

	return parseProbeOutput(output)
}

// parseProbeOutput decodes raw ffprobe JSON and extracts the first video
// stream. Split from Probe so the decoding path is testable without an
// ffprobe binary.
func parseProbeOutput(data []byte) (*VideoInfo, error) {
	var result probeOutput
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: cannot parse ffprobe output: %v", ErrProbeFailure, err)
	}

	for _, stream := range result.Streams {
		if stream.CodecType != "video" {
			continue
		}

		rate, err := ParseFrameRate(stream.RFrameRate)
		if err != nil {
			return nil, err
		}

		return &VideoInfo{
			Width:     stream.Width,
			Height:    stream.Height,
			FrameRate: rate,
			CodecName: stream.CodecName,
			Duration:  parseDuration(stream.Duration),
		}, nil
	}

	return nil, ErrNoVideoStream
}

// parseDuration reads ffprobe's duration field. The field is optional and
// purely informational (progress percentages), so a missing or malformed
// value is 0, not an error.
func parseDuration(raw string) float64 {
	if raw == "" {
		return 0
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// ParseFrameRate reduces an ffprobe r_frame_rate field to a float.
//
// Accepts a single integer ("30") or a numerator/denominator ratio
// ("30000/1001"); anything else is ErrInvalidFrameRate.
func ParseFrameRate(raw string) (float64, error) {
	parts := strings.Split(raw, "/")

	switch len(parts) {
	case 1:
		rate, err := strconv.ParseFloat(parts[0], 64)
		if err != nil || rate <= 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFrameRate, raw)
		}
		return rate, nil
	case 2:
		num, err1 := strconv.ParseFloat(parts[0], 64)
		den, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil || den == 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFrameRate, raw)
		}
		rate := num / den
		if rate <= 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFrameRate, raw)
		}
		return rate, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidFrameRate, raw)
}
