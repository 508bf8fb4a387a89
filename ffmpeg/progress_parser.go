// Package ffmpeg invokes the external ffmpeg binary and parses its stderr
// stats stream into progress snapshots.
package ffmpeg

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"jumpstamper/models"
)

// ProgressParser extracts encoding metrics from ffmpeg stderr output.
// It understands both the single-line -stats format and the key=value
// per-line -progress format.
type ProgressParser struct {
	frameRegex *regexp.Regexp
	fpsRegex   *regexp.Regexp
	timeRegex  *regexp.Regexp
	speedRegex *regexp.Regexp
}

// NewProgressParser creates a parser for ffmpeg progress output.
func NewProgressParser() *ProgressParser {
	return &ProgressParser{
		// "frame=123" and "frame= 123" both occur
		frameRegex: regexp.MustCompile(`^frame=\s*(\d+)`),
		fpsRegex:   regexp.MustCompile(`(?:^|\s)fps=\s*([0-9.]+)`),
		timeRegex:  regexp.MustCompile(`(?:^|\s)(?:out_)?time=\s*([0-9:.]+)`),
		speedRegex: regexp.MustCompile(`(?:^|\s)speed=\s*([0-9.]+)x?`),
	}
}

// ParseLine parses one line of ffmpeg stderr and updates progress in place.
// Returns true when any metric was extracted.
func (pp *ProgressParser) ParseLine(line string, progress *models.EncodingProgress) bool {
	line = strings.TrimSpace(line)
	if line == "" || line == "progress=continue" || line == "progress=end" {
		return false
	}

	updated := false

	if m := pp.frameRegex.FindStringSubmatch(line); len(m) > 1 {
		if frame, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			progress.Frame = frame
			updated = true
		}
	}

	if m := pp.fpsRegex.FindStringSubmatch(line); len(m) > 1 {
		if fps, err := strconv.ParseFloat(m[1], 64); err == nil {
			progress.FPS = fps
			updated = true
		}
	}

	if m := pp.timeRegex.FindStringSubmatch(line); len(m) > 1 {
		progress.CurrentTime = m[1]
		if seconds := timeToSeconds(m[1]); seconds > 0 {
			progress.CalculateProgress(seconds)
		}
		updated = true
	}

	if m := pp.speedRegex.FindStringSubmatch(line); len(m) > 1 {
		if speed, err := strconv.ParseFloat(m[1], 64); err == nil {
			progress.Speed = speed
			updated = true
		}
	}

	return updated
}

// StreamProgress reads ffmpeg stderr line by line and invokes the callback
// for every progress update. The reader is consumed until EOF.
func (pp *ProgressParser) StreamProgress(reader io.Reader, progress *models.EncodingProgress, callback models.ProgressCallback) error {
	scanner := bufio.NewScanner(reader)
	// stats lines are rewritten in place with \r; when captured through a
	// pipe they can grow past the default token size
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	scanner.Split(scanCRorLF)

	for scanner.Scan() {
		if pp.ParseLine(scanner.Text(), progress) && callback != nil {
			callback(progress)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ffmpeg output: %w", err)
	}
	return nil
}

// scanCRorLF splits on either \n or \r so in-place stats rewrites become
// separate lines.
func scanCRorLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := strings.IndexAny(string(data), "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// timeToSeconds converts ffmpeg's HH:MM:SS.MS time format to seconds.
func timeToSeconds(timeStr string) float64 {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 3 {
		return 0
	}

	hours, err1 := strconv.ParseFloat(parts[0], 64)
	minutes, err2 := strconv.ParseFloat(parts[1], 64)
	seconds, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0
	}

	return hours*3600 + minutes*60 + seconds
}
