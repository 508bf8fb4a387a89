package ffmpeg

import (
	"strings"
	"testing"

	"jumpstamper/models"
)

func TestParseLineStatsFormat(t *testing.T) {
	parser := NewProgressParser()

	tests := []struct {
		name     string
		line     string
		expected func(*models.EncodingProgress) bool
	}{
		{
			name: "complete stats line",
			line: "frame=   24 fps=25.0 q=-0.0 size=     128kB time=00:00:01.00 bitrate= 128.0kbits/s speed=2.00x",
			expected: func(p *models.EncodingProgress) bool {
				return p.Frame == 24 && p.FPS == 25.0 && p.CurrentTime == "00:00:01.00" && p.Speed == 2.00
			},
		},
		{
			name: "frame only",
			line: "frame=   100",
			expected: func(p *models.EncodingProgress) bool {
				return p.Frame == 100
			},
		},
		{
			name: "progress format time",
			line: "out_time=00:00:12.50",
			expected: func(p *models.EncodingProgress) bool {
				return p.CurrentTime == "00:00:12.50"
			},
		},
		{
			name: "speed without x suffix",
			line: "speed=1.5",
			expected: func(p *models.EncodingProgress) bool {
				return p.Speed == 1.5
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress := models.NewEncodingProgress(30.0)
			if !parser.ParseLine(tt.line, progress) {
				t.Fatalf("ParseLine(%q) = false; want update", tt.line)
			}
			if !tt.expected(progress) {
				t.Errorf("progress not extracted from %q: %+v", tt.line, progress)
			}
		})
	}
}

func TestParseLineIgnoresNoise(t *testing.T) {
	parser := NewProgressParser()
	progress := models.NewEncodingProgress(30.0)

	noise := []string{
		"",
		"progress=continue",
		"progress=end",
		"Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'in.mp4':",
		"Stream mapping:",
	}
	for _, line := range noise {
		if parser.ParseLine(line, progress) {
			t.Errorf("ParseLine(%q) = true; want no update", line)
		}
	}
}

func TestParseLineUpdatesPercentage(t *testing.T) {
	parser := NewProgressParser()
	progress := models.NewEncodingProgress(20.0)

	parser.ParseLine("frame=  300 fps=30.0 time=00:00:10.00 speed=1.00x", progress)

	if progress.Progress != 50 {
		t.Errorf("Progress = %g; want 50", progress.Progress)
	}
}

func TestStreamProgress(t *testing.T) {
	parser := NewProgressParser()
	progress := models.NewEncodingProgress(2.0)

	output := "ffmpeg version n6.1\n" +
		"frame=   10 fps=25.0 time=00:00:00.40 speed=1.00x\r" +
		"frame=   25 fps=25.0 time=00:00:01.00 speed=1.10x\r" +
		"frame=   50 fps=25.0 time=00:00:02.00 speed=1.20x\n"

	var updates int
	err := parser.StreamProgress(strings.NewReader(output), progress, func(p *models.EncodingProgress) {
		updates++
	})
	if err != nil {
		t.Fatalf("StreamProgress() returned error: %v", err)
	}

	if updates != 3 {
		t.Errorf("callback invoked %d times; want 3", updates)
	}
	if progress.Frame != 50 {
		t.Errorf("final frame = %d; want 50", progress.Frame)
	}
	if progress.Progress != 100 {
		t.Errorf("final progress = %g; want 100", progress.Progress)
	}
}

func TestTimeToSeconds(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"Zero", "00:00:00.00", 0},
		{"One second", "00:00:01.00", 1},
		{"Minutes", "00:01:30.00", 90},
		{"Hours", "01:01:01.50", 3661.5},
		{"Malformed", "12.50", 0},
		{"Garbage", "xx:yy:zz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := timeToSeconds(tt.input); got != tt.expected {
				t.Errorf("timeToSeconds(%q) = %g; want %g", tt.input, got, tt.expected)
			}
		})
	}
}
