package config

// Settings holds the tool-level options that apply to every job in a run.
type Settings struct {
	// External binaries
	FFmpegPath  string `yaml:"ffmpeg_path"`  // empty = "ffmpeg" on PATH
	FFprobePath string `yaml:"ffprobe_path"` // empty = "ffprobe" on PATH

	// Overlay rendering
	FontFile string `yaml:"font_file"` // empty = built-in default

	// Profile defaults, overridable per job
	OverlayProf string `yaml:"overlay_prof"`
	EncoderProf string `yaml:"encoder_prof"`

	// Behavioral flags
	Verbose bool `yaml:"verbose"` // show detailed logs
	DryRun  bool `yaml:"dry_run"` // print commands without encoding
}

// Job holds the per-video parameters for one stamping or jump-edit job.
//
// The yaml tags double as the batch sheet column names: a CSV or XLSX header
// row uses exactly these identifiers.
type Job struct {
	// Required fields
	InputFile  string `yaml:"input_file"`
	OutputFile string `yaml:"output_file"`

	// Stamp selects the frame-stamping pipeline instead of the jump edit
	Stamp bool `yaml:"stamp"`

	// Timing, in seconds
	SlateTime   float64 `yaml:"slate_time"`   // slate hold; 0 = no slate
	LeadinTime  float64 `yaml:"leadin_time"`  // playback before the exit
	WorkingTime float64 `yaml:"working_time"` // scored working time
	FreezeTime  float64 `yaml:"freeze_time"`  // freeze-frame hold at the end
	JumpTime    float64 `yaml:"jump_time"`    // playback from exit to freeze

	// Frame markers, read off a stamped copy of the source
	SlateFrame int `yaml:"slate_frame"`
	ExitFrame  int `yaml:"exit_frame"`

	// Profiles and annotation text
	OverlayProf string `yaml:"overlay_prof"`
	EncoderProf string `yaml:"encoder_prof"`
	Annotation  string `yaml:"annotation"`
}

// DefaultSettings returns tool settings with sensible defaults.
func DefaultSettings() *Settings {
	return &Settings{
		FFmpegPath:  "",
		FFprobePath: "",
		FontFile:    "",
		OverlayProf: "default",
		EncoderProf: "default",
		Verbose:     false,
		DryRun:      false,
	}
}

// DefaultJob returns a job with the standard competition timings. Judges
// review up to sixty seconds of video after the exit, so the jump time
// defaults to the full window.
func DefaultJob(settings *Settings) *Job {
	return &Job{
		SlateTime:   0,
		LeadinTime:  0,
		WorkingTime: 0,
		FreezeTime:  0,
		JumpTime:    60,
		SlateFrame:  0,
		ExitFrame:   0,
		OverlayProf: settings.OverlayProf,
		EncoderProf: settings.EncoderProf,
	}
}
