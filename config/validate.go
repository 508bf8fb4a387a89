package config

import (
	"fmt"
	"os"
	"strings"
)

// Validate checks that a job can be run.
func (j *Job) Validate() error {
	var errors []string

	if j.InputFile == "" {
		errors = append(errors, "input file is required")
	} else {
		if _, err := os.Stat(j.InputFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("input file does not exist: %s", j.InputFile))
		}
	}

	if j.OutputFile == "" {
		errors = append(errors, "output file is required")
	}

	for _, d := range []struct {
		name  string
		value float64
	}{
		{"slate_time", j.SlateTime},
		{"leadin_time", j.LeadinTime},
		{"working_time", j.WorkingTime},
		{"freeze_time", j.FreezeTime},
		{"jump_time", j.JumpTime},
	} {
		if d.value < 0 {
			errors = append(errors, fmt.Sprintf("%s cannot be negative", d.name))
		}
	}

	// frame 0 is a legal marker; only negative markers are rejected
	if j.SlateFrame < 0 {
		errors = append(errors, "slate_frame cannot be negative")
	}
	if j.ExitFrame < 0 {
		errors = append(errors, "exit_frame cannot be negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("job validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
