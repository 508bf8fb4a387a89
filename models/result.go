package models

import (
	"fmt"
	"strings"
)

// JobResult records the outcome of one stamping job in a batch.
//
// Successful results carry the output path and the command trace; failed
// results carry the error. NewJobResultSuccess and NewJobResultFailure
// enforce that consistency.
type JobResult struct {
	Index      int    `json:"index"`
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`
	Command    string `json:"command,omitempty"` // printable equivalent command line
	Success    bool   `json:"success"`
	Err        error  `json:"-"`
}

// NewJobResultSuccess creates a validated successful result.
func NewJobResultSuccess(index int, inputPath, outputPath, command string) (*JobResult, error) {
	r := &JobResult{
		Index:      index,
		InputPath:  inputPath,
		OutputPath: outputPath,
		Command:    command,
		Success:    true,
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job result: %w", err)
	}
	return r, nil
}

// NewJobResultFailure creates a validated failed result.
func NewJobResultFailure(index int, inputPath string, jobErr error) (*JobResult, error) {
	if jobErr == nil {
		return nil, fmt.Errorf("invalid job result: error cannot be nil for a failure")
	}
	return &JobResult{
		Index:     index,
		InputPath: inputPath,
		Success:   false,
		Err:       jobErr,
	}, nil
}

// Validate checks internal consistency.
func (r *JobResult) Validate() error {
	if r.Success {
		if strings.TrimSpace(r.OutputPath) == "" {
			return fmt.Errorf("successful result must have an output path")
		}
		if r.Err != nil {
			return fmt.Errorf("successful result cannot carry an error")
		}
		return nil
	}
	if r.Err == nil {
		return fmt.Errorf("failed result must carry an error")
	}
	return nil
}

// Summarize counts successes and failures across a batch.
func Summarize(results []*JobResult) (succeeded, failed int) {
	for _, r := range results {
		if r.Success {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
