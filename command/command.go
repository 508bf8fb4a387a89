// Package command provides the Command interface implemented by the stamper's
// pipeline builders.
//
// The specialized builders (Jump, Stamp) each assemble one complete ffmpeg
// invocation for a job, so the driver can process jobs agnostically: build the
// arguments, print the equivalent command line, run or dry-run.
package command

// TaskType identifies the shape of pipeline a builder produces.
type TaskType string

const (
	TaskTypeStamp TaskType = "stamp" // frame-number overlay for marker alignment
	TaskTypeJump  TaskType = "jump"  // full jump edit (slate, lead-in, freeze, fades)
)

// Command represents an ffmpeg invocation that can be built, executed, or
// previewed.
//
// Builders construct the complete filter graph and argument list without side
// effects; only Run touches the external engine.
type Command interface {
	// BuildArgs constructs the ffmpeg argument list, suitable for
	// exec.Command(ffmpegPath, args...).
	BuildArgs() ([]string, error)

	// Run builds the arguments and executes ffmpeg, blocking until the
	// process exits.
	Run() error

	// DryRun returns the equivalent command line without executing it.
	DryRun() (string, error)

	// GetTaskType reports which pipeline shape this command builds.
	GetTaskType() TaskType

	// GetInputPath returns the source media path.
	GetInputPath() string

	// GetOutputPath returns the output media path.
	GetOutputPath() string
}
