package repository

import (
	"strings"

	"github.com/mrz1836/gitmate/internal/git"
	"github.com/mrz1836/gitmate/internal/logging"
)

// FinalStatus is the classified result of a sequencer operation.
type FinalStatus string

// Final statuses. The first four are the composite-flow outcomes; the last two
// are informational no-ops that are never errors.
const (
	StatusSuccess            FinalStatus = "success"
	StatusSuccessLocalOnly   FinalStatus = "success_local_only"
	StatusNoChanges          FinalStatus = "no_changes"
	StatusFailed             FinalStatus = "failed"
	StatusAlreadyInitialized FinalStatus = "already_initialized"
	StatusNoOp               FinalStatus = "no_op"
)

// Step is one executed invocation inside an operation.
type Step struct {
	// Name identifies the step within the operation, e.g. "stage" or "push".
	Name string `json:"name"`
	// Command is the redacted argument vector without the executable.
	Command string `json:"command"`
	// Result is the invocation outcome, unmodified.
	Result *git.CommandResult `json:"result"`
}

// Outcome is the result of a sequencer operation. Steps are appended only as
// they execute, and completed steps are never rolled back.
type Outcome struct {
	// Operation names the sequencer operation, e.g. "quick_backup".
	Operation string `json:"operation"`
	// Status is the classified final status.
	Status FinalStatus `json:"status"`
	// Message is a short human-readable summary.
	Message string `json:"message"`
	// Steps lists every executed invocation in order.
	Steps []Step `json:"steps"`
	// Err is set when Status is failed. It wraps a gitmate sentinel and keeps
	// git's raw text verbatim in its message.
	Err error `json:"-"`
	// Warning is a non-fatal failure, e.g. a push that failed after a commit
	// succeeded.
	Warning error `json:"-"`

	// CommitHash is the short hash of a commit created by the operation.
	CommitHash string `json:"commit_hash,omitempty"`
	// Branch is the branch the operation created, switched to, or pushed.
	Branch string `json:"branch,omitempty"`
	// UpToDate reports a pull that fetched nothing new.
	UpToDate bool `json:"up_to_date,omitempty"`
	// Stage holds one entry per path for explicit-path staging.
	Stage []PathResult `json:"stage,omitempty"`
}

// PathResult is the staging result for a single path.
type PathResult struct {
	Path      string `json:"path"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

func newOutcome(operation string) *Outcome {
	return &Outcome{Operation: operation, Steps: []Step{}}
}

// Succeeded reports whether the operation reached a non-failed status.
func (o *Outcome) Succeeded() bool {
	return o.Status != StatusFailed
}

// ErrorText returns the error text of Err, or "" when there is none.
func (o *Outcome) ErrorText() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// WarningText returns the text of Warning, or "" when there is none.
func (o *Outcome) WarningText() string {
	if o.Warning == nil {
		return ""
	}
	return o.Warning.Error()
}

// LastStep returns the most recent step, or nil when nothing ran.
func (o *Outcome) LastStep() *Step {
	if len(o.Steps) == 0 {
		return nil
	}
	return &o.Steps[len(o.Steps)-1]
}

// record appends a step and returns its result for chaining.
func (o *Outcome) record(name string, r *git.CommandResult) *git.CommandResult {
	cmd := ""
	if len(r.Args) > 1 {
		cmd = strings.Join(logging.RedactArgs(r.Args[1:]), " ")
	}
	o.Steps = append(o.Steps, Step{Name: name, Command: cmd, Result: r})
	return r
}

func (o *Outcome) fail(err error, message string) *Outcome {
	o.Status = StatusFailed
	o.Err = err
	o.Message = message
	return o
}

func (o *Outcome) finish(status FinalStatus, message string) *Outcome {
	o.Status = status
	o.Message = message
	return o
}
