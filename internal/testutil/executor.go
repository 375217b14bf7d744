package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/mrz1836/gitmate/internal/git"
)

// Response is a scripted reply for one invocation.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Failure  git.FailureKind
}

// OK returns a successful response with the given stdout.
func OK(stdout string) Response {
	return Response{Stdout: stdout}
}

// Fail returns a nonzero-exit response with the given stderr.
func Fail(exitCode int, stderr string) Response {
	return Response{Stderr: stderr, ExitCode: exitCode, Failure: git.FailureExitStatus}
}

// TimedOut returns a response as produced when a command exceeds its bound.
func TimedOut() Response {
	return Response{ExitCode: -1, Failure: git.FailureTimedOut}
}

// Call records one invocation seen by a ScriptedExecutor.
type Call struct {
	WorkDir string
	Tokens  []string
}

// Command returns the invocation without the executable, joined by spaces.
func (c Call) Command() string {
	if len(c.Tokens) < 2 {
		return ""
	}
	return strings.Join(c.Tokens[1:], " ")
}

// Compile-time interface check.
var _ git.Executor = (*ScriptedExecutor)(nil)

// ScriptedExecutor is an in-memory git.Executor. Responses are keyed by a command
// prefix (arguments after the executable, joined by spaces); the longest matching
// prefix wins. Queued responses are consumed in order and the last one repeats.
// Unscripted commands succeed with empty output.
type ScriptedExecutor struct {
	mu        sync.Mutex
	responses map[string][]Response
	calls     []Call
}

// NewScriptedExecutor creates an executor with no scripted responses.
func NewScriptedExecutor() *ScriptedExecutor {
	return &ScriptedExecutor{responses: make(map[string][]Response)}
}

// On scripts the responses for commands starting with prefix.
func (s *ScriptedExecutor) On(prefix string, responses ...Response) *ScriptedExecutor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[prefix] = append(s.responses[prefix], responses...)
	return s
}

// Execute records the call and returns the scripted response.
func (s *ScriptedExecutor) Execute(ctx context.Context, workDir string, tokens []string) *git.CommandResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	call := Call{WorkDir: workDir, Tokens: append([]string(nil), tokens...)}
	s.calls = append(s.calls, call)

	result := &git.CommandResult{Args: call.Tokens, ExitCode: -1}
	if len(tokens) == 0 {
		result.Failure = git.FailureInvalid
		return result
	}
	if err := ctx.Err(); err != nil {
		result.Failure = git.FailureCanceled
		result.Stderr = err.Error()
		return result
	}

	resp := s.next(call.Command())
	result.Stdout = resp.Stdout
	result.Stderr = resp.Stderr
	result.Failure = resp.Failure
	if resp.Failure == git.FailureNone {
		result.Succeeded = true
		result.ExitCode = 0
	} else {
		result.ExitCode = resp.ExitCode
	}
	return result
}

// next pops the response for the longest prefix matching command.
func (s *ScriptedExecutor) next(command string) Response {
	best := ""
	found := false
	for prefix := range s.responses {
		if matchesPrefix(command, prefix) && (!found || len(prefix) > len(best)) {
			best, found = prefix, true
		}
	}
	if !found {
		return Response{}
	}

	queue := s.responses[best]
	resp := queue[0]
	if len(queue) > 1 {
		s.responses[best] = queue[1:]
	}
	return resp
}

// matchesPrefix reports whether prefix matches command on a word boundary.
func matchesPrefix(command, prefix string) bool {
	if !strings.HasPrefix(command, prefix) {
		return false
	}
	return len(command) == len(prefix) || prefix == "" || command[len(prefix)] == ' '
}

// Calls returns a copy of every recorded invocation.
func (s *ScriptedExecutor) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Commands returns every recorded invocation as a joined command string.
func (s *ScriptedExecutor) Commands() []string {
	calls := s.Calls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Command())
	}
	return out
}

// Count returns how many recorded commands start with prefix.
func (s *ScriptedExecutor) Count(prefix string) int {
	n := 0
	for _, cmd := range s.Commands() {
		if matchesPrefix(cmd, prefix) {
			n++
		}
	}
	return n
}

// mutatingPrefixes are commands that change the repository or its configuration.
//
//nolint:gochecknoglobals // Immutable lookup table
var mutatingPrefixes = []string{
	"init", "add", "commit", "push", "pull", "checkout", "reset",
	"remote add", "remote remove", "config user.name", "config user.email",
}

// MutatingCount returns how many recorded commands change repository state.
func (s *ScriptedExecutor) MutatingCount() int {
	n := 0
	for _, prefix := range mutatingPrefixes {
		n += s.Count(prefix)
	}
	return n
}
