package tui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

//nolint:gochecknoglobals // animation frames
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerInterval is the frame interval.
const SpinnerInterval = 100 * time.Millisecond

// Spinner shows progress while a network-bound command runs.
type Spinner interface {
	Stop()
}

// TerminalSpinner animates a message on a single terminal line.
type TerminalSpinner struct {
	w        io.Writer
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// StartSpinner draws msg with an animated frame until Stop is called or ctx ends.
func StartSpinner(ctx context.Context, w io.Writer, msg string) *TerminalSpinner {
	s := &TerminalSpinner{w: w, interval: SpinnerInterval, done: make(chan struct{})}
	spinCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	styled := NewOutputStyles().Info
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			_, _ = fmt.Fprintf(s.w, "\r%s %s", styled.Render(spinnerFrames[i%len(spinnerFrames)]), msg)
			select {
			case <-spinCtx.Done():
				// clear the line
				_, _ = fmt.Fprint(s.w, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
	return s
}

// Stop ends the animation and clears the line. It is safe to call twice.
func (s *TerminalSpinner) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	<-s.done
}

// NoopSpinner is used for JSON output and non-terminal writers.
type NoopSpinner struct{}

// Stop does nothing.
func (NoopSpinner) Stop() {}

var (
	_ Spinner = (*TerminalSpinner)(nil)
	_ Spinner = NoopSpinner{}
)
