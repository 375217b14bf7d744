package tui

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTerminalSpinner_StopIsIdempotent(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf lockedBuffer

	s := StartSpinner(context.Background(), &buf, "pushing")
	time.Sleep(2 * SpinnerInterval)
	s.Stop()
	s.Stop()

	assert.Contains(t, buf.String(), "pushing")
	assert.Contains(t, buf.String(), "\033[K")
}

func TestTerminalSpinner_StopsWithContext(t *testing.T) {
	var buf lockedBuffer
	ctx, cancel := context.WithCancel(context.Background())

	s := StartSpinner(ctx, &buf, "pulling")
	cancel()

	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after cancel")
	}
	s.Stop()
}
