// Package testutil provides shared test fixtures: an in-memory
// Transport that records written frames and helpers to build server
// response bytes.
package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/petrijr/gearo/internal/codec"
	"github.com/petrijr/gearo/pkg/api"
)

// FakeTransport implements api.Transport in memory. It records every
// Write and counts Close calls so tests can assert on outbound traffic
// without a socket.
type FakeTransport struct {
	mu     sync.Mutex
	writes [][]byte
	closed int
	failed error
}

// NewFakeTransport returns an empty transport.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{}
}

// Fail makes every subsequent Write return err.
func (t *FakeTransport) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed = err
}

func (t *FakeTransport) Write(p []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failed != nil {
		return t.failed
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	t.writes = append(t.writes, buf)
	return nil
}

func (t *FakeTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed++
	return nil
}

// Closed returns how many times Close has been called.
func (t *FakeTransport) Closed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// WriteCount returns the number of Write calls so far.
func (t *FakeTransport) WriteCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.writes)
}

// SentFrames decodes everything written so far into frames.
func (t *FakeTransport) SentFrames(tb testing.TB) []api.Frame {
	tb.Helper()

	t.mu.Lock()
	var all []byte
	for _, w := range t.writes {
		all = append(all, w...)
	}
	t.mu.Unlock()

	var dec codec.Decoder
	frames, err := dec.Feed(all)
	if err != nil {
		tb.Fatalf("decoding sent frames: %v", err)
	}
	if dec.Buffered() != 0 {
		tb.Fatalf("transport holds %d bytes of partial frame", dec.Buffered())
	}
	return frames
}

// WaitWrites blocks until at least n Write calls have happened. Tests
// use it to sequence server responses after the operation under test
// has actually sent its request from another goroutine.
func (t *FakeTransport) WaitWrites(tb testing.TB, n int) {
	tb.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if t.WriteCount() >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	tb.Fatalf("timed out waiting for %d writes, have %d", n, t.WriteCount())
}

// Response builds the raw bytes of one server response frame.
func Response(cmd api.Command, payload []byte) []byte {
	return codec.AppendResponse(nil, cmd, payload)
}
