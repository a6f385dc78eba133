package api

import (
	"context"
	"sync"
)

// Reply is a single-resolution future for one correlated protocol
// exchange. It is resolved exactly once, with either a (command, payload)
// response or an error; later resolutions are no-ops. Once resolved it
// may be read any number of times.
type Reply struct {
	once    sync.Once
	done    chan struct{}
	cmd     Command
	payload []byte
	err     error
}

// NewReply returns an unresolved Reply.
func NewReply() *Reply {
	return &Reply{done: make(chan struct{})}
}

// Resolve completes the reply with a response frame. No-op if the reply
// is already resolved or rejected.
func (r *Reply) Resolve(cmd Command, payload []byte) {
	r.once.Do(func() {
		r.cmd = cmd
		r.payload = payload
		close(r.done)
	})
}

// Reject completes the reply with an error. No-op if the reply is
// already resolved or rejected.
func (r *Reply) Reject(err error) {
	r.once.Do(func() {
		r.err = err
		close(r.done)
	})
}

// Done is closed once the reply has been resolved or rejected.
func (r *Reply) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the reply is resolved, rejected, or ctx is done.
func (r *Reply) Wait(ctx context.Context) (Command, []byte, error) {
	select {
	case <-r.done:
		return r.cmd, r.payload, r.err
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}
