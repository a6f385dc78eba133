package conn

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/petrijr/gearo/internal/codec"
	"github.com/petrijr/gearo/pkg/api"
)

// UnsolicitedFunc handles one frame that was not consumed as a
// correlated reply. Every registered handler sees every unsolicited
// frame; there are no early-termination semantics.
type UnsolicitedFunc func(cmd api.Command, payload []byte)

type subscriber struct {
	key uintptr
	fn  UnsolicitedFunc
}

// Conn multiplexes request/response exchanges and server pushes over a
// single Transport.
//
// Correlation is positional: the wire format carries no request IDs, so
// replies resolve pending requests strictly in the order the requests
// were sent. Frames that arrive while no request is pending are fanned
// out to the registered unsolicited subscribers instead.
//
// Conn never opens or closes the transport on its own initiative; it is
// driven by whoever owns the transport calling OnDataReceived and
// OnConnectionLost. The one exception is a framing error, which makes
// the stream unrecoverable and closes the transport immediately.
type Conn struct {
	transport api.Transport
	obs       api.Observer

	mu        sync.Mutex
	dec       codec.Decoder
	pending   []*api.Reply
	subs      []subscriber
	connected bool
}

// New creates a connection over the given transport.
func New(t api.Transport) *Conn {
	return NewWithObserver(t, nil)
}

// NewWithObserver creates a connection that reports frame traffic and
// connection events to obs. A nil observer behaves like NoopObserver.
func NewWithObserver(t api.Transport, obs api.Observer) *Conn {
	if obs == nil {
		obs = api.NoopObserver{}
	}
	return &Conn{
		transport: t,
		obs:       obs,
		connected: true,
	}
}

// Connected reports whether the connection is still usable.
func (c *Conn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// SendRaw encodes and writes a request frame without tracking a reply.
// It is used for commands the server never answers directly, such as
// CAN_DO and PRE_SLEEP.
func (c *Conn) SendRaw(cmd api.Command, payload []byte) error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return api.ErrNotConnected
	}
	err := c.transport.Write(codec.AppendRequest(nil, cmd, payload))
	c.mu.Unlock()

	if err != nil {
		return err
	}
	c.obs.OnFrameSent(cmd, len(payload))
	return nil
}

// Send writes a request frame and returns a Reply that resolves with the
// correlated response. Many requests may be outstanding at once; the
// pending queue, not a per-call identifier, establishes which response
// belongs to which request.
func (c *Conn) Send(cmd api.Command, payload []byte) (*api.Reply, error) {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil, api.ErrNotConnected
	}
	if err := c.transport.Write(codec.AppendRequest(nil, cmd, payload)); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	r := api.NewReply()
	c.pending = append(c.pending, r)
	c.mu.Unlock()

	c.obs.OnFrameSent(cmd, len(payload))
	return r, nil
}

// PreSleep declares to the server that this connection is about to
// sleep. The server answers with an unsolicited NOOP push when work
// becomes available, so no reply slot is consumed here.
func (c *Conn) PreSleep() error {
	return c.SendRaw(api.PreSleep, nil)
}

// Echo sends an echo request and returns a Reply resolving with the
// echoed payload. A nil payload sends "hello". Echo is useful as a
// liveness check.
func (c *Conn) Echo(payload []byte) (*api.Reply, error) {
	if payload == nil {
		payload = []byte("hello")
	}
	return c.Send(api.EchoReq, payload)
}

// RegisterUnsolicited adds fn to the subscriber list. Handlers are
// deduplicated by function identity: registering the same function
// twice leaves a single subscription.
func (c *Conn) RegisterUnsolicited(fn UnsolicitedFunc) {
	key := reflect.ValueOf(fn).Pointer()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.subs {
		if s.key == key {
			return
		}
	}
	c.subs = append(c.subs, subscriber{key: key, fn: fn})
}

// UnregisterUnsolicited removes fn from the subscriber list. Removing a
// handler that is not registered is a no-op.
func (c *Conn) UnregisterUnsolicited(fn UnsolicitedFunc) {
	key := reflect.ValueOf(fn).Pointer()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.subs {
		if s.key == key {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

// OnDataReceived feeds newly-arrived transport bytes into the frame
// decoder and dispatches every complete frame: the oldest pending
// request if one exists, otherwise all registered unsolicited
// subscribers.
//
// A framing error is fatal: the frames decoded before it are still
// dispatched, then the transport is closed and the error returned. The
// transport owner is expected to follow up with OnConnectionLost.
func (c *Conn) OnDataReceived(p []byte) error {
	c.mu.Lock()
	frames, err := c.dec.Feed(p)
	c.mu.Unlock()

	for _, f := range frames {
		c.dispatch(f)
	}
	if err != nil {
		_ = c.transport.Close()
		return err
	}
	return nil
}

func (c *Conn) dispatch(f api.Frame) {
	c.mu.Lock()
	if len(c.pending) > 0 {
		r := c.pending[0]
		c.pending = c.pending[1:]
		c.mu.Unlock()

		c.obs.OnFrameReceived(f.Cmd, len(f.Payload), false)
		r.Resolve(f.Cmd, f.Payload)
		return
	}
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	c.obs.OnFrameReceived(f.Cmd, len(f.Payload), true)
	for _, s := range subs {
		s.fn(f.Cmd, f.Payload)
	}
}

// OnConnectionLost rejects every still-pending request, oldest first,
// with an error wrapping api.ErrConnectionLost, and marks the
// connection unusable. Subsequent sends fail with api.ErrNotConnected.
// Calling it more than once is a no-op.
func (c *Conn) OnConnectionLost(reason error) {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return
	}
	c.connected = false
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	c.obs.OnConnectionLost(reason)

	err := error(api.ErrConnectionLost)
	if reason != nil {
		err = fmt.Errorf("%w: %v", api.ErrConnectionLost, reason)
	}
	for _, r := range pending {
		r.Reject(err)
	}
}
