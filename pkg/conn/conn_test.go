package conn

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/gearo/internal/testutil"
	"github.com/petrijr/gearo/pkg/api"
)

func newTestConn(t *testing.T) (*Conn, *testutil.FakeTransport) {
	t.Helper()
	tr := testutil.NewFakeTransport()
	return New(tr), tr
}

func TestSendRaw(t *testing.T) {
	t.Parallel()

	c, tr := newTestConn(t)
	require.NoError(t, c.SendRaw(api.CanDo, []byte("some data")))

	frames := tr.SentFrames(t)
	require.Len(t, frames, 1)
	require.False(t, frames[0].Response)
	require.Equal(t, api.CanDo, frames[0].Cmd)
	require.Equal(t, []byte("some data"), frames[0].Payload)
}

func TestSendTracksReply(t *testing.T) {
	t.Parallel()

	c, tr := newTestConn(t)
	reply, err := c.Send(api.EchoReq, []byte("some data"))
	require.NoError(t, err)

	frames := tr.SentFrames(t)
	require.Len(t, frames, 1)
	require.Equal(t, api.EchoReq, frames[0].Cmd)

	select {
	case <-reply.Done():
		t.Fatal("reply resolved before any response arrived")
	default:
	}

	require.NoError(t, c.OnDataReceived(testutil.Response(api.EchoRes, []byte("some data"))))
	cmd, payload, err := reply.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, api.EchoRes, cmd)
	require.Equal(t, []byte("some data"), payload)
}

// N pipelined requests resolve with the N responses in send order; the
// queue position, not any identifier, establishes correlation.
func TestPipelinedFIFOCorrelation(t *testing.T) {
	t.Parallel()

	c, _ := newTestConn(t)

	const n = 5
	replies := make([]*api.Reply, n)
	for i := range replies {
		r, err := c.Send(api.GetStatus, []byte(fmt.Sprintf("h:%d", i)))
		require.NoError(t, err)
		replies[i] = r
	}

	var raw []byte
	for i := 0; i < n; i++ {
		raw = append(raw, testutil.Response(api.StatusRes, []byte(fmt.Sprintf("reply %d", i)))...)
	}
	require.NoError(t, c.OnDataReceived(raw))

	for i, r := range replies {
		cmd, payload, err := r.Wait(context.Background())
		require.NoError(t, err)
		require.Equal(t, api.StatusRes, cmd)
		require.Equal(t, []byte(fmt.Sprintf("reply %d", i)), payload)
	}
}

func TestUnsolicitedFanout(t *testing.T) {
	t.Parallel()

	c, _ := newTestConn(t)

	var first, second []api.Command
	c.RegisterUnsolicited(func(cmd api.Command, payload []byte) {
		first = append(first, cmd)
	})
	c.RegisterUnsolicited(func(cmd api.Command, payload []byte) {
		second = append(second, cmd)
	})

	require.NoError(t, c.OnDataReceived(testutil.Response(api.Noop, nil)))
	require.NoError(t, c.OnDataReceived(testutil.Response(api.WorkComplete, []byte("test\x00"))))

	// Every subscriber sees every unsolicited frame.
	require.Equal(t, []api.Command{api.Noop, api.WorkComplete}, first)
	require.Equal(t, []api.Command{api.Noop, api.WorkComplete}, second)
}

func TestRegisterUnsolicitedIdempotent(t *testing.T) {
	t.Parallel()

	c, _ := newTestConn(t)

	var calls int
	handler := func(cmd api.Command, payload []byte) { calls++ }

	c.RegisterUnsolicited(handler)
	c.RegisterUnsolicited(handler)

	require.NoError(t, c.OnDataReceived(testutil.Response(api.Noop, nil)))
	require.Equal(t, 1, calls)
}

func TestUnregisterUnsolicited(t *testing.T) {
	t.Parallel()

	c, _ := newTestConn(t)

	var calls int
	handler := func(cmd api.Command, payload []byte) { calls++ }
	other := func(cmd api.Command, payload []byte) {}

	// Unregistering a handler that was never registered is a no-op.
	c.UnregisterUnsolicited(handler)

	c.RegisterUnsolicited(handler)
	c.UnregisterUnsolicited(handler)
	c.UnregisterUnsolicited(other)

	require.NoError(t, c.OnDataReceived(testutil.Response(api.Noop, nil)))
	require.Zero(t, calls)
}

// A correlated reply is consumed by the pending queue and never offered
// to subscribers; once the queue drains, pushes go unsolicited again.
func TestPendingTakesPrecedenceOverSubscribers(t *testing.T) {
	t.Parallel()

	c, _ := newTestConn(t)

	var pushed []api.Command
	c.RegisterUnsolicited(func(cmd api.Command, payload []byte) {
		pushed = append(pushed, cmd)
	})

	reply, err := c.Send(api.GrabJob, nil)
	require.NoError(t, err)

	require.NoError(t, c.OnDataReceived(testutil.Response(api.NoJob, nil)))
	require.NoError(t, c.OnDataReceived(testutil.Response(api.Noop, nil)))

	cmd, _, err := reply.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, api.NoJob, cmd)
	require.Equal(t, []api.Command{api.Noop}, pushed)
}

func TestConnectionLostRejectsPending(t *testing.T) {
	t.Parallel()

	c, _ := newTestConn(t)

	reply, err := c.Send(api.EchoReq, []byte("test"))
	require.NoError(t, err)

	c.OnConnectionLost(errors.New("peer went away"))

	_, _, err = reply.Wait(context.Background())
	require.ErrorIs(t, err, api.ErrConnectionLost)
	require.Contains(t, err.Error(), "peer went away")
}

func TestSendAfterConnectionLost(t *testing.T) {
	t.Parallel()

	c, _ := newTestConn(t)
	c.OnConnectionLost(nil)

	require.False(t, c.Connected())

	_, err := c.Send(api.EchoReq, nil)
	require.ErrorIs(t, err, api.ErrNotConnected)
	require.ErrorIs(t, c.SendRaw(api.CanDo, nil), api.ErrNotConnected)
}

func TestConnectionLostIdempotent(t *testing.T) {
	t.Parallel()

	c, _ := newTestConn(t)

	c.OnConnectionLost(errors.New("first"))
	c.OnConnectionLost(errors.New("second"))
	require.False(t, c.Connected())
}

func TestEchoDefaultsToHello(t *testing.T) {
	t.Parallel()

	c, tr := newTestConn(t)
	reply, err := c.Echo(nil)
	require.NoError(t, err)

	frames := tr.SentFrames(t)
	require.Len(t, frames, 1)
	require.Equal(t, api.EchoReq, frames[0].Cmd)
	require.Equal(t, []byte("hello"), frames[0].Payload)

	require.NoError(t, c.OnDataReceived(testutil.Response(api.EchoRes, []byte("hello"))))
	cmd, payload, err := reply.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, api.EchoRes, cmd)
	require.Equal(t, []byte("hello"), payload)
}

// PRE_SLEEP expects no correlated reply; the wake arrives as an
// unsolicited push instead.
func TestPreSleepConsumesNoReplySlot(t *testing.T) {
	t.Parallel()

	c, tr := newTestConn(t)

	var woken bool
	c.RegisterUnsolicited(func(cmd api.Command, payload []byte) {
		if cmd == api.Noop {
			woken = true
		}
	})

	require.NoError(t, c.PreSleep())

	frames := tr.SentFrames(t)
	require.Len(t, frames, 1)
	require.Equal(t, api.PreSleep, frames[0].Cmd)
	require.Empty(t, frames[0].Payload)

	require.NoError(t, c.OnDataReceived(testutil.Response(api.Noop, nil)))
	require.True(t, woken)
}

// A header with unrecognized magic is a fatal protocol violation: the
// connection closes the transport immediately.
func TestBadMagicClosesTransport(t *testing.T) {
	t.Parallel()

	c, tr := newTestConn(t)

	err := c.OnDataReceived([]byte("XXXXXXXXXXXX"))
	require.ErrorIs(t, err, api.ErrBadMagic)
	require.Equal(t, 1, tr.Closed())
}

func TestObserverSeesTraffic(t *testing.T) {
	t.Parallel()

	metrics := &api.BasicMetrics{}
	tr := testutil.NewFakeTransport()
	c := NewWithObserver(tr, metrics)

	reply, err := c.Send(api.EchoReq, []byte("hi"))
	require.NoError(t, err)
	require.NoError(t, c.OnDataReceived(testutil.Response(api.EchoRes, []byte("hi"))))
	require.NoError(t, c.OnDataReceived(testutil.Response(api.Noop, nil)))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, _, err = reply.Wait(ctx)
	require.NoError(t, err)

	snap := metrics.Snapshot()
	require.Equal(t, int64(1), snap.FramesSent)
	require.Equal(t, int64(2), snap.FramesReceived)
	require.Equal(t, int64(1), snap.Unsolicited)
}
