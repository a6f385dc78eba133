package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/petrijr/gearo/pkg/api"
	"github.com/petrijr/gearo/pkg/conn"
)

// ErrJobFailed is returned by Submit when the server reports WORK_FAIL
// for the job. If a WORK_EXCEPTION preceded it, the returned error
// wraps ErrJobFailed and carries the exception text.
var ErrJobFailed = errors.New("job failed")

// JobStatus is the server's answer to a GET_STATUS request.
type JobStatus struct {
	Handle      string
	Known       bool
	Running     bool
	Numerator   int
	Denominator int
}

// pendingJob tracks one foreground submission between JOB_CREATED and
// its terminal work frame. result and err are published before done is
// closed.
type pendingJob struct {
	handle *api.JobHandle
	done   chan struct{}
	result []byte
	err    error
}

// Client submits jobs over a Conn and routes the server's work frames
// back to the submitter.
//
// Run exactly one Client per connection: it registers itself as an
// unsolicited subscriber, and subscribers are deduplicated by function
// identity.
type Client struct {
	conn *conn.Conn

	mu   sync.Mutex
	jobs map[string]*pendingJob
	// Work frames can arrive between the JOB_CREATED reply resolving and
	// the submitter recording its pendingJob; they are parked here and
	// replayed on registration.
	orphans map[string][]api.Frame
}

// New creates a Client on top of an existing connection and subscribes
// it to the connection's unsolicited frames.
func New(c *conn.Conn) *Client {
	cl := &Client{
		conn:    c,
		jobs:    make(map[string]*pendingJob),
		orphans: make(map[string][]api.Frame),
	}
	c.RegisterUnsolicited(cl.route)
	return cl
}

// Submit sends a job and waits for its outcome. It returns the
// WORK_COMPLETE result together with the JobHandle holding any
// WORK_DATA / WORK_WARNING chunks the job reported along the way.
func (cl *Client) Submit(ctx context.Context, function string, data []byte) ([]byte, *api.JobHandle, error) {
	return cl.submitForeground(ctx, api.SubmitJob, function, data)
}

// SubmitHigh is Submit with high queue priority.
func (cl *Client) SubmitHigh(ctx context.Context, function string, data []byte) ([]byte, *api.JobHandle, error) {
	return cl.submitForeground(ctx, api.SubmitJobHigh, function, data)
}

// SubmitLow is Submit with low queue priority.
func (cl *Client) SubmitLow(ctx context.Context, function string, data []byte) ([]byte, *api.JobHandle, error) {
	return cl.submitForeground(ctx, api.SubmitJobLow, function, data)
}

// SubmitBackground sends a job the client does not wait for and returns
// the server-assigned handle, usable with Status.
func (cl *Client) SubmitBackground(ctx context.Context, function string, data []byte) (string, error) {
	return cl.submit(ctx, api.SubmitJobBG, function, data)
}

// SubmitHighBackground is SubmitBackground with high queue priority.
func (cl *Client) SubmitHighBackground(ctx context.Context, function string, data []byte) (string, error) {
	return cl.submit(ctx, api.SubmitJobHighBG, function, data)
}

// SubmitLowBackground is SubmitBackground with low queue priority.
func (cl *Client) SubmitLowBackground(ctx context.Context, function string, data []byte) (string, error) {
	return cl.submit(ctx, api.SubmitJobLowBG, function, data)
}

// Status asks the server about a submitted job by handle.
func (cl *Client) Status(ctx context.Context, handle string) (*JobStatus, error) {
	reply, err := cl.conn.Send(api.GetStatus, []byte(handle))
	if err != nil {
		return nil, err
	}
	cmd, payload, err := reply.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if cmd != api.StatusRes {
		return nil, fmt.Errorf("unexpected reply to GET_STATUS: %v", cmd)
	}
	return parseStatus(payload)
}

// Echo round-trips a payload through the server. A nil payload sends
// "hello".
func (cl *Client) Echo(ctx context.Context, payload []byte) ([]byte, error) {
	reply, err := cl.conn.Echo(payload)
	if err != nil {
		return nil, err
	}
	_, echoed, err := reply.Wait(ctx)
	return echoed, err
}

// submit performs the SUBMIT_JOB exchange and returns the handle from
// the JOB_CREATED reply. The payload is "function\0unique\0data" with a
// fresh UUID as the client-unique ID.
func (cl *Client) submit(ctx context.Context, cmd api.Command, function string, data []byte) (string, error) {
	unique := uuid.NewString()
	payload := make([]byte, 0, len(function)+1+len(unique)+1+len(data))
	payload = append(payload, function...)
	payload = append(payload, 0)
	payload = append(payload, unique...)
	payload = append(payload, 0)
	payload = append(payload, data...)

	reply, err := cl.conn.Send(cmd, payload)
	if err != nil {
		return "", err
	}
	res, created, err := reply.Wait(ctx)
	if err != nil {
		return "", err
	}
	if res != api.JobCreated {
		return "", fmt.Errorf("unexpected reply to %v: %v", cmd, res)
	}
	return string(created), nil
}

func (cl *Client) submitForeground(ctx context.Context, cmd api.Command, function string, data []byte) ([]byte, *api.JobHandle, error) {
	handle, err := cl.submit(ctx, cmd, function, data)
	if err != nil {
		return nil, nil, err
	}

	pj := &pendingJob{
		handle: api.NewJobHandle(handle),
		done:   make(chan struct{}),
	}

	cl.mu.Lock()
	cl.jobs[handle] = pj
	parked := cl.orphans[handle]
	delete(cl.orphans, handle)
	cl.mu.Unlock()

	for _, f := range parked {
		cl.route(f.Cmd, f.Payload)
	}

	select {
	case <-pj.done:
		return pj.result, pj.handle, pj.err
	case <-ctx.Done():
		cl.mu.Lock()
		delete(cl.jobs, handle)
		cl.mu.Unlock()
		return nil, pj.handle, ctx.Err()
	}
}

// route is the client's unsolicited subscriber. It demultiplexes work
// frames by handle onto the matching pending submission; frames for
// handles this client is not (yet) tracking are parked for a possible
// in-flight Submit.
func (cl *Client) route(cmd api.Command, payload []byte) {
	switch cmd {
	case api.WorkData, api.WorkWarning, api.WorkStatus,
		api.WorkComplete, api.WorkFail, api.WorkException:
	default:
		return
	}

	handleBytes, rest, _ := bytes.Cut(payload, []byte{0})
	handle := string(handleBytes)

	cl.mu.Lock()
	pj, ok := cl.jobs[handle]
	if !ok {
		cl.orphans[handle] = append(cl.orphans[handle], api.Frame{
			Response: true,
			Cmd:      cmd,
			Payload:  bytes.Clone(payload),
		})
		cl.mu.Unlock()
		return
	}
	terminal := cmd == api.WorkComplete || cmd == api.WorkFail
	if terminal {
		delete(cl.jobs, handle)
	}
	cl.mu.Unlock()

	switch cmd {
	case api.WorkData:
		pj.handle.AppendWorkData(rest)
	case api.WorkWarning:
		pj.handle.AppendWorkWarning(rest)
	case api.WorkStatus:
		// Progress is available on demand through Status; nothing to
		// accumulate here.
	case api.WorkException:
		pj.err = fmt.Errorf("%w: %s", ErrJobFailed, rest)
	case api.WorkComplete:
		pj.result = bytes.Clone(rest)
		close(pj.done)
	case api.WorkFail:
		if pj.err == nil {
			pj.err = ErrJobFailed
		}
		close(pj.done)
	}
}

func parseStatus(payload []byte) (*JobStatus, error) {
	parts := bytes.Split(payload, []byte{0})
	if len(parts) != 5 {
		return nil, fmt.Errorf("malformed STATUS_RES payload: %d fields", len(parts))
	}
	num, err := strconv.Atoi(string(parts[3]))
	if err != nil {
		return nil, fmt.Errorf("malformed STATUS_RES numerator: %w", err)
	}
	den, err := strconv.Atoi(string(parts[4]))
	if err != nil {
		return nil, fmt.Errorf("malformed STATUS_RES denominator: %w", err)
	}
	return &JobStatus{
		Handle:      string(parts[0]),
		Known:       string(parts[1]) == "1",
		Running:     string(parts[2]) == "1",
		Numerator:   num,
		Denominator: den,
	}, nil
}
