package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/petrijr/gearo/pkg/api"
	"github.com/petrijr/gearo/pkg/conn"
)

// ErrUnknownFunction is reported to the server when a job arrives for a
// function name that has no registered handler.
var ErrUnknownFunction = errors.New("no function registered for job")

// JobFunc is the executable unit of a worker: it receives the job and
// returns the result bytes sent back in the WORK_COMPLETE frame. An
// error (or a panic, which is recovered) turns into a WORK_EXCEPTION
// plus WORK_FAIL report instead.
type JobFunc func(ctx context.Context, job *api.Job) ([]byte, error)

// Worker drives the grab/sleep/wake acquisition cycle over a Conn,
// executes registered job functions and reports their outcomes.
type Worker struct {
	conn *conn.Conn
	obs  api.Observer

	mu        sync.Mutex
	functions map[string]JobFunc
	wake      *api.Reply
}

// New creates a Worker on top of an existing connection.
func New(c *conn.Conn) *Worker {
	return NewWithObserver(c, nil)
}

// NewWithObserver creates a Worker that reports job lifecycle events to
// obs. A nil observer behaves like NoopObserver.
func NewWithObserver(c *conn.Conn, obs api.Observer) *Worker {
	if obs == nil {
		obs = api.NoopObserver{}
	}
	return &Worker{
		conn:      c,
		obs:       obs,
		functions: make(map[string]JobFunc),
	}
}

// RegisterFunction records fn under name and declares the capability to
// the server with CAN_DO. Registering a name again overwrites the
// handler without re-declaring; the server already knows.
func (w *Worker) RegisterFunction(name string, fn JobFunc) error {
	w.mu.Lock()
	_, declared := w.functions[name]
	w.functions[name] = fn
	w.mu.Unlock()

	if declared {
		return nil
	}
	return w.conn.SendRaw(api.CanDo, []byte(name))
}

// UnregisterFunction removes the handler for name and tells the server
// with CANT_DO. Unregistering an unknown name still sends the frame;
// the server treats it as a no-op.
func (w *Worker) UnregisterFunction(name string) error {
	w.mu.Lock()
	delete(w.functions, name)
	w.mu.Unlock()
	return w.conn.SendRaw(api.CantDo, []byte(name))
}

// ResetAbilities drops every registered function, locally and on the
// server.
func (w *Worker) ResetAbilities() error {
	w.mu.Lock()
	w.functions = make(map[string]JobFunc)
	w.mu.Unlock()
	return w.conn.SendRaw(api.ResetAbilities, nil)
}

// SetClientID assigns this worker an identifier the server shows in its
// administrative interface.
func (w *Worker) SetClientID(id string) error {
	return w.conn.SendRaw(api.SetClientID, []byte(id))
}

// SleepUntilWoken declares sleep to the server and returns a Reply that
// resolves on the next unsolicited push (normally the NOOP wake-up).
//
// Concurrent sleeps coalesce: while a wake is already pending every
// caller gets the same Reply and no second PRE_SLEEP frame is sent.
func (w *Worker) SleepUntilWoken() (*api.Reply, error) {
	w.mu.Lock()
	if w.wake != nil {
		r := w.wake
		w.mu.Unlock()
		return r, nil
	}
	r := api.NewReply()
	w.wake = r
	w.mu.Unlock()

	var wakeUp conn.UnsolicitedFunc
	wakeUp = func(cmd api.Command, payload []byte) {
		w.conn.UnregisterUnsolicited(wakeUp)
		w.clearWake(r)
		r.Resolve(cmd, payload)
	}
	w.conn.RegisterUnsolicited(wakeUp)

	if err := w.conn.PreSleep(); err != nil {
		w.conn.UnregisterUnsolicited(wakeUp)
		w.clearWake(r)
		return nil, err
	}
	return r, nil
}

func (w *Worker) clearWake(r *api.Reply) {
	w.mu.Lock()
	if w.wake == r {
		w.wake = nil
	}
	w.mu.Unlock()
}

func (w *Worker) pendingWake() *api.Reply {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.wake
}

// GetJob acquires the next job from the server:
//
//  1. If a sleep is already pending, wait for its wake first — a second
//     grab/sleep cycle is never started concurrently.
//  2. Send GRAB_JOB.
//  3. On NO_JOB, sleep until woken and retry.
//  4. On JOB_ASSIGN, parse and return the job.
//
// The loop runs until a job arrives, ctx is done, or the connection is
// lost.
func (w *Worker) GetJob(ctx context.Context) (*api.Job, error) {
	for {
		if r := w.pendingWake(); r != nil {
			if _, _, err := r.Wait(ctx); err != nil {
				return nil, err
			}
		}

		reply, err := w.conn.Send(api.GrabJob, nil)
		if err != nil {
			return nil, err
		}
		cmd, payload, err := reply.Wait(ctx)
		if err != nil {
			return nil, err
		}

		switch cmd {
		case api.JobAssign:
			return api.ParseJob(payload)
		case api.NoJob:
			r, err := w.SleepUntilWoken()
			if err != nil {
				return nil, err
			}
			if _, _, err := r.Wait(ctx); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unexpected reply to GRAB_JOB: %v", cmd)
		}
	}
}

// DoJob acquires one job, executes it and reports the outcome. Job
// function errors are absorbed into WORK_EXCEPTION/WORK_FAIL reports
// and never returned; the returned error covers acquisition and
// transport failures only.
func (w *Worker) DoJob(ctx context.Context) error {
	job, err := w.GetJob(ctx)
	if err != nil {
		return err
	}
	return w.RunJob(ctx, job)
}

// RunJob dispatches an already-acquired job to its registered function
// and reports the result to the server:
//
//   - normal return: WORK_COMPLETE with "handle\0result" (an empty
//     result leaves no trailing bytes after the NUL)
//   - error or panic: WORK_EXCEPTION with "handle\0<error text>"
//     followed by the authoritative WORK_FAIL with "handle\0"
func (w *Worker) RunJob(ctx context.Context, job *api.Job) error {
	w.mu.Lock()
	fn := w.functions[job.Function]
	w.mu.Unlock()

	w.obs.OnJobStarted(job)
	start := time.Now()

	var result []byte
	var jobErr error
	if fn == nil {
		jobErr = fmt.Errorf("%w: %s", ErrUnknownFunction, job.Function)
	} else {
		result, jobErr = runFunc(ctx, fn, job)
	}
	w.obs.OnJobFinished(job, jobErr, time.Since(start))

	if jobErr != nil {
		if err := w.SendJobResponse(api.WorkException, job, []byte(jobErr.Error())); err != nil {
			return err
		}
		return w.SendJobResponse(api.WorkFail, job, nil)
	}
	return w.SendJobResponse(api.WorkComplete, job, result)
}

func runFunc(ctx context.Context, fn JobFunc, job *api.Job) (result []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job function panicked: %v", p)
		}
	}()
	return fn(ctx, job)
}

// SendJobResponse formats and sends "handle\0data" under the given
// outcome command. RunJob uses it for terminal reports; job functions
// may use the wrappers below for incremental ones.
func (w *Worker) SendJobResponse(cmd api.Command, job *api.Job, data []byte) error {
	payload := make([]byte, 0, len(job.Handle)+1+len(data))
	payload = append(payload, job.Handle...)
	payload = append(payload, 0)
	payload = append(payload, data...)
	return w.conn.SendRaw(cmd, payload)
}

// SendWorkData pushes an incremental chunk of job output to the server
// while the job is still running.
func (w *Worker) SendWorkData(job *api.Job, chunk []byte) error {
	return w.SendJobResponse(api.WorkData, job, chunk)
}

// SendWorkWarning pushes a diagnostic chunk for a running job.
func (w *Worker) SendWorkWarning(job *api.Job, chunk []byte) error {
	return w.SendJobResponse(api.WorkWarning, job, chunk)
}

// SendWorkStatus reports job progress as numerator/denominator.
func (w *Worker) SendWorkStatus(job *api.Job, numerator, denominator int) error {
	status := strconv.Itoa(numerator) + "\x00" + strconv.Itoa(denominator)
	return w.SendJobResponse(api.WorkStatus, job, []byte(status))
}
