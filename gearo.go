package gearo

import (
	"github.com/petrijr/gearo/pkg/api"
	"github.com/petrijr/gearo/pkg/client"
	"github.com/petrijr/gearo/pkg/conn"
	"github.com/petrijr/gearo/pkg/worker"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Command              = api.Command
	Frame                = api.Frame
	Job                  = api.Job
	JobHandle            = api.JobHandle
	JobStatus            = client.JobStatus
	Reply                = api.Reply
	Transport            = api.Transport
	Observer             = api.Observer
	NoopObserver         = api.NoopObserver
	CompositeObserver    = api.CompositeObserver
	ZapObserver          = api.ZapObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	Conn                 = conn.Conn
	UnsolicitedFunc      = conn.UnsolicitedFunc
	Worker               = worker.Worker
	JobFunc              = worker.JobFunc
	Client               = client.Client
)

// Re-export common helpers and sentinel errors.

var (
	ParseJob             = api.ParseJob
	NewJobHandle         = api.NewJobHandle
	NewReply             = api.NewReply
	NewZapObserver       = api.NewZapObserver
	NewCompositeObserver = api.NewCompositeObserver

	ErrNotConnected   = api.ErrNotConnected
	ErrConnectionLost = api.ErrConnectionLost
	ErrBadMagic       = api.ErrBadMagic
	ErrMalformedJob   = api.ErrMalformedJob
	ErrJobFailed      = client.ErrJobFailed
)

// Re-export the command codes used in day-to-day worker and client
// code. The full table lives in pkg/api.

const (
	CanDo         = api.CanDo
	CantDo        = api.CantDo
	PreSleep      = api.PreSleep
	Noop          = api.Noop
	SubmitJob     = api.SubmitJob
	JobCreated    = api.JobCreated
	GrabJob       = api.GrabJob
	NoJob         = api.NoJob
	JobAssign     = api.JobAssign
	WorkStatus    = api.WorkStatus
	WorkComplete  = api.WorkComplete
	WorkFail      = api.WorkFail
	EchoReq       = api.EchoReq
	EchoRes       = api.EchoRes
	WorkException = api.WorkException
	WorkData      = api.WorkData
	WorkWarning   = api.WorkWarning
)

// Constructors
// These wrap the pkg/conn, pkg/worker and pkg/client packages so common
// setups need only this package.

// NewConn creates a protocol connection over the given transport.
func NewConn(t Transport) *Conn {
	return conn.New(t)
}

// NewConnWithObserver creates a connection reporting to the given Observer.
func NewConnWithObserver(t Transport, obs Observer) *Conn {
	return conn.NewWithObserver(t, obs)
}

// NewWorker creates a Worker on top of an existing connection.
func NewWorker(c *Conn) *Worker {
	return worker.New(c)
}

// NewWorkerWithObserver creates a Worker reporting to the given Observer.
func NewWorkerWithObserver(c *Conn, obs Observer) *Worker {
	return worker.NewWithObserver(c, obs)
}

// NewClient creates a job-submission Client on top of an existing
// connection.
func NewClient(c *Conn) *Client {
	return client.New(c)
}
