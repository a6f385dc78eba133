package api

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Observer receives callbacks from the connection and worker for logging
// and metrics.
//
// Implementations should be fast and non-blocking; heavy work should be
// done asynchronously so as not to delay frame dispatch.
type Observer interface {
	// OnFrameSent is called after a frame has been written to the
	// transport.
	OnFrameSent(cmd Command, payloadLen int)

	// OnFrameReceived is called for every fully-decoded inbound frame.
	// unsolicited reports whether the frame was fanned out to subscribers
	// rather than consumed as a correlated reply.
	OnFrameReceived(cmd Command, payloadLen int, unsolicited bool)

	// OnConnectionLost is called once when the connection goes away,
	// before pending requests are rejected.
	OnConnectionLost(reason error)

	// OnJobStarted is called by the worker before a job function runs.
	OnJobStarted(job *Job)

	// OnJobFinished is called after the job function returns, for both
	// successes and failures (err != nil), before the outcome is reported
	// to the server.
	OnJobFinished(job *Job, err error, duration time.Duration)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnFrameSent(cmd Command, payloadLen int)                   {}
func (NoopObserver) OnFrameReceived(cmd Command, payloadLen int, unsol bool)   {}
func (NoopObserver) OnConnectionLost(reason error)                             {}
func (NoopObserver) OnJobStarted(job *Job)                                     {}
func (NoopObserver) OnJobFinished(job *Job, err error, duration time.Duration) {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnFrameSent(cmd Command, payloadLen int) {
	for _, o := range c.observers {
		o.OnFrameSent(cmd, payloadLen)
	}
}

func (c *CompositeObserver) OnFrameReceived(cmd Command, payloadLen int, unsol bool) {
	for _, o := range c.observers {
		o.OnFrameReceived(cmd, payloadLen, unsol)
	}
}

func (c *CompositeObserver) OnConnectionLost(reason error) {
	for _, o := range c.observers {
		o.OnConnectionLost(reason)
	}
}

func (c *CompositeObserver) OnJobStarted(job *Job) {
	for _, o := range c.observers {
		o.OnJobStarted(job)
	}
}

func (c *CompositeObserver) OnJobFinished(job *Job, err error, d time.Duration) {
	for _, o := range c.observers {
		o.OnJobFinished(job, err, d)
	}
}

// ZapObserver logs connection and job events through a zap.Logger.
// Frame traffic is logged at Debug level, job lifecycle at Info.
type ZapObserver struct {
	log *zap.Logger
}

// NewZapObserver creates a ZapObserver. A nil logger is replaced with
// zap.NewNop().
func NewZapObserver(log *zap.Logger) *ZapObserver {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapObserver{log: log}
}

func (z *ZapObserver) OnFrameSent(cmd Command, payloadLen int) {
	z.log.Debug("frame sent",
		zap.Stringer("command", cmd),
		zap.Int("bytes", payloadLen))
}

func (z *ZapObserver) OnFrameReceived(cmd Command, payloadLen int, unsol bool) {
	z.log.Debug("frame received",
		zap.Stringer("command", cmd),
		zap.Int("bytes", payloadLen),
		zap.Bool("unsolicited", unsol))
}

func (z *ZapObserver) OnConnectionLost(reason error) {
	z.log.Warn("connection lost", zap.Error(reason))
}

func (z *ZapObserver) OnJobStarted(job *Job) {
	z.log.Info("job started",
		zap.String("handle", job.Handle),
		zap.String("function", job.Function),
		zap.Int("bytes", len(job.Data)))
}

func (z *ZapObserver) OnJobFinished(job *Job, err error, d time.Duration) {
	if err != nil {
		z.log.Warn("job failed",
			zap.String("handle", job.Handle),
			zap.String("function", job.Function),
			zap.Duration("duration", d),
			zap.Error(err))
		return
	}
	z.log.Info("job completed",
		zap.String("handle", job.Handle),
		zap.String("function", job.Function),
		zap.Duration("duration", d))
}

// BasicMetrics is a lightweight Observer that tracks counters using
// atomic values. It is safe for concurrent use and adds very little
// overhead, making it suitable for production deployments that want
// simple visibility without an external metrics system.
type BasicMetrics struct {
	framesSent       atomic.Int64
	framesReceived   atomic.Int64
	unsolicited      atomic.Int64
	jobsCompleted    atomic.Int64
	jobsFailed       atomic.Int64
	totalJobDuration atomic.Int64 // nanoseconds, successful jobs only
}

// BasicMetricsSnapshot is a point-in-time copy of BasicMetrics counters.
type BasicMetricsSnapshot struct {
	FramesSent     int64
	FramesReceived int64
	Unsolicited    int64
	JobsCompleted  int64
	JobsFailed     int64
	AvgJobDuration time.Duration
}

func (m *BasicMetrics) OnFrameSent(cmd Command, payloadLen int) {
	m.framesSent.Add(1)
}

func (m *BasicMetrics) OnFrameReceived(cmd Command, payloadLen int, unsol bool) {
	m.framesReceived.Add(1)
	if unsol {
		m.unsolicited.Add(1)
	}
}

func (m *BasicMetrics) OnConnectionLost(reason error) {}

func (m *BasicMetrics) OnJobStarted(job *Job) {}

func (m *BasicMetrics) OnJobFinished(job *Job, err error, d time.Duration) {
	if err != nil {
		m.jobsFailed.Add(1)
		return
	}
	m.jobsCompleted.Add(1)
	m.totalJobDuration.Add(d.Nanoseconds())
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	completed := m.jobsCompleted.Load()
	totalNs := m.totalJobDuration.Load()

	var avg time.Duration
	if completed > 0 {
		avg = time.Duration(totalNs / completed)
	}

	return BasicMetricsSnapshot{
		FramesSent:     m.framesSent.Load(),
		FramesReceived: m.framesReceived.Load(),
		Unsolicited:    m.unsolicited.Load(),
		JobsCompleted:  completed,
		JobsFailed:     m.jobsFailed.Load(),
		AvgJobDuration: avg,
	}
}
