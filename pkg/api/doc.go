// Package api contains the core building blocks shared by the gearo
// protocol engine, worker and client. It defines the wire-level value
// types (commands, frames, jobs), the single-resolution Reply future
// used for correlated requests, the Transport abstraction the engine
// writes to, and the Observer hooks for logging and metrics.
//
// Most users interact with the higher-level gearo package, which
// re-exports selected types and helpers from this package. The api
// package is intended for advanced use cases, custom transports, or
// contributors extending the engine itself.
//
// # Wire Types
//
// Command enumerates the Gearman packet command codes; the numeric
// values are fixed by the protocol. Frame is one decoded packet: magic
// kind, command code and payload. Job is the immutable result of
// parsing a JOB_ASSIGN payload, and JobHandle accumulates the
// incremental WORK_DATA / WORK_WARNING output a job may report before
// its terminal outcome.
//
// # Replies
//
// Reply is a future resolved exactly once, either with a response
// (command, payload) pair or with an error. Correlation with requests
// is positional: the wire format carries no request IDs, so the
// connection resolves pending replies strictly in the order requests
// were sent.
//
// # Observability
//
// Observer receives frame and job lifecycle callbacks. NoopObserver is
// the default, ZapObserver logs through go.uber.org/zap, BasicMetrics
// keeps atomic counters, and CompositeObserver fans out to several
// observers at once.
package api
