// Package worker implements the consumer side of the job-queue
// protocol: it registers capabilities, pulls jobs off the server and
// reports their outcomes.
//
// A Worker composes a conn.Conn. Job acquisition follows the
// grab/sleep/wake cycle: request work with GRAB_JOB, and when the
// server has none, declare sleep and wait for the NOOP push before
// retrying — never busy-poll. Sleeps coalesce, so any number of
// concurrent GetJob callers share a single PRE_SLEEP declaration and
// one wake event.
//
// Job function errors never escape the worker. They are translated into
// a WORK_EXCEPTION report followed by the authoritative WORK_FAIL
// frame, and the worker simply becomes idle again.
//
// A long-running worker is a loop the application owns:
//
//	for {
//		if err := w.DoJob(ctx); err != nil {
//			return err // connection lost or ctx done
//		}
//	}
package worker
