// Package client implements the producer side of the job-queue
// protocol: submitting jobs and collecting their results.
//
// Foreground submissions (Submit and its priority variants) block until
// the job's terminal frame. Incremental WORK_DATA and WORK_WARNING
// pushes accumulate on the returned api.JobHandle as they arrive.
// Background submissions return the server-assigned handle immediately;
// progress can be polled with Status.
package client
