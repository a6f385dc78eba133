package api

import (
	"bytes"
	"fmt"
)

// Job is a unit of work assigned by the server. It is parsed from a
// JOB_ASSIGN payload and immutable thereafter.
type Job struct {
	// Handle is the server-assigned identifier used in all frames that
	// refer back to this job.
	Handle string

	// Function is the name of the capability the job was submitted under.
	Function string

	// Data is the opaque argument blob. It is the final payload field and
	// may itself contain NUL bytes.
	Data []byte
}

var nul = []byte{0}

// ParseJob splits a JOB_ASSIGN payload at the first two NUL bytes into
// handle, function and data. It returns ErrMalformedJob when fewer than
// two separators are present.
func ParseJob(payload []byte) (*Job, error) {
	handle, rest, ok := bytes.Cut(payload, nul)
	if !ok {
		return nil, fmt.Errorf("%w: missing handle separator", ErrMalformedJob)
	}
	function, data, ok := bytes.Cut(rest, nul)
	if !ok {
		return nil, fmt.Errorf("%w: missing function separator", ErrMalformedJob)
	}
	return &Job{
		Handle:   string(handle),
		Function: string(function),
		Data:     data,
	}, nil
}

func (j *Job) String() string {
	return fmt.Sprintf("job %s func=%s with %d bytes of data", j.Handle, j.Function, len(j.Data))
}
