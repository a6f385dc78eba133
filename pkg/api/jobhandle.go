package api

import (
	"bytes"
	"sync"
)

// JobHandle accumulates the incremental output of an in-progress job:
// WORK_DATA and WORK_WARNING chunks pushed by the server before the
// job's terminal frame arrives. Accumulators are append-only; reading
// concatenates all chunks in arrival order.
//
// A JobHandle lives from the moment a job starts reporting until its
// terminal outcome (completion, exception or failure); it is discarded
// afterwards.
type JobHandle struct {
	// Handle is the server-assigned job identifier.
	Handle string

	mu          sync.Mutex
	workData    [][]byte
	workWarning [][]byte
}

// NewJobHandle creates an empty accumulator for the given job handle.
func NewJobHandle(handle string) *JobHandle {
	return &JobHandle{Handle: handle}
}

// AppendWorkData records one WORK_DATA chunk. The chunk is copied.
func (h *JobHandle) AppendWorkData(chunk []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.workData = append(h.workData, bytes.Clone(chunk))
}

// AppendWorkWarning records one WORK_WARNING chunk. The chunk is copied.
func (h *JobHandle) AppendWorkWarning(chunk []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.workWarning = append(h.workWarning, bytes.Clone(chunk))
}

// WorkData returns all accumulated work data chunks, concatenated in
// append order.
func (h *JobHandle) WorkData() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return bytes.Join(h.workData, nil)
}

// WorkWarning returns all accumulated warning chunks, concatenated in
// append order.
func (h *JobHandle) WorkWarning() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return bytes.Join(h.workWarning, nil)
}
