package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJobHandleWorkData(t *testing.T) {
	t.Parallel()

	h := NewJobHandle("h1")
	require.Empty(t, h.WorkData())

	h.AppendWorkData([]byte("test"))
	h.AppendWorkData([]byte("ing"))
	require.Equal(t, []byte("testing"), h.WorkData())
}

func TestJobHandleWorkWarning(t *testing.T) {
	t.Parallel()

	h := NewJobHandle("h1")
	h.AppendWorkWarning([]byte("test"))
	h.AppendWorkWarning([]byte("ing"))
	require.Equal(t, []byte("testing"), h.WorkWarning())
	require.Empty(t, h.WorkData())
}

// Appended chunks are copied, so callers may reuse their buffers.
func TestJobHandleCopiesChunks(t *testing.T) {
	t.Parallel()

	h := NewJobHandle("h1")
	buf := []byte("abc")
	h.AppendWorkData(buf)
	buf[0] = 'x'
	require.Equal(t, []byte("abc"), h.WorkData())
}
