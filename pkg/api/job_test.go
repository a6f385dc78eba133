package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseJob(t *testing.T) {
	t.Parallel()

	job, err := ParseJob([]byte("footdle\x00dys\x00some data"))
	require.NoError(t, err)
	require.Equal(t, "footdle", job.Handle)
	require.Equal(t, "dys", job.Function)
	require.Equal(t, []byte("some data"), job.Data)
}

// The data field is the final one and is never split further, so NUL
// bytes inside it survive.
func TestParseJobDataKeepsNULs(t *testing.T) {
	t.Parallel()

	job, err := ParseJob([]byte("h1\x00concat\x00a\x00b\x00c"))
	require.NoError(t, err)
	require.Equal(t, "h1", job.Handle)
	require.Equal(t, "concat", job.Function)
	require.Equal(t, []byte("a\x00b\x00c"), job.Data)
}

func TestParseJobEmptyData(t *testing.T) {
	t.Parallel()

	job, err := ParseJob([]byte("h1\x00noargs\x00"))
	require.NoError(t, err)
	require.Empty(t, job.Data)
}

func TestParseJobMalformed(t *testing.T) {
	t.Parallel()

	for _, payload := range [][]byte{
		nil,
		[]byte("no separators at all"),
		[]byte("only-one\x00separator"),
	} {
		_, err := ParseJob(payload)
		require.ErrorIs(t, err, ErrMalformedJob, "payload %q", payload)
	}
}

func TestJobString(t *testing.T) {
	t.Parallel()

	job, err := ParseJob([]byte("footdle\x00dys\x00some data"))
	require.NoError(t, err)
	require.Equal(t, "job footdle func=dys with 9 bytes of data", job.String())
}
