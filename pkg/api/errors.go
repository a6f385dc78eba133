package api

import "errors"

var (
	// ErrNotConnected is returned by send operations after the connection
	// has been lost. A new connection must be constructed over a fresh
	// transport; this library never reconnects on its own.
	ErrNotConnected = errors.New("not connected")

	// ErrConnectionLost rejects every request that was still pending when
	// the transport went away. The wrapping error carries the reason.
	ErrConnectionLost = errors.New("connection lost")

	// ErrBadMagic indicates a frame header whose magic marker is neither
	// the request nor the response marker. This is fatal: the connection
	// terminates the transport rather than attempt resynchronization.
	ErrBadMagic = errors.New("bad frame magic")

	// ErrMalformedJob indicates a JOB_ASSIGN payload with fewer than the
	// two NUL separators needed to split handle, function and data.
	ErrMalformedJob = errors.New("malformed job assignment")
)
