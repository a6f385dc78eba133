package api

// Frame is a single decoded protocol packet: the magic marker kind, the
// command code and the raw payload. Length is implicit in len(Payload).
type Frame struct {
	// Response reports whether the frame carried the response magic
	// marker rather than the request marker.
	Response bool

	Cmd     Command
	Payload []byte
}

// Transport is the abstract duplex byte channel a connection writes to.
// The connection never opens a transport itself; inbound bytes are pushed
// into it by whoever owns the transport (see Conn.OnDataReceived).
type Transport interface {
	// Write sends raw bytes to the peer.
	Write(p []byte) error

	// Close terminates the channel. The connection calls this on fatal
	// protocol violations such as a corrupt frame header.
	Close() error
}
