package gearo

import (
	"net"

	"github.com/petrijr/gearo/pkg/api"
	"github.com/petrijr/gearo/pkg/conn"
)

// netTransport adapts a net.Conn to the api.Transport interface.
type netTransport struct {
	nc net.Conn
}

func (t *netTransport) Write(p []byte) error {
	_, err := t.nc.Write(p)
	return err
}

func (t *netTransport) Close() error {
	return t.nc.Close()
}

// Dial connects to a job server, wraps the socket in a protocol
// connection and starts the read pump. The returned Conn is ready for
// workers and clients; it becomes unusable once the server closes the
// socket or a framing error occurs (this library never reconnects).
func Dial(network, addr string) (*Conn, error) {
	return DialWithObserver(network, addr, nil)
}

// DialWithObserver is Dial with an Observer attached to the connection.
func DialWithObserver(network, addr string, obs Observer) (*Conn, error) {
	nc, err := net.Dial(network, addr)
	if err != nil {
		return nil, err
	}
	return WrapNetConnWithObserver(nc, obs), nil
}

// WrapNetConn builds a protocol connection over an already-established
// net.Conn and starts a goroutine that pumps received bytes into the
// protocol engine. The engine itself stays transport-agnostic; this is
// the only place in the library that touches sockets.
func WrapNetConn(nc net.Conn) *Conn {
	return WrapNetConnWithObserver(nc, nil)
}

// WrapNetConnWithObserver is WrapNetConn with an Observer attached.
func WrapNetConnWithObserver(nc net.Conn, obs Observer) *Conn {
	c := conn.NewWithObserver(&netTransport{nc: nc}, obs)
	go readPump(nc, c)
	return c
}

func readPump(nc net.Conn, c *Conn) {
	buf := make([]byte, 4096)
	for {
		n, err := nc.Read(buf)
		if n > 0 {
			if derr := c.OnDataReceived(buf[:n]); derr != nil {
				// The engine already closed the transport on the framing
				// error; report the loss and stop.
				c.OnConnectionLost(derr)
				return
			}
		}
		if err != nil {
			_ = nc.Close()
			c.OnConnectionLost(err)
			return
		}
	}
}

var _ api.Transport = (*netTransport)(nil)
