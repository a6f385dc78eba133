// Package codec implements the Gearman binary frame envelope.
//
// Every frame is a fixed 12-byte header followed by the payload:
//
//	offset 0:  4 bytes  magic, "\0REQ" or "\0RES"
//	offset 4:  4 bytes  command code, big-endian
//	offset 8:  4 bytes  payload length, big-endian
//	offset 12: payload
//
// The Decoder is incremental: bytes may arrive in arbitrary chunks and
// any partial trailing frame is retained for the next Feed call.
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/petrijr/gearo/pkg/api"
)

// HeaderLen is the fixed size of a frame header: magic, command, length.
const HeaderLen = 12

var (
	reqMagic = []byte("\x00REQ")
	resMagic = []byte("\x00RES")
)

// AppendRequest appends one request frame to dst and returns the
// extended slice.
func AppendRequest(dst []byte, cmd api.Command, payload []byte) []byte {
	return appendFrame(dst, reqMagic, cmd, payload)
}

// AppendResponse appends one response frame to dst. Only servers and
// test fixtures produce response frames; the client side sends requests.
func AppendResponse(dst []byte, cmd api.Command, payload []byte) []byte {
	return appendFrame(dst, resMagic, cmd, payload)
}

func appendFrame(dst, magic []byte, cmd api.Command, payload []byte) []byte {
	dst = append(dst, magic...)
	dst = binary.BigEndian.AppendUint32(dst, uint32(cmd))
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(payload)))
	return append(dst, payload...)
}

// Decoder parses frames out of an incoming byte stream. The zero value
// is ready to use. Decoder is not safe for concurrent use; the owning
// connection serializes access.
type Decoder struct {
	buf []byte
}

// Feed appends newly-arrived bytes and returns every complete frame now
// available, in arrival order. A header with an unrecognized magic
// marker returns an error wrapping api.ErrBadMagic together with the
// frames decoded before it; the stream cannot be resynchronized after
// that point.
func (d *Decoder) Feed(p []byte) ([]api.Frame, error) {
	d.buf = append(d.buf, p...)

	var frames []api.Frame
	for len(d.buf) >= HeaderLen {
		var response bool
		switch {
		case bytes.Equal(d.buf[:4], reqMagic):
			response = false
		case bytes.Equal(d.buf[:4], resMagic):
			response = true
		default:
			return frames, fmt.Errorf("%w: % x", api.ErrBadMagic, d.buf[:4])
		}

		cmd := api.Command(binary.BigEndian.Uint32(d.buf[4:8]))
		length := int(binary.BigEndian.Uint32(d.buf[8:12]))
		if len(d.buf) < HeaderLen+length {
			break
		}

		var payload []byte
		if length > 0 {
			payload = bytes.Clone(d.buf[HeaderLen : HeaderLen+length])
		}
		d.buf = d.buf[HeaderLen+length:]
		frames = append(frames, api.Frame{
			Response: response,
			Cmd:      cmd,
			Payload:  payload,
		})
	}
	return frames, nil
}

// Buffered returns the number of partial-frame bytes retained for the
// next Feed call.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}
