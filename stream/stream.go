// Package stream reads fixed- and variable-width fields off a byte
// source, and frames whole BGP messages off a connection. It replaces
// ad hoc buffer math in the codec with a single place that turns EOF
// and short reads into proper errors instead of busy-looping.
package stream

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/notify"
)

// Reader wraps an io.Reader with the big-endian field accessors the
// wire codec needs. Every method returns an error instead of
// panicking or silently retrying on a short read.
type Reader struct {
	r io.Reader
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader { return &Reader{r: r} }

// ReadBytes reads exactly n bytes, or returns an error (including
// io.ErrUnexpectedEOF on a short read).
func (s *Reader) ReadBytes(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return nil, fmt.Errorf("stream: read %d bytes: %w", n, err)
	}
	return buf, nil
}

// ReadByte reads a single byte.
func (s *Reader) ReadByte() (byte, error) {
	b, err := s.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a 2-byte big-endian unsigned integer.
func (s *Reader) ReadUint16() (uint16, error) {
	b, err := s.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadUint32 reads a 4-byte big-endian unsigned integer.
func (s *Reader) ReadUint32() (uint32, error) {
	b, err := s.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadMessage frames one whole BGP message: it reads the fixed
// 19-octet header, validates Length against the spec's bounds, and
// reads exactly the body that Length declares. It does not interpret
// the body — that is the wire package's job.
func ReadMessage(r io.Reader) (bgp.Header, []byte, error) {
	sr := NewReader(r)
	var hdr bgp.Header
	marker, err := sr.ReadBytes(bgp.MarkerLength)
	if err != nil {
		return hdr, nil, err
	}
	copy(hdr.Marker[:], marker)

	length, err := sr.ReadUint16()
	if err != nil {
		return hdr, nil, err
	}
	hdr.Length = length

	typ, err := sr.ReadByte()
	if err != nil {
		return hdr, nil, err
	}
	hdr.Type = bgp.MessageType(typ)

	if int(hdr.Length) < bgp.MinMessageLength || int(hdr.Length) > bgp.MaxMessageLength {
		return hdr, nil, notify.MustNew(notify.MessageHeaderError, notify.BadMessageLength, nil)
	}

	bodyLen := int(hdr.Length) - bgp.HeaderLength
	body, err := sr.ReadBytes(bodyLen)
	if err != nil {
		return hdr, nil, err
	}
	return hdr, body, nil
}
