// Package wire marshals and unmarshals the four BGP message bodies
// (OPEN, UPDATE, NOTIFICATION, KEEPALIVE) to and from their RFC 4271
// §4 octet layouts. Each message type gets its own Encode/Decode pair
// rather than one generic codec, following the per-message-type
// serializer split the reference implementation uses.
package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/notify"
)

// allOnesMarker is the 16-octet marker value used on every message
// this implementation sends: RFC 4271 does not define an
// authentication scheme here, so the marker is always all ones.
var allOnesMarker = func() [bgp.MarkerLength]byte {
	var m [bgp.MarkerLength]byte
	for i := range m {
		m[i] = 0xff
	}
	return m
}()

// minBodyLength is the smallest legal body (message minus the 19-octet
// header) for each message type, per RFC 4271 §4.
var minBodyLength = map[bgp.MessageType]int{
	bgp.MsgOpen:         29 - bgp.HeaderLength,
	bgp.MsgUpdate:       23 - bgp.HeaderLength,
	bgp.MsgNotification: 21 - bgp.HeaderLength,
	bgp.MsgKeepalive:    19 - bgp.HeaderLength,
}

// frame prepends the fixed header to an encoded body, setting Length
// to their combined size.
func frame(typ bgp.MessageType, body []byte) []byte {
	total := bgp.HeaderLength + len(body)
	out := make([]byte, 0, total)
	out = append(out, allOnesMarker[:]...)
	var length [2]byte
	binary.BigEndian.PutUint16(length[:], uint16(total))
	out = append(out, length[:]...)
	out = append(out, byte(typ))
	out = append(out, body...)
	return out
}

// CheckHeader validates a decoded header against the framing rules a
// receiver must enforce before looking at the body (RFC 4271 §6.1):
// the marker must be all ones, and Length must be large enough for
// the declared message Type.
func CheckHeader(hdr bgp.Header) error {
	for _, b := range hdr.Marker {
		if b != 0xff {
			return notify.MustNew(notify.MessageHeaderError, notify.ConnectionNotSynchronized, nil)
		}
	}
	min, known := minBodyLength[hdr.Type]
	if !known {
		return notify.MustNew(notify.MessageHeaderError, notify.BadMessageType, nil)
	}
	if int(hdr.Length) < min+bgp.HeaderLength {
		return notify.MustNew(notify.MessageHeaderError, notify.BadMessageLength, nil)
	}
	return nil
}

// Decode dispatches a framed message's body to the matching decoder
// based on hdr.Type. hdr should already have passed CheckHeader.
func Decode(hdr bgp.Header, body []byte) (any, error) {
	switch hdr.Type {
	case bgp.MsgOpen:
		return DecodeOpen(body)
	case bgp.MsgUpdate:
		return DecodeUpdate(body)
	case bgp.MsgNotification:
		return DecodeNotification(body)
	case bgp.MsgKeepalive:
		return DecodeKeepalive(body)
	default:
		return nil, fmt.Errorf("wire: unknown message type %d", hdr.Type)
	}
}
