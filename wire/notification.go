package wire

import (
	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/stream"
)

// EncodeNotification frames a NOTIFICATION message: code, subcode,
// then the variable-length diagnostic data (RFC 4271 §4.5).
func EncodeNotification(n bgp.Notification) []byte {
	body := make([]byte, 0, 2+len(n.Data))
	body = append(body, n.Code, n.Subcode)
	body = append(body, n.Data...)
	return frame(bgp.MsgNotification, body)
}

// DecodeNotification parses a NOTIFICATION message body. The data
// field's length follows from the already-validated body length, so
// no length byte is carried here.
func DecodeNotification(body []byte) (bgp.Notification, error) {
	r := stream.NewReader(byteReader(body))
	var n bgp.Notification

	code, err := r.ReadByte()
	if err != nil {
		return n, err
	}
	n.Code = code

	subcode, err := r.ReadByte()
	if err != nil {
		return n, err
	}
	n.Subcode = subcode

	if len(body) > 2 {
		n.Data = append([]byte(nil), body[2:]...)
	}
	return n, nil
}
