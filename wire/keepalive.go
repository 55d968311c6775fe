package wire

import (
	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/notify"
)

// EncodeKeepalive frames a KEEPALIVE: the header alone, no body.
func EncodeKeepalive() []byte {
	return frame(bgp.MsgKeepalive, nil)
}

// DecodeKeepalive validates that a KEEPALIVE carries no body; any
// trailing bytes are a framing error.
func DecodeKeepalive(body []byte) (bgp.Keepalive, error) {
	if len(body) != 0 {
		return bgp.Keepalive{}, notify.MustNew(notify.MessageHeaderError, notify.BadMessageLength, nil)
	}
	return bgp.Keepalive{}, nil
}
