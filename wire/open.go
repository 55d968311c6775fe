package wire

import (
	"encoding/binary"

	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/notify"
	"github.com/relaybgp/bgpd/stream"
	"github.com/relaybgp/bgpd/tlv"
)

// EncodeOpen frames o as a complete OPEN message.
func EncodeOpen(o bgp.Open) []byte {
	body := make([]byte, 0, 10+o.OptParamsLen())
	body = append(body, byte(o.Version))

	var myAS, holdTime [2]byte
	binary.BigEndian.PutUint16(myAS[:], uint16(o.MyAS))
	binary.BigEndian.PutUint16(holdTime[:], o.HoldTime)
	body = append(body, myAS[:]...)
	body = append(body, holdTime[:]...)

	var id [4]byte
	binary.BigEndian.PutUint32(id[:], uint32(o.BGPIdentifier))
	body = append(body, id[:]...)

	body = append(body, byte(o.OptParamsLen()))
	for _, p := range o.OptParams {
		body = append(body, p.Type, p.Len())
		body = append(body, p.Value...)
	}
	return frame(bgp.MsgOpen, body)
}

// DecodeOpen parses an OPEN message body (everything after the fixed
// header).
func DecodeOpen(body []byte) (bgp.Open, error) {
	r := stream.NewReader(byteReader(body))
	var o bgp.Open

	version, err := r.ReadByte()
	if err != nil {
		return o, err
	}
	o.Version = bgp.Version(version)

	myAS, err := r.ReadUint16()
	if err != nil {
		return o, err
	}
	o.MyAS = bgp.ASN(myAS)

	holdTime, err := r.ReadUint16()
	if err != nil {
		return o, err
	}
	o.HoldTime = holdTime

	id, err := r.ReadUint32()
	if err != nil {
		return o, err
	}
	o.BGPIdentifier = bgp.Identifier(id)

	optLen, err := r.ReadByte()
	if err != nil {
		return o, err
	}
	optBytes, err := r.ReadBytes(int(optLen))
	if err != nil {
		return o, err
	}
	params, err := decodeTlvs(optBytes)
	if err != nil {
		return o, notify.MustNew(notify.OpenMessageError, notify.UnsupportedOptionalParameter, nil)
	}
	o.OptParams = params
	return o, nil
}

// decodeTlvs parses a run of (type, length, value) optional parameters.
func decodeTlvs(b []byte) ([]tlv.Tlv, error) {
	var tlvs []tlv.Tlv
	i := 0
	for i < len(b) {
		if i+2 > len(b) {
			return nil, errTruncatedTlv
		}
		typ := b[i]
		n := int(b[i+1])
		i += 2
		if i+n > len(b) {
			return nil, errTruncatedTlv
		}
		value := make([]byte, n)
		copy(value, b[i:i+n])
		i += n
		tlvs = append(tlvs, tlv.Tlv{Type: typ, Value: value})
	}
	return tlvs, nil
}

// ValidateOpen checks the session-negotiation rules RFC 4271 §6.2
// requires on a received OPEN: the version must be 4, MyAS must equal
// expectedRemoteAS, and a nonzero HoldTime must be at least 3 seconds.
// It returns a notification ready to send when a check fails.
func ValidateOpen(o bgp.Open, expectedRemoteAS bgp.ASN) *notify.Error {
	if o.Version != bgp.CurrentVersion {
		return notify.MustNew(notify.OpenMessageError, notify.UnsupportedVersionNumber, nil)
	}
	if o.MyAS != expectedRemoteAS {
		return notify.MustNew(notify.OpenMessageError, notify.BadPeerAS, nil)
	}
	if o.HoldTime != 0 && o.HoldTime < 3 {
		return notify.MustNew(notify.OpenMessageError, notify.UnacceptableHoldTime, nil)
	}
	return nil
}
