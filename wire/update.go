package wire

import (
	"encoding/binary"

	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/notify"
	"github.com/relaybgp/bgpd/stream"
)

// EncodeUpdate frames u as a complete UPDATE message: Withdrawn
// Routes Length, withdrawn routes, Total Path Attribute Length, path
// attributes, then NLRI (RFC 4271 §4.3).
func EncodeUpdate(u bgp.Update) []byte {
	withdrawn := encodeRoutes(u.Withdrawn)
	attrs := encodeAttrs(u.PathAttrs)
	nlri := encodeRoutes(u.NLRI)

	body := make([]byte, 0, 4+len(withdrawn)+len(attrs)+len(nlri))
	var wlen, alen [2]byte
	binary.BigEndian.PutUint16(wlen[:], uint16(len(withdrawn)))
	binary.BigEndian.PutUint16(alen[:], uint16(len(attrs)))

	body = append(body, wlen[:]...)
	body = append(body, withdrawn...)
	body = append(body, alen[:]...)
	body = append(body, attrs...)
	body = append(body, nlri...)
	return frame(bgp.MsgUpdate, body)
}

// DecodeUpdate parses an UPDATE message body. The NLRI field's length
// is implicit: everything after the path attributes to the end of the
// body (RFC 4271 §4.3).
func DecodeUpdate(body []byte) (bgp.Update, error) {
	r := stream.NewReader(byteReader(body))
	var u bgp.Update

	wlen, err := r.ReadUint16()
	if err != nil {
		return u, err
	}
	wbytes, err := r.ReadBytes(int(wlen))
	if err != nil {
		return u, notify.MustNew(notify.UpdateMessageError, notify.MalformedAttributeList, nil)
	}
	withdrawn, err := decodeRoutes(wbytes)
	if err != nil {
		return u, notify.MustNew(notify.UpdateMessageError, notify.InvalidNetworkField, nil)
	}
	u.Withdrawn = withdrawn

	alen, err := r.ReadUint16()
	if err != nil {
		return u, err
	}
	abytes, err := r.ReadBytes(int(alen))
	if err != nil {
		return u, notify.MustNew(notify.UpdateMessageError, notify.MalformedAttributeList, nil)
	}
	attrs, err := decodeAttrs(abytes)
	if err != nil {
		if nerr, ok := err.(*notify.Error); ok {
			return u, nerr
		}
		return u, notify.MustNew(notify.UpdateMessageError, notify.MalformedAttributeList, nil)
	}
	u.PathAttrs = attrs

	remaining, err := r.ReadBytes(len(body) - 4 - int(wlen) - int(alen))
	if err != nil {
		return u, notify.MustNew(notify.UpdateMessageError, notify.InvalidNetworkField, nil)
	}
	nlri, err := decodeRoutes(remaining)
	if err != nil {
		return u, notify.MustNew(notify.UpdateMessageError, notify.InvalidNetworkField, nil)
	}
	u.NLRI = nlri
	return u, nil
}

// encodeAttrs packs a path attribute list as the repeated <flags,
// type, length, value> TLVs RFC 4271 §4.3 describes, choosing the
// one- or two-octet length form from each attribute's Extended flag.
func encodeAttrs(attrs []bgp.PathAttr) []byte {
	var out []byte
	for _, a := range attrs {
		out = append(out, byte(a.Flags), byte(a.TypeCode))
		if a.Flags.Extended() {
			var l [2]byte
			binary.BigEndian.PutUint16(l[:], uint16(a.Len()))
			out = append(out, l[:]...)
		} else {
			out = append(out, byte(a.Len()))
		}
		out = append(out, a.Value...)
	}
	return out
}

// decodeAttrs unpacks a run of path attribute TLVs until every byte of
// data has been consumed.
func decodeAttrs(data []byte) ([]bgp.PathAttr, error) {
	var attrs []bgp.PathAttr
	i := 0
	for i < len(data) {
		if i+2 > len(data) {
			return nil, errTruncatedAttr
		}
		flags := bgp.AttrFlags(data[i])
		typeCode := bgp.PathAttrTypeCode(data[i+1])
		i += 2

		if flags.Partial() && typeCode.WellKnown() {
			return nil, notify.MustNew(notify.UpdateMessageError, notify.AttributeFlagsError, nil)
		}

		var length int
		if flags.Extended() {
			if i+2 > len(data) {
				return nil, errTruncatedAttr
			}
			length = int(binary.BigEndian.Uint16(data[i : i+2]))
			i += 2
		} else {
			if i+1 > len(data) {
				return nil, errTruncatedAttr
			}
			length = int(data[i])
			i++
		}
		if i+length > len(data) {
			return nil, errTruncatedAttr
		}
		value := make([]byte, length)
		copy(value, data[i:i+length])
		i += length

		attrs = append(attrs, bgp.PathAttr{Flags: flags, TypeCode: typeCode, Value: value})
	}
	return attrs, nil
}
