package wire

import (
	"bytes"
	"net/netip"
	"testing"

	"github.com/relaybgp/bgpd/attr"
	"github.com/relaybgp/bgpd/bgp"
	"github.com/relaybgp/bgpd/notify"
	"github.com/relaybgp/bgpd/stream"
	"github.com/relaybgp/bgpd/tlv"
)

func roundTrip(t *testing.T, framed []byte) (bgp.Header, []byte) {
	t.Helper()
	hdr, body, err := stream.ReadMessage(bytes.NewReader(framed))
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if err := CheckHeader(hdr); err != nil {
		t.Fatalf("CheckHeader: %v", err)
	}
	return hdr, body
}

func TestOpenRoundTrip(t *testing.T) {
	o := bgp.Open{
		Version:       bgp.CurrentVersion,
		MyAS:          65001,
		HoldTime:      90,
		BGPIdentifier: bgp.Identifier(0x0a000001),
		OptParams:     []tlv.Tlv{{Type: 2, Value: []byte{1, 2, 3}}},
	}
	framed := EncodeOpen(o)
	hdr, body := roundTrip(t, framed)
	if hdr.Type != bgp.MsgOpen {
		t.Fatalf("expected OPEN type, got %v", hdr.Type)
	}
	got, err := DecodeOpen(body)
	if err != nil {
		t.Fatalf("DecodeOpen: %v", err)
	}
	if got.Version != o.Version || got.MyAS != o.MyAS || got.HoldTime != o.HoldTime || got.BGPIdentifier != o.BGPIdentifier {
		t.Fatalf("round-tripped OPEN mismatch: %+v vs %+v", got, o)
	}
	if len(got.OptParams) != 1 || got.OptParams[0].Type != 2 {
		t.Fatalf("optional parameters did not survive: %+v", got.OptParams)
	}
}

func TestValidateOpenRejectsWrongAS(t *testing.T) {
	o := bgp.Open{Version: bgp.CurrentVersion, MyAS: 65001, HoldTime: 90}
	if err := ValidateOpen(o, 65002); err == nil {
		t.Fatalf("expected BadPeerAS for a mismatched AS")
	}
}

func TestValidateOpenRejectsShortHoldTime(t *testing.T) {
	o := bgp.Open{Version: bgp.CurrentVersion, MyAS: 65001, HoldTime: 1}
	if err := ValidateOpen(o, 65001); err == nil {
		t.Fatalf("expected UnacceptableHoldTime for HoldTime=1")
	}
}

func TestValidateOpenAllowsZeroHoldTime(t *testing.T) {
	o := bgp.Open{Version: bgp.CurrentVersion, MyAS: 65001, HoldTime: 0}
	if err := ValidateOpen(o, 65001); err != nil {
		t.Fatalf("HoldTime=0 should be accepted: %v", err)
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	origin, _ := attr.Origin(bgp.OriginIGP)
	asPath, _ := attr.AsPath([]bgp.AsPathSegment{{Type: bgp.AsSequence, ASNs: []bgp.ASN{65001, 65002}}})
	nextHop, _ := attr.NextHop(netip.MustParseAddr("192.0.2.1"))

	u := bgp.Update{
		Withdrawn: []bgp.Route{bgp.RouteFromPrefix(netip.MustParsePrefix("198.51.100.0/24"))},
		PathAttrs: []bgp.PathAttr{origin, asPath, nextHop},
		NLRI:      []bgp.Route{bgp.RouteFromPrefix(netip.MustParsePrefix("203.0.113.0/24"))},
	}
	framed := EncodeUpdate(u)
	hdr, body := roundTrip(t, framed)
	if hdr.Type != bgp.MsgUpdate {
		t.Fatalf("expected UPDATE type, got %v", hdr.Type)
	}
	got, err := DecodeUpdate(body)
	if err != nil {
		t.Fatalf("DecodeUpdate: %v", err)
	}
	if len(got.Withdrawn) != 1 || got.Withdrawn[0].Prefix() != u.Withdrawn[0].Prefix() {
		t.Fatalf("withdrawn routes did not round-trip: %+v", got.Withdrawn)
	}
	if len(got.NLRI) != 1 || got.NLRI[0].Prefix() != u.NLRI[0].Prefix() {
		t.Fatalf("NLRI did not round-trip: %+v", got.NLRI)
	}
	if len(got.PathAttrs) != 3 {
		t.Fatalf("expected 3 path attributes, got %d", len(got.PathAttrs))
	}
}

func TestNotificationRoundTrip(t *testing.T) {
	n := bgp.Notification{Code: 4, Subcode: 0, Data: nil}
	framed := EncodeNotification(n)
	hdr, body := roundTrip(t, framed)
	if hdr.Type != bgp.MsgNotification {
		t.Fatalf("expected NOTIFICATION type, got %v", hdr.Type)
	}
	got, err := DecodeNotification(body)
	if err != nil {
		t.Fatalf("DecodeNotification: %v", err)
	}
	if got.Code != n.Code || got.Subcode != n.Subcode {
		t.Fatalf("round-tripped NOTIFICATION mismatch: %+v vs %+v", got, n)
	}
}

func TestKeepaliveRoundTrip(t *testing.T) {
	framed := EncodeKeepalive()
	hdr, body := roundTrip(t, framed)
	if hdr.Type != bgp.MsgKeepalive {
		t.Fatalf("expected KEEPALIVE type, got %v", hdr.Type)
	}
	if _, err := DecodeKeepalive(body); err != nil {
		t.Fatalf("DecodeKeepalive: %v", err)
	}
}

func TestReadMessageRejectsOutOfRangeLength(t *testing.T) {
	framed := EncodeKeepalive()
	framed[16] = 0x00
	framed[17] = 0x05 // declares a 5-octet message, below bgp.MinMessageLength

	_, _, err := stream.ReadMessage(bytes.NewReader(framed))
	if err == nil {
		t.Fatalf("expected an error for an out-of-range message length")
	}
	nerr, ok := err.(*notify.Error)
	if !ok {
		t.Fatalf("expected *notify.Error, got %T: %v", err, err)
	}
	if nerr.Code != notify.MessageHeaderError || nerr.Subcode != notify.BadMessageLength {
		t.Fatalf("expected MessageHeaderError/BadMessageLength, got %v/%d", nerr.Code, nerr.Subcode)
	}
}

func TestDecodeUpdateRejectsPartialFlagOnWellKnownAttribute(t *testing.T) {
	origin, _ := attr.Origin(bgp.OriginIGP)
	origin.Flags = origin.Flags.WithPartial()

	u := bgp.Update{PathAttrs: []bgp.PathAttr{origin}}
	framed := EncodeUpdate(u)
	_, body := roundTrip(t, framed)

	_, err := DecodeUpdate(body)
	if err == nil {
		t.Fatalf("expected an error for a well-known attribute carrying the Partial flag")
	}
	nerr, ok := err.(*notify.Error)
	if !ok {
		t.Fatalf("expected *notify.Error, got %T: %v", err, err)
	}
	if nerr.Code != notify.UpdateMessageError || nerr.Subcode != notify.AttributeFlagsError {
		t.Fatalf("expected UpdateMessageError/AttributeFlagsError, got %v/%d", nerr.Code, nerr.Subcode)
	}
}

func TestCheckHeaderRejectsBadMarker(t *testing.T) {
	framed := EncodeKeepalive()
	framed[0] = 0x00
	hdr, _, err := stream.ReadMessage(bytes.NewReader(framed))
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if err := CheckHeader(hdr); err == nil {
		t.Fatalf("expected a marker error")
	}
}
