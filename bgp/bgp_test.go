package bgp

import "testing"

func TestOriginValueValid(t *testing.T) {
	for _, v := range []OriginValue{OriginIGP, OriginEGP, OriginIncomplete} {
		if !v.Valid() {
			t.Errorf("expected %v to be valid", v)
		}
	}
	if OriginValue(99).Valid() {
		t.Errorf("expected 99 to be invalid")
	}
}

func TestMessageTypeString(t *testing.T) {
	cases := map[MessageType]string{
		MsgOpen:         "OPEN",
		MsgUpdate:       "UPDATE",
		MsgNotification: "NOTIFICATION",
		MsgKeepalive:    "KEEPALIVE",
		MessageType(99): "UNKNOWN",
	}
	for in, want := range cases {
		if got := in.String(); got != want {
			t.Errorf("MessageType(%d).String() = %q, want %q", in, got, want)
		}
	}
}

func TestRouteSourceString(t *testing.T) {
	if Ebgp.String() != "eBGP" {
		t.Errorf("expected Ebgp to stringify as eBGP")
	}
	if Ibgp.String() != "iBGP" {
		t.Errorf("expected Ibgp to stringify as iBGP")
	}
}
