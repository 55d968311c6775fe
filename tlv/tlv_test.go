package tlv

import "testing"

func TestLenMatchesValueLength(t *testing.T) {
	tv := Tlv{Type: 2, Value: []byte{1, 2, 3}}
	if tv.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tv.Len())
	}
}
