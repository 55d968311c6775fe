package notify

import "testing"

func TestNewAcceptsValidSubcode(t *testing.T) {
	n, err := New(OpenMessageError, BadPeerAS, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Code != OpenMessageError || n.Subcode != BadPeerAS {
		t.Errorf("got %+v", n)
	}
}

func TestNewRejectsSubcodeNotInCodesSet(t *testing.T) {
	_, err := New(OpenMessageError, MalformedASPath, nil)
	if err == nil {
		t.Fatalf("expected an InvalidSubcode error")
	}
	if _, ok := err.(*InvalidSubcode); !ok {
		t.Errorf("expected *InvalidSubcode, got %T", err)
	}
}

func TestNewRejectsDeprecatedOpenSubcode(t *testing.T) {
	if _, err := New(OpenMessageError, 5, nil); err == nil {
		t.Fatalf("expected subcode 5 (deprecated Authentication Failure) to be rejected")
	}
}

func TestNewRequiresNoSubcodeForSubcodelessCodes(t *testing.T) {
	if _, err := New(HoldTimerExpired, 1, nil); err == nil {
		t.Fatalf("expected a nonzero subcode on HoldTimerExpired to be rejected")
	}
	n, err := New(HoldTimerExpired, NoSubcode, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Subcode != NoSubcode {
		t.Errorf("expected NoSubcode, got %d", n.Subcode)
	}
}

func TestMustNewPanicsOnInvalidSubcode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected MustNew to panic on an invalid subcode")
		}
	}()
	MustNew(Cease, 1, nil)
}

func TestErrorImplementsErrorInterface(t *testing.T) {
	n := MustNew(UpdateMessageError, MalformedASPath, nil)
	var err error = n
	if err.Error() == "" {
		t.Errorf("expected a non-empty error message")
	}
}
