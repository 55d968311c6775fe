// Package notify implements the NOTIFICATION error taxonomy: the six
// top-level codes and their subcodes (RFC 4271 §6), and the wire mapping
// between them and bgp.Notification. Constructing a notification with a
// subcode outside its code's permitted set is an internal
// InvalidSubcode error (spec §4.2) — it never reaches the wire.
package notify

import "fmt"

// Code is a NOTIFICATION message's top-level error code.
type Code uint8

const (
	MessageHeaderError      Code = 1
	OpenMessageError        Code = 2
	UpdateMessageError      Code = 3
	HoldTimerExpired        Code = 4
	FiniteStateMachineError Code = 5
	Cease                   Code = 6
)

func (c Code) String() string {
	switch c {
	case MessageHeaderError:
		return "Message Header Error"
	case OpenMessageError:
		return "OPEN Message Error"
	case UpdateMessageError:
		return "UPDATE Message Error"
	case HoldTimerExpired:
		return "Hold Timer Expired"
	case FiniteStateMachineError:
		return "Finite State Machine Error"
	case Cease:
		return "Cease"
	default:
		return "Unknown"
	}
}

// Message Header Error subcodes.
const (
	ConnectionNotSynchronized uint8 = 1
	BadMessageLength          uint8 = 2
	BadMessageType            uint8 = 3
)

// OPEN Message Error subcodes. 5 is deprecated (RFC 4271 Appendix A) and
// intentionally absent from the valid set below.
const (
	UnsupportedVersionNumber     uint8 = 1
	BadPeerAS                    uint8 = 2
	BadBGPIdentifier             uint8 = 3
	UnsupportedOptionalParameter uint8 = 4
	UnacceptableHoldTime         uint8 = 6
)

// UPDATE Message Error subcodes. 7 is deprecated and absent below.
const (
	MalformedAttributeList         uint8 = 1
	UnrecognizedWellKnownAttribute uint8 = 2
	MissingWellKnownAttribute      uint8 = 3
	AttributeFlagsError            uint8 = 4
	AttributeLengthError           uint8 = 5
	InvalidOriginAttribute         uint8 = 6
	InvalidNextHopAttribute        uint8 = 8
	OptionalAttributeError         uint8 = 9
	InvalidNetworkField            uint8 = 10
	MalformedASPath                uint8 = 11
)

// NoSubcode is used for codes that have no defined subcodes: Hold Timer
// Expired, Finite State Machine Error, and Cease (spec §4.1).
const NoSubcode uint8 = 0

var messageHeaderSubcodes = map[uint8]bool{
	ConnectionNotSynchronized: true,
	BadMessageLength:          true,
	BadMessageType:            true,
}

var openSubcodes = map[uint8]bool{
	UnsupportedVersionNumber:     true,
	BadPeerAS:                    true,
	BadBGPIdentifier:             true,
	UnsupportedOptionalParameter: true,
	UnacceptableHoldTime:         true,
}

var updateSubcodes = map[uint8]bool{
	MalformedAttributeList:         true,
	UnrecognizedWellKnownAttribute: true,
	MissingWellKnownAttribute:      true,
	AttributeFlagsError:            true,
	AttributeLengthError:           true,
	InvalidOriginAttribute:         true,
	InvalidNextHopAttribute:        true,
	OptionalAttributeError:         true,
	InvalidNetworkField:            true,
	MalformedASPath:                true,
}

// InvalidSubcode is returned by New when subcode is not a member of
// code's permitted set. It never escapes to the wire — it signals a
// local programming error in the caller (spec §7: internal invariant
// violations do not touch session state).
type InvalidSubcode struct {
	Code    Code
	Subcode uint8
}

func (e *InvalidSubcode) Error() string {
	return fmt.Sprintf("notify: subcode %d is not valid for %s", e.Subcode, e.Code)
}

// Error is a constructed NOTIFICATION, ready for the codec to encode or
// for a caller to inspect. It implements the standard error interface so
// it can be returned and wrapped like any other Go error.
type Error struct {
	Code    Code
	Subcode uint8
	Data    []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (subcode %d)", e.Code, e.Subcode)
}

// New validates subcode against code's permitted set and builds an
// Error. Codes with no defined subcodes (HoldTimerExpired,
// FiniteStateMachineError, Cease) only accept NoSubcode.
func New(code Code, subcode uint8, data []byte) (*Error, error) {
	var valid map[uint8]bool
	switch code {
	case MessageHeaderError:
		valid = messageHeaderSubcodes
	case OpenMessageError:
		valid = openSubcodes
	case UpdateMessageError:
		valid = updateSubcodes
	case HoldTimerExpired, FiniteStateMachineError, Cease:
		if subcode != NoSubcode {
			return nil, &InvalidSubcode{Code: code, Subcode: subcode}
		}
		return &Error{Code: code, Subcode: subcode, Data: data}, nil
	default:
		return nil, &InvalidSubcode{Code: code, Subcode: subcode}
	}
	if !valid[subcode] {
		return nil, &InvalidSubcode{Code: code, Subcode: subcode}
	}
	return &Error{Code: code, Subcode: subcode, Data: data}, nil
}

// MustNew is New but panics on an invalid subcode; useful for the fixed,
// compile-time-known notifications the FSM itself emits (e.g. Hold
// Timer Expired), where an invalid subcode would be a bug in this
// package, not in a caller.
func MustNew(code Code, subcode uint8, data []byte) *Error {
	n, err := New(code, subcode, data)
	if err != nil {
		panic(err)
	}
	return n
}
