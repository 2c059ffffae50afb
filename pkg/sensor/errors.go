package sensor

import (
	"errors"
	"fmt"
)

// Kind identifies a class of sensor failure. It is comparable and
// implements error, so a bare Kind can be returned or matched with
// errors.Is.
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	ErrInvalidInput           Kind = "invalid_input"
	ErrAllocationFailed       Kind = "allocation_failed"
	ErrPinConfigurationFailed Kind = "pin_configuration_failed"
	ErrPinDirectionFailed     Kind = "pin_direction_failed"
	ErrPinLevelFailed         Kind = "pin_level_failed"
	ErrTooFrequent            Kind = "too_frequent"
	ErrDidNotSwitchToHigh     Kind = "did_not_switch_to_high"
	ErrDidNotSwitchToLow      Kind = "did_not_switch_to_low"
	ErrInvalidChecksum        Kind = "invalid_checksum"
)

// Error carries a Kind with the context needed to tell wiring, timing and
// data faults apart.
type Error struct {
	Kind    Kind
	Op      string
	Pin     string
	Counter int // polling iterations, for bus timing failures
	Msg     string
	Err     error
}

func (e *Error) Error() string {
	s := "dht22"
	if e.Pin != "" {
		s += " " + e.Pin
	}
	if e.Op != "" {
		s += ": " + e.Op
	}
	s += ": " + string(e.Kind)
	if e.Counter > 0 {
		s += fmt.Sprintf(" (counter=%d)", e.Counter)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf extracts the Kind from err. It returns "" for nil and for errors
// that did not originate in this package.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return ""
}
