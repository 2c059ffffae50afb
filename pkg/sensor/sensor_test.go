package sensor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadingFormatting(t *testing.T) {
	tests := []struct {
		rh      uint16
		temp    int
		h, c, f string
	}{
		{512, 253, "51.2", "25.3", "77.5"},
		{1000, 800, "100.0", "80.0", "176.0"},
		{0, -5, "0.0", "-0.5", "31.1"},
		{0, -400, "0.0", "-40.0", "-40.0"},
	}
	for _, tt := range tests {
		r := convert(tt.rh, tt.temp)
		assert.Equal(t, tt.h, r.Humidity(), "rh=%d", tt.rh)
		assert.Equal(t, tt.c, r.Celsius(), "temp=%d", tt.temp)
		assert.Equal(t, tt.f, r.Fahrenheit(), "temp=%d", tt.temp)
	}
}

func TestOutcome(t *testing.T) {
	ok := Outcome{Reading: convert(512, 253)}
	assert.True(t, ok.OK())
	assert.Equal(t, Kind(""), ok.Kind())

	bad := Outcome{Err: &Error{Kind: ErrDidNotSwitchToHigh, Counter: 80}}
	assert.False(t, bad.OK())
	assert.Equal(t, ErrDidNotSwitchToHigh, bad.Kind())
}

func TestErrorContext(t *testing.T) {
	err := &Error{Kind: ErrDidNotSwitchToLow, Op: "ack high", Pin: "GPIO5", Counter: 80}
	assert.Equal(t, "dht22 GPIO5: ack high: did_not_switch_to_low (counter=80)", err.Error())
	assert.ErrorIs(t, err, ErrDidNotSwitchToLow)
	assert.False(t, errors.Is(err, ErrDidNotSwitchToHigh))

	cause := errors.New("permission denied")
	wrapped := &Error{Kind: ErrPinConfigurationFailed, Op: "initialize", Err: cause}
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "dht22: initialize: pin_configuration_failed: permission denied", wrapped.Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, Kind(""), KindOf(errors.New("other")))
	assert.Equal(t, ErrTooFrequent, KindOf(ErrTooFrequent))
	wrapped := errors.Join(errors.New("ctx"), &Error{Kind: ErrInvalidChecksum})
	assert.Equal(t, ErrInvalidChecksum, KindOf(wrapped))
}
