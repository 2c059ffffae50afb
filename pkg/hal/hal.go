// Package hal is the hardware boundary of the sensor driver: a single GPIO
// line plus the delay primitives the bus protocol needs.
package hal

import (
	"errors"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Direction of a pin.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

var (
	ErrUnknownPin = errors.New("unknown pin")
	ErrNotOutput  = errors.New("pin is not an output")
)

// Pin is one GPIO line.
type Pin interface {
	Name() string
	ConfigurePullUp() error
	SetDirection(d Direction) error
	SetLevel(l gpio.Level) error
	GetLevel() gpio.Level
}

// Clock provides wall time and the two delay granularities used by the bus
// protocol. DelayMicroseconds must busy-wait; it is called from inside the
// timed sections where the goroutine must not be descheduled.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
	DelayMicroseconds(us int)
}

// Platform resolves pin identifiers to pins. Pin returns ErrUnknownPin for
// identifiers outside the platform's valid set.
type Platform interface {
	Pin(name string) (Pin, error)
}
