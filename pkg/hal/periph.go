package hal

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/cpu"
)

// Periph is a Platform backed by the periph.io GPIO registry.
type Periph struct{}

func NewPeriph() (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	return &Periph{}, nil
}

func (p *Periph) Pin(name string) (Pin, error) {
	gp := gpioreg.ByName(name)
	if gp == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPin, name)
	}
	return newPeriphPin(gp), nil
}

// periphPin maps the direction/level split of the HAL onto periph, where
// Out both selects output mode and drives the level.
type periphPin struct {
	p     gpio.PinIO
	dir   Direction
	level gpio.Level
}

func newPeriphPin(p gpio.PinIO) *periphPin {
	return &periphPin{p: p, dir: Input, level: gpio.High}
}

func (pp *periphPin) Name() string { return pp.p.Name() }

func (pp *periphPin) ConfigurePullUp() error {
	if err := pp.p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("pull-up %s: %w", pp.p.Name(), err)
	}
	pp.dir = Input
	return nil
}

func (pp *periphPin) SetDirection(d Direction) error {
	var err error
	if d == Output {
		err = pp.p.Out(pp.level)
	} else {
		err = pp.p.In(gpio.PullUp, gpio.NoEdge)
	}
	if err != nil {
		return fmt.Errorf("set %s %s: %w", pp.p.Name(), d, err)
	}
	pp.dir = d
	return nil
}

func (pp *periphPin) SetLevel(l gpio.Level) error {
	if pp.dir != Output {
		return fmt.Errorf("%s: %w", pp.p.Name(), ErrNotOutput)
	}
	if err := pp.p.Out(l); err != nil {
		return fmt.Errorf("drive %s %s: %w", pp.p.Name(), l, err)
	}
	pp.level = l
	return nil
}

func (pp *periphPin) GetLevel() gpio.Level { return pp.p.Read() }

// SystemClock is the wall clock with a spinning microsecond delay.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

func (SystemClock) DelayMicroseconds(us int) {
	cpu.Nanospin(time.Duration(us) * time.Microsecond)
}
