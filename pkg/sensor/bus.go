package sensor

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/ericogr/dht22-monitor/pkg/hal"
	"periph.io/x/conn/v3/gpio"
)

// Read cycle:
//  1. controller pulls the line LOW for wakeLow
//  2. controller drives HIGH for releaseUs, then switches to input
//  3. sensor answers LOW (~80us) then HIGH (~80us)
//  4. 40 bits, each a ~50us LOW followed by HIGH: 26-28us = 0, 70us = 1
//
// Budgets are polling iterations of at least 1us each.
const (
	wakeLow       = 10 * time.Millisecond
	releaseUs     = 40
	ackLowBudget  = 80
	ackHighBudget = 80
	bitLowBudget  = 50
	bitHighBudget = 70
)

// gcHold keeps the collector off while any capture is in its timed section.
// The GC percent is process-wide, so overlapping captures share one hold.
var gcHold struct {
	mu    sync.Mutex
	n     int
	saved int
}

// pauseGC turns the collector off for the first holder and returns the
// release for this holder; the last release restores the saved percent.
func pauseGC() (release func()) {
	gcHold.mu.Lock()
	if gcHold.n == 0 {
		gcHold.saved = debug.SetGCPercent(-1)
	}
	gcHold.n++
	gcHold.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			gcHold.mu.Lock()
			defer gcHold.mu.Unlock()
			gcHold.n--
			if gcHold.n == 0 {
				debug.SetGCPercent(gcHold.saved)
			}
		})
	}
}

type busReader struct {
	pin   hal.Pin
	clock hal.Clock
}

// measure polls the line while it reads level, once per microsecond, for at
// most budget iterations. It returns the number of reads including the one
// that saw the change; ok is false if the line never left level.
func (b busReader) measure(level gpio.Level, budget int) (n int, ok bool) {
	for n < budget {
		n++
		if b.pin.GetLevel() != level {
			return n, true
		}
		b.clock.DelayMicroseconds(1)
	}
	return n, false
}

// pulse measures one phase. bit is the index of the bit on the wire, or -1
// for the handshake.
func (b busReader) pulse(phase string, bit int, level gpio.Level, budget int) (int, error) {
	n, ok := b.measure(level, budget)
	if ok {
		return n, nil
	}
	op := phase
	if bit >= 0 {
		op = fmt.Sprintf("bit %d %s", bit, phase)
	}
	kind := ErrDidNotSwitchToHigh
	if level == gpio.High {
		kind = ErrDidNotSwitchToLow
	}
	return n, &Error{Kind: kind, Op: op, Pin: b.pin.Name(), Counter: n}
}

// Capture runs one read cycle and returns the HIGH pulse width of every bit.
// Any failure aborts the cycle.
func (b busReader) Capture() (RawFrame, error) {
	var f RawFrame
	name := b.pin.Name()

	if err := b.pin.SetDirection(hal.Output); err != nil {
		return f, &Error{Kind: ErrPinDirectionFailed, Op: "wake", Pin: name, Err: err}
	}
	if err := b.pin.SetLevel(gpio.Low); err != nil {
		return f, &Error{Kind: ErrPinLevelFailed, Op: "wake", Pin: name, Err: err}
	}
	b.clock.Sleep(wakeLow)

	// From here on the sensor sets the pace. Stay on this thread and keep
	// the collector out of the way until the last bit is in.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer pauseGC()()

	if err := b.pin.SetLevel(gpio.High); err != nil {
		return f, &Error{Kind: ErrPinLevelFailed, Op: "release", Pin: name, Err: err}
	}
	b.clock.DelayMicroseconds(releaseUs)
	if err := b.pin.SetDirection(hal.Input); err != nil {
		return f, &Error{Kind: ErrPinDirectionFailed, Op: "release", Pin: name, Err: err}
	}

	if _, err := b.pulse("ack low", -1, gpio.Low, ackLowBudget); err != nil {
		return f, err
	}
	if _, err := b.pulse("ack high", -1, gpio.High, ackHighBudget); err != nil {
		return f, err
	}
	for x := 0; x < FrameBits; x++ {
		if _, err := b.pulse("low", x, gpio.Low, bitLowBudget); err != nil {
			return f, err
		}
		n, err := b.pulse("high", x, gpio.High, bitHighBudget)
		if err != nil {
			return f, err
		}
		f[FrameBits-1-x] = uint8(n)
	}
	return f, nil
}
