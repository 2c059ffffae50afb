package sensor

import (
	"fmt"

	"github.com/ericogr/dht22-monitor/pkg/hal"
	"periph.io/x/conn/v3/gpio"
)

const (
	FrameBits = 40
	// BitThreshold is the highest HIGH-pulse iteration count still read as 0.
	BitThreshold = 19
)

// RawFrame holds one HIGH-pulse iteration count per received bit. Samples
// are stored in reverse: index 39 is the first bit on the wire, index 0 the
// last.
type RawFrame [FrameBits]uint8

// bits assembles samples hi down to lo, most significant first.
func (f *RawFrame) bits(hi, lo int) uint32 {
	var v uint32
	for i := hi; i >= lo; i-- {
		v <<= 1
		if f[i] > BitThreshold {
			v |= 1
		}
	}
	return v
}

// Fields returns the raw humidity, the temperature magnitude, the sign bit
// and the transmitted checksum.
func (f *RawFrame) Fields() (humidity, magnitude uint16, negative bool, checksum uint8) {
	humidity = uint16(f.bits(39, 24))
	negative = f[23] > BitThreshold
	magnitude = uint16(f.bits(22, 8))
	checksum = uint8(f.bits(7, 0))
	return
}

// Checksum is the low byte of the sum of the humidity and temperature
// magnitude bytes.
func Checksum(humidity, magnitude uint16) uint8 {
	sum := humidity>>8 + humidity&0xff + magnitude>>8 + magnitude&0xff
	return uint8(sum & 0xff)
}

// Decode validates the frame checksum and converts it to a Reading.
func Decode(f RawFrame) (Reading, error) {
	rh, mag, neg, sum := f.Fields()
	if want := Checksum(rh, mag); sum != want {
		return Reading{}, &Error{
			Kind: ErrInvalidChecksum,
			Op:   "decode",
			Msg:  fmt.Sprintf("checksum 0x%02x, calculated 0x%02x", sum, want),
		}
	}
	temp := int(mag)
	if neg {
		temp = -temp
	}
	return convert(rh, temp), nil
}

func convert(rh uint16, temp int) Reading {
	r := Reading{
		HumidityRaw:      rh,
		TemperatureRaw:   temp,
		HumidityWhole:    int(rh) / 10,
		HumidityFraction: int(rh) % 10,
		CelsiusWhole:     temp / 10,
		// x100 scale to line up with the Fahrenheit fraction
		CelsiusFraction: (temp * 10) % 100,
	}
	f := temp * 100 / 50 * 9
	r.FahrenheitWhole = f/100 + 32
	r.FahrenheitFraction = f % 100
	return r
}

// Iteration counts Encode uses for each bit value.
const (
	zeroSample = 13
	oneSample  = 36
)

// Encode builds the frame a sensor would produce for the given humidity
// (tenths of a percent) and temperature (tenths of a degree Celsius),
// including a correct checksum.
func Encode(humidity uint16, temperature int) RawFrame {
	neg := temperature < 0
	if neg {
		temperature = -temperature
	}
	mag := uint16(temperature) & 0x7fff

	var f RawFrame
	put := func(v uint32, hi, lo int) {
		for i := lo; i <= hi; i++ {
			if v&1 == 1 {
				f[i] = oneSample
			} else {
				f[i] = zeroSample
			}
			v >>= 1
		}
	}
	put(uint32(humidity), 39, 24)
	if neg {
		f[23] = oneSample
	} else {
		f[23] = zeroSample
	}
	put(uint32(mag), 22, 8)
	put(uint32(Checksum(humidity, mag)), 7, 0)
	return f
}

// Datasheet pulse widths in microseconds.
const (
	ackLowUs   = 80
	ackHighUs  = 80
	bitLowUs   = 50
	zeroHighUs = 27
	oneHighUs  = 70
)

// Waveform renders the sensor side of a read cycle for f, starting at the
// moment the controller releases the line.
func Waveform(f RawFrame) []hal.Segment {
	segs := make([]hal.Segment, 0, 2*FrameBits+3)
	segs = append(segs,
		hal.Segment{Level: gpio.Low, Us: ackLowUs},
		hal.Segment{Level: gpio.High, Us: ackHighUs},
	)
	for i := FrameBits - 1; i >= 0; i-- {
		high := zeroHighUs
		if f[i] > BitThreshold {
			high = oneHighUs
		}
		segs = append(segs,
			hal.Segment{Level: gpio.Low, Us: bitLowUs},
			hal.Segment{Level: gpio.High, Us: high},
		)
	}
	return append(segs, hal.Segment{Level: gpio.Low, Us: bitLowUs})
}
