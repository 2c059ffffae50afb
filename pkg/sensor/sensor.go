package sensor

import (
	"fmt"
	"time"
)

// Reading is a decoded, checksum-validated sample. All values are integer
// fixed point: humidity in tenths of a percent, Celsius fraction on a x100
// scale and Fahrenheit whole/fraction in hundredths of a degree.
type Reading struct {
	HumidityRaw        uint16    `json:"humidity_raw"`
	TemperatureRaw     int       `json:"temperature_raw"`
	HumidityWhole      int       `json:"humidity_whole"`
	HumidityFraction   int       `json:"humidity_fraction"`
	CelsiusWhole       int       `json:"celsius_whole"`
	CelsiusFraction    int       `json:"celsius_fraction"`
	FahrenheitWhole    int       `json:"fahrenheit_whole"`
	FahrenheitFraction int       `json:"fahrenheit_fraction"`
	Timestamp          time.Time `json:"timestamp"`
}

// Humidity formats relative humidity with one decimal place.
func (r Reading) Humidity() string {
	return oneDecimal(r.HumidityWhole*10+r.HumidityFraction, 1)
}

// Celsius formats the temperature in °C with one decimal place.
func (r Reading) Celsius() string {
	return oneDecimal(r.CelsiusWhole*100+r.CelsiusFraction, 10)
}

// Fahrenheit formats the temperature in °F with one decimal place.
func (r Reading) Fahrenheit() string {
	return oneDecimal(r.FahrenheitWhole*100+r.FahrenheitFraction, 10)
}

func (r Reading) String() string {
	return fmt.Sprintf("%s%% RH, %s°C, %s°F", r.Humidity(), r.Celsius(), r.Fahrenheit())
}

// oneDecimal renders v, a value in tenths*div units, truncated to tenths.
func oneDecimal(v, div int) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	v /= div
	return fmt.Sprintf("%s%d.%d", sign, v/10, v%10)
}

// Outcome is the result of one read attempt: either a Reading or an error.
type Outcome struct {
	Reading Reading
	Err     error
}

func (o Outcome) OK() bool { return o.Err == nil }

func (o Outcome) Kind() Kind { return KindOf(o.Err) }

type Sensor interface {
	Read() (Reading, error)
	Close() error
}
