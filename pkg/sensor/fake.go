package sensor

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ericogr/dht22-monitor/pkg/config"
	"github.com/ericogr/dht22-monitor/pkg/hal"
)

// NewFakeSensor runs the real driver against a simulated line that answers
// every read cycle with a plausible indoor reading.
func NewFakeSensor(cfg config.Config, logger *log.Logger) (Sensor, error) {
	line := hal.NewSimLine(cfg.GPIOPin, randomWaveform)
	line.Wall = time.Now
	drv := New(hal.SimPlatform{cfg.GPIOPin: line}, line, optionsFromConfig(cfg, logger))
	return Open(drv, cfg.GPIOPin, cfg.SensorName)
}

func randomWaveform() []hal.Segment {
	rh := uint16(300 + rand.Intn(400)) // 30.0-69.9 %
	temp := 150 + rand.Intn(150)       // 15.0-29.9 °C
	return Waveform(Encode(rh, temp))
}
