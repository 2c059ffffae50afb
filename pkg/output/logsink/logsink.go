// Package logsink reports outcomes through the structured logger.
package logsink

import (
	"github.com/charmbracelet/log"
	"github.com/ericogr/dht22-monitor/pkg/output"
	"github.com/ericogr/dht22-monitor/pkg/sensor"
)

type LogOutput struct {
	log *log.Logger
}

func New(logger *log.Logger) output.Output { return &LogOutput{log: logger} }

func (l *LogOutput) Publish(o sensor.Outcome) error {
	if !o.OK() {
		l.log.Error("read failed", "kind", o.Kind(), "err", o.Err)
		return nil
	}
	r := o.Reading
	l.log.Info("reading",
		"rh", r.Humidity(),
		"celsius", r.Celsius(),
		"fahrenheit", r.Fahrenheit(),
	)
	return nil
}

func (l *LogOutput) Close() error { return nil }
