package output

import (
	"errors"

	"github.com/ericogr/dht22-monitor/pkg/sensor"
)

// Output reports read outcomes, successful or not.
type Output interface {
	Publish(sensor.Outcome) error
	Close() error
}

// Fanout publishes every outcome to each of its outputs.
type Fanout []Output

func (f Fanout) Publish(o sensor.Outcome) error {
	var errs []error
	for _, out := range f {
		if err := out.Publish(o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) Close() error {
	var errs []error
	for _, out := range f {
		if err := out.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
