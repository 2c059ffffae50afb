package console

import (
	"fmt"
	"time"

	"github.com/ericogr/dht22-monitor/pkg/output"
	"github.com/ericogr/dht22-monitor/pkg/sensor"
)

type ConsoleOutput struct {
	name string
	now  func() time.Time
}

func NewConsole(name string) output.Output { return &ConsoleOutput{name: name, now: time.Now} }

func (c *ConsoleOutput) Publish(o sensor.Outcome) error {
	if !o.OK() {
		fmt.Printf("%s sensor=%q error=%s msg=%q\n", c.now().Format(time.RFC3339), c.name, o.Kind(), o.Err)
		return nil
	}
	r := o.Reading
	fmt.Printf("%s sensor=%q rh=%s c=%s f=%s\n", r.Timestamp.Format(time.RFC3339), c.name, r.Humidity(), r.Celsius(), r.Fahrenheit())
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }
