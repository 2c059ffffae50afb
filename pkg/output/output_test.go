package output

import (
	"errors"
	"testing"

	"github.com/ericogr/dht22-monitor/pkg/sensor"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	got    []sensor.Outcome
	err    error
	closed bool
}

func (r *recorder) Publish(o sensor.Outcome) error {
	r.got = append(r.got, o)
	return r.err
}

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

func TestFanout(t *testing.T) {
	a := &recorder{}
	b := &recorder{err: errors.New("b failed")}
	f := Fanout{a, b}

	o := sensor.Outcome{Err: sensor.ErrTooFrequent}
	err := f.Publish(o)
	assert.EqualError(t, err, "b failed")
	assert.Equal(t, []sensor.Outcome{o}, a.got)
	assert.Equal(t, []sensor.Outcome{o}, b.got)

	assert.NoError(t, f.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}
