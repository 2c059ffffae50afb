package logsink

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/ericogr/dht22-monitor/pkg/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Formatter: log.LogfmtFormatter})
	out := New(logger)

	r, err := sensor.Decode(sensor.Encode(512, 253))
	require.NoError(t, err)
	require.NoError(t, out.Publish(sensor.Outcome{Reading: r}))
	assert.Contains(t, buf.String(), "msg=reading")
	assert.Contains(t, buf.String(), "rh=51.2")
	assert.Contains(t, buf.String(), "celsius=25.3")
	assert.Contains(t, buf.String(), "fahrenheit=77.5")

	buf.Reset()
	require.NoError(t, out.Publish(sensor.Outcome{Err: &sensor.Error{Kind: sensor.ErrInvalidChecksum}}))
	assert.Contains(t, buf.String(), "level=error")
	assert.Contains(t, buf.String(), "kind=invalid_checksum")
	assert.NoError(t, out.Close())
}
