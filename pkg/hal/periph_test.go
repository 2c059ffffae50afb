package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestPeriphPinDirectionAndLevel(t *testing.T) {
	gp := &gpiotest.Pin{N: "GPIO5", Num: 5}
	p := newPeriphPin(gp)

	assert.Equal(t, "GPIO5", p.Name())
	require.NoError(t, p.ConfigurePullUp())
	assert.Equal(t, gpio.PullUp, gp.P)

	assert.ErrorIs(t, p.SetLevel(gpio.Low), ErrNotOutput, "SetLevel on input")

	require.NoError(t, p.SetDirection(Output))
	require.NoError(t, p.SetLevel(gpio.Low))
	assert.Equal(t, gpio.Low, gp.L)
	assert.Equal(t, gpio.Low, p.GetLevel())

	require.NoError(t, p.SetLevel(gpio.High))
	assert.Equal(t, gpio.High, p.GetLevel())

	require.NoError(t, p.SetDirection(Input))
	assert.Equal(t, gpio.PullUp, gp.P)
}
