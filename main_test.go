package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ericogr/dht22-monitor/pkg/config"
	"github.com/ericogr/dht22-monitor/pkg/output"
	"github.com/ericogr/dht22-monitor/pkg/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingOutput struct {
	mu  sync.Mutex
	got []sensor.Outcome
}

func (r *recordingOutput) Publish(o sensor.Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, o)
	return nil
}

func (r *recordingOutput) Close() error { return nil }

func (r *recordingOutput) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func TestInitOutputs(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Outputs = []config.OutputConfig{{Type: "console"}, {Type: "log"}}
	out, err := initOutputs(cfg, log.New(io.Discard))
	require.NoError(t, err)
	fan, ok := out.(output.Fanout)
	require.True(t, ok, "outputs: %#v", out)
	assert.Len(t, fan, 2)

	cfg.Outputs = []config.OutputConfig{{Type: "mqtt"}}
	_, err = initOutputs(cfg, log.New(io.Discard))
	assert.Error(t, err, "unknown output")
}

func TestNewLogger(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogLevel = "warn"
	cfg.LogFormat = "json"
	var buf bytes.Buffer
	logger, err := newLogger(cfg, &buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "pin", "GPIO5")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"pin":"GPIO5"`)

	cfg.LogLevel = "loud"
	_, err = newLogger(cfg, &buf)
	assert.Error(t, err)

	cfg.LogLevel = "info"
	cfg.LogFormat = "xml"
	_, err = newLogger(cfg, &buf)
	assert.Error(t, err)
}

func simulationConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.SensorType = config.SensorSimulation
	cfg.StartDelayMs = 0
	return cfg
}

func TestRunSimulation(t *testing.T) {
	cfg := simulationConfig()
	out := &recordingOutput{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, log.New(io.Discard), out) }()

	require.Eventually(t, func() bool { return out.count() > 0 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	out.mu.Lock()
	defer out.mu.Unlock()
	o := out.got[0]
	require.True(t, o.OK(), "simulated read failed: %v", o.Err)
	assert.GreaterOrEqual(t, o.Reading.HumidityRaw, uint16(300))
	assert.Less(t, o.Reading.HumidityRaw, uint16(700))
}

func TestRunInitFailureStopsPipeline(t *testing.T) {
	cfg := simulationConfig()
	cfg.SensorName = ""
	out := &recordingOutput{}

	done := make(chan error, 1)
	go func() { done <- run(context.Background(), cfg, log.New(io.Discard), out) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, sensor.ErrInvalidInput)
		assert.True(t, strings.Contains(err.Error(), "initialize sensor"))
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline kept running after sensor initialization failed")
	}
	assert.Zero(t, out.count())
}
