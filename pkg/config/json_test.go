package config

import (
	"encoding/json"
	"testing"
)

func TestUnmarshalConfigJSON(t *testing.T) {
	js := `{
        "gpio_pin": "GPIO5",
        "sensor_name": "Daniel's Greenhouse",
        "sensor_type": "real",
        "interval_ms": 15000,
        "min_interval_ms": 2000,
        "queue_size": 10,
        "push_timeout_ms": 1000,
        "log_level": "debug",
        "outputs": [{"type":"console"}, {"type":"log"}]
    }`

	var cfg Config
	if err := json.Unmarshal([]byte(js), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.GPIOPin != "GPIO5" {
		t.Fatalf("gpio_pin: got %q", cfg.GPIOPin)
	}
	if cfg.SensorName != "Daniel's Greenhouse" {
		t.Fatalf("sensor_name: got %q", cfg.SensorName)
	}
	if cfg.SensorType != "real" {
		t.Fatalf("sensor_type: got %q", cfg.SensorType)
	}
	if cfg.IntervalMs != 15000 || cfg.MinIntervalMs != 2000 {
		t.Fatalf("intervals: %d %d", cfg.IntervalMs, cfg.MinIntervalMs)
	}
	if cfg.QueueSize != 10 || cfg.PushTimeoutMs != 1000 {
		t.Fatalf("queue: %d %d", cfg.QueueSize, cfg.PushTimeoutMs)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log_level: got %q", cfg.LogLevel)
	}
	if len(cfg.Outputs) != 2 || cfg.Outputs[0].Type != "console" || cfg.Outputs[1].Type != "log" {
		t.Fatalf("outputs: %+v", cfg.Outputs)
	}
}
