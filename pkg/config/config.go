package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
)

const (
	SensorReal       = "real"
	SensorSimulation = "simulation"

	OutputConsole = "console"
	OutputLog     = "log"

	// MinIntervalFloorMs is the shortest read interval the sensor supports.
	MinIntervalFloorMs = 2000
)

type OutputConfig struct {
	Type string `json:"type"`
}

type Config struct {
	GPIOPin       string         `json:"gpio_pin"`
	SensorName    string         `json:"sensor_name"`
	SensorType    string         `json:"sensor_type"`
	IntervalMs    int            `json:"interval_ms"`
	MinIntervalMs int            `json:"min_interval_ms"`
	StartDelayMs  int            `json:"start_delay_ms"`
	QueueSize     int            `json:"queue_size"`
	PushTimeoutMs int            `json:"push_timeout_ms"`
	MaxHandles    int            `json:"max_handles"`
	LogLevel      string         `json:"log_level"`
	LogFormat     string         `json:"log_format"`
	Outputs       []OutputConfig `json:"outputs"`
}

func DefaultConfig() Config {
	return Config{
		GPIOPin:       "GPIO5",
		SensorName:    "dht22",
		SensorType:    SensorReal,
		IntervalMs:    15000,
		MinIntervalMs: MinIntervalFloorMs,
		StartDelayMs:  2000,
		QueueSize:     10,
		PushTimeoutMs: 1000,
		MaxHandles:    4,
		LogLevel:      "info",
		LogFormat:     "text",
		Outputs:       []OutputConfig{{Type: OutputConsole}},
	}
}

// LoadFromFlags loads configuration from a JSON file (optional) and the
// process flags. Flags override values present in the JSON file.
func LoadFromFlags() (Config, error) {
	return Load(os.Args[1:])
}

func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("dht22-monitor", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to JSON config file")
	flagPin := fs.String("gpio-pin", "", "GPIO pin wired to the sensor DATA line (e.g. GPIO5)")
	flagName := fs.String("sensor-name", "", "Sensor name used in reports")
	flagSensorType := fs.String("sensor-type", "", "sensor type: real|simulation")
	flagInterval := fs.Int("interval-ms", -1, "Acquisition period in ms")
	flagMinInterval := fs.Int("min-interval-ms", -1, "Minimum gap between sensor reads in ms")
	flagStartDelay := fs.Int("start-delay-ms", -1, "Delay before the first read in ms")
	flagQueueSize := fs.Int("queue-size", -1, "Capacity of the outcome queue")
	flagPushTimeout := fs.Int("push-timeout-ms", -1, "Enqueue timeout in ms")
	flagLogLevel := fs.String("log-level", "", "Log level: debug|info|warn|error")
	flagLogFormat := fs.String("log-format", "", "Log format: text|json|logfmt")
	flagOutputs := fs.String("outputs", "", "Comma-separated outputs (console,log)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()

	if *cfgPath != "" {
		b, err := os.ReadFile(*cfgPath)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if *flagPin != "" {
		cfg.GPIOPin = *flagPin
	}
	if *flagName != "" {
		cfg.SensorName = *flagName
	}
	if *flagSensorType != "" {
		cfg.SensorType = *flagSensorType
	}
	if *flagInterval != -1 {
		cfg.IntervalMs = *flagInterval
	}
	if *flagMinInterval != -1 {
		cfg.MinIntervalMs = *flagMinInterval
	}
	if *flagStartDelay != -1 {
		cfg.StartDelayMs = *flagStartDelay
	}
	if *flagQueueSize != -1 {
		cfg.QueueSize = *flagQueueSize
	}
	if *flagPushTimeout != -1 {
		cfg.PushTimeoutMs = *flagPushTimeout
	}
	if *flagLogLevel != "" {
		cfg.LogLevel = *flagLogLevel
	}
	if *flagLogFormat != "" {
		cfg.LogFormat = *flagLogFormat
	}
	if *flagOutputs != "" {
		parts := parseCSV(*flagOutputs)
		outs := make([]OutputConfig, 0, len(parts))
		for _, p := range parts {
			outs = append(outs, OutputConfig{Type: strings.ToLower(p)})
		}
		cfg.Outputs = outs
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.GPIOPin == "" {
		errs = append(errs, errors.New("gpio-pin must be set"))
	}
	switch c.SensorType {
	case SensorReal, SensorSimulation:
	default:
		errs = append(errs, fmt.Errorf("unknown sensor-type %q", c.SensorType))
	}
	if c.MinIntervalMs < MinIntervalFloorMs {
		errs = append(errs, fmt.Errorf("min-interval-ms must be >= %d", MinIntervalFloorMs))
	}
	if c.IntervalMs < c.MinIntervalMs {
		errs = append(errs, errors.New("interval-ms must be >= min-interval-ms"))
	}
	if c.StartDelayMs < 0 {
		errs = append(errs, errors.New("start-delay-ms must be >= 0"))
	}
	if c.QueueSize <= 0 {
		errs = append(errs, errors.New("queue-size must be > 0"))
	}
	if c.PushTimeoutMs <= 0 {
		errs = append(errs, errors.New("push-timeout-ms must be > 0"))
	}
	if len(c.Outputs) == 0 {
		errs = append(errs, errors.New("at least one output is required"))
	}
	for _, o := range c.Outputs {
		switch o.Type {
		case OutputConsole, OutputLog:
		default:
			errs = append(errs, fmt.Errorf("unknown output type %q", o.Type))
		}
	}
	return errors.Join(errs...)
}

func parseCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
