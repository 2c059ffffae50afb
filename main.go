package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ericogr/dht22-monitor/pkg/config"
	"github.com/ericogr/dht22-monitor/pkg/output"
	"github.com/ericogr/dht22-monitor/pkg/output/console"
	"github.com/ericogr/dht22-monitor/pkg/output/logsink"
	"github.com/ericogr/dht22-monitor/pkg/pipeline"
	"github.com/ericogr/dht22-monitor/pkg/sensor"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		log.Fatal("logger", "err", err)
	}

	out, err := initOutputs(cfg, logger)
	if err != nil {
		logger.Fatal("outputs", "err", err)
	}
	defer out.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "pin", cfg.GPIOPin, "sensor", cfg.SensorName, "type", cfg.SensorType, "interval_ms", cfg.IntervalMs)
	if err := run(ctx, cfg, logger, out); err != nil {
		logger.Error("stopped", "err", err)
		out.Close()
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

// run wires acquisition and consumption over one queue. Either loop failing
// cancels the other.
func run(ctx context.Context, cfg config.Config, logger *log.Logger, out output.Output) error {
	q := pipeline.NewQueue(cfg.QueueSize)
	period := time.Duration(cfg.IntervalMs) * time.Millisecond

	acq := pipeline.NewAcquirer(openerFor(cfg, logger.WithPrefix("dht22")), q, pipeline.AcquireConfig{
		Period:      period,
		StartDelay:  time.Duration(cfg.StartDelayMs) * time.Millisecond,
		PushTimeout: time.Duration(cfg.PushTimeoutMs) * time.Millisecond,
	}, logger.WithPrefix("acquire"))
	con := pipeline.NewConsumer(q, period, out, logger.WithPrefix("consume"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return acq.Run(gctx) })
	g.Go(func() error { return con.Run(gctx) })
	return g.Wait()
}

func openerFor(cfg config.Config, logger *log.Logger) pipeline.Opener {
	return func() (sensor.Sensor, error) {
		if cfg.SensorType == config.SensorSimulation {
			return sensor.NewFakeSensor(cfg, logger)
		}
		return sensor.NewDHT22Sensor(cfg, logger)
	}
}

func newLogger(cfg config.Config, w io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}
	opts := log.Options{Level: lvl, ReportTimestamp: true}
	switch cfg.LogFormat {
	case "", "text":
		opts.Formatter = log.TextFormatter
	case "json":
		opts.Formatter = log.JSONFormatter
	case "logfmt":
		opts.Formatter = log.LogfmtFormatter
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	return log.NewWithOptions(w, opts), nil
}

func initOutputs(cfg config.Config, logger *log.Logger) (output.Output, error) {
	outs := make(output.Fanout, 0, len(cfg.Outputs))
	for _, o := range cfg.Outputs {
		switch o.Type {
		case config.OutputConsole:
			outs = append(outs, console.NewConsole(cfg.SensorName))
		case config.OutputLog:
			outs = append(outs, logsink.New(logger.WithPrefix(cfg.SensorName)))
		default:
			return nil, fmt.Errorf("unknown output type %q", o.Type)
		}
	}
	if len(outs) == 0 {
		return nil, fmt.Errorf("no outputs configured")
	}
	return outs, nil
}
