package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ericogr/dht22-monitor/pkg/sensor"
)

// Opener initializes the sensor. It is called once when the acquisition
// loop starts.
type Opener func() (sensor.Sensor, error)

type AcquireConfig struct {
	Period      time.Duration
	StartDelay  time.Duration
	PushTimeout time.Duration
}

// Acquirer reads the sensor once per period and queues every outcome except
// rate-limit denials.
type Acquirer struct {
	open    Opener
	queue   *Queue
	cfg     AcquireConfig
	log     *log.Logger
	dropped int
}

func NewAcquirer(open Opener, q *Queue, cfg AcquireConfig, logger *log.Logger) *Acquirer {
	if cfg.Period <= 0 {
		cfg.Period = 15 * time.Second
	}
	if cfg.PushTimeout <= 0 {
		cfg.PushTimeout = time.Second
	}
	if logger == nil {
		logger = log.Default().WithPrefix("acquire")
	}
	return &Acquirer{open: open, queue: q, cfg: cfg, log: logger}
}

// Run opens the sensor and polls it until ctx is done. A sensor that cannot
// be opened is fatal: Run returns the error without polling, which is the
// caller's signal to shut the whole pipeline down.
func (a *Acquirer) Run(ctx context.Context) error {
	s, err := a.open()
	if err != nil {
		a.log.Error("failed to initialize sensor, exiting", "err", err)
		return fmt.Errorf("initialize sensor: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			a.log.Warn("sensor cleanup", "err", err)
		}
	}()

	if a.cfg.StartDelay > 0 {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(a.cfg.StartDelay):
		}
	}

	ticker := time.NewTicker(a.cfg.Period)
	defer ticker.Stop()
	for {
		if ctx.Err() != nil {
			break
		}
		a.tick(ctx, s)
		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}
	a.log.Info("shutdown signalled, loop exiting", "dropped", a.dropped)
	return nil
}

func (a *Acquirer) tick(ctx context.Context, s sensor.Sensor) {
	r, err := s.Read()
	if sensor.KindOf(err) == sensor.ErrTooFrequent {
		a.log.Debug("rate limited, skipping tick")
		return
	}
	if st, ok := s.(interface{ Stats() sensor.Stats }); ok {
		stats := st.Stats()
		a.log.Debug("read", "ok", err == nil, "successes", stats.Successes, "failures", stats.Failures)
	}
	err = a.queue.Push(ctx, sensor.Outcome{Reading: r, Err: err}, a.cfg.PushTimeout)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		a.log.Debug("shutdown during enqueue, outcome discarded")
		return
	}
	if err != nil {
		a.dropped++
		a.log.Error("failed to add entry to queue", "err", err, "dropped", a.dropped)
	}
}
