package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ericogr/dht22-monitor/pkg/output"
)

// Consumer takes outcomes off the queue and reports them.
type Consumer struct {
	queue   *Queue
	timeout time.Duration
	out     output.Output
	log     *log.Logger
}

// NewConsumer waits up to timeout for each outcome; it is normally the
// acquisition period.
func NewConsumer(q *Queue, timeout time.Duration, out output.Output, logger *log.Logger) *Consumer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = log.Default().WithPrefix("consume")
	}
	return &Consumer{queue: q, timeout: timeout, out: out, log: logger}
}

// Run reports outcomes until ctx is done. A wait that times out is logged
// and the loop carries on.
func (c *Consumer) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		o, err := c.queue.Pop(ctx, c.timeout)
		if errors.Is(err, ErrQueueEmpty) {
			c.log.Warn("no data received", "waited", c.timeout)
			continue
		}
		if err != nil {
			break
		}
		if err := c.out.Publish(o); err != nil {
			c.log.Error("report failed", "err", err)
		}
	}
	c.log.Info("shutdown signalled, loop exiting")
	return nil
}
