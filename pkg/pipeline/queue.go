// Package pipeline decouples sensor acquisition from reporting through a
// bounded queue of read outcomes.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/ericogr/dht22-monitor/pkg/sensor"
)

const DefaultQueueSize = 10

var (
	ErrQueueFull  = errors.New("queue full")
	ErrQueueEmpty = errors.New("queue empty")
)

// Queue is a fixed-capacity FIFO of outcomes for one producer and one
// consumer. Both ends wait at most a given timeout.
type Queue struct {
	ch chan sensor.Outcome
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueSize
	}
	return &Queue{ch: make(chan sensor.Outcome, capacity)}
}

// Push appends o, waiting up to timeout for room. It returns ErrQueueFull
// if none frees up; the outcome is then dropped.
func (q *Queue) Push(ctx context.Context, o sensor.Outcome, timeout time.Duration) error {
	select {
	case q.ch <- o:
		return nil
	default:
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case q.ch <- o:
		return nil
	case <-t.C:
		return ErrQueueFull
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop removes the oldest outcome, waiting up to timeout for one to arrive.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (sensor.Outcome, error) {
	select {
	case o := <-q.ch:
		return o, nil
	default:
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case o := <-q.ch:
		return o, nil
	case <-t.C:
		return sensor.Outcome{}, ErrQueueEmpty
	case <-ctx.Done():
		return sensor.Outcome{}, ctx.Err()
	}
}

func (q *Queue) Len() int { return len(q.ch) }

func (q *Queue) Cap() int { return cap(q.ch) }
