package sensor

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ericogr/dht22-monitor/pkg/config"
	"github.com/ericogr/dht22-monitor/pkg/hal"
)

type Options struct {
	MinInterval time.Duration
	MaxHandles  int
	Logger      *log.Logger
}

const DefaultMaxHandles = 4

// DHT22 drives DHT22/AM2302 sensors on the pins of one platform.
type DHT22 struct {
	platform   hal.Platform
	clock      hal.Clock
	limiter    RateLimiter
	maxHandles int
	log        *log.Logger

	mu   sync.Mutex
	open int

	// decode is swapped in tests to observe whether a frame reached it.
	decode func(RawFrame) (Reading, error)
}

func New(platform hal.Platform, clock hal.Clock, opts Options) *DHT22 {
	if opts.MaxHandles <= 0 {
		opts.MaxHandles = DefaultMaxHandles
	}
	if opts.Logger == nil {
		opts.Logger = log.Default().WithPrefix("dht22")
	}
	return &DHT22{
		platform:   platform,
		clock:      clock,
		limiter:    RateLimiter{MinInterval: opts.MinInterval},
		maxHandles: opts.MaxHandles,
		log:        opts.Logger,
		decode:     Decode,
	}
}

// Read performs one rate-limited read cycle on h. Bus and checksum failures
// end the attempt; nothing is retried.
func (d *DHT22) Read(h *Handle) (Reading, error) {
	if !h.Valid() || h.owner != d {
		d.log.Error("read: invalid handle")
		return Reading{}, &Error{Kind: ErrInvalidInput, Op: "read", Msg: "invalid handle"}
	}
	now := d.clock.Now()
	if err := d.limiter.TryBeginRead(h, now); err != nil {
		d.log.Warn("read: too frequent", "pin", h.Pin(), "last", h.lastRead.Format(time.RFC3339Nano))
		return Reading{}, err
	}

	f, err := busReader{pin: h.pin, clock: d.clock}.Capture()
	if err != nil {
		h.stats.Failures++
		d.log.Error("read: bus", "pin", h.Pin(), "kind", KindOf(err), "err", err)
		return Reading{}, err
	}
	if d.log.GetLevel() <= log.DebugLevel {
		d.dumpFrame(h, &f)
	}

	r, err := d.decode(f)
	if err != nil {
		h.stats.Failures++
		d.log.Error("read: decode", "pin", h.Pin(), "kind", KindOf(err), "err", err)
		return Reading{}, err
	}
	r.Timestamp = now
	h.stats.Successes++
	return r, nil
}

func (d *DHT22) dumpFrame(h *Handle, f *RawFrame) {
	rh, mag, neg, sum := f.Fields()
	d.log.Debug("frame",
		"pin", h.Pin(),
		"rh", fmt.Sprint(f[24:40]),
		"tp", fmt.Sprint(f[8:24]),
		"cs", fmt.Sprint(f[0:8]),
	)
	d.log.Debug("fields", "rh", rh, "temp", mag, "negative", neg, "checksum", fmt.Sprintf("0x%02x", sum))
}

// Device is a Sensor bound to one handle.
type Device struct {
	drv    *DHT22
	handle *Handle
}

func Open(drv *DHT22, pin, name string) (*Device, error) {
	h, err := drv.Initialize(pin, name)
	if err != nil {
		return nil, err
	}
	return &Device{drv: drv, handle: h}, nil
}

func (s *Device) Read() (Reading, error) { return s.drv.Read(s.handle) }

func (s *Device) Close() error { return s.drv.Cleanup(s.handle) }

func (s *Device) Handle() *Handle { return s.handle }

func (s *Device) Stats() Stats { return s.handle.Stats() }

// NewDHT22Sensor opens the sensor on a real board through periph.io.
func NewDHT22Sensor(cfg config.Config, logger *log.Logger) (Sensor, error) {
	p, err := hal.NewPeriph()
	if err != nil {
		return nil, err
	}
	drv := New(p, hal.SystemClock{}, optionsFromConfig(cfg, logger))
	return Open(drv, cfg.GPIOPin, cfg.SensorName)
}
