package sensor

import (
	"time"
	"unicode/utf8"

	"github.com/ericogr/dht22-monitor/pkg/hal"
)

// MaxNameLen is the longest sensor name kept; longer names are clipped.
const MaxNameLen = 31

// Handle binds a name to one physical pin and tracks when it was last read.
// It is created by DHT22.Initialize and is invalid after DHT22.Cleanup.
type Handle struct {
	name     string
	pin      hal.Pin
	owner    *DHT22
	valid    bool
	lastRead time.Time
	stats    Stats
}

// Stats counts completed bus reads on a handle. Rate-limited attempts are
// not counted.
type Stats struct {
	Successes uint32 `json:"successes"`
	Failures  uint32 `json:"failures"`
}

func (h *Handle) Name() string { return h.name }

func (h *Handle) Pin() string { return h.pin.Name() }

// LastRead is the start time of the last read attempt; zero means never.
func (h *Handle) LastRead() time.Time { return h.lastRead }

func (h *Handle) Valid() bool {
	if h == nil || h.owner == nil {
		return false
	}
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	return h.valid
}

func (h *Handle) Stats() Stats { return h.stats }

// clipName cuts name to MaxNameLen bytes without splitting a rune.
func clipName(name string) (string, bool) {
	if len(name) <= MaxNameLen {
		return name, false
	}
	cut := MaxNameLen
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut], true
}

// Initialize validates pin and name, enables the pull-up on the pin and
// returns a handle whose rate limit window is already open.
func (d *DHT22) Initialize(pin, name string) (*Handle, error) {
	p, err := d.platform.Pin(pin)
	if err != nil {
		d.log.Error("initialize: pin is not valid", "pin", pin, "err", err)
		return nil, &Error{Kind: ErrInvalidInput, Op: "initialize", Pin: pin, Err: err}
	}
	if name == "" {
		d.log.Error("initialize: name cannot be empty", "pin", pin)
		return nil, &Error{Kind: ErrInvalidInput, Op: "initialize", Pin: pin, Msg: "empty name"}
	}
	if clipped, ok := clipName(name); ok {
		d.log.Warn("initialize: name too long, clipping", "name", clipped, "max", MaxNameLen)
		name = clipped
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open >= d.maxHandles {
		d.log.Error("initialize: handle table full", "max", d.maxHandles)
		return nil, &Error{Kind: ErrAllocationFailed, Op: "initialize", Pin: pin}
	}
	if err := p.ConfigurePullUp(); err != nil {
		d.log.Error("initialize: failed to enable pull-up", "pin", pin, "err", err)
		return nil, &Error{Kind: ErrPinConfigurationFailed, Op: "initialize", Pin: pin, Err: err}
	}
	d.open++
	d.log.Debug("initialized", "pin", pin, "name", name)
	return &Handle{name: name, pin: p, owner: d, valid: true}, nil
}

// Cleanup invalidates h. It fails for handles that are already invalid or
// were created by another driver.
func (d *DHT22) Cleanup(h *Handle) error {
	d.mu.Lock()
	if h == nil || h.owner != d || !h.valid {
		d.mu.Unlock()
		d.log.Error("cleanup: invalid handle, not released")
		return &Error{Kind: ErrInvalidInput, Op: "cleanup", Msg: "invalid handle"}
	}
	h.valid = false
	d.open--
	d.mu.Unlock()
	d.log.Debug("released", "pin", h.Pin(), "name", h.name)
	return nil
}
