package hal

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Segment is a stretch of the line held at one level by the remote device.
type Segment struct {
	Level gpio.Level
	Us    int
}

// SimLine is a simulated single-wire line with a virtual microsecond clock.
// It implements both Pin and Clock: delays advance the virtual clock and
// every GetLevel costs ReadCostUs, which models the overhead of a real GPIO
// read. Whenever the line is switched to input, Script is called and its
// segments are played back from that instant; once they run out the line
// rests at Idle.
type SimLine struct {
	PinName    string
	Script     func() []Segment
	Idle       gpio.Level
	ReadCostUs int
	// Wall, when set, replaces the virtual clock for Now.
	Wall  func() time.Time
	Start time.Time

	mu       sync.Mutex
	now      int64 // virtual µs since Start
	dir      Direction
	driven   gpio.Level
	pullUp   bool
	origin   int64
	segments []Segment
	reads    int
}

func NewSimLine(name string, script func() []Segment) *SimLine {
	return &SimLine{
		PinName:    name,
		Script:     script,
		Idle:       gpio.High,
		ReadCostUs: 1,
		Start:      time.Unix(0, 0),
		driven:     gpio.High,
	}
}

// Fixed returns a script that always plays the same segments.
func Fixed(segs ...Segment) func() []Segment {
	return func() []Segment { return segs }
}

func (s *SimLine) Name() string { return s.PinName }

func (s *SimLine) ConfigurePullUp() error {
	s.mu.Lock()
	s.pullUp = true
	s.mu.Unlock()
	return nil
}

func (s *SimLine) PullUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pullUp
}

func (s *SimLine) SetDirection(d Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dir = d
	if d == Input {
		s.origin = s.now
		s.segments = nil
		if s.Script != nil {
			s.segments = s.Script()
		}
	}
	return nil
}

func (s *SimLine) SetLevel(l gpio.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir != Output {
		return fmt.Errorf("%s: %w", s.PinName, ErrNotOutput)
	}
	s.driven = l
	return nil
}

func (s *SimLine) GetLevel() gpio.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.levelAt(s.now)
	s.now += int64(s.ReadCostUs)
	s.reads++
	return l
}

func (s *SimLine) levelAt(t int64) gpio.Level {
	if s.dir == Output {
		return s.driven
	}
	at := t - s.origin
	for _, seg := range s.segments {
		if at < int64(seg.Us) {
			return seg.Level
		}
		at -= int64(seg.Us)
	}
	return s.Idle
}

// Reads is the number of GetLevel calls so far.
func (s *SimLine) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func (s *SimLine) Now() time.Time {
	if s.Wall != nil {
		return s.Wall()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Start.Add(time.Duration(s.now) * time.Microsecond)
}

func (s *SimLine) Sleep(d time.Duration) {
	s.mu.Lock()
	s.now += d.Microseconds()
	s.mu.Unlock()
}

func (s *SimLine) DelayMicroseconds(us int) {
	s.mu.Lock()
	s.now += int64(us)
	s.mu.Unlock()
}

// Advance moves the virtual clock forward without touching the line.
func (s *SimLine) Advance(d time.Duration) { s.Sleep(d) }

// SimPlatform hands out simulated lines by name.
type SimPlatform map[string]*SimLine

func (p SimPlatform) Pin(name string) (Pin, error) {
	l, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPin, name)
	}
	return l, nil
}
