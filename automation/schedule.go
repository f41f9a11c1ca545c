package automation

import (
	"math"

	"github.com/gordonklaus/fmsynth"
)

// A Schedule runs functions after a given number of samples.  It is not
// safe for concurrent use; the goroutine that renders also advances it.
type Schedule struct {
	Params fmsynth.Params
	events []delayEvent
}

// delayEvent.n counts samples after the previous event.
type delayEvent struct {
	n int
	f func()
}

// Delay arranges for f to run once t seconds of audio have passed.  Events
// due at the same sample run in the order they were scheduled.  A negative or
// NaN t means now; a t too large to count in samples means never.
func (s *Schedule) Delay(t float64, f func()) {
	if s.Params.SampleRate == 0 {
		panic("Schedule.Delay called before InitAudio")
	}
	var n int
	switch x := t * s.Params.SampleRate; {
	case !(x > 0):
		n = 0
	case x >= math.MaxInt:
		n = math.MaxInt
	default:
		n = int(x)
	}
	i := 0
	for ; i < len(s.events); i++ {
		e := &s.events[i]
		if n < e.n {
			e.n -= n
			break
		}
		n -= e.n
	}
	s.events = append(s.events, delayEvent{})
	copy(s.events[i+1:], s.events[i:])
	s.events[i] = delayEvent{n, f}
}

// Until returns the number of samples before the next event, or -1 if
// nothing is scheduled.
func (s *Schedule) Until() int {
	if len(s.events) == 0 {
		return -1
	}
	return s.events[0].n
}

func (s *Schedule) Len() int { return len(s.events) }

// Advance lets n samples pass, running every event that falls due.
func (s *Schedule) Advance(n int) {
	for len(s.events) > 0 {
		e := &s.events[0]
		if e.n > n {
			e.n -= n
			return
		}
		n -= e.n
		f := e.f
		s.events = s.events[1:]
		f()
	}
}

// Step advances by one sample.
func (s *Schedule) Step() { s.Advance(1) }

// Render fills out from r, splitting it wherever an event falls due so that
// every change lands on its exact sample.
func (s *Schedule) Render(r fmsynth.Renderer, out fmsynth.Audio) fmsynth.Audio {
	for rest := out; len(rest) > 0; {
		n := s.Until()
		if n < 0 || n > len(rest) {
			n = len(rest)
		}
		r.Render(rest[:n])
		s.Advance(n)
		rest = rest[n:]
	}
	return out
}
