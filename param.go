package fmsynth

import (
	"math"
	"sync/atomic"
)

// A Param is a control value shared between a control goroutine, which calls
// Set, and the render goroutine, which calls Tick once per sample.  Changes
// are ramped linearly over RampSamples samples.  Set calls made between two
// Ticks coalesce; only the last one is heard.
//
// The zero Param holds 0 and jumps to new targets without ramping.
type Param struct {
	target atomic.Uint64 // float64 bits
	value  atomic.Uint64 // float64 bits, mirrors cur for Value
	ramp   atomic.Int64

	sampleRate float64

	// owned by the render goroutine
	dest      uint64
	cur       float64
	start, dx float64
	i, n      int
}

func NewParam(x float64) *Param {
	p := &Param{}
	p.reset(x)
	return p
}

// InitAudio makes the ramp one block long.
func (p *Param) InitAudio(params Params) {
	p.sampleRate = params.SampleRate
	p.SetRampSamples(params.BufferSize)
}

func (p *Param) reset(x float64) {
	b := math.Float64bits(x)
	p.target.Store(b)
	p.value.Store(b)
	p.dest = b
	p.cur = x
	p.i, p.n = 0, 0
}

// Set stores a new target.  The ramp towards it starts, from whatever value
// is current, at the next Tick.
func (p *Param) Set(x float64) { p.target.Store(math.Float64bits(x)) }

// Target returns the value most recently passed to Set.
func (p *Param) Target() float64 { return math.Float64frombits(p.target.Load()) }

// Value returns the current smoothed value without advancing it.
func (p *Param) Value() float64 { return math.Float64frombits(p.value.Load()) }

func (p *Param) RampSamples() int { return int(p.ramp.Load()) }

func (p *Param) SetRampSamples(n int) {
	if n < 0 {
		n = 0
	}
	p.ramp.Store(int64(n))
}

// SetRampTime sets the ramp length in seconds.  It has no effect before
// InitAudio.
func (p *Param) SetRampTime(t float64) {
	if p.sampleRate > 0 {
		p.SetRampSamples(int(math.Round(t * p.sampleRate)))
	}
}

// Tick advances the ramp by one sample and returns the new value.
func (p *Param) Tick() float64 {
	if b := p.target.Load(); b != p.dest {
		p.dest = b
		p.start = p.cur
		p.dx = math.Float64frombits(b) - p.cur
		p.i, p.n = 0, int(p.ramp.Load())
		if p.n == 0 {
			p.cur = math.Float64frombits(b)
			p.value.Store(b)
		}
	}
	if p.i < p.n {
		p.i++
		if p.i == p.n {
			p.cur = math.Float64frombits(p.dest)
		} else {
			p.cur = p.start + p.dx*float64(p.i)/float64(p.n)
		}
		p.value.Store(math.Float64bits(p.cur))
	}
	return p.cur
}

// Ramping reports whether the value is still moving towards the target.
// Only the render goroutine may call it.
func (p *Param) Ramping() bool { return p.i < p.n }
