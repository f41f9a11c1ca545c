package fmsynth

import (
	"math"
	"math/rand"
	"time"
)

// minPulseFrequency stands in for non-positive frequencies so that the
// draw interval stays finite.
const minPulseFrequency = 1e-6

// A PulseRand draws a new random value between two bounds at a given
// frequency and glides linearly from each value to the next.  The output is
// continuous; it only changes direction where a new value is drawn.
type PulseRand struct {
	Params             Params
	lower, upper, freq Param
	rand               *rand.Rand
	cur, next          float64
	counter, period    float64
}

type PulseOption func(*PulseRand)

// WithSeed makes the random sequence reproducible.
func WithSeed(seed int64) PulseOption {
	return func(r *PulseRand) { r.rand = rand.New(rand.NewSource(seed)) }
}

// NewPulseRand returns a generator drawing from [lower, upper) at freq Hz.
// A control-rate wobble is typically 0, 1 and 1 Hz.
func NewPulseRand(lower, upper, freq float64, p Params, opts ...PulseOption) (*PulseRand, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}
	r := &PulseRand{}
	r.lower.reset(lower)
	r.upper.reset(upper)
	r.freq.reset(freq)
	for _, opt := range opts {
		opt(r)
	}
	if r.rand == nil {
		r.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	r.next = r.draw(lower, upper)
	Init(r, p)
	return r, nil
}

func (r *PulseRand) InitAudio(p Params) {
	r.Params = p
	r.lower.InitAudio(p)
	r.upper.InitAudio(p)
	r.freq.InitAudio(p)
}

func (r *PulseRand) Param(id ParamID) (*Param, bool) {
	switch id {
	case LowerBound:
		return &r.lower, true
	case UpperBound:
		return &r.upper, true
	case Frequency:
		return &r.freq, true
	}
	return nil, false
}

func (r *PulseRand) ParamIDs() []ParamID { return []ParamID{LowerBound, UpperBound, Frequency} }

func (r *PulseRand) SetParameter(id ParamID, x float64) {
	if p, ok := r.Param(id); ok {
		p.Set(x)
	}
}

func (r *PulseRand) draw(lower, upper float64) float64 {
	return lower + r.rand.Float64()*(upper-lower)
}

func (r *PulseRand) Sing() float64 {
	lower := r.lower.Tick()
	upper := r.upper.Tick()
	freq := r.freq.Tick()
	if !(freq > minPulseFrequency) {
		freq = minPulseFrequency
	}
	period := math.Max(1, r.Params.SampleRate/freq)

	// A new rate stretches the current glide, keeping how far along it is.
	if r.period > 0 && period != r.period {
		r.counter *= period / r.period
		r.period = period
	}

	r.counter--
	if r.counter <= 0 {
		r.cur = r.next
		r.next = r.draw(lower, upper)
		r.period = period
		r.counter = period
	}
	t := 1 - r.counter/r.period
	return r.cur + t*(r.next-r.cur)
}

func (r *PulseRand) Render(out Audio) Audio {
	for i := range out {
		out[i] = r.Sing()
	}
	return out
}
