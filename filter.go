package fmsynth

import "math"

// DefaultDCCutoff is the corner frequency of a DCFilter whose Cutoff is 0.
const DefaultDCCutoff = 10.0

// A DCFilter is a one-pole high-pass.  FM with a carrier to modulator ratio
// of 1 folds a sideband onto 0 Hz; this removes it.
type DCFilter struct {
	Cutoff float64
	a      float64
	x, y   float64
}

func (f *DCFilter) InitAudio(p Params) {
	cutoff := f.Cutoff
	if !(cutoff > 0) {
		cutoff = DefaultDCCutoff
	}
	rc := 1 / (2 * math.Pi * cutoff)
	f.a = rc / (rc + 1/p.SampleRate)
	f.x, f.y = 0, 0
}

func (f *DCFilter) Filter(x float64) float64 {
	f.y = f.a * (f.y + x - f.x)
	f.x = x
	return f.y
}

// Process filters x in place.
func (f *DCFilter) Process(x Audio) Audio {
	for i := range x {
		x[i] = f.Filter(x[i])
	}
	return x
}
