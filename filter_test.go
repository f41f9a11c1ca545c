package fmsynth

import (
	"math"
	"testing"
)

func TestDCFilter(t *testing.T) {
	var f DCFilter
	Init(&f, Params{SampleRate: 44100})
	x := make(Audio, 44100)
	for i := range x {
		x[i] = .5 + .25*math.Sin(2*math.Pi*1000*float64(i)/44100)
	}
	f.Process(x)
	mean := 0.0
	for _, x := range x[22050:] {
		mean += x
	}
	mean /= 22050
	if math.Abs(mean) > 1e-3 {
		t.Errorf("DC of %g left after half a second", mean)
	}
	m := NewAmpMeter(.1, Params{SampleRate: 44100})
	if a := m.Amplitude(x); math.Abs(a-.25/math.Sqrt2) > .01 {
		t.Errorf("1 kHz RMS %g, expected it to pass", a)
	}
}

func TestDCFilter_cutoff(t *testing.T) {
	// At the corner the gain of a one-pole high-pass is 1/sqrt(2).
	for _, cutoff := range []float64{0, 100} {
		f := &DCFilter{Cutoff: cutoff}
		Init(f, Params{SampleRate: 44100})
		corner := cutoff
		if corner == 0 {
			corner = DefaultDCCutoff
		}
		x := make(Audio, 441000)
		for i := range x {
			x[i] = math.Sin(2 * math.Pi * corner * float64(i) / 44100)
		}
		f.Process(x)
		m := NewAmpMeter(1, Params{SampleRate: 44100})
		if a := m.Amplitude(x) * math.Sqrt2; math.Abs(a-1/math.Sqrt2) > .01 {
			t.Errorf("cutoff %g: gain %g at the corner, expected %g", cutoff, a, 1/math.Sqrt2)
		}
	}
}

func BenchmarkDCFilter(b *testing.B) {
	var f DCFilter
	Init(&f, Params{SampleRate: 96000})
	x := 1.0
	for i := 0; i < b.N; i++ {
		x = f.Filter(x)
	}
}
