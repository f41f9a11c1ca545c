package fmsynth

import "math"

// An AmpMeter tracks the RMS amplitude over a sliding window of samples.
type AmpMeter struct {
	windowSize float64
	squares    Audio
	i          int
	sum        float64
}

// NewAmpMeter returns a meter averaging over windowSize seconds at p's
// sample rate.  Init with other Params resizes the window.
func NewAmpMeter(windowSize float64, p Params) *AmpMeter {
	m := &AmpMeter{windowSize: windowSize}
	Init(m, p)
	return m
}

func (m *AmpMeter) InitAudio(p Params) {
	n := int(p.SampleRate * m.windowSize)
	if n < 1 {
		n = 1
	}
	m.squares = make(Audio, n)
	m.i = 0
	m.sum = 0
}

// Window returns the window length in samples.
func (m *AmpMeter) Window() int { return len(m.squares) }

// Amplitude feeds x through the window and returns the RMS of the last
// Window samples.  Samples not yet seen count as silence.
func (m *AmpMeter) Amplitude(x Audio) float64 {
	if len(m.squares) == 0 {
		Init(m, Params{SampleRate: 1})
	}
	for _, x := range x {
		sq := x * x
		m.sum += sq - m.squares[m.i]
		m.squares[m.i] = sq
		if m.i++; m.i == len(m.squares) {
			m.i = 0
		}
	}
	// rounding can leave a tiny negative sum after silence
	return math.Sqrt(math.Max(0, m.sum) / float64(len(m.squares)))
}
