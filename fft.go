package fmsynth

import (
	"math"
	"math/cmplx"

	"github.com/ktye/fft"
)

// A Spectrum computes Hann-windowed magnitude spectra of fixed-size frames.
// It reuses its buffers, so it must not be shared between goroutines.
type Spectrum struct {
	fft fft.FFT
	env []float64
	buf []complex128
	mag []float64
}

// NewSpectrum returns a Spectrum for frames of size samples, which must be a
// power of two.
func NewSpectrum(size int) (*Spectrum, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, configErrorf("spectrum", "size", size, "must be a power of two")
	}
	f, err := fft.New(size)
	if err != nil {
		return nil, err
	}
	env := make([]float64, size)
	for i := range env {
		env[i] = (1 - math.Cos(2*math.Pi*float64(i)/float64(size))) / 2
	}
	return &Spectrum{
		fft: f,
		env: env,
		buf: make([]complex128, size),
		mag: make([]float64, size/2+1),
	}, nil
}

func (s *Spectrum) Size() int { return len(s.env) }

// Magnitudes returns the magnitudes of bins 0 through Size/2 of the first
// Size samples of x.  Missing samples count as silence.  The result is
// overwritten by the next call.
func (s *Spectrum) Magnitudes(x Audio) []float64 {
	for i := range s.buf {
		v := 0.0
		if i < len(x) {
			v = x[i] * s.env[i]
		}
		s.buf[i] = complex(v, 0)
	}
	s.buf = s.fft.Transform(s.buf)
	for i := range s.mag {
		s.mag[i] = cmplx.Abs(s.buf[i]) / float64(len(s.buf))
	}
	return s.mag
}

// BinFrequency returns the centre frequency of bin i.
func (s *Spectrum) BinFrequency(i int, sampleRate float64) float64 {
	return float64(i) * sampleRate / float64(len(s.env))
}

// PeakFrequency returns the frequency of the loudest bin above DC,
// refined by parabolic interpolation of its neighbours.
func (s *Spectrum) PeakFrequency(x Audio, sampleRate float64) float64 {
	mag := s.Magnitudes(x)
	peak := 1
	for i := 2; i < len(mag); i++ {
		if mag[i] > mag[peak] {
			peak = i
		}
	}
	offset := 0.0
	if peak+1 < len(mag) {
		a, b, c := mag[peak-1], mag[peak], mag[peak+1]
		if d := a - 2*b + c; d != 0 {
			offset = (a - c) / (2 * d)
		}
	}
	return (float64(peak) + offset) * sampleRate / float64(len(s.env))
}
