package fmsynth

import "math"

// Audio is one block of mono samples.  All methods write into the receiver
// and return it so they can be chained without allocating.
type Audio []float64

func (a *Audio) InitAudio(p Params) {
	*a = make(Audio, p.BufferSize)
}

func (z Audio) Zero() Audio {
	for i := range z {
		z[i] = 0
	}
	return z
}

func (z Audio) Add(x Audio, y Audio) Audio {
	for i := range z {
		z[i] = x[i] + y[i]
	}
	return z
}

func (z Audio) MulX(x Audio, f float64) Audio {
	for i := range z {
		z[i] = x[i] * f
	}
	return z
}

func (z Audio) Tanh(x Audio) Audio {
	for i := range z {
		z[i] = math.Tanh(x[i])
	}
	return z
}

// Float32 converts z into out, which must be at least as long as z.
func (z Audio) Float32(out []float32) []float32 {
	out = out[:len(z)]
	for i, x := range z {
		out[i] = float32(x)
	}
	return out
}

// A Renderer fills a block of samples.  Hosts pull from it at their buffer
// rate.
type Renderer interface {
	Render(out Audio) Audio
}
