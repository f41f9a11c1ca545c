//go:build oto

package play

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gordonklaus/fmsynth"
)

// oto allows one context per process, so every stream must share its sample
// rate.
var (
	otoMu   sync.Mutex
	otoCtx  *oto.Context
	otoRate int
)

func otoContext(sampleRate int, bufferSize int) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		if sampleRate != otoRate {
			return nil, fmt.Errorf("play: oto is already running at %d Hz, not %d Hz", otoRate, sampleRate)
		}
		return otoCtx, nil
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(bufferSize) * time.Second / time.Duration(sampleRate),
	})
	if err != nil {
		return nil, err
	}
	<-ready
	otoCtx, otoRate = ctx, sampleRate
	return ctx, nil
}

func startPlaying(r fmsynth.Renderer, p fmsynth.Params) (io.Closer, error) {
	ctx, err := otoContext(int(math.Round(p.SampleRate)), bufferSize(p))
	if err != nil {
		return nil, err
	}
	s := &otoStream{
		r:   r,
		buf: make(fmsynth.Audio, bufferSize(p)),
		f32: make([]float32, bufferSize(p)),
	}
	s.player = ctx.NewPlayer(s)
	s.player.Play()
	return s, nil
}

// otoStream adapts a Renderer to the io.Reader of float32 LE frames that
// oto pulls from.
type otoStream struct {
	player *oto.Player
	r      fmsynth.Renderer
	buf    fmsynth.Audio
	f32    []float32
}

func (s *otoStream) Read(p []byte) (int, error) {
	n := len(p) / 4
	for off := 0; off < n; {
		m := n - off
		if m > len(s.f32) {
			m = len(s.f32)
		}
		fill(s.r, s.buf, s.f32[:m])
		for i, x := range s.f32[:m] {
			binary.LittleEndian.PutUint32(p[(off+i)*4:], math.Float32bits(x))
		}
		off += m
	}
	return n * 4, nil
}

func (s *otoStream) Close() error { return s.player.Close() }
