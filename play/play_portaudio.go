//go:build !oto

package play

import (
	"io"
	"sync"

	"github.com/gordonklaus/fmsynth"
	"github.com/gordonklaus/portaudio"
)

var (
	paMu      sync.Mutex
	paStreams int
)

// startPlaying opens a mono default output stream whose callback pulls one
// host buffer at a time from r.  PortAudio is initialized by the first open
// stream and terminated when the last one closes.
func startPlaying(r fmsynth.Renderer, p fmsynth.Params) (io.Closer, error) {
	paMu.Lock()
	defer paMu.Unlock()

	if paStreams == 0 {
		if err := portaudio.Initialize(); err != nil {
			return nil, err
		}
	}
	buf := make(fmsynth.Audio, bufferSize(p))
	s, err := portaudio.OpenDefaultStream(0, 1, p.SampleRate, p.BufferSize, func(out []float32) {
		fill(r, buf, out)
	})
	if err == nil {
		if err = s.Start(); err != nil {
			s.Close()
		}
	}
	if err != nil {
		if paStreams == 0 {
			portaudio.Terminate()
		}
		return nil, err
	}
	paStreams++
	return paStream{s}, nil
}

type paStream struct {
	*portaudio.Stream
}

func (s paStream) Close() error {
	err := s.Stop()
	if cerr := s.Stream.Close(); err == nil {
		err = cerr
	}

	paMu.Lock()
	defer paMu.Unlock()
	if paStreams--; paStreams == 0 {
		if terr := portaudio.Terminate(); err == nil {
			err = terr
		}
	}
	return err
}
