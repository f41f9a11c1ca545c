// Package play sends a Renderer to the default audio output device.
//
// The portaudio backend is used unless the program is built with the oto tag.
package play

import (
	"context"
	"log"
	"sync"

	"github.com/gordonklaus/fmsynth"
)

// Play renders r to the default output until ctx is done.
func Play(ctx context.Context, r fmsynth.Renderer, p fmsynth.Params) error {
	c := PlayAsync(r, p)
	select {
	case <-ctx.Done():
		c.Stop()
		<-c.Done()
	case <-c.Done():
	}
	return c.Err()
}

// PlayAsync starts rendering r to the default output and returns
// immediately.
func PlayAsync(r fmsynth.Renderer, p fmsynth.Params) *Control {
	c := &Control{stop: make(chan struct{}), done: make(chan struct{})}
	if err := p.Check(); err != nil {
		c.finish(err)
		return c
	}
	s, err := startPlaying(r, p)
	if err != nil {
		log.Println(err)
		c.finish(err)
		return c
	}

	go func() {
		<-c.stop
		err := s.Close()
		if err != nil {
			log.Println(err)
		}
		c.finish(err)
	}()
	return c
}

type Control struct {
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	err      error
}

// Stop asks the stream to close.  It may be called more than once.
func (c *Control) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Done is closed once the stream has closed.
func (c *Control) Done() <-chan struct{} { return c.done }

// Err returns the error that ended playback, if any.  It is only valid after
// Done is closed.
func (c *Control) Err() error { return c.err }

func (c *Control) finish(err error) {
	c.err = err
	close(c.done)
}

func bufferSize(p fmsynth.Params) int {
	if p.BufferSize > 0 {
		return p.BufferSize
	}
	return fmsynth.DefaultParams.BufferSize
}

// fill renders len(out) samples from r into out, using buf as scratch space
// so that hosts asking for odd buffer sizes never cause an allocation.
func fill(r fmsynth.Renderer, buf fmsynth.Audio, out []float32) {
	for len(out) > 0 {
		n := len(out)
		if n > len(buf) {
			n = len(buf)
		}
		r.Render(buf[:n]).Float32(out)
		out = out[n:]
	}
}
