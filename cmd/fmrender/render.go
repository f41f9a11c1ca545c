package main

import (
	"context"
	"log"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/gordonklaus/fmsynth"
	"github.com/gordonklaus/fmsynth/play"
)

const analysisSize = 8192

// renderFile renders dur seconds to a WAV file at path, block by block,
// running the control work before each block.
func (s *session) renderFile(path string, dur float64) error {
	w, err := createWAV(path, int(math.Round(s.params.SampleRate)))
	if err != nil {
		return err
	}

	meter := fmsynth.NewAmpMeter(.3, s.params)
	analysis := make(fmsynth.Audio, 0, analysisSize)
	level := 0.0

	buf := make(fmsynth.Audio, s.params.BufferSize)
	total := int(dur * s.params.SampleRate)
	for done := 0; done < total; {
		n := len(buf)
		if n > total-done {
			n = total - done
		}
		if err := s.control(); err != nil {
			w.Close()
			return err
		}
		out := buf[:n]
		if s.script != nil {
			s.filter(s.script.Render(s.pool, out))
		} else {
			s.Render(out)
		}
		level = meter.Amplitude(out)
		if room := cap(analysis) - len(analysis); room > 0 {
			if room > n {
				room = n
			}
			analysis = append(analysis, out[:room]...)
		}
		if err := w.Write(out); err != nil {
			w.Close()
			return err
		}
		done += n
	}
	if err := w.Close(); err != nil {
		return err
	}

	spectrum, err := fmsynth.NewSpectrum(analysisSize)
	if err != nil {
		return err
	}
	log.Printf("wrote %s: %.2fs at %g Hz, %d voices, peak %.1f Hz, final RMS %.3f",
		path, float64(total)/s.params.SampleRate, s.params.SampleRate, s.pool.Active(),
		spectrum.PeakFrequency(analysis, s.params.SampleRate), level)
	return nil
}

// live plays until interrupted, or for dur seconds if dur is positive.  The
// control work runs on this goroutine once per block, so scripted changes
// land on block boundaries.
func (s *session) live(dur float64) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if dur > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(dur*float64(time.Second)))
		defer cancel()
	}

	if err := s.control(); err != nil {
		return err
	}
	c := play.PlayAsync(s, s.params)
	blockTime := time.Duration(float64(s.params.BufferSize) / s.params.SampleRate * float64(time.Second))
	ticker := time.NewTicker(blockTime)
	defer ticker.Stop()
	log.Printf("playing %d voices at %g Hz", s.pool.Active(), s.params.SampleRate)
	for {
		select {
		case <-ctx.Done():
			c.Stop()
			<-c.Done()
			return c.Err()
		case <-c.Done():
			return c.Err()
		case <-ticker.C:
			if s.script != nil {
				s.script.Advance(s.params.BufferSize)
			}
			if err := s.control(); err != nil {
				c.Stop()
				<-c.Done()
				return err
			}
		}
	}
}
