package main

import (
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gordonklaus/fmsynth"
)

const bitDepth = 16

// wavWriter streams mono blocks to a 16-bit PCM WAV file.
type wavWriter struct {
	f   *os.File
	enc *wav.Encoder
	buf *audio.IntBuffer
}

func createWAV(path string, sampleRate int) (*wavWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &wavWriter{
		f:   f,
		enc: wav.NewEncoder(f, sampleRate, bitDepth, 1, 1),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// Write clips x to [-1, 1] and appends it to the file.
func (w *wavWriter) Write(x fmsynth.Audio) error {
	w.buf.Data = w.buf.Data[:0]
	for _, x := range x {
		w.buf.Data = append(w.buf.Data, pcm16(x))
	}
	return w.enc.Write(w.buf)
}

func pcm16(x float64) int {
	const max = 1<<(bitDepth-1) - 1
	if math.IsNaN(x) {
		return 0
	}
	return int(math.Round(math.Max(-1, math.Min(1, x)) * max))
}

func (w *wavWriter) Close() error {
	err := w.enc.Close()
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	return err
}
