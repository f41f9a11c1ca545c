package fmsynth

import (
	"errors"
	"math"
	"testing"
)

func TestInit(t *testing.T) {
	var i audioIniter
	didPanic := false
	func() {
		defer func() {
			if x := recover(); x != nil {
				didPanic = true
			}
		}()
		Init(i, Params{})
	}()
	if !didPanic {
		t.Error("expected panic")
	}
	if i.inited {
		t.Error("expected not inited")
	}

	Init(&i, Params{})
	if !i.inited {
		t.Error("expected inited")
	}
}

func TestInit_descends(t *testing.T) {
	var x struct {
		Osc   TableOsc
		Meter *AmpMeter
		Audio Audio
	}
	x.Meter = NewAmpMeter(.01, Params{SampleRate: 1})
	Init(&x, Params{SampleRate: 1000, BufferSize: 32})
	if x.Osc.Params.SampleRate != 1000 {
		t.Error("field not initialized")
	}
	if x.Meter.Window() != 10 {
		t.Errorf("meter window of %d samples, expected 10", x.Meter.Window())
	}
	if len(x.Audio) != 32 {
		t.Errorf("buffer of %d samples, expected 32", len(x.Audio))
	}
}

type audioIniter struct {
	inited bool
}

func (i *audioIniter) InitAudio(p Params) { i.inited = true }

func TestParams_Check(t *testing.T) {
	for _, p := range []Params{
		{SampleRate: 0},
		{SampleRate: -44100},
		{SampleRate: math.NaN()},
		{SampleRate: math.Inf(1)},
		{SampleRate: 44100, BufferSize: -1},
	} {
		if err := p.Check(); !errors.Is(err, ErrConfig) {
			t.Errorf("%+v: got %v, expected a configuration error", p, err)
		}
	}
	if err := DefaultParams.Check(); err != nil {
		t.Error(err)
	}
}
