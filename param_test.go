package fmsynth

import (
	"sync"
	"testing"
)

func TestParam_zeroValue(t *testing.T) {
	var p Param
	if x := p.Tick(); x != 0 {
		t.Errorf("zero Param ticked %g", x)
	}
	p.Set(3)
	if x := p.Tick(); x != 3 {
		t.Errorf("zero Param without ramp ticked %g, expected 3", x)
	}
}

func TestParam_ramp(t *testing.T) {
	p := NewParam(0)
	p.SetRampSamples(64)
	p.Set(1)
	prev := p.Value()
	for i := 1; i <= 64; i++ {
		x := p.Tick()
		if x <= prev {
			t.Fatalf("tick %d: %g not above previous %g", i, x, prev)
		}
		if x > 1 {
			t.Fatalf("tick %d: %g overshoots 1", i, x)
		}
		if i < 64 && x == 1 {
			t.Fatalf("tick %d: reached target early", i)
		}
		prev = x
	}
	if prev != 1 {
		t.Fatalf("after 64 ticks got %g, expected exactly 1", prev)
	}
	for i := 0; i < 10; i++ {
		if x := p.Tick(); x != 1 {
			t.Fatalf("value moved to %g after ramp finished", x)
		}
	}
}

func TestParam_rampDown(t *testing.T) {
	p := NewParam(100)
	p.SetRampSamples(37)
	p.Set(-28.3)
	prev := 100.0
	for i := 0; i < 37; i++ {
		x := p.Tick()
		if x > prev || x < -28.3 {
			t.Fatalf("tick %d: %g not between %g and -28.3", i, x, prev)
		}
		prev = x
	}
	if prev != -28.3 {
		t.Errorf("got %g, expected -28.3", prev)
	}
}

func TestParam_retargetMidRamp(t *testing.T) {
	p := NewParam(0)
	p.SetRampSamples(4)
	p.Set(4)
	p.Tick()
	p.Tick()
	p.Set(0)
	for i, want := range []float64{1.5, 1, .5, 0, 0} {
		if x := p.Tick(); x != want {
			t.Errorf("tick %d: got %g, expected %g", i, x, want)
		}
	}
}

func TestParam_coalesce(t *testing.T) {
	p := NewParam(0)
	p.Set(5)
	p.Set(7)
	p.Set(3)
	if x := p.Tick(); x != 3 {
		t.Errorf("got %g, expected last value set", x)
	}
	if x := p.Target(); x != 3 {
		t.Errorf("target %g, expected 3", x)
	}
}

func TestParam_valueDoesNotAdvance(t *testing.T) {
	p := NewParam(0)
	p.SetRampSamples(10)
	p.Set(10)
	p.Tick()
	for i := 0; i < 5; i++ {
		if x := p.Value(); x != 1 {
			t.Fatalf("Value() = %g, expected 1", x)
		}
	}
	if x := p.Tick(); x != 2 {
		t.Errorf("Tick() = %g, expected 2", x)
	}
}

func TestParam_InitAudio(t *testing.T) {
	p := NewParam(1)
	Init(p, Params{SampleRate: 1000, BufferSize: 128})
	if n := p.RampSamples(); n != 128 {
		t.Errorf("ramp %d, expected one block of 128", n)
	}
	p.SetRampTime(.01)
	if n := p.RampSamples(); n != 10 {
		t.Errorf("ramp %d, expected 10", n)
	}
	p.SetRampSamples(-3)
	if n := p.RampSamples(); n != 0 {
		t.Errorf("ramp %d, expected negative ramp clamped to 0", n)
	}
}

func TestParam_concurrentSet(t *testing.T) {
	p := NewParam(0)
	p.SetRampSamples(16)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 1000; i++ {
			p.Set(float64(i))
		}
	}()
	for i := 0; i < 10000; i++ {
		p.Tick()
	}
	wg.Wait()
	for i := 0; i < 16; i++ {
		p.Tick()
	}
	if x := p.Tick(); x != 1000 {
		t.Errorf("got %g, expected the last value set", x)
	}
}

func BenchmarkParamTick(b *testing.B) {
	p := NewParam(0)
	p.SetRampSamples(256)
	for i := 0; i < b.N; i++ {
		if i&255 == 0 {
			p.Set(float64(i))
		}
		p.Tick()
	}
}
