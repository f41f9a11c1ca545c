package automation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gordonklaus/fmsynth"
)

var testParams = fmsynth.Params{SampleRate: 1000, BufferSize: 100}

func newTestVoice(t *testing.T) *fmsynth.FMVoice {
	t.Helper()
	v, err := fmsynth.NewFMVoice(nil, testParams)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func target(t *testing.T, n fmsynth.Parameterized, id fmsynth.ParamID) float64 {
	t.Helper()
	p, ok := n.Param(id)
	if !ok {
		t.Fatalf("%T has no %s", n, id)
	}
	return p.Target()
}

func TestScript_setGet(t *testing.T) {
	v := newTestVoice(t)
	s, err := NewScript(`
		set("modulationIndex", 3)
		set("baseFrequency", get("baseFrequency") / 2)
		rate = sampleRate
	`, v, testParams)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if x := target(t, v, fmsynth.ModulationIndex); x != 3 {
		t.Errorf("modulationIndex = %g", x)
	}
	if x := target(t, v, fmsynth.BaseFrequency); x != 220 {
		t.Errorf("baseFrequency = %g", x)
	}
	if x := s.L.GetGlobal("rate").String(); x != "1000" {
		t.Errorf("sampleRate = %s", x)
	}
}

func TestScript_errors(t *testing.T) {
	v := newTestVoice(t)
	for _, src := range []string{
		`set("detune", 1)`,
		`set("lowerBound", 1)`,
		`get("nope")`,
		`at(1, "upperBound", 2)`,
		`this is not lua`,
	} {
		if s, err := NewScript(src, v, testParams); err == nil {
			s.Close()
			t.Errorf("%s: expected error", src)
		} else if !strings.HasPrefix(err.Error(), "automation: ") {
			t.Errorf("%s: error %q", src, err)
		}
	}
}

// recorder renders the target of one parameter, so the test can see where
// scheduled changes land.
type recorder struct {
	p *fmsynth.Param
}

func (r recorder) Render(out fmsynth.Audio) fmsynth.Audio {
	for i := range out {
		out[i] = r.p.Target()
	}
	return out
}

func TestScript_atIsSampleAccurate(t *testing.T) {
	v := newTestVoice(t)
	s, err := NewScript(`
		at(0.0125, "amplitude", 0.5)
		at(0.0031, "amplitude", 0.25)
	`, v, testParams)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.Pending() != 2 {
		t.Fatalf("%d pending changes, expected 2", s.Pending())
	}

	amp, _ := v.Param(fmsynth.Amplitude)
	out := s.Render(recorder{amp}, make(fmsynth.Audio, 20))
	for i, x := range out {
		want := 1.0
		switch {
		case i >= 12:
			want = .5
		case i >= 3:
			want = .25
		}
		if x != want {
			t.Fatalf("sample %d: amplitude %g, expected %g", i, x, want)
		}
	}
	if s.Pending() != 0 || s.Time() != .02 {
		t.Errorf("pending %d at %gs", s.Pending(), s.Time())
	}
}

func TestScript_block(t *testing.T) {
	v := newTestVoice(t)
	s, err := NewScript(`
		calls = 0
		function block(t)
			calls = calls + 1
			if t >= 0.2 then
				set("amplitude", 0)
			end
		end
	`, v, testParams)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	buf := make(fmsynth.Audio, testParams.BufferSize)
	for i := 0; i < 3; i++ {
		if err := s.Block(); err != nil {
			t.Fatal(err)
		}
		s.Render(v, buf)
	}
	if x := target(t, v, fmsynth.Amplitude); x != 0 {
		t.Errorf("amplitude %g after 0.2s, expected 0", x)
	}
	if x := s.L.GetGlobal("calls").String(); x != "3" {
		t.Errorf("block called %s times", x)
	}

	s.Advance(50)
	if s.Time() != .35 {
		t.Errorf("time %g after advancing, expected 0.35", s.Time())
	}
}

func TestScript_blockError(t *testing.T) {
	s, err := NewScript(`function block(t) error("boom") end`, newTestVoice(t), testParams)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Block(); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("got %v", err)
	}
}

func TestScript_noBlock(t *testing.T) {
	s, err := NewScript(`x = 1`, newTestVoice(t), testParams)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Block(); err != nil {
		t.Error(err)
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wobble.lua")
	if err := os.WriteFile(path, []byte(`set("frequency", 4)`), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := fmsynth.NewPulseRand(0, 1, 1, testParams)
	if err != nil {
		t.Fatal(err)
	}
	s, err := LoadScript(path, r, testParams)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
	if x := target(t, r, fmsynth.Frequency); x != 4 {
		t.Errorf("frequency = %g", x)
	}
	if _, err := LoadScript(filepath.Join(t.TempDir(), "missing.lua"), r, testParams); err == nil {
		t.Error("expected error for a missing file")
	}
}
