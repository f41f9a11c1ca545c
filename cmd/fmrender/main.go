// Command fmrender renders an FM voice, or a chord of them, to a WAV file or
// to the default audio output.
//
//	fmrender -freq 220 -mm 1.5 -index 4 -dur 3 -o bell.wav
//	fmrender -chord 1,1.25,1.5 -lfo-rate 2 -lfo-max 6 -play
//	fmrender -script sweep.lua -o sweep.wav
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gordonklaus/fmsynth"
	"github.com/gordonklaus/fmsynth/automation"
)

type config struct {
	out        string
	sampleRate float64
	block      int
	dur        float64
	table      string
	tableSize  int
	freq       float64
	carrier    float64
	modulating float64
	index      float64
	amp        float64
	ramp       float64
	chord      []float64
	script     string
	lfoRate    float64
	lfoMin     float64
	lfoMax     float64
	seed       int64
	dc         bool
	play       bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("fmrender: ")

	cfg, err := parseFlags()
	if err != nil {
		log.Fatal(err)
	}
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() (*config, error) {
	cfg := &config{}
	flag.StringVar(&cfg.out, "o", "fm.wav", "output WAV file")
	flag.Float64Var(&cfg.sampleRate, "rate", fmsynth.DefaultParams.SampleRate, "sample rate in Hz")
	flag.IntVar(&cfg.block, "block", fmsynth.DefaultParams.BufferSize, "block size in samples")
	flag.Float64Var(&cfg.dur, "dur", 2, "duration in seconds; with -play, 0 plays until interrupted")
	flag.StringVar(&cfg.table, "table", "sine", "waveform: "+strings.Join(fmsynth.TableNames(), ", "))
	flag.IntVar(&cfg.tableSize, "size", fmsynth.DefaultTableSize, "wavetable size")
	flag.Float64Var(&cfg.freq, "freq", fmsynth.BaseFrequency.Info().Default, "base frequency in Hz")
	flag.Float64Var(&cfg.carrier, "cm", fmsynth.CarrierMultiplier.Info().Default, "carrier multiplier")
	flag.Float64Var(&cfg.modulating, "mm", fmsynth.ModulatingMultiplier.Info().Default, "modulating multiplier")
	flag.Float64Var(&cfg.index, "index", fmsynth.ModulationIndex.Info().Default, "modulation index")
	flag.Float64Var(&cfg.amp, "amp", .5, "amplitude")
	flag.Float64Var(&cfg.ramp, "ramp", -1, "parameter ramp in seconds; negative means one block")
	chord := flag.String("chord", "1", "comma-separated frequency ratios, one voice each")
	flag.StringVar(&cfg.script, "script", "", "Lua automation script")
	flag.Float64Var(&cfg.lfoRate, "lfo-rate", 0, "rate in Hz of a random walk on the modulation index; 0 disables it")
	flag.Float64Var(&cfg.lfoMin, "lfo-min", 0, "lowest modulation index of the random walk")
	flag.Float64Var(&cfg.lfoMax, "lfo-max", 5, "highest modulation index of the random walk")
	flag.Int64Var(&cfg.seed, "seed", 1, "random seed")
	flag.BoolVar(&cfg.dc, "dc", false, "filter out DC offset")
	flag.BoolVar(&cfg.play, "play", false, "play instead of writing a file")
	flag.Parse()

	var err error
	if cfg.chord, err = parseRatios(*chord); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseRatios(s string) ([]float64, error) {
	var ratios []float64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		r, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad chord ratio %q: %w", f, err)
		}
		ratios = append(ratios, r)
	}
	if len(ratios) == 0 {
		return nil, fmt.Errorf("empty chord")
	}
	return ratios, nil
}

// session holds everything a render needs, whichever way it is delivered.
type session struct {
	params fmsynth.Params
	pool   *fmsynth.Pool
	script *automation.Script
	chord  *chord
	lfo    *fmsynth.PulseRand
	dc     *fmsynth.DCFilter
}

// A chord is the pool as scripts see it: the base frequency is the root,
// and each voice plays at its own ratio above it.
type chord struct {
	*fmsynth.Pool
	proto  *fmsynth.FMVoice
	voices []*fmsynth.FMVoice
	ratios []float64
}

func (c *chord) SetParameter(id fmsynth.ParamID, x float64) {
	if id != fmsynth.BaseFrequency {
		c.Pool.SetParameter(id, x)
		return
	}
	c.proto.SetParameter(id, x)
	for i, v := range c.voices {
		v.SetParameter(id, x*c.ratios[i])
	}
}

func newSession(cfg *config) (*session, error) {
	p := fmsynth.Params{SampleRate: cfg.sampleRate, BufferSize: cfg.block}
	if err := p.Check(); err != nil {
		return nil, err
	}
	if cfg.block < 1 {
		return nil, fmt.Errorf("block size must be at least 1")
	}
	gen, ok := fmsynth.TableByName(cfg.table)
	if !ok {
		return nil, fmt.Errorf("unknown table %q; choose one of %s", cfg.table, strings.Join(fmsynth.TableNames(), ", "))
	}
	table, err := gen(cfg.tableSize)
	if err != nil {
		return nil, err
	}
	proto, err := fmsynth.NewFMVoice(table, p,
		fmsynth.WithBaseFrequency(cfg.freq),
		fmsynth.WithCarrierMultiplier(cfg.carrier),
		fmsynth.WithModulatingMultiplier(cfg.modulating),
		fmsynth.WithModulationIndex(cfg.index),
		fmsynth.WithAmplitude(cfg.amp),
	)
	if err != nil {
		return nil, err
	}
	if cfg.ramp >= 0 {
		for _, id := range proto.ParamIDs() {
			param, _ := proto.Param(id)
			param.SetRampTime(cfg.ramp)
		}
	}

	pool, err := fmsynth.NewPool(proto, len(cfg.chord))
	if err != nil {
		return nil, err
	}
	pool.SetSaturate(len(cfg.chord) > 1)
	c := &chord{Pool: pool, proto: proto, ratios: cfg.chord}
	for _, r := range cfg.chord {
		proto.SetParameter(fmsynth.BaseFrequency, cfg.freq*r)
		v, ok := pool.Acquire()
		if !ok {
			return nil, fmt.Errorf("no voice for ratio %g", r)
		}
		c.voices = append(c.voices, v)
	}
	proto.SetParameter(fmsynth.BaseFrequency, cfg.freq)

	s := &session{params: p, pool: pool, chord: c}
	if cfg.dc {
		s.dc = &fmsynth.DCFilter{}
		fmsynth.Init(s.dc, p)
	}
	if cfg.lfoRate > 0 {
		// one LFO sample per block
		controlRate := fmsynth.Params{SampleRate: p.SampleRate / float64(p.BufferSize)}
		s.lfo, err = fmsynth.NewPulseRand(cfg.lfoMin, cfg.lfoMax, cfg.lfoRate, controlRate, fmsynth.WithSeed(cfg.seed))
		if err != nil {
			return nil, err
		}
	}
	if cfg.script != "" {
		if s.script, err = automation.LoadScript(cfg.script, pool, p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// control runs the per-block control work: the script's block function and
// one step of the LFO.
func (s *session) control() error {
	if s.script != nil {
		if err := s.script.Block(); err != nil {
			return err
		}
	}
	if s.lfo != nil {
		s.pool.SetParameter(fmsynth.ModulationIndex, s.lfo.Sing())
	}
	return nil
}

// Render mixes the pool and applies the output filter.  It runs on the
// render goroutine.
func (s *session) Render(out fmsynth.Audio) fmsynth.Audio {
	s.pool.Render(out)
	return s.filter(out)
}

func (s *session) filter(out fmsynth.Audio) fmsynth.Audio {
	if s.dc != nil {
		s.dc.Process(out)
	}
	return out
}

func (s *session) Close() {
	if s.script != nil {
		s.script.Close()
	}
}

func run(cfg *config) error {
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if cfg.play {
		return s.live(cfg.dur)
	}
	return s.renderFile(cfg.out, cfg.dur)
}
