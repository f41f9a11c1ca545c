package fmsynth

import "sync/atomic"

// An FMVoice is a two-operator FM oscillator: a modulator at
// baseFrequency*modulatingMultiplier bends the frequency of a carrier at
// baseFrequency*carrierMultiplier.  Both read the same Table.
//
// Start, Stop, Retrigger and SetParameter may be called from any goroutine.
// Render and Sing must only be called from one goroutine at a time.
type FMVoice struct {
	Params Params
	table  *Table

	modulator, carrier TableOsc
	ports              [Amplitude + 1]Param

	running   atomic.Bool
	retrigger atomic.Bool
}

type VoiceOption func(*[Amplitude + 1]float64)

func WithBaseFrequency(hz float64) VoiceOption       { return withParam(BaseFrequency, hz) }
func WithCarrierMultiplier(x float64) VoiceOption    { return withParam(CarrierMultiplier, x) }
func WithModulatingMultiplier(x float64) VoiceOption { return withParam(ModulatingMultiplier, x) }
func WithModulationIndex(x float64) VoiceOption      { return withParam(ModulationIndex, x) }
func WithAmplitude(x float64) VoiceOption            { return withParam(Amplitude, x) }

func withParam(id ParamID, x float64) VoiceOption {
	return func(v *[Amplitude + 1]float64) { v[id] = x }
}

// DefaultTableSize is the size of the sine table used when NewFMVoice is
// given no table.
const DefaultTableSize = 4096

// NewFMVoice returns a stopped voice.  A nil table selects a sine.
func NewFMVoice(table *Table, p Params, opts ...VoiceOption) (*FMVoice, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}
	if table == nil {
		var err error
		if table, err = SineTable(DefaultTableSize); err != nil {
			return nil, err
		}
	}
	var values [Amplitude + 1]float64
	for id := range values {
		values[id] = ParamID(id).Info().Default
	}
	for _, opt := range opts {
		opt(&values)
	}
	return newFMVoice(table, p, values), nil
}

func newFMVoice(table *Table, p Params, values [Amplitude + 1]float64) *FMVoice {
	v := &FMVoice{table: table}
	v.modulator.table = table
	v.carrier.table = table
	for id, x := range values {
		v.ports[id].reset(x)
	}
	Init(v, p)
	return v
}

func (v *FMVoice) InitAudio(p Params) {
	v.Params = p
	v.modulator.InitAudio(p)
	v.carrier.InitAudio(p)
	for i := range v.ports {
		v.ports[i].InitAudio(p)
	}
}

func (v *FMVoice) Table() *Table { return v.table }

func (v *FMVoice) Param(id ParamID) (*Param, bool) {
	if id < 0 || id > Amplitude {
		return nil, false
	}
	return &v.ports[id], true
}

func (v *FMVoice) ParamIDs() []ParamID {
	return []ParamID{BaseFrequency, CarrierMultiplier, ModulatingMultiplier, ModulationIndex, Amplitude}
}

// SetParameter stores x as the new target of id.  Values are not range
// checked.  Ids the voice does not have are ignored.
func (v *FMVoice) SetParameter(id ParamID, x float64) {
	if p, ok := v.Param(id); ok {
		p.Set(x)
	}
}

func (v *FMVoice) Start()          { v.running.Store(true) }
func (v *FMVoice) Stop()           { v.running.Store(false) }
func (v *FMVoice) IsStarted() bool { return v.running.Load() }

// Retrigger resets both oscillators to phase 0 at the start of the next
// block.
func (v *FMVoice) Retrigger() { v.retrigger.Store(true) }

// Render fills out with the next len(out) samples.  Start and Stop take
// effect at block boundaries.  A stopped voice keeps its phases and ramps
// moving and outputs silence.
func (v *FMVoice) Render(out Audio) Audio {
	running := v.beginBlock()
	for i := range out {
		out[i] = v.sing(running)
	}
	return out
}

// Sing renders a block of one sample.
func (v *FMVoice) Sing() float64 {
	return v.sing(v.beginBlock())
}

func (v *FMVoice) beginBlock() bool {
	if v.retrigger.Swap(false) {
		v.modulator.Reset()
		v.carrier.Reset()
	}
	return v.running.Load()
}

func (v *FMVoice) sing(running bool) float64 {
	base := v.ports[BaseFrequency].Tick()
	carrierMul := v.ports[CarrierMultiplier].Tick()
	modMul := v.ports[ModulatingMultiplier].Tick()
	index := v.ports[ModulationIndex].Tick()
	amp := v.ports[Amplitude].Tick()

	modFreq := base * modMul
	mod := v.modulator.Sing(modFreq)
	x := v.carrier.Sing(base*carrierMul + mod*modFreq*index)
	if !running {
		return 0
	}
	return amp * x
}

// Copy returns a stopped voice sharing v's table whose parameters start at
// v's targets, with no ramp in progress, and whose phases start at 0.
func (v *FMVoice) Copy() *FMVoice {
	var values [Amplitude + 1]float64
	for id := range values {
		values[id] = v.ports[id].Target()
	}
	c := newFMVoice(v.table, v.Params, values)
	for i := range c.ports {
		c.ports[i].SetRampSamples(v.ports[i].RampSamples())
	}
	return c
}
