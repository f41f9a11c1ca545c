package fmsynth

import "math"

// A TableOsc reads a Table cyclically at a rate given per sample.
type TableOsc struct {
	Params Params
	table  *Table
	phase  float64
}

func NewTableOsc(table *Table, p Params) (*TableOsc, error) {
	if table == nil {
		return nil, configErrorf("oscillator", "table", nil, "must not be nil")
	}
	if err := p.Check(); err != nil {
		return nil, err
	}
	o := &TableOsc{table: table}
	Init(o, p)
	return o, nil
}

func (o *TableOsc) InitAudio(p Params) { o.Params = p }

// Sing advances the phase by freq/SampleRate and returns the interpolated
// table value there.  Negative frequencies run the phase backwards.
func (o *TableOsc) Sing(freq float64) float64 {
	o.phase = wrap(o.phase + freq/o.Params.SampleRate)
	return o.table.Lookup(o.phase)
}

func (o *TableOsc) Phase() float64 { return o.phase }

// Reset retriggers the oscillator at phase 0.
func (o *TableOsc) Reset() { o.phase = 0 }

// wrap returns x modulo 1 in [0, 1), flooring so that negative x wraps
// upwards.  Non-finite x yields 0.
func wrap(x float64) float64 {
	x -= math.Floor(x)
	if !(x >= 0 && x < 1) {
		// x was non-finite, or a tiny negative number rounded up to 1
		return 0
	}
	return x
}
