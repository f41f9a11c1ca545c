package fmsynth

import (
	"math"
	"sort"
)

// A Table is one cycle of a waveform, normalized to [-1, 1].  It is never
// modified after construction, so any number of oscillators may read it
// concurrently.
type Table struct {
	values []float64
}

// NewTable copies values into a new Table.
func NewTable(values []float64) (*Table, error) {
	if len(values) < 2 {
		return nil, configErrorf("table", "len", len(values), "must be at least 2")
	}
	t := &Table{values: make([]float64, len(values))}
	for i, x := range values {
		if math.IsNaN(x) || x < -1 || x > 1 {
			return nil, configErrorf("table", "value", x, "at index %d must lie in [-1, 1]", i)
		}
		t.values[i] = x
	}
	return t, nil
}

// Normalize scales values in place so that the largest magnitude is 1.
// A silent slice is left alone.
func Normalize(values []float64) []float64 {
	peak := 0.0
	for _, x := range values {
		peak = math.Max(peak, math.Abs(x))
	}
	if peak == 0 || math.IsInf(peak, 0) || math.IsNaN(peak) {
		return values
	}
	for i := range values {
		values[i] /= peak
	}
	return values
}

func (t *Table) Len() int         { return len(t.values) }
func (t *Table) At(i int) float64 { return t.values[i] }

// Lookup returns the table value at phase in [0, 1), interpolating linearly
// between neighbouring entries.  The last entry interpolates towards the
// first.
func (t *Table) Lookup(phase float64) float64 {
	n := len(t.values)
	idx := phase * float64(n)
	i := int(idx)
	frac := idx - float64(i)
	if i >= n {
		i, frac = 0, 0
	}
	j := i + 1
	if j == n {
		j = 0
	}
	x0, x1 := t.values[i], t.values[j]
	return x0 + frac*(x1-x0)
}

func SineTable(n int) (*Table, error) {
	return generate(n, func(p float64) float64 { return math.Sin(2 * math.Pi * p) })
}

// PositiveSineTable is a sine shifted and scaled into [0, 1].
func PositiveSineTable(n int) (*Table, error) {
	return generate(n, func(p float64) float64 { return (1 + math.Sin(2*math.Pi*p)) / 2 })
}

func TriangleTable(n int) (*Table, error) {
	return generate(n, func(p float64) float64 {
		if p < .5 {
			return 4*p - 1
		}
		return 3 - 4*p
	})
}

func SquareTable(n int) (*Table, error) {
	return generate(n, func(p float64) float64 {
		if p < .5 {
			return 1
		}
		return -1
	})
}

func SawtoothTable(n int) (*Table, error) {
	return generate(n, func(p float64) float64 { return 2*p - 1 })
}

func ReverseSawtoothTable(n int) (*Table, error) {
	return generate(n, func(p float64) float64 { return 1 - 2*p })
}

// TableByName returns the named table generator, as used on command lines.
func TableByName(name string) (func(n int) (*Table, error), bool) {
	f, ok := tableGenerators[name]
	return f, ok
}

// TableNames lists the names TableByName accepts.
func TableNames() []string {
	names := make([]string, 0, len(tableGenerators))
	for name := range tableGenerators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var tableGenerators = map[string]func(int) (*Table, error){
	"sine":            SineTable,
	"positivesine":    PositiveSineTable,
	"triangle":        TriangleTable,
	"square":          SquareTable,
	"sawtooth":        SawtoothTable,
	"reversesawtooth": ReverseSawtoothTable,
}

func generate(n int, f func(phase float64) float64) (*Table, error) {
	if n < 2 {
		return nil, configErrorf("table", "size", n, "must be at least 2")
	}
	t := &Table{values: make([]float64, n)}
	for i := range t.values {
		t.values[i] = f(float64(i) / float64(n))
	}
	return t, nil
}
