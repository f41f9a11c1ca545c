package fmsynth

import (
	"sync"
	"sync/atomic"
)

// A Pool plays up to a fixed number of copies of a prototype voice at once.
// Acquire, Release and SetParameter are for the control goroutine; Render is
// for the render goroutine and neither locks nor allocates.
type Pool struct {
	Params    Params
	prototype *FMVoice
	max       int

	mu    sync.Mutex
	inUse map[*FMVoice]bool
	free  []*FMVoice

	voices   atomic.Pointer[[]*FMVoice]
	saturate atomic.Bool
	buf      Audio
}

func NewPool(prototype *FMVoice, maxVoices int) (*Pool, error) {
	if prototype == nil {
		return nil, configErrorf("pool", "prototype", nil, "must not be nil")
	}
	if maxVoices < 1 {
		return nil, configErrorf("pool", "maxVoices", maxVoices, "must be at least 1")
	}
	p := &Pool{
		prototype: prototype,
		max:       maxVoices,
		inUse:     map[*FMVoice]bool{},
	}
	p.voices.Store(&[]*FMVoice{})
	Init(p, prototype.Params)
	return p, nil
}

func (p *Pool) InitAudio(params Params) {
	p.Params = params
	n := params.BufferSize
	if n == 0 {
		n = DefaultParams.BufferSize
	}
	p.buf = make(Audio, n)
}

// SetSaturate makes Render soft clip the mix with tanh.
func (p *Pool) SetSaturate(on bool) { p.saturate.Store(on) }

// Acquire starts a voice that is a fresh copy of the prototype, or a
// previously released voice retriggered at phase 0.  It reports false if all
// voices are playing.
func (p *Pool) Acquire() (*FMVoice, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var v *FMVoice
	if n := len(p.free); n > 0 {
		v = p.free[n-1]
		p.free = p.free[:n-1]
		v.Retrigger()
	} else if len(p.inUse) < p.max {
		v = p.prototype.Copy()
	} else {
		return nil, false
	}
	p.inUse[v] = true
	p.publish()
	v.Start()
	return v, true
}

// Release stops v and returns it to the pool.  Releasing a voice that was not
// acquired from p, or releasing it twice, is a programming error.
func (p *Pool) Release(v *FMVoice) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if inUse, ok := p.inUse[v]; !ok || !inUse {
		panic("fmsynth: Pool.Release of a voice that is not playing in this pool")
	}
	v.Stop()
	p.inUse[v] = false
	p.free = append(p.free, v)
	p.publish()
}

// publish replaces the voice list seen by Render.  p.mu must be held.
func (p *Pool) publish() {
	voices := make([]*FMVoice, 0, len(p.inUse))
	for v, inUse := range p.inUse {
		if inUse {
			voices = append(voices, v)
		}
	}
	p.voices.Store(&voices)
}

// SetParameter sets id on the prototype and on every voice the pool owns.
// All voices get the same value, so setting BaseFrequency puts them in
// unison; callers that keep intervals between voices set each voice.
func (p *Pool) SetParameter(id ParamID, x float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.prototype.SetParameter(id, x)
	for v := range p.inUse {
		v.SetParameter(id, x)
	}
}

func (p *Pool) Param(id ParamID) (*Param, bool) { return p.prototype.Param(id) }
func (p *Pool) ParamIDs() []ParamID             { return p.prototype.ParamIDs() }

// Active returns the number of playing voices.
func (p *Pool) Active() int { return len(*p.voices.Load()) }

// Render mixes every playing voice into out.
func (p *Pool) Render(out Audio) Audio {
	voices := *p.voices.Load()
	out.Zero()
	for off := 0; off < len(out); off += len(p.buf) {
		end := off + len(p.buf)
		if end > len(out) {
			end = len(out)
		}
		chunk := out[off:end]
		buf := p.buf[:len(chunk)]
		for _, v := range voices {
			chunk.Add(chunk, v.Render(buf))
		}
	}
	if p.saturate.Load() {
		out.Tanh(out)
	}
	return out
}
