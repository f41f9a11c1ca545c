// Package automation drives node parameters from Lua control scripts.
//
// A script sees these globals:
//
//	sampleRate                the render sample rate in Hz
//	set(name, value)          set a parameter now
//	get(name)                 the current target of a parameter
//	at(seconds, name, value)  set a parameter at an exact time
//	block(t)                  if the script defines it, called once per
//	                          block with the time in seconds
//
// Parameter names are those of fmsynth.ParamID, e.g. "modulationIndex".
package automation

import (
	"fmt"

	"github.com/gordonklaus/fmsynth"
	lua "github.com/yuin/gopher-lua"
)

// A Script belongs to the control goroutine.  The changes it makes reach the
// node through fmsynth.Param, so the render goroutine never waits for Lua.
type Script struct {
	L        *lua.LState
	node     fmsynth.Parameterized
	schedule Schedule
	samples  int
}

// NewScript runs src against node.
func NewScript(src string, node fmsynth.Parameterized, p fmsynth.Params) (*Script, error) {
	s := newScript(node, p)
	if err := s.L.DoString(src); err != nil {
		s.Close()
		return nil, fmt.Errorf("automation: %w", err)
	}
	return s, nil
}

// LoadScript runs the Lua file at path against node.
func LoadScript(path string, node fmsynth.Parameterized, p fmsynth.Params) (*Script, error) {
	s := newScript(node, p)
	if err := s.L.DoFile(path); err != nil {
		s.Close()
		return nil, fmt.Errorf("automation: %s: %w", path, err)
	}
	return s, nil
}

func newScript(node fmsynth.Parameterized, p fmsynth.Params) *Script {
	s := &Script{L: lua.NewState(), node: node}
	fmsynth.Init(&s.schedule, p)
	s.L.SetGlobal("sampleRate", lua.LNumber(p.SampleRate))
	s.L.SetGlobal("set", s.L.NewFunction(s.set))
	s.L.SetGlobal("get", s.L.NewFunction(s.get))
	s.L.SetGlobal("at", s.L.NewFunction(s.at))
	return s
}

func (s *Script) Close() { s.L.Close() }

func (s *Script) set(L *lua.LState) int {
	name := L.CheckString(1)
	x := float64(L.CheckNumber(2))
	if err := fmsynth.SetParameter(s.node, name, x); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

func (s *Script) get(L *lua.LState) int {
	x, err := fmsynth.Parameter(s.node, L.CheckString(1))
	if err != nil {
		L.RaiseError("%s", err)
	}
	L.Push(lua.LNumber(x))
	return 1
}

func (s *Script) at(L *lua.LState) int {
	t := float64(L.CheckNumber(1))
	name := L.CheckString(2)
	x := float64(L.CheckNumber(3))
	id, err := fmsynth.ParseParamID(name)
	if err != nil {
		L.RaiseError("%s", err)
	}
	if _, ok := s.node.Param(id); !ok {
		L.RaiseError("%T has no parameter %s", s.node, id)
	}
	s.schedule.Delay(t-s.Time(), func() { s.node.SetParameter(id, x) })
	return 0
}

// Time returns the seconds of audio rendered or skipped so far.
func (s *Script) Time() float64 {
	return float64(s.samples) / s.schedule.Params.SampleRate
}

// Pending returns the number of scheduled changes not yet applied.
func (s *Script) Pending() int { return s.schedule.Len() }

// Block calls the script's block function, if it has one, with the current
// time.
func (s *Script) Block() error {
	fn := s.L.GetGlobal("block")
	if fn.Type() != lua.LTFunction {
		return nil
	}
	if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LNumber(s.Time())); err != nil {
		return fmt.Errorf("automation: block(%g): %w", s.Time(), err)
	}
	return nil
}

// Render fills out from r, applying scheduled changes at their exact
// samples.  Use it when rendering offline on the control goroutine.
func (s *Script) Render(r fmsynth.Renderer, out fmsynth.Audio) fmsynth.Audio {
	s.schedule.Render(r, out)
	s.samples += len(out)
	return out
}

// Advance lets n samples pass without rendering, applying the changes that
// fall due.  Use it when a separate goroutine renders in real time; changes
// then land on block rather than sample boundaries.
func (s *Script) Advance(n int) {
	s.schedule.Advance(n)
	s.samples += n
}
