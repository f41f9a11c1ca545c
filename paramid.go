package fmsynth

import "fmt"

// ParamID names an automatable parameter.
type ParamID int

const (
	BaseFrequency ParamID = iota
	CarrierMultiplier
	ModulatingMultiplier
	ModulationIndex
	Amplitude
	LowerBound
	UpperBound
	Frequency
	numParamIDs
)

type ParamInfo struct {
	ID      ParamID
	Name    string
	Default float64
	Unit    string
	Doc     string
}

var paramInfo = [numParamIDs]ParamInfo{
	{BaseFrequency, "baseFrequency", 440, "Hz", "common denominator of the carrier and modulating frequencies"},
	{CarrierMultiplier, "carrierMultiplier", 1, "ratio", "times baseFrequency gives the carrier frequency"},
	{ModulatingMultiplier, "modulatingMultiplier", 1, "ratio", "times baseFrequency gives the modulating frequency"},
	{ModulationIndex, "modulationIndex", 1, "index", "times the modulating frequency gives the modulation amplitude"},
	{Amplitude, "amplitude", 1, "gain", "output amplitude"},
	{LowerBound, "lowerBound", 0, "value", "minimum of the random range"},
	{UpperBound, "upperBound", 1, "value", "maximum of the random range"},
	{Frequency, "frequency", 1, "Hz", "rate at which new random values are drawn"},
}

func (id ParamID) Info() ParamInfo {
	if id < 0 || id >= numParamIDs {
		return ParamInfo{ID: id, Name: fmt.Sprintf("ParamID(%d)", int(id))}
	}
	return paramInfo[id]
}

func (id ParamID) String() string { return id.Info().Name }

func ParseParamID(name string) (ParamID, error) {
	for _, info := range paramInfo {
		if info.Name == name {
			return info.ID, nil
		}
	}
	return -1, fmt.Errorf("fmsynth: unknown parameter %q", name)
}

// Parameterized is implemented by every node with automatable parameters.
type Parameterized interface {
	ParamIDs() []ParamID
	Param(id ParamID) (*Param, bool)
	SetParameter(id ParamID, x float64)
}

// SetParameter sets the named parameter of n.
func SetParameter(n Parameterized, name string, x float64) error {
	id, _, err := lookupParam(n, name)
	if err != nil {
		return err
	}
	n.SetParameter(id, x)
	return nil
}

// Parameter returns the target of the named parameter of n.
func Parameter(n Parameterized, name string) (float64, error) {
	_, p, err := lookupParam(n, name)
	if err != nil {
		return 0, err
	}
	return p.Target(), nil
}

func lookupParam(n Parameterized, name string) (ParamID, *Param, error) {
	id, err := ParseParamID(name)
	if err != nil {
		return id, nil, err
	}
	p, ok := n.Param(id)
	if !ok {
		return id, nil, fmt.Errorf("fmsynth: %T has no parameter %s", n, id)
	}
	return id, p, nil
}
