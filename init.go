package fmsynth

import (
	"fmt"
	"math"
	"reflect"
)

// An Initer is a unit whose state depends on the sample rate or block size.
type Initer interface {
	InitAudio(Params)
}

type Params struct {
	SampleRate float64
	BufferSize int
}

// DefaultParams are used by the command-line tools when nothing else is given.
var DefaultParams = Params{SampleRate: 44100, BufferSize: 256}

func (p *Params) InitAudio(q Params) { *p = q }

// Check reports a *ConfigError if p cannot drive a render loop.
func (p Params) Check() error {
	if !(p.SampleRate > 0) || math.IsInf(p.SampleRate, 0) {
		return configErrorf("params", "SampleRate", p.SampleRate, "must be positive and finite")
	}
	if p.BufferSize < 0 {
		return configErrorf("params", "BufferSize", p.BufferSize, "must not be negative")
	}
	return nil
}

// Init walks x and calls InitAudio on every Initer it reaches.  Structs and
// slices that are not themselves Initers are descended into field by field.
func Init(x interface{}, p Params) {
	if err := initVal(reflect.ValueOf(x), p); err != nil {
		panic("fmsynth.Init: " + err.Error())
	}
}

var initerType = reflect.TypeOf(new(Initer)).Elem()

func initVal(v reflect.Value, p Params) (err error) {
	if v.Kind() == reflect.Ptr && v.IsNil() || !v.CanInterface() {
		return
	}

	v = reflect.Indirect(v)
	if v.CanAddr() && v.Type().Name() != "" && v.Kind() != reflect.Interface {
		v = v.Addr()
	}
	if x, ok := v.Interface().(Initer); ok {
		x.InitAudio(p)
		return
	}

	defer func() {
		if err != nil {
			// append v to the Init stack trace
			err = fmt.Errorf("%s\n\t%#v", err, v)
		}
	}()
	if t := v.Type(); reflect.PtrTo(t).Implements(initerType) {
		return fmt.Errorf("%s does not implement fmsynth.Initer but *%s does.\nInit stack:", t, t)
	}

	v = reflect.Indirect(v)
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if err = initVal(v.Field(i), p); err != nil {
				return
			}
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			if err = initVal(v.Index(i), p); err != nil {
				return
			}
		}
	}

	return
}
