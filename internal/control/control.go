package control

import (
	"errors"
	"fmt"
	"math"

	"github.com/vk/sweepview/internal/config"
	"github.com/vk/sweepview/internal/param"
	"github.com/vk/sweepview/internal/seqindex"
)

var (
	// ErrDisabled is returned by setters while the animation is loading.
	ErrDisabled = errors.New("control is disabled until loading finishes")
	// ErrUnknownParameter is returned when a control does not drive the
	// named parameter.
	ErrUnknownParameter = errors.New("control does not drive parameter")
	// ErrAlreadyInitialized is returned when a control is attached twice.
	ErrAlreadyInitialized = errors.New("control already attached to an animation")
	// ErrInput is returned when text input is not a number.
	ErrInput = errors.New("invalid numeric input")
)

// Adapter is a control attached to an animation.
type Adapter interface {
	seqindex.Control

	Kind() config.ControlKind
	Name() string
	Enabled() bool
	// SetParameter assigns v to one of the driven parameters.
	SetParameter(name string, v float64) error
	// NudgeParameter moves one of the driven parameters by whole steps.
	NudgeParameter(name string, steps int) error
	Describe() Description
}

// Description is a read-only view of a control for renderers.
type Description struct {
	Kind       config.ControlKind `json:"kind"`
	Name       string             `json:"name"`
	Enabled    bool               `json:"enabled"`
	Parameters []ParameterState   `json:"parameters"`
}

// ParameterState is the state of one driven parameter.
type ParameterState struct {
	Name    string  `json:"name"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
	// Current is nil while the input is cleared.
	Current *float64 `json:"current"`
	Count   int      `json:"count"`
}

type base struct {
	kind    config.ControlKind
	name    string
	enabled bool
	params  []*param.Parameter
	ix      *seqindex.Index
}

// Init subscribes to the loading-finished event of ix.
func (b *base) Init(ix *seqindex.Index) error {
	if b.ix != nil {
		return fmt.Errorf("%w: %s %q", ErrAlreadyInitialized, b.kind, b.name)
	}
	b.ix = ix
	ix.OnLoadingFinished(func(seqindex.Progress) {
		b.enabled = true
	})
	return nil
}

// Parameters returns the driven parameters in key order.
func (b *base) Parameters() []*param.Parameter {
	return b.params
}

func (b *base) Kind() config.ControlKind { return b.kind }

func (b *base) Name() string { return b.name }

func (b *base) Enabled() bool { return b.enabled }

func (b *base) parameter(name string) (*param.Parameter, error) {
	for _, p := range b.params {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %q has no parameter %q", ErrUnknownParameter, b.kind, b.name, name)
}

func (b *base) checkEnabled() error {
	if !b.enabled {
		return fmt.Errorf("%w: %s %q", ErrDisabled, b.kind, b.name)
	}
	return nil
}

func (b *base) SetParameter(name string, v float64) error {
	if err := b.checkEnabled(); err != nil {
		return err
	}
	p, err := b.parameter(name)
	if err != nil {
		return err
	}
	return p.SetCurrent(v)
}

func (b *base) NudgeParameter(name string, steps int) error {
	if err := b.checkEnabled(); err != nil {
		return err
	}
	p, err := b.parameter(name)
	if err != nil {
		return err
	}
	return nudge(p, steps)
}

func (b *base) Describe() Description {
	d := Description{Kind: b.kind, Name: b.name, Enabled: b.enabled}
	for _, p := range b.params {
		d.Parameters = append(d.Parameters, describeParameter(p))
	}
	return d
}

func describeParameter(p *param.Parameter) ParameterState {
	s := ParameterState{
		Name:    p.Name(),
		Min:     p.Min(),
		Max:     p.Max(),
		Step:    p.Step(),
		Default: p.Default(),
		Count:   p.ValueCount(),
	}
	if cur := p.Current(); !math.IsNaN(cur) {
		s.Current = &cur
	}
	return s
}

// nudge moves p by whole steps from its current index, stopping at the ends
// of the range.
func nudge(p *param.Parameter, steps int) error {
	idx := p.Index() + steps
	idx = max(0, min(idx, p.ValueCount()-1))
	return p.SetCurrent(p.ValueAt(idx))
}
