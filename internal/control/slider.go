package control

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/sweepview/internal/config"
	"github.com/vk/sweepview/internal/param"
)

// Slider drives a single parameter over an arbitrary range.
type Slider struct {
	base
}

// NewSlider creates a slider for the range [min, max] with the given step.
func NewSlider(name string, min, max, step float64, opts ...param.Option) (*Slider, error) {
	p, err := param.New(name, min, max, step, opts...)
	if err != nil {
		return nil, err
	}
	return &Slider{base{kind: config.KindSlider, name: name, params: []*param.Parameter{p}}}, nil
}

// Parameter returns the driven parameter.
func (s *Slider) Parameter() *param.Parameter {
	return s.params[0]
}

// Set assigns v.
func (s *Slider) Set(v float64) error {
	return s.SetParameter(s.name, v)
}

// Input handles text typed into the slider's number field. Empty text clears
// the value; the next lookup resets it to the minimum.
func (s *Slider) Input(text string) error {
	if err := s.checkEnabled(); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.Parameter().Clear()
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("%w: slider %q: %q", ErrInput, s.name, text)
	}
	return s.Parameter().SetCurrent(v)
}

// Nudge moves the slider by whole steps.
func (s *Slider) Nudge(steps int) error {
	return s.NudgeParameter(s.name, steps)
}
