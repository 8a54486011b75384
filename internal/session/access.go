package session

import (
	"fmt"

	"github.com/vk/sweepview/internal/control"
	"github.com/vk/sweepview/internal/seqindex"
)

// Snapshot is the state of one animation as shown by views.
type Snapshot struct {
	Name     string                `json:"name"`
	Lazy     bool                  `json:"lazy"`
	State    string                `json:"state"`
	Loading  bool                  `json:"loading"`
	Loaded   int                   `json:"loaded"`
	Total    int                   `json:"total"`
	Key      string                `json:"key"`
	Controls []control.Description `json:"controls"`
	Error    string                `json:"error,omitempty"`
}

// Set assigns v to a parameter of the named animation.
func (s *Session) Set(name, parameter string, v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.controlFor(name, parameter)
	if err != nil {
		return err
	}
	return c.SetParameter(parameter, v)
}

// Nudge moves a parameter of the named animation by whole steps.
func (s *Session) Nudge(name, parameter string, steps int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.controlFor(name, parameter)
	if err != nil {
		return err
	}
	return c.NudgeParameter(parameter, steps)
}

// Input passes text typed into a slider's number field.
func (s *Session) Input(name, slider, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.control(name, slider)
	if err != nil {
		return err
	}
	sl, ok := c.(*control.Slider)
	if !ok {
		return fmt.Errorf("%w: input on %s %q", ErrWrongControl, c.Kind(), slider)
	}
	return sl.Input(text)
}

// Toggle flips a checkbox.
func (s *Session) Toggle(name, checkbox string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.control(name, checkbox)
	if err != nil {
		return err
	}
	cb, ok := c.(*control.Checkbox)
	if !ok {
		return fmt.Errorf("%w: toggle on %s %q", ErrWrongControl, c.Kind(), checkbox)
	}
	return cb.Toggle()
}

// Point forwards a pointer position on a width x height surface to a
// locator. It reports whether the point was inside the plot area.
func (s *Session) Point(name, locator string, px, py, width, height int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.control(name, locator)
	if err != nil {
		return false, err
	}
	l, ok := c.(*control.Locator)
	if !ok {
		return false, fmt.Errorf("%w: point on %s %q", ErrWrongControl, c.Kind(), locator)
	}
	return l.Point(px, py, width, height)
}

// Frame returns the frame for the current parameter values. It fails with
// seqindex.ErrNotFound while the frame has not been loaded.
func (s *Session) Frame(name string) (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.get(name)
	if err != nil {
		return nil, err
	}
	return a.frame()
}

// Snapshot describes the named animation.
func (s *Session) Snapshot(name string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.get(name)
	if err != nil {
		return Snapshot{}, err
	}
	return a.snapshot(), nil
}

// Snapshots describes every animation in declaration order.
func (s *Session) Snapshots() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Snapshot, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.anims[name].snapshot())
	}
	return out
}

func (a *animation) snapshot() Snapshot {
	snap := Snapshot{
		Name:    a.def.Name,
		Lazy:    a.def.Lazy,
		State:   a.index.State().String(),
		Loading: a.loading,
		Loaded:  a.index.Loaded(),
		Total:   a.index.ExpectedTotal(),
	}
	if a.index.State() == seqindex.StateComplete {
		snap.Key = a.index.CompositeKey()
	}
	for _, c := range a.controls {
		snap.Controls = append(snap.Controls, c.Describe())
	}
	if a.loadErr != nil {
		snap.Error = a.loadErr.Error()
	}
	return snap
}

// control must be called with s.mu held.
func (s *Session) control(name, controlName string) (control.Adapter, error) {
	a, err := s.get(name)
	if err != nil {
		return nil, err
	}
	c, ok := a.byName[controlName]
	if !ok {
		return nil, fmt.Errorf("%w: %q in animation %q", ErrUnknownControl, controlName, name)
	}
	return c, nil
}

// controlFor must be called with s.mu held.
func (s *Session) controlFor(name, parameter string) (control.Adapter, error) {
	a, err := s.get(name)
	if err != nil {
		return nil, err
	}
	c, ok := a.byParam[parameter]
	if !ok {
		return nil, fmt.Errorf("%w: no parameter %q in animation %q", ErrUnknownControl, parameter, name)
	}
	return c, nil
}
