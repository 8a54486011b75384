package config

import (
	"errors"
	"fmt"
)

// Validate checks the structural integrity of the model: unique names, known
// control kinds and sync references to declared animations. Range
// consistency is checked later, when parameters are built.
func (m *Model) Validate() error {
	var errs []error
	seen := make(map[string]struct{})

	for _, a := range m.Animations {
		if a.Name == "" {
			errs = append(errs, errors.New("animation without a name"))
			continue
		}
		if _, dup := seen[a.Name]; dup {
			errs = append(errs, fmt.Errorf("animation %q is declared more than once", a.Name))
		}
		seen[a.Name] = struct{}{}

		if a.Archive == "" {
			errs = append(errs, fmt.Errorf("animation %q: archive is required", a.Name))
		}
		if len(a.Controls) == 0 {
			errs = append(errs, fmt.Errorf("animation %q: at least one control is required", a.Name))
		}
		for _, c := range a.Controls {
			if err := c.validate(); err != nil {
				errs = append(errs, fmt.Errorf("animation %q: %w", a.Name, err))
			}
		}
	}

	for _, s := range m.Syncs {
		if _, ok := seen[s.Left]; !ok {
			errs = append(errs, fmt.Errorf("sync %q: unknown animation %q", s.Name, s.Left))
		}
		if _, ok := seen[s.Right]; !ok {
			errs = append(errs, fmt.Errorf("sync %q: unknown animation %q", s.Name, s.Right))
		}
		if s.Left == s.Right {
			errs = append(errs, fmt.Errorf("sync %q: cannot bind animation %q to itself", s.Name, s.Left))
		}
	}

	return errors.Join(errs...)
}

func (c *Control) validate() error {
	if c.Name == "" {
		return fmt.Errorf("%s control without a name", c.Kind)
	}
	switch c.Kind {
	case KindSlider, KindCheckbox:
		return nil
	case KindSelection:
		if c.Size < 1 {
			return fmt.Errorf("selection %q: size must be at least 1, got %d", c.Name, c.Size)
		}
		return nil
	case KindLocator:
		if c.X == nil || c.Y == nil {
			return fmt.Errorf("locator %q: both x and y axes are required", c.Name)
		}
		if c.Margin.Top < 0 || c.Margin.Right < 0 || c.Margin.Bottom < 0 || c.Margin.Left < 0 {
			return fmt.Errorf("locator %q: margins must not be negative", c.Name)
		}
		return nil
	default:
		return fmt.Errorf("control %q: unknown kind %q", c.Name, c.Kind)
	}
}
