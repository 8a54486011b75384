package control

import (
	"fmt"

	"github.com/vk/sweepview/internal/config"
	"github.com/vk/sweepview/internal/param"
)

// FromConfig builds the adapter described by c.
func FromConfig(c *config.Control) (Adapter, error) {
	var (
		a   Adapter
		err error
	)
	switch c.Kind {
	case config.KindSlider:
		var opts []param.Option
		if c.Default != nil {
			opts = append(opts, param.WithDefault(*c.Default))
		}
		a, err = adapt(NewSlider(c.Name, c.Min, c.Max, c.Step, opts...))
	case config.KindCheckbox:
		a, err = adapt(NewCheckbox(c.Name, c.Default != nil && *c.Default != 0))
	case config.KindSelection:
		selected := 0
		if c.Default != nil {
			selected = int(*c.Default)
		}
		a, err = adapt(NewSelection(c.Name, c.Size, selected))
	case config.KindLocator:
		if c.X == nil || c.Y == nil {
			return nil, fmt.Errorf("locator %q: both x and y axes are required", c.Name)
		}
		a, err = adapt(NewLocator(c.Name, c.X, c.Y, c.Margin))
	default:
		return nil, fmt.Errorf("control %q: unknown kind %q", c.Name, c.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("control %q: %w", c.Name, err)
	}
	return a, nil
}

// adapt avoids returning a typed nil pointer inside a non-nil Adapter.
func adapt[T Adapter](a T, err error) (Adapter, error) {
	if err != nil {
		return nil, err
	}
	return a, nil
}
