package hcl

import (
	"fmt"

	"github.com/vk/sweepview/internal/config"
)

// translateAnimation converts the HCL-specific animation schema into the
// agnostic model.
func translateAnimation(a *animationBlock) (*config.Animation, error) {
	out := &config.Animation{
		Name:      a.Name,
		Archive:   a.Archive,
		Thumbnail: a.Thumbnail,
		Lazy:      a.Lazy,
	}
	for _, c := range a.Controls {
		ctrl, err := translateControl(c)
		if err != nil {
			return nil, fmt.Errorf("animation %q, control %q: %w", a.Name, c.Name, err)
		}
		out.Controls = append(out.Controls, ctrl)
	}
	return out, nil
}

func translateControl(c *controlBlock) (*config.Control, error) {
	out := &config.Control{
		Kind: config.ControlKind(c.Kind),
		Name: c.Name,
		Size: c.Size,
	}

	var err error
	if out.Default, err = optionalFloat(c.Default); err != nil {
		return nil, fmt.Errorf("default: %w", err)
	}
	if out.Min, err = floatOr(c.Min, 0); err != nil {
		return nil, fmt.Errorf("min: %w", err)
	}
	if out.Max, err = floatOr(c.Max, 0); err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}
	if out.Step, err = floatOr(c.Step, 1); err != nil {
		return nil, fmt.Errorf("step: %w", err)
	}

	if c.X != nil {
		if out.X, err = translateAxis(c.X); err != nil {
			return nil, fmt.Errorf("x: %w", err)
		}
	}
	if c.Y != nil {
		if out.Y, err = translateAxis(c.Y); err != nil {
			return nil, fmt.Errorf("y: %w", err)
		}
	}
	if c.Margin != nil {
		out.Margin = config.Margin{
			Top:    c.Margin.Top,
			Right:  c.Margin.Right,
			Bottom: c.Margin.Bottom,
			Left:   c.Margin.Left,
		}
	}
	return out, nil
}

func translateAxis(a *axisBlock) (*config.Axis, error) {
	out := &config.Axis{Name: a.Name}
	var err error
	if out.Min, err = toFloat(a.Min); err != nil {
		return nil, fmt.Errorf("min: %w", err)
	}
	if out.Max, err = toFloat(a.Max); err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}
	if out.Step, err = toFloat(a.Step); err != nil {
		return nil, fmt.Errorf("step: %w", err)
	}
	if out.Default, err = optionalFloat(a.Default); err != nil {
		return nil, fmt.Errorf("default: %w", err)
	}
	return out, nil
}

func translateSync(s *syncBlock) *config.Sync {
	return &config.Sync{
		Name:        s.Name,
		Left:        s.Left,
		Right:       s.Right,
		LeftParams:  s.LeftParams,
		RightParams: s.RightParams,
	}
}
