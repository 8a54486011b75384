package control

import (
	"github.com/vk/sweepview/internal/config"
	"github.com/vk/sweepview/internal/param"
)

// Checkbox drives a two-valued parameter: 0 when unchecked, 1 when checked.
type Checkbox struct {
	base
}

// NewCheckbox creates an unchecked or checked checkbox.
func NewCheckbox(name string, checked bool) (*Checkbox, error) {
	p, err := param.New(name, 0, 1, 1, param.WithDefault(boolValue(checked)))
	if err != nil {
		return nil, err
	}
	return &Checkbox{base{kind: config.KindCheckbox, name: name, params: []*param.Parameter{p}}}, nil
}

// Checked reports whether the parameter is at 1.
func (c *Checkbox) Checked() bool {
	return c.params[0].Current() == 1
}

// SetChecked checks or unchecks the box.
func (c *Checkbox) SetChecked(checked bool) error {
	return c.SetParameter(c.name, boolValue(checked))
}

// Toggle flips the box.
func (c *Checkbox) Toggle() error {
	return c.SetChecked(!c.Checked())
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
