package control

import (
	"fmt"

	"github.com/vk/sweepview/internal/config"
	"github.com/vk/sweepview/internal/param"
)

// Locator drives two parameters from a point on the rendered frame. The plot
// area is the surface minus the margin; its left edge maps to the x minimum
// and its bottom edge to the y minimum.
type Locator struct {
	base
	margin config.Margin
}

// NewLocator creates a locator from two axes.
func NewLocator(name string, x, y *config.Axis, margin config.Margin) (*Locator, error) {
	xp, err := axisParameter(x)
	if err != nil {
		return nil, err
	}
	yp, err := axisParameter(y)
	if err != nil {
		return nil, err
	}
	return &Locator{
		base:   base{kind: config.KindLocator, name: name, params: []*param.Parameter{xp, yp}},
		margin: margin,
	}, nil
}

func axisParameter(a *config.Axis) (*param.Parameter, error) {
	var opts []param.Option
	if a.Default != nil {
		opts = append(opts, param.WithDefault(*a.Default))
	}
	return param.New(a.Name, a.Min, a.Max, a.Step, opts...)
}

// X returns the horizontal parameter.
func (l *Locator) X() *param.Parameter { return l.params[0] }

// Y returns the vertical parameter.
func (l *Locator) Y() *param.Parameter { return l.params[1] }

// Point maps the surface pixel (px, py) of a width x height surface to
// parameter values. It returns false without changing anything when the
// point lies outside the plot area.
func (l *Locator) Point(px, py, width, height int) (bool, error) {
	if err := l.checkEnabled(); err != nil {
		return false, err
	}

	plotW := width - l.margin.Left - l.margin.Right
	plotH := height - l.margin.Top - l.margin.Bottom
	if plotW <= 0 || plotH <= 0 {
		return false, fmt.Errorf("locator %q: surface %dx%d is smaller than its margins", l.name, width, height)
	}
	if px < l.margin.Left || px > width-l.margin.Right || py < l.margin.Top || py > height-l.margin.Bottom {
		return false, nil
	}

	x, y := l.X(), l.Y()
	xv := float64(px-l.margin.Left)/float64(plotW)*(x.Max()-x.Min()) + x.Min()
	yv := float64(plotH-(py-l.margin.Top))/float64(plotH)*(y.Max()-y.Min()) + y.Min()

	if err := x.SetCurrent(clamp(xv, x.Min(), x.Max())); err != nil {
		return false, err
	}
	if err := y.SetCurrent(clamp(yv, y.Min(), y.Max())); err != nil {
		return false, err
	}
	return true, nil
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
