package param

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/vk/sweepview/internal/notify"
)

const changed notify.Kind = "change"

// nameRegex mirrors the name part of the frame key grammar.
var nameRegex = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Parameter is one scrubbable numeric dimension. It is not safe for
// concurrent use; callers serialize access.
type Parameter struct {
	name         string
	min          float64
	max          float64
	step         float64
	current      float64
	defaultValue float64
	digitWidth   int
	listeners    *notify.Bus[float64]
}

type options struct {
	defaultValue *float64
}

// Option customizes a Parameter at construction time.
type Option func(*options)

// WithDefault sets the initial value. Without it the parameter starts at min.
func WithDefault(v float64) Option {
	return func(o *options) {
		o.defaultValue = &v
	}
}

// New validates the range and returns a parameter positioned at its default.
func New(name string, min, max, step float64, opts ...Option) (*Parameter, error) {
	if !nameRegex.MatchString(name) {
		return nil, fmt.Errorf("%w: %q must be one or more letters or digits", ErrName, name)
	}
	if err := validateRange(name, min, max, step); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Parameter{
		name:      name,
		min:       min,
		max:       max,
		step:      step,
		current:   min,
		listeners: notify.New[float64](),
	}

	def := min
	if o.defaultValue != nil {
		def = *o.defaultValue
	}
	if err := p.SetDefault(def); err != nil {
		return nil, err
	}
	return p, nil
}

// validateRange recomputes the maximum from min and the step count and
// compares both at max's decimal precision, with at least one decimal so
// that integer maxima still reject a step like 0.3.
func validateRange(name string, min, max, step float64) error {
	base := RangeConfigError{Name: name, Min: min, Max: max, Step: step}
	for _, v := range []float64{min, max, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			base.Reason = "values must be finite"
			return &base
		}
	}
	if step <= 0 {
		base.Reason = "step must be greater than zero"
		return &base
	}
	if min > max {
		base.Reason = "min must not exceed max"
		return &base
	}

	count := valueCount(min, max, step)
	precision := decimals(max)
	if precision < 1 {
		precision = 1
	}
	reached := strconv.FormatFloat(min+float64(count-1)*step, 'f', precision, 64)
	want := strconv.FormatFloat(max, 'f', precision, 64)
	if reached != want {
		base.Count = count
		base.Reached = reached
		return &base
	}
	return nil
}

// Name returns the key segment name.
func (p *Parameter) Name() string { return p.name }

// Min returns the lower bound.
func (p *Parameter) Min() float64 { return p.min }

// Max returns the upper bound.
func (p *Parameter) Max() float64 { return p.max }

// Step returns the distance between two consecutive values.
func (p *Parameter) Step() float64 { return p.step }

// Default returns the value the parameter was reset to last.
func (p *Parameter) Default() float64 { return p.defaultValue }

// Current returns the current value. It is NaN while the input is cleared.
func (p *Parameter) Current() float64 { return p.current }

// DigitWidth returns the zero-padding width of derived indices.
func (p *Parameter) DigitWidth() int { return p.digitWidth }

// SetDigitWidth sets the zero-padding width used by DerivedIndex.
func (p *Parameter) SetDigitWidth(width int) {
	if width < 0 {
		width = 0
	}
	p.digitWidth = width
}

// SetDefault records v as the default and makes it the current value.
func (p *Parameter) SetDefault(v float64) error {
	if err := p.SetCurrent(v); err != nil {
		return err
	}
	p.defaultValue = v
	return nil
}

// SetCurrent assigns v. Values outside [min, max] fail with ErrValue; NaN is
// accepted as the cleared-input marker. Listeners run only when the value
// actually changes.
func (p *Parameter) SetCurrent(v float64) error {
	if v < p.min || v > p.max {
		return fmt.Errorf("%w: %s=%g not in [%g, %g]", ErrValue, p.name, v, p.min, p.max)
	}

	old := p.current
	p.current = v
	if old == v || (math.IsNaN(old) && math.IsNaN(v)) {
		return nil
	}
	p.listeners.Publish(changed, v)
	return nil
}

// Clear marks the input as empty, the state a numeric field is in after the
// user erased it. The next DerivedIndex call resets the value to min.
func (p *Parameter) Clear() {
	_ = p.SetCurrent(math.NaN())
}

// ValueCount returns the number of discrete values in the range.
func (p *Parameter) ValueCount() int {
	return valueCount(p.min, p.max, p.step)
}

// ValueAt returns the value at index i, clamped to the range.
func (p *Parameter) ValueAt(i int) float64 {
	if i <= 0 {
		return p.min
	}
	if i >= p.ValueCount()-1 {
		return p.max
	}
	return p.min + float64(i)*p.step
}

// Index returns the integer position of the current value. A cleared or
// below-range position forces the value back to min; a position past the last
// value forces it to max. Both corrections notify listeners.
func (p *Parameter) Index() int {
	count := p.ValueCount()
	if math.IsNaN(p.current) {
		_ = p.SetCurrent(p.min)
		return 0
	}

	idx := round((p.current - p.min) / p.step)
	if idx < 0 {
		_ = p.SetCurrent(p.min)
		return 0
	}
	if idx >= count {
		_ = p.SetCurrent(p.max)
		return count - 1
	}
	return idx
}

// DerivedIndex returns Index formatted as a decimal string left-padded with
// zeros to DigitWidth.
func (p *Parameter) DerivedIndex() string {
	return fmt.Sprintf("%0*d", p.digitWidth, p.Index())
}

// OnChange registers fn to be called with every new value.
func (p *Parameter) OnChange(fn func(value float64)) notify.Handle {
	return p.listeners.Subscribe(changed, fn)
}

// Unsubscribe removes a listener registered with OnChange.
func (p *Parameter) Unsubscribe(h notify.Handle) bool {
	return p.listeners.Unsubscribe(h)
}

func valueCount(min, max, step float64) int {
	return round((max-min)/step) + 1
}

// round rounds half-way cases towards positive infinity.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// decimals counts the digits after the decimal point in the shortest
// representation of v.
func decimals(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

