package config

// ControlKind selects the control adapter built for a Control.
type ControlKind string

const (
	KindSlider    ControlKind = "slider"
	KindCheckbox  ControlKind = "checkbox"
	KindSelection ControlKind = "selection"
	KindLocator   ControlKind = "locator"
)

// Model is the unified representation of every loaded definition file.
type Model struct {
	Animations []*Animation
	Syncs      []*Sync
}

// Animation is the format-agnostic representation of an `animation` block.
type Animation struct {
	Name string
	// Archive is a local path or an http(s) URL of the zip file.
	Archive string
	// Thumbnail is shown before a lazy animation is loaded. Empty means the
	// archive location with its extension replaced by ".pdf".
	Thumbnail string
	Lazy      bool
	// Controls are kept in declaration order, which is the key order.
	Controls []*Control
}

// Control is the format-agnostic representation of a `control` block.
type Control struct {
	Kind ControlKind
	Name string

	// Slider range.
	Min     float64
	Max     float64
	Step    float64
	Default *float64

	// Selection size.
	Size int

	// Locator axes and surface margin in pixels.
	X      *Axis
	Y      *Axis
	Margin Margin
}

// Axis is one dimension of a locator.
type Axis struct {
	Name    string
	Min     float64
	Max     float64
	Step    float64
	Default *float64
}

// Margin is the border around a locator's plot area.
type Margin struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Sync binds parameters of two animations so they always show the same
// values.
type Sync struct {
	Name        string
	Left        string
	Right       string
	LeftParams  []string
	RightParams []string
}

// Merge appends the definitions of other to m.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.Animations = append(m.Animations, other.Animations...)
	m.Syncs = append(m.Syncs, other.Syncs...)
}

// Float returns a pointer to v, for optional defaults.
func Float(v float64) *float64 {
	return &v
}
