package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Animations []*animationBlock `hcl:"animation,block"`
	Syncs      []*syncBlock      `hcl:"sync,block"`
	Remain     hcl.Body          `hcl:",remain"`
}

// animationBlock represents an `animation` block.
type animationBlock struct {
	Name      string          `hcl:"name,label"`
	Archive   string          `hcl:"archive"`
	Thumbnail string          `hcl:"thumbnail,optional"`
	Lazy      bool            `hcl:"lazy,optional"`
	Controls  []*controlBlock `hcl:"control,block"`
}

// controlBlock represents a `control "<kind>" "<name>"` block. Which
// arguments are meaningful depends on the kind.
type controlBlock struct {
	Kind    string       `hcl:"kind,label"`
	Name    string       `hcl:"name,label"`
	Min     *cty.Value   `hcl:"min,optional"`
	Max     *cty.Value   `hcl:"max,optional"`
	Step    *cty.Value   `hcl:"step,optional"`
	Default *cty.Value   `hcl:"default,optional"`
	Size    int          `hcl:"size,optional"`
	X       *axisBlock   `hcl:"x,block"`
	Y       *axisBlock   `hcl:"y,block"`
	Margin  *marginBlock `hcl:"margin,block"`
}

// axisBlock represents the `x` or `y` block of a locator.
type axisBlock struct {
	Name    string     `hcl:"name"`
	Min     cty.Value  `hcl:"min"`
	Max     cty.Value  `hcl:"max"`
	Step    cty.Value  `hcl:"step"`
	Default *cty.Value `hcl:"default,optional"`
}

// marginBlock represents the `margin` block of a locator, in pixels.
type marginBlock struct {
	Top    int `hcl:"top,optional"`
	Right  int `hcl:"right,optional"`
	Bottom int `hcl:"bottom,optional"`
	Left   int `hcl:"left,optional"`
}

// syncBlock represents a `sync` block.
type syncBlock struct {
	Name        string   `hcl:"name,label"`
	Left        string   `hcl:"left"`
	Right       string   `hcl:"right"`
	LeftParams  []string `hcl:"left_params"`
	RightParams []string `hcl:"right_params"`
}
