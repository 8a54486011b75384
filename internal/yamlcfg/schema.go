package yamlcfg

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

type document struct {
	Animations []animation `yaml:"animations"`
	Syncs      []syncPair  `yaml:"syncs"`
}

type animation struct {
	Name      string    `yaml:"name"`
	Archive   string    `yaml:"archive"`
	Thumbnail string    `yaml:"thumbnail"`
	Lazy      bool      `yaml:"lazy"`
	Controls  []control `yaml:"controls"`
}

type control struct {
	Kind    string  `yaml:"kind"`
	Name    string  `yaml:"name"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Step    *number `yaml:"step"`
	Default *number `yaml:"default"`
	Size    int     `yaml:"size"`
	X       *axis   `yaml:"x"`
	Y       *axis   `yaml:"y"`
	Margin  margin  `yaml:"margin"`
}

type axis struct {
	Name    string  `yaml:"name"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Step    float64 `yaml:"step"`
	Default *number `yaml:"default"`
}

type margin struct {
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
}

type syncPair struct {
	Name        string   `yaml:"name"`
	Left        string   `yaml:"left"`
	Right       string   `yaml:"right"`
	LeftParams  []string `yaml:"left_params"`
	RightParams []string `yaml:"right_params"`
}

// number accepts numeric and boolean scalars. Booleans decode to 1 and 0.
type number float64

func (n *number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number or a bool", value.Line)
	}
	var b bool
	if value.Tag == "!!bool" {
		if err := value.Decode(&b); err != nil {
			return err
		}
		if b {
			*n = 1
		} else {
			*n = 0
		}
		return nil
	}
	f, err := strconv.ParseFloat(value.Value, 64)
	if err != nil {
		return fmt.Errorf("line %d: %q is not a number", value.Line, value.Value)
	}
	*n = number(f)
	return nil
}

func (n *number) float() *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	return &f
}
