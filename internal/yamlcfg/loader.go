package yamlcfg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/sweepview/internal/config"
	"github.com/vk/sweepview/internal/ctxlog"
	"github.com/vk/sweepview/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// Extensions are the file extensions handled by the Loader.
var Extensions = []string{".yaml", ".yml"}

// Loader is the YAML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load decodes every YAML file found under paths and merges them into one
// model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, Extensions...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	model := &config.Model{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML file %s: %w", file, err)
		}
		m, err := Parse(data, file)
		if err != nil {
			return nil, err
		}
		model.Merge(m)
	}

	logger.Debug("YAML loading complete.", "animations", len(model.Animations), "syncs", len(model.Syncs))
	return model, nil
}

// Parse decodes a single YAML document. Unknown keys are rejected.
func Parse(src []byte, filename string) (*config.Model, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", filename, err)
	}
	return translate(&doc), nil
}

func translate(doc *document) *config.Model {
	model := &config.Model{}
	for _, a := range doc.Animations {
		anim := &config.Animation{
			Name:      a.Name,
			Archive:   a.Archive,
			Thumbnail: a.Thumbnail,
			Lazy:      a.Lazy,
		}
		for _, c := range a.Controls {
			anim.Controls = append(anim.Controls, translateControl(c))
		}
		model.Animations = append(model.Animations, anim)
	}
	for _, s := range doc.Syncs {
		model.Syncs = append(model.Syncs, &config.Sync{
			Name:        s.Name,
			Left:        s.Left,
			Right:       s.Right,
			LeftParams:  s.LeftParams,
			RightParams: s.RightParams,
		})
	}
	return model
}

func translateControl(c control) *config.Control {
	out := &config.Control{
		Kind:    config.ControlKind(c.Kind),
		Name:    c.Name,
		Min:     c.Min,
		Max:     c.Max,
		Step:    1,
		Default: c.Default.float(),
		Size:    c.Size,
		X:       translateAxis(c.X),
		Y:       translateAxis(c.Y),
		Margin:  config.Margin(c.Margin),
	}
	if c.Step != nil {
		out.Step = float64(*c.Step)
	}
	return out
}

func translateAxis(a *axis) *config.Axis {
	if a == nil {
		return nil
	}
	return &config.Axis{
		Name:    a.Name,
		Min:     a.Min,
		Max:     a.Max,
		Step:    a.Step,
		Default: a.Default.float(),
	}
}
