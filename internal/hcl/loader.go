package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/sweepview/internal/config"
	"github.com/vk/sweepview/internal/ctxlog"
	"github.com/vk/sweepview/internal/fsutil"
)

// Extension is the file extension handled by the Loader.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and merges all blocks into
// one model. Block order is preserved within and across files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := decodeInto(model, hclFile.Body, file); err != nil {
			return nil, err
		}
	}

	logger.Debug("HCL loading complete.", "animations", len(model.Animations), "syncs", len(model.Syncs))
	return model, nil
}

// Parse decodes a single in-memory HCL document.
func Parse(src []byte, filename string) (*config.Model, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	model := &config.Model{}
	if err := decodeInto(model, hclFile.Body, filename); err != nil {
		return nil, err
	}
	return model, nil
}

func decodeInto(model *config.Model, body hcl.Body, filename string) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	for _, a := range root.Animations {
		anim, err := translateAnimation(a)
		if err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}
		model.Animations = append(model.Animations, anim)
	}
	for _, s := range root.Syncs {
		model.Syncs = append(model.Syncs, translateSync(s))
	}
	return nil
}
