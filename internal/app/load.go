package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/sweepview/internal/config"
	"github.com/vk/sweepview/internal/ctxlog"
)

// loadDefinitions runs every loader over paths and merges the results in
// loader order.
func loadDefinitions(ctx context.Context, paths []string, loaders []config.Loader) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading definitions...", "paths", paths)

	model := &config.Model{}
	for _, l := range loaders {
		m, err := l.Load(ctx, paths...)
		if err != nil {
			return nil, err
		}
		model.Merge(m)
	}
	if len(model.Animations) == 0 {
		return nil, fmt.Errorf("no animations defined in %v", paths)
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definitions: %w", err)
	}
	logger.Info("Definitions loaded.", "animations", len(model.Animations), "syncs", len(model.Syncs))
	return model, nil
}

// baseDir is the directory relative archive locations are resolved against:
// the first definition path if it is a directory, its parent otherwise.
func baseDir(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", errors.New("no definition paths")
	}
	info, err := os.Stat(paths[0])
	if err != nil {
		return "", fmt.Errorf("error accessing path %s: %w", paths[0], err)
	}
	if info.IsDir() {
		return paths[0], nil
	}
	return filepath.Dir(paths[0]), nil
}
