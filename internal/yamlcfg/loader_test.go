package yamlcfg

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sweepview/internal/config"
)

const sweepYAML = `
animations:
  - name: sweep
    archive: sweep.zip
    lazy: true
    controls:
      - {kind: slider, name: s, min: 0, max: 1, step: 0.25, default: 0.5}
      - {kind: checkbox, name: c, default: true}
      - {kind: selection, name: m, size: 3}
      - kind: locator
        name: pos
        x: {name: x, min: -1, max: 1, step: 0.5}
        y: {name: y, min: 0, max: 2, step: 1, default: 1}
        margin: {top: 4, left: 8}
syncs:
  - {name: pair, left: sweep, right: other, left_params: [s], right_params: [s]}
`

func TestParse(t *testing.T) {
	model, err := Parse([]byte(sweepYAML), "sweep.yaml")

	require.NoError(t, err)
	expected := &config.Model{
		Animations: []*config.Animation{{
			Name:    "sweep",
			Archive: "sweep.zip",
			Lazy:    true,
			Controls: []*config.Control{
				{Kind: config.KindSlider, Name: "s", Min: 0, Max: 1, Step: 0.25, Default: config.Float(0.5)},
				{Kind: config.KindCheckbox, Name: "c", Step: 1, Default: config.Float(1)},
				{Kind: config.KindSelection, Name: "m", Step: 1, Size: 3},
				{
					Kind: config.KindLocator, Name: "pos", Step: 1,
					X:      &config.Axis{Name: "x", Min: -1, Max: 1, Step: 0.5},
					Y:      &config.Axis{Name: "y", Min: 0, Max: 2, Step: 1, Default: config.Float(1)},
					Margin: config.Margin{Top: 4, Left: 8},
				},
			},
		}},
		Syncs: []*config.Sync{
			{Name: "pair", Left: "sweep", Right: "other", LeftParams: []string{"s"}, RightParams: []string{"s"}},
		},
	}
	if diff := cmp.Diff(expected, model); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		src         string
		expectedErr string
	}{
		{name: "unknown key", src: "animations:\n  - name: a\n    colour: red\n", expectedErr: "field colour not found"},
		{name: "bad default", src: "animations:\n  - controls:\n      - {default: high}\n", expectedErr: `"high" is not a number`},
		{name: "list default", src: "animations:\n  - controls:\n      - {default: [1]}\n", expectedErr: "expected a number or a bool"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src), "bad.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	model, err := Parse(nil, "empty.yaml")
	require.NoError(t, err)
	assert.Empty(t, model.Animations)
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(sweepYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("animations:\n  - {name: other, archive: o.zip}\n"), 0o644))

	model, err := NewLoader().Load(context.Background(), dir)

	require.NoError(t, err)
	require.Len(t, model.Animations, 2)
	assert.Equal(t, "other", model.Animations[1].Name)
}
