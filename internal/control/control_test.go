package control

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sweepview/internal/config"
	"github.com/vk/sweepview/internal/param"
	"github.com/vk/sweepview/internal/seqindex"
)

// attach registers the adapters on a fresh index. When complete is true every
// expected frame is inserted, which enables the adapters.
func attach(t *testing.T, complete bool, adapters ...Adapter) *seqindex.Index {
	t.Helper()
	ix := seqindex.New("test")
	for _, a := range adapters {
		require.NoError(t, ix.AddControl(a))
	}
	if !complete {
		return ix
	}

	params := ix.Parameters()
	idx := make([]int, len(params))
	for n := 0; n < ix.ExpectedTotal(); n++ {
		var b strings.Builder
		for i, p := range params {
			b.WriteString(p.Name() + "=" + strconv.Itoa(idx[i]))
		}
		require.NoError(t, ix.InsertFrame(n, b.String()))
		for i := len(idx) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < params[i].ValueCount() {
				break
			}
			idx[i] = 0
		}
	}
	require.Equal(t, seqindex.StateComplete, ix.State())
	return ix
}

func TestAdapters_DisabledUntilLoaded(t *testing.T) {
	// --- Arrange ---
	s, err := NewSlider("s", 0, 1, 0.5)
	require.NoError(t, err)
	c, err := NewCheckbox("c", false)
	require.NoError(t, err)
	ix := attach(t, false, s, c)

	// --- Act & Assert ---
	assert.False(t, s.Enabled())
	assert.ErrorIs(t, s.Set(1), ErrDisabled)
	assert.ErrorIs(t, s.Input("1"), ErrDisabled)
	assert.ErrorIs(t, c.Toggle(), ErrDisabled)

	require.NoError(t, ix.InsertFrame("a", "s=0c=0"))
	assert.False(t, s.Enabled(), "a partial load keeps controls disabled")

	for _, key := range []string{"s=0c=1", "s=1c=0", "s=1c=1", "s=2c=0", "s=2c=1"} {
		require.NoError(t, ix.InsertFrame(key, key))
	}
	assert.True(t, s.Enabled())
	assert.True(t, c.Enabled())
	require.NoError(t, s.Set(1))
	assert.Equal(t, "s=2c=0", ix.CompositeKey())
}

func TestAdapters_InitTwice(t *testing.T) {
	s, err := NewSlider("s", 0, 1, 1)
	require.NoError(t, err)
	require.NoError(t, s.Init(seqindex.New("a")))

	err = s.Init(seqindex.New("b"))
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestSlider(t *testing.T) {
	t.Parallel()

	newSlider := func(t *testing.T) *Slider {
		s, err := NewSlider("s", 0, 1, 0.25, param.WithDefault(0.5))
		require.NoError(t, err)
		attach(t, true, s)
		return s
	}

	t.Run("nudge stops at the range ends", func(t *testing.T) {
		t.Parallel()
		s := newSlider(t)

		require.NoError(t, s.Nudge(1))
		assert.Equal(t, 0.75, s.Parameter().Current())

		require.NoError(t, s.Nudge(10))
		assert.Equal(t, 1.0, s.Parameter().Current())

		require.NoError(t, s.Nudge(-10))
		assert.Equal(t, 0.0, s.Parameter().Current())
	})

	t.Run("text input", func(t *testing.T) {
		t.Parallel()
		s := newSlider(t)

		require.NoError(t, s.Input(" 0.25 "))
		assert.Equal(t, 0.25, s.Parameter().Current())

		require.NoError(t, s.Input(""))
		assert.True(t, math.IsNaN(s.Parameter().Current()))
		assert.Nil(t, s.Describe().Parameters[0].Current)

		assert.ErrorIs(t, s.Input("abc"), ErrInput)
		assert.ErrorIs(t, s.Input("2"), param.ErrValue)
	})

	t.Run("unknown parameter", func(t *testing.T) {
		t.Parallel()
		s := newSlider(t)

		assert.ErrorIs(t, s.SetParameter("other", 0), ErrUnknownParameter)
		assert.ErrorIs(t, s.NudgeParameter("other", 1), ErrUnknownParameter)
	})
}

func TestCheckbox(t *testing.T) {
	c, err := NewCheckbox("c", true)
	require.NoError(t, err)
	attach(t, true, c)

	assert.True(t, c.Checked())
	require.NoError(t, c.Toggle())
	assert.False(t, c.Checked())
	require.NoError(t, c.SetChecked(true))
	assert.Equal(t, 1.0, c.Parameters()[0].Current())
}

func TestSelection(t *testing.T) {
	s, err := NewSelection("m", 4, 1)
	require.NoError(t, err)
	attach(t, true, s)

	assert.Equal(t, 1, s.Selected())
	require.NoError(t, s.Select(3))
	assert.Equal(t, 3, s.Selected())
	assert.ErrorIs(t, s.Select(4), param.ErrValue)
}

func TestLocator_Point(t *testing.T) {
	t.Parallel()

	axis := func(name string) *config.Axis {
		return &config.Axis{Name: name, Min: 0, Max: 9, Step: 1}
	}
	margin := config.Margin{Top: 10, Right: 10, Bottom: 10, Left: 10}

	testCases := []struct {
		name       string
		px, py     int
		expectedOK bool
		expectedX  float64
		expectedY  float64
	}{
		{name: "bottom left corner", px: 10, py: 100, expectedOK: true, expectedX: 0, expectedY: 0},
		{name: "top right corner", px: 100, py: 10, expectedOK: true, expectedX: 9, expectedY: 9},
		{name: "center", px: 55, py: 55, expectedOK: true, expectedX: 4.5, expectedY: 4.5},
		{name: "left margin", px: 5, py: 50, expectedOK: false, expectedX: 0, expectedY: 0},
		{name: "below bottom margin", px: 50, py: 105, expectedOK: false, expectedX: 0, expectedY: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			l, err := NewLocator("pos", axis("x"), axis("y"), margin)
			require.NoError(t, err)
			attach(t, true, l)

			ok, err := l.Point(tc.px, tc.py, 110, 110)

			require.NoError(t, err)
			assert.Equal(t, tc.expectedOK, ok)
			assert.InDelta(t, tc.expectedX, l.X().Current(), 1e-9)
			assert.InDelta(t, tc.expectedY, l.Y().Current(), 1e-9)
		})
	}
}

func TestLocator_Errors(t *testing.T) {
	l, err := NewLocator("pos",
		&config.Axis{Name: "x", Min: 0, Max: 1, Step: 1},
		&config.Axis{Name: "y", Min: 0, Max: 1, Step: 1},
		config.Margin{Left: 20, Right: 20},
	)
	require.NoError(t, err)

	_, err = l.Point(0, 0, 100, 100)
	assert.ErrorIs(t, err, ErrDisabled)

	attach(t, true, l)
	_, err = l.Point(0, 0, 30, 100)
	assert.ErrorContains(t, err, "smaller than its margins")
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		control       *config.Control
		expectedKind  config.ControlKind
		expectedNames []string
		expectedErr   string
	}{
		{
			name:          "slider with default",
			control:       &config.Control{Kind: config.KindSlider, Name: "s", Min: 0, Max: 1, Step: 0.5, Default: config.Float(0.5)},
			expectedKind:  config.KindSlider,
			expectedNames: []string{"s"},
		},
		{
			name:          "checkbox",
			control:       &config.Control{Kind: config.KindCheckbox, Name: "c", Default: config.Float(1)},
			expectedKind:  config.KindCheckbox,
			expectedNames: []string{"c"},
		},
		{
			name:          "selection",
			control:       &config.Control{Kind: config.KindSelection, Name: "m", Size: 3},
			expectedKind:  config.KindSelection,
			expectedNames: []string{"m"},
		},
		{
			name: "locator",
			control: &config.Control{
				Kind: config.KindLocator, Name: "pos",
				X: &config.Axis{Name: "px", Min: 0, Max: 1, Step: 0.5},
				Y: &config.Axis{Name: "py", Min: 0, Max: 1, Step: 0.5, Default: config.Float(1)},
			},
			expectedKind:  config.KindLocator,
			expectedNames: []string{"px", "py"},
		},
		{
			name:        "inconsistent slider range",
			control:     &config.Control{Kind: config.KindSlider, Name: "s", Min: 0, Max: 1, Step: 0.3},
			expectedErr: "does not fit",
		},
		{
			name:        "locator without axes",
			control:     &config.Control{Kind: config.KindLocator, Name: "pos"},
			expectedErr: "both x and y axes are required",
		},
		{
			name:        "unknown kind",
			control:     &config.Control{Kind: "dial", Name: "d"},
			expectedErr: `unknown kind "dial"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			a, err := FromConfig(tc.control)

			if tc.expectedErr != "" {
				require.Error(t, err)
				assert.Nil(t, a)
				assert.Contains(t, err.Error(), tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedKind, a.Kind())
			assert.Equal(t, tc.control.Name, a.Name())

			var names []string
			for _, p := range a.Parameters() {
				names = append(names, p.Name())
			}
			assert.Equal(t, tc.expectedNames, names)
		})
	}
}

func TestDescribe(t *testing.T) {
	c, err := NewCheckbox("c", true)
	require.NoError(t, err)

	d := c.Describe()

	require.Len(t, d.Parameters, 1)
	assert.Equal(t, config.KindCheckbox, d.Kind)
	assert.False(t, d.Enabled)
	assert.Equal(t, 2, d.Parameters[0].Count)
	require.NotNil(t, d.Parameters[0].Current)
	assert.Equal(t, 1.0, *d.Parameters[0].Current)
}
