package tui

import (
	"context"
	"image"
	"image/color"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sweepview/internal/config"
	"github.com/vk/sweepview/internal/session"
	"github.com/vk/sweepview/internal/testutil"
)

func newModel(t *testing.T) (Model, *session.Session) {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteZip(t, dir, "sweep.zip", testutil.Frames(t,
		testutil.Dim{Name: "s", Count: 3, Width: 2},
		testutil.Dim{Name: "c", Count: 2, Width: 1},
	))
	testutil.WriteZip(t, dir, "notes.zip", map[string][]byte{
		"n=0.txt": []byte("first note\n"),
		"n=1.txt": []byte("second note\n"),
	})
	model := &config.Model{Animations: []*config.Animation{
		{Name: "sweep", Archive: "sweep.zip", Controls: []*config.Control{
			{Kind: config.KindSlider, Name: "s", Min: 0, Max: 1, Step: 0.5},
			{Kind: config.KindCheckbox, Name: "c"},
		}},
		{Name: "notes", Archive: "notes.zip", Lazy: true, Controls: []*config.Control{
			{Kind: config.KindSelection, Name: "n", Size: 2},
		}},
	}}
	sess, err := session.New(context.Background(), model, session.Options{Workers: 2, BaseDir: dir})
	require.NoError(t, err)
	t.Cleanup(sess.Close)
	require.NoError(t, sess.Load(context.Background(), "sweep"))
	return New(context.Background(), sess), sess
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keySpace = tea.KeyMsg{Type: tea.KeySpace}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyQuit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
)

func TestModel_Scrub(t *testing.T) {
	// --- Arrange ---
	m, sess := newModel(t)
	assert.Contains(t, m.View(), "s=00c=0")

	// --- Act ---
	m, _ = press(t, m, keyRight, keyRight, keyDown, keySpace)

	// --- Assert ---
	f, err := sess.Frame("sweep")
	require.NoError(t, err)
	assert.Equal(t, "s=02c=1", f.Key)
	view := m.View()
	assert.Contains(t, view, "s=02c=1")
	assert.Contains(t, view, "> c")
	assert.Contains(t, view, halfBlock)

	// Nudging past the end clamps.
	m, _ = press(t, m, keyUp, keyRight)
	f, err = sess.Frame("sweep")
	require.NoError(t, err)
	assert.Equal(t, "s=02c=1", f.Key)
	assert.Empty(t, m.status)
}

func TestModel_LoadLazyAnimation(t *testing.T) {
	// --- Arrange ---
	m, _ := newModel(t)
	m, _ = press(t, m, keyTab)
	require.Contains(t, m.View(), "notes  empty 0/2")

	// Controls are disabled until loaded.
	m, _ = press(t, m, keyRight)
	assert.Contains(t, m.status, "disabled")

	// --- Act ---
	m, cmd := press(t, m, keyEnter)
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	m = next.(Model)

	// --- Assert ---
	assert.Equal(t, "loaded notes", m.status)
	assert.Contains(t, m.View(), "first note")

	m, _ = press(t, m, keyRight)
	assert.Contains(t, m.View(), "second note")
}

func TestModel_Events(t *testing.T) {
	m, sess := newModel(t)
	require.NoError(t, sess.Set("sweep", "s", 0.5))

	next, _ := m.Update(eventMsg(session.Event{Kind: session.EventFrame, Animation: "sweep"}))
	m = next.(Model)

	assert.Contains(t, m.View(), "s=01c=0")
}

func TestModel_Quit(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := press(t, m, keyQuit)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_WindowSize(t *testing.T) {
	m, _ := newModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 10, Height: 20})
	m = next.(Model)

	for _, line := range strings.Split(m.View(), "\n") {
		if strings.Contains(line, halfBlock) {
			assert.LessOrEqual(t, strings.Count(line, halfBlock), 10)
		}
	}
}

func TestRenderImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), A: 255})
		}
	}

	testCases := []struct {
		name       string
		cols, rows int
		wantLines  int
		wantCells  int
	}{
		{"fits width", 4, 10, 1, 4},
		{"fits height", 100, 2, 2, 8},
		{"no room", 0, 5, 0, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := renderImage(img, tc.cols, tc.rows)
			if tc.wantLines == 0 {
				assert.Empty(t, out)
				return
			}
			lines := strings.Split(out, "\n")
			assert.Len(t, lines, tc.wantLines)
			assert.Equal(t, tc.wantCells, strings.Count(lines[0], halfBlock))
		})
	}
}

func TestRenderText(t *testing.T) {
	out := renderText([]byte("alpha\nbravo\ncharlie\ndelta\n"), 4, 3)
	assert.Equal(t, "alp…\nbra…\n…", out)
}
