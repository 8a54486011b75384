package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sweepview/internal/session"
	"github.com/vk/sweepview/internal/testutil"
	"github.com/vk/sweepview/internal/viewer"
)

const sweepHCL = `
animation "sweep" {
  archive = "sweep.zip"

  control "slider" "s" {
    min  = 0
    max  = 1
    step = 0.5
  }
  control "checkbox" "c" {}
}
`

const notesYAML = `
animations:
  - name: notes
    archive: notes.zip
    lazy: true
    controls:
      - {kind: selection, name: n, size: 2}
`

func writeDefinitions(t *testing.T, notes map[string][]byte) string {
	t.Helper()
	return testutil.WriteTree(t, map[string][]byte{
		"sweep.hcl":  []byte(sweepHCL),
		"notes.yaml": []byte(notesYAML),
		"sweep.zip": testutil.ZipBytes(t, testutil.Frames(t,
			testutil.Dim{Name: "s", Count: 3, Width: 2},
			testutil.Dim{Name: "c", Count: 2, Width: 1},
		)),
		"notes.zip": testutil.ZipBytes(t, notes),
	})
}

func completeNotes() map[string][]byte {
	return map[string][]byte{"n=0.txt": []byte("a"), "n=1.txt": []byte("b")}
}

func checkConfig(t *testing.T, paths ...string) *Config {
	t.Helper()
	cfg, err := NewConfig(Config{DefinitionPaths: paths, WorkerCount: 2})
	require.NoError(t, err)
	return cfg
}

func TestApp_LoadsEveryFormat(t *testing.T) {
	dir := writeDefinitions(t, completeNotes())

	a, _ := SetupAppTest(t, checkConfig(t, dir))

	var names []string
	for _, anim := range a.Model().Animations {
		names = append(names, anim.Name)
	}
	assert.ElementsMatch(t, []string{"sweep", "notes"}, names)
	assert.Equal(t, dir, a.baseDir)
}

func TestApp_Check(t *testing.T) {
	testCases := []struct {
		name      string
		notes     map[string][]byte
		wantErr   bool
		wantLines []string
	}{
		{
			name:      "complete archives",
			notes:     completeNotes(),
			wantLines: []string{"sweep", "complete", "6/6 frames", "s=00c=0", "notes", "2/2 frames", "n=0", "ok"},
		},
		{
			name:      "incomplete archive",
			notes:     map[string][]byte{"n=1.txt": []byte("b")},
			wantErr:   true,
			wantLines: []string{"1/2 frames"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			dir := writeDefinitions(t, tc.notes)
			a, out := SetupAppTest(t, checkConfig(t, filepath.Join(dir, "sweep.hcl"), filepath.Join(dir, "notes.yaml")))

			// --- Act ---
			err := a.Run(context.Background())

			// --- Assert ---
			if tc.wantErr {
				require.ErrorIs(t, err, ErrCheckFailed)
				assert.ErrorIs(t, err, session.ErrIncomplete)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tc.wantLines {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestNewApp_Panics(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(t *testing.T) string
		want  string
	}{
		{
			name: "no definitions",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: "no animations defined",
		},
		{
			name: "syntax error",
			setup: func(t *testing.T) string {
				return testutil.WriteTree(t, map[string][]byte{"defs/bad.hcl": []byte(`animation "a" {`)})
			},
			want: "failed to load configuration",
		},
		{
			name: "invalid definition",
			setup: func(t *testing.T) string {
				return testutil.WriteTree(t, map[string][]byte{"bad.hcl": []byte(`animation "a" { archive = "a.zip" }`)})
			},
			want: "invalid definitions",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := checkConfig(t, tc.setup(t))
			err := testutil.Recover(func() { NewApp(&SafeBuffer{}, cfg) })
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestApp_ServeStopsAfterPreload(t *testing.T) {
	// --- Arrange ---
	dir := writeDefinitions(t, completeNotes())
	cfg, err := NewConfig(Config{
		DefinitionPaths: []string{dir},
		Mode:            ModeServe,
		Listen:          "127.0.0.1:0",
		WorkerCount:     2,
	})
	require.NoError(t, err)
	a, out := SetupAppTest(t, cfg)

	// --- Act ---
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	// --- Assert ---
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve mode did not return after cancellation")
	}
	assert.NotContains(t, out.String(), "Preloading failed.")
}

func TestApp_Remote(t *testing.T) {
	// --- Arrange ---
	dir := writeDefinitions(t, completeNotes())
	host, _ := SetupAppTest(t, checkConfig(t, dir))
	sess, err := session.New(context.Background(), host.Model(), session.Options{Workers: 2, BaseDir: dir})
	require.NoError(t, err)
	defer sess.Close()
	require.NoError(t, sess.Load(context.Background(), "sweep"))
	srv := viewer.New(context.Background(), sess, viewer.Options{})
	ts := httptest.NewServer(srv.Handler())
	defer func() {
		ts.Close()
		srv.Close()
	}()

	output := filepath.Join(t.TempDir(), "frame.png")
	cfg, err := NewConfig(Config{
		Mode:        ModeRemote,
		URL:         ts.URL,
		Animation:   "sweep",
		Sets:        []Assignment{{Parameter: "s", Value: 1}, {Parameter: "c", Value: 1}},
		Output:      output,
		WorkerCount: 1,
		HTTPTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	a, out := SetupAppTest(t, cfg)

	// --- Act ---
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	err = a.Run(ctx)

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, out.String(), "sweep s=02c=1 image/png")
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestReadyHandler(t *testing.T) {
	dir := writeDefinitions(t, completeNotes())
	a, _ := SetupAppTest(t, checkConfig(t, dir))
	sess, err := session.New(context.Background(), a.Model(), session.Options{Workers: 1, BaseDir: dir})
	require.NoError(t, err)
	defer sess.Close()
	h := readyHandler(sess)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "sweep 0/6")

	// Lazy animations do not hold readiness back.
	require.NoError(t, sess.Load(context.Background(), "sweep"))
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "READY\n", rec.Body.String())
}
