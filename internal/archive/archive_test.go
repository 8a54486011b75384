package archive

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sweepview/internal/testutil"
)

func plenty() (uint64, error) { return 1 << 40, nil }

func TestKindOf(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		expectedKind Kind
		expectedMIME string
	}{
		{name: "a=1.png", expectedKind: KindImage, expectedMIME: "image/png"},
		{name: "a=1.JPG", expectedKind: KindImage, expectedMIME: "image/jpeg"},
		{name: "dir/a=1.webp", expectedKind: KindImage, expectedMIME: "image/webp"},
		{name: "a=1.json", expectedKind: KindData, expectedMIME: "application/json"},
		{name: "a=1.yml", expectedKind: KindData, expectedMIME: "application/yaml"},
		{name: "notes.md", expectedKind: KindUnknown},
		{name: "noext", expectedKind: KindUnknown},
		{name: "__MACOSX/._a=1.png", expectedKind: KindUnknown},
		{name: "frames/__MACOSX/frames/._a=1.png", expectedKind: KindUnknown},
		{name: "frames/._a=1.png", expectedKind: KindUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			kind, mime := KindOf(tc.name)
			assert.Equal(t, tc.expectedKind, kind)
			assert.Equal(t, tc.expectedMIME, mime)
		})
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "a=01b=2", Key("frames/a=01b=2.png"))
	assert.Equal(t, "a=1", Key("a=1"))
}

func TestStream_Local(t *testing.T) {
	// --- Arrange ---
	files := testutil.Frames(t, testutil.Dim{Name: "a", Count: 3, Width: 2}, testutil.Dim{Name: "b", Count: 2, Width: 1})
	files["readme.md"] = []byte("ignored")
	files["sub/"] = nil
	files["sub/a=00b=9.json"] = []byte(`{"v": 1}`)
	path := testutil.WriteZip(t, t.TempDir(), "sweep.zip", files)

	a, err := Open(context.Background(), path, Options{AvailableMemory: plenty})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	// --- Act ---
	var keys []string
	stats, err := a.Stream(context.Background(), 4, func(e Entry) error {
		keys = append(keys, e.Key())
		if e.Kind == KindImage {
			assert.Equal(t, 2, e.Width)
			assert.Equal(t, 1, e.Height)
		}
		return nil
	})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, Stats{Delivered: 7, Skipped: 1}, stats)
	assert.Equal(t, 9, a.Len())
	assert.Greater(t, a.UncompressedSize(), uint64(0))

	sort.Strings(keys)
	assert.Equal(t, []string{
		"a=00b=0", "a=00b=1", "a=00b=9", "a=01b=0", "a=01b=1", "a=02b=0", "a=02b=1",
	}, keys)
}

func TestStream_SinkErrorStops(t *testing.T) {
	files := testutil.Frames(t, testutil.Dim{Name: "a", Count: 20, Width: 2})
	path := testutil.WriteZip(t, t.TempDir(), "sweep.zip", files)
	a, err := Open(context.Background(), path, Options{AvailableMemory: plenty})
	require.NoError(t, err)
	defer a.Close()

	boom := errors.New("boom")
	calls := 0
	stats, err := a.Stream(context.Background(), 2, func(Entry) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, stats.Delivered)
}

func TestStream_CorruptImage(t *testing.T) {
	path := testutil.WriteZip(t, t.TempDir(), "bad.zip", map[string][]byte{"a=0.png": []byte("not a png")})
	a, err := Open(context.Background(), path, Options{AvailableMemory: plenty})
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Stream(context.Background(), 1, func(Entry) error { return nil })

	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed to decode image "a=0.png"`)
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteZip(t, dir, "sweep.zip", testutil.Frames(t, testutil.Dim{Name: "a", Count: 2, Width: 1}))

	t.Run("missing file", func(t *testing.T) {
		_, err := Open(context.Background(), filepath.Join(dir, "nope.zip"), Options{})
		assert.ErrorContains(t, err, "failed to open archive")
	})

	t.Run("not enough memory", func(t *testing.T) {
		_, err := Open(context.Background(), path, Options{
			AvailableMemory: func() (uint64, error) { return 10, nil },
		})
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("memory lookup failure is not fatal", func(t *testing.T) {
		a, err := Open(context.Background(), path, Options{
			AvailableMemory: func() (uint64, error) { return 0, errors.New("no procfs") },
		})
		require.NoError(t, err)
		a.Close()
	})
}

func TestOpen_Remote(t *testing.T) {
	data := testutil.ZipBytes(t, testutil.Frames(t, testutil.Dim{Name: "s", Count: 3, Width: 1}))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sweep.zip" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	t.Run("ok", func(t *testing.T) {
		a, err := Open(context.Background(), srv.URL+"/sweep.zip", Options{AvailableMemory: plenty})
		require.NoError(t, err)
		defer a.Close()

		stats, err := a.Stream(context.Background(), 2, func(Entry) error { return nil })
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Delivered)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := Open(context.Background(), srv.URL+"/missing.zip", Options{AvailableMemory: plenty})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/a.zip"))
	assert.True(t, IsRemote("HTTP://example.com/a.zip"))
	assert.False(t, IsRemote("/data/a.zip"))
}
