package thumbnail

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sweepview/internal/archive"
	"github.com/vk/sweepview/internal/testutil"
)

func TestLocation(t *testing.T) {
	testCases := []struct {
		name     string
		archive  string
		explicit string
		expected string
	}{
		{name: "local", archive: "data/sweep.zip", expected: "data/sweep.pdf"},
		{name: "url", archive: "https://example.com/a/sweep.zip", expected: "https://example.com/a/sweep.pdf"},
		{name: "no extension", archive: "sweep", expected: "sweep.pdf"},
		{name: "explicit wins", archive: "sweep.zip", explicit: "cover.png", expected: "cover.png"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Location(tc.archive, tc.explicit))
		})
	}
}

func TestScale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 100))

	scaled := Scale(img, 100)
	assert.Equal(t, image.Rect(0, 0, 100, 25), scaled.Bounds())

	assert.Same(t, img, Scale(img, 0))
	assert.Same(t, img, Scale(img, 800))
}

func TestFetch_Image(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.png")
	require.NoError(t, os.WriteFile(path, testutil.PNG(t, 40, 20, 10), 0o644))

	data, err := Fetch(context.Background(), path, 10, archive.Options{})
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 5, cfg.Height)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte("plain text"), "notes.txt")
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Decode([]byte("definitely not a pdf"), "cover.pdf")
	assert.Error(t, err)

	_, err = Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), 0, archive.Options{})
	assert.ErrorContains(t, err, "failed to read")
}
