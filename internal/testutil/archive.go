package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// Dim describes one parameter axis of a generated frame set.
type Dim struct {
	Name  string
	Count int
	// Width is the zero-padded length of the index in file names.
	Width int
}

// Frames returns one PNG per combination of dim indices, named like
// "a=00b=1.png". Each image is 2x1 pixels; the red channel of the left pixel
// holds the position of the frame in generation order.
func Frames(t *testing.T, dims ...Dim) map[string][]byte {
	t.Helper()

	files := make(map[string][]byte)
	idx := make([]int, len(dims))
	for n := 0; ; n++ {
		var b strings.Builder
		for i, d := range dims {
			fmt.Fprintf(&b, "%s=%0*d", d.Name, d.Width, idx[i])
		}
		files[b.String()+".png"] = PNG(t, 2, 1, uint8(n))

		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < dims[i].Count {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return files
		}
	}
}

// PNG encodes a w x h image whose top-left pixel has the given red value.
func PNG(t *testing.T, w, h int, red uint8) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: red, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// ZipBytes builds an in-memory zip archive. Entries are written in name
// order; names ending in "/" become directories.
func ZipBytes(t *testing.T, files map[string][]byte) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(files[name])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// WriteZip writes an archive built by ZipBytes to dir/name and returns its
// path.
func WriteZip(t *testing.T, dir, name string, files map[string][]byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, ZipBytes(t, files), 0o644))
	return path
}

// WriteFile writes data to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
