package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"path"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/vk/sweepview/internal/archive"
	"github.com/vk/sweepview/internal/ctxlog"
	"golang.org/x/image/draw"
)

// DefaultExtension replaces the archive extension when no explicit
// thumbnail location is configured.
const DefaultExtension = ".pdf"

// pdfDPI is the resolution the first PDF page is rasterized at.
const pdfDPI = 96

// ErrUnsupported is returned for previews that are neither PDFs nor images.
var ErrUnsupported = errors.New("unsupported thumbnail format")

// Location returns explicit when set, otherwise the archive location with
// its extension replaced by DefaultExtension.
func Location(archiveLocation, explicit string) string {
	if explicit != "" {
		return explicit
	}
	ext := path.Ext(archiveLocation)
	return strings.TrimSuffix(archiveLocation, ext) + DefaultExtension
}

// Fetch reads the preview at location and returns it as a PNG no wider than
// maxWidth. A maxWidth of zero keeps the original size.
func Fetch(ctx context.Context, location string, maxWidth int, opts archive.Options) ([]byte, error) {
	logger := ctxlog.FromContext(ctx)

	data, err := archive.Read(ctx, location, opts)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data, location)
	if err != nil {
		return nil, err
	}
	img = Scale(img, maxWidth)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	logger.Debug("Rendered thumbnail.", "location", location, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return buf.Bytes(), nil
}

// Decode turns preview bytes into an image. PDFs are recognized by their
// name or header and rendered from the first page.
func Decode(data []byte, name string) (image.Image, error) {
	if strings.EqualFold(path.Ext(name), ".pdf") || bytes.HasPrefix(data, []byte("%PDF")) {
		return renderPDF(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnsupported, name, err)
	}
	return img, nil
}

func renderPDF(data []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF thumbnail: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() < 1 {
		return nil, errors.New("PDF thumbnail has no pages")
	}
	img, err := doc.ImageDPI(0, pdfDPI)
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF thumbnail: %w", err)
	}
	return img, nil
}

// Scale shrinks img proportionally so it is at most maxWidth pixels wide.
// Smaller images are returned unchanged.
func Scale(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	h := max(1, b.Dy()*maxWidth/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
