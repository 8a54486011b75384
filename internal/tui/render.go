package tui

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

const halfBlock = "▀"

// renderImage draws img into at most cols x rows cells. Each cell shows two
// vertically stacked pixels: the upper one as foreground, the lower one as
// background. The aspect ratio is kept.
func renderImage(img image.Image, cols, rows int) string {
	b := img.Bounds()
	if b.Empty() || cols <= 0 || rows <= 0 {
		return ""
	}
	w, h := fit(b.Dx(), b.Dy(), cols, rows*2)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	var out strings.Builder
	for y := 0; y < h; y += 2 {
		if y > 0 {
			out.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			style := lipgloss.NewStyle().Foreground(hex(dst, x, y))
			if y+1 < h {
				style = style.Background(hex(dst, x, y+1))
			}
			out.WriteString(style.Render(halfBlock))
		}
	}
	return out.String()
}

// fit scales w x h into maxW x maxH keeping the ratio; results are at least 1.
func fit(w, h, maxW, maxH int) (int, int) {
	if w*maxH > h*maxW {
		return maxW, max(1, h*maxW/w)
	}
	return max(1, w*maxH/h), maxH
}

func hex(img *image.RGBA, x, y int) lipgloss.Color {
	c := img.RGBAAt(x, y)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// renderText shows at most rows lines of data, each cut to cols runes.
func renderText(data []byte, cols, rows int) string {
	lines := strings.Split(string(bytes.TrimRight(data, "\n")), "\n")
	if len(lines) > rows {
		lines = append(lines[:rows-1], "…")
	}
	for i, l := range lines {
		if r := []rune(l); len(r) > cols {
			lines[i] = string(r[:cols-1]) + "…"
		}
	}
	return strings.Join(lines, "\n")
}
