// Package preview renders image bytes as terminal half-block art.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// Render decodes data and draws it into a box of width x height terminal
// cells, keeping the aspect ratio. Each cell shows two pixels: the upper one
// as foreground of '▀' and the lower one as background. ok is false when data
// is not a decodable image, in which case nothing should be shown.
func Render(data []byte, width, height int) (string, bool) {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return "", false
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	dst := scale(src, width, height*2)
	return draw2cells(dst), true
}

// Describe returns a one-line summary such as "png 640x480".
func Describe(data []byte) string {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Sprintf("%d bytes", len(data))
	}
	return fmt.Sprintf("%s %dx%d", format, cfg.Width, cfg.Height)
}

// scale fits src into maxW x maxH pixels.
func scale(src image.Image, maxW, maxH int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	// terminal cells are roughly twice as tall as wide; with two pixels per
	// cell vertically the pixel grid is close to square
	ratio := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	dw := max(1, int(float64(w)*ratio))
	dh := max(1, int(float64(h)*ratio))

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func draw2cells(img *image.RGBA) string {
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			top := hex(img.At(x, y))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(top))
			if y+1 < b.Max.Y {
				style = style.Background(lipgloss.Color(hex(img.At(x, y+1))))
			}
			sb.WriteString(style.Render("▀"))
		}
	}
	return sb.String()
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
