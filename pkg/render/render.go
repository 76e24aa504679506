// Package render turns a note into the bitmap shown on its panel.
package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	"github.com/aretw0/spatialnotes/pkg/core"
)

// ErrTooLarge is returned when a card would exceed MaxPixels.
var ErrTooLarge = errors.New("rendered card too large")

// MaxPixels bounds the work a single render may do within a tick.
const MaxPixels = 4096 * 4096

// Renderer is a pure function from note presentation inputs to an image.
// It is called synchronously from the reconcile tick.
type Renderer interface {
	Render(content string, category core.Category, size core.Size) (image.Image, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(content string, category core.Category, size core.Size) (image.Image, error)

func (f RendererFunc) Render(content string, category core.Category, size core.Size) (image.Image, error) {
	return f(content, category, size)
}

var (
	paper   = color.RGBA{250, 250, 247, 255}
	ink     = color.RGBA{60, 60, 67, 255}
	glyphW  = 7
	lineH   = 18
	padding = 16
	headerH = 28
	accentW = 6
)

// Card draws a note card: a category colored header and accent bar on a light
// panel, with one ink bar per text line whose length follows the line's width.
// Scale multiplies the size's footprint; zero means 1.
type Card struct {
	Scale int
}

func (c Card) Render(content string, category core.Category, size core.Size) (image.Image, error) {
	scale := c.Scale
	if scale <= 0 {
		scale = 1
	}
	fw, fh := size.Footprint()
	w, h := fw*scale, fh*scale
	if w*h > MaxPixels {
		return nil, ErrTooLarge
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: paper}, image.Point{}, draw.Src)

	tint := &image.Uniform{C: category.Color()}
	draw.Draw(img, image.Rect(0, 0, w, headerH*scale), tint, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, accentW*scale, h), tint, image.Point{}, draw.Src)

	textW := w - 2*padding*scale - accentW*scale
	y := (headerH + padding) * scale
	for _, line := range wrap(content, textW/(glyphW*scale)) {
		if y+lineH*scale > h-padding*scale {
			break
		}
		n := utf8.RuneCountInString(line)
		if n > 0 {
			x0 := (accentW + padding) * scale
			bar := image.Rect(x0, y+4*scale, x0+n*glyphW*scale, y+(lineH-4)*scale)
			draw.Draw(img, bar, &image.Uniform{C: ink}, image.Point{}, draw.Src)
		}
		y += lineH * scale
	}
	return img, nil
}

// Placeholder is the plain panel shown when rendering fails.
func Placeholder(size core.Size) image.Image {
	w, h := size.Footprint()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

// Fingerprint combines the content and size of a note. A change of either
// yields a different value, so it tells the reconciler when to re-render.
func Fingerprint(content string, size core.Size) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(string(size))
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(content)
	return d.Sum64()
}

// wrap splits text into lines of at most width runes, breaking on spaces when it can.
func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			for utf8.RuneCountInString(word) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				r := []rune(word)
				out = append(out, string(r[:width]))
				word = string(r[width:])
			}
			switch {
			case line == "":
				line = word
			case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		out = append(out, line)
	}
	return out
}
