package colorquant

import (
	"fmt"
	"image"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/wbrown/colorquant/imageutil"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// DefaultSwatchSize is the edge length in pixels of one palette swatch.
const DefaultSwatchSize = 50

// PaletteOptions controls RenderPalette.
type PaletteOptions struct {
	// SwatchSize is the edge length of each square swatch. Zero means
	// DefaultSwatchSize.
	SwatchSize int
	// Labels draws each color's hex code inside its swatch.
	Labels bool
	// FontSize is the label size in points at 72 DPI. Zero derives it
	// from SwatchSize.
	FontSize float64
}

var labelFont = sync.OnceValues(func() (*truetype.Font, error) {
	return freetype.ParseFont(gomono.TTF)
})

// RenderPalette renders colors as a horizontal strip of square swatches,
// one per color in index order: swatch i covers x in [i*size, (i+1)*size).
func RenderPalette(colors []imageutil.RGB, opts PaletteOptions) (*imageutil.RGBAImage, error) {
	size := opts.SwatchSize
	if size <= 0 {
		size = DefaultSwatchSize
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("failed to render palette: no colors")
	}

	img := imageutil.NewRGBAImage(len(colors)*size, size)
	for i, c := range colors {
		img.FillRect(image.Rect(i*size, 0, (i+1)*size, size), c)
	}

	if opts.Labels {
		if err := drawLabels(img, colors, size, opts.FontSize); err != nil {
			return nil, fmt.Errorf("failed to render palette labels: %w", err)
		}
	}
	return img, nil
}

// drawLabels writes "#rrggbb" near the bottom-left corner of each swatch in
// black or white, whichever contrasts with the swatch.
func drawLabels(img *imageutil.RGBAImage, colors []imageutil.RGB, size int, fontSize float64) error {
	ttf, err := labelFont()
	if err != nil {
		return err
	}
	if fontSize <= 0 {
		fontSize = float64(size) / 5.5
	}
	pad := max(1, size/16)

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(fontSize)
	ctx.SetDst(img.RGBA)
	ctx.SetHinting(font.HintingFull)

	for i, c := range colors {
		ink := imageutil.RGB{R: 255, G: 255, B: 255}
		if c.Luma() >= 128 {
			ink = imageutil.RGB{}
		}
		ctx.SetSrc(image.NewUniform(ink.ToColor()))
		ctx.SetClip(image.Rect(i*size, 0, (i+1)*size, size))

		label := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
		if _, err := ctx.DrawString(label, freetype.Pt(i*size+pad, size-pad)); err != nil {
			return err
		}
	}
	return nil
}
