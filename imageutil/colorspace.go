package imageutil

import (
	"math"
)

// HSV is a color in OpenCV's 8-bit HSV encoding: H in [0, 180) holds half
// the hue angle in degrees, S and V span [0, 255].
type HSV struct {
	H, S, V uint8
}

// YUV is a BT.601 YUV color with the chroma channels offset by 128.
type YUV struct {
	Y, U, V uint8
}

// RGBToHSV converts an RGB color to HSV. Each channel is truncated, not
// rounded, when scaled back to 8 bits.
func RGBToHSV(c RGB) HSV {
	r := float64(c.R) / 255.0
	g := float64(c.G) / 255.0
	b := float64(c.B) / 255.0

	cmax := math.Max(r, math.Max(g, b))
	cmin := math.Min(r, math.Min(g, b))
	delta := cmax - cmin

	var h float64
	if delta != 0 {
		switch cmax {
		case r:
			h = 60.0 * math.Mod((g-b)/delta, 6.0)
		case g:
			h = 60.0 * ((b-r)/delta + 2.0)
		default:
			h = 60.0 * ((r-g)/delta + 4.0)
		}
	}
	if h < 0 {
		h += 360.0
	}

	var s float64
	if cmax != 0 {
		s = delta / cmax
	}

	return HSV{
		H: uint8(h / 2.0),
		S: uint8(s * 255.0),
		V: uint8(cmax * 255.0),
	}
}

// HSVToRGB is the inverse of RGBToHSV, up to 8-bit truncation.
func HSVToRGB(c HSV) RGB {
	h := float64(c.H) * 2.0
	s := float64(c.S) / 255.0
	v := float64(c.V) / 255.0

	chroma := v * s
	x := chroma * (1.0 - math.Abs(math.Mod(h/60.0, 2.0)-1.0))
	m := v - chroma

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = chroma, x, 0
	case h < 120:
		r, g, b = x, chroma, 0
	case h < 180:
		r, g, b = 0, chroma, x
	case h < 240:
		r, g, b = 0, x, chroma
	case h < 300:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}

	return RGB{
		R: uint8((r + m) * 255.0),
		G: uint8((g + m) * 255.0),
		B: uint8((b + m) * 255.0),
	}
}

// RGBToYUV converts an RGB color to BT.601 YUV, rounding to the nearest
// integer and clamping to [0, 255].
func RGBToYUV(c RGB) YUV {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	return YUV{
		Y: clampUint8(0.299*r + 0.587*g + 0.114*b),
		U: clampUint8(-0.168736*r - 0.331264*g + 0.5*b + 128),
		V: clampUint8(0.5*r - 0.418688*g - 0.081312*b + 128),
	}
}

// ToGrayscale converts an RGBA image to grayscale using the standard
// luminance formula: Y = 0.299*R + 0.587*G + 0.114*B
// This matches the BT.601 standard used by OpenCV's COLOR_BGR2GRAY.
func ToGrayscale(img *RGBAImage) *GrayImage {
	width, height := img.Width(), img.Height()
	gray := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.RGBAAt(x, y)
			// Integer BT.601, scaled by 1000 and rounded
			lum := (299*int(c.R) + 587*int(c.G) + 114*int(c.B) + 500) / 1000
			if lum > 255 {
				lum = 255
			}
			gray.SetGrayValue(x, y, uint8(lum))
		}
	}

	return gray
}

// ToHSV converts every pixel to HSV. The result is channel-packed: H is
// stored in R, S in G and V in B, the same way an OpenCV HSV Mat is laid
// out.
func ToHSV(img *RGBAImage) *RGBAImage {
	return img.MapRGB(func(_, _ int, c RGB) RGB {
		hsv := RGBToHSV(c)
		return RGB{R: hsv.H, G: hsv.S, B: hsv.V}
	})
}

// FromHSV converts a channel-packed HSV image produced by ToHSV back to RGB.
func FromHSV(img *RGBAImage) *RGBAImage {
	return img.MapRGB(func(_, _ int, c RGB) RGB {
		return HSVToRGB(HSV{H: c.R, S: c.G, V: c.B})
	})
}

// ToYUV converts every pixel to YUV, channel-packed as Y in R, U in G and
// V in B.
func ToYUV(img *RGBAImage) *RGBAImage {
	return img.MapRGB(func(_, _ int, c RGB) RGB {
		yuv := RGBToYUV(c)
		return RGB{R: yuv.Y, G: yuv.U, B: yuv.V}
	})
}
