package imageutil

import (
	"math"
)

// Defaults used by the color operations when a caller supplies an out of
// range parameter.
const (
	DefaultSaturationFactor = 1.5
	DefaultGamma            = 1.5
	DefaultVignetteStrength = 0.5
	DefaultVignetteK        = 0.5
)

// ScaleSaturation multiplies the saturation of every pixel by factor,
// clamping at 255, through an HSV round trip.
func ScaleSaturation(img *RGBAImage, factor float64) *RGBAImage {
	return img.MapRGB(func(_, _ int, c RGB) RGB {
		hsv := RGBToHSV(c)
		hsv.S = truncUint8(float64(hsv.S) * factor)
		return HSVToRGB(hsv)
	})
}

// ChannelGains holds a multiplicative factor per RGB channel.
type ChannelGains struct {
	R, G, B float64
}

// GrayWorld white-balances img under the gray-world assumption: the mean of
// the scene should be neutral gray. Each channel is scaled by
// gray/mean(channel), where gray is the average of the three channel
// means, and truncated at 255. A channel whose mean is zero is left as is.
// The applied gains are returned alongside the balanced image.
func GrayWorld(img *RGBAImage) (*RGBAImage, ChannelGains) {
	width, height := img.Width(), img.Height()
	total := float64(width * height)
	if total == 0 {
		return img.Clone(), ChannelGains{R: 1, G: 1, B: 1}
	}

	var sumR, sumG, sumB uint64
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.GetRGB(x, y)
			sumR += uint64(c.R)
			sumG += uint64(c.G)
			sumB += uint64(c.B)
		}
	}

	avgR := float64(sumR) / total
	avgG := float64(sumG) / total
	avgB := float64(sumB) / total
	gray := (avgR + avgG + avgB) / 3.0

	gains := ChannelGains{
		R: grayWorldGain(gray, avgR),
		G: grayWorldGain(gray, avgG),
		B: grayWorldGain(gray, avgB),
	}

	balanced := img.MapRGB(func(_, _ int, c RGB) RGB {
		return RGB{
			R: truncUint8(float64(c.R) * gains.R),
			G: truncUint8(float64(c.G) * gains.G),
			B: truncUint8(float64(c.B) * gains.B),
		}
	})
	return balanced, gains
}

func grayWorldGain(gray, avg float64) float64 {
	if avg == 0 {
		return 1
	}
	return gray / avg
}

// GammaLUT precomputes out = 255 * (in/255)^gamma for every 8-bit input.
// gamma < 1 brightens, gamma > 1 darkens.
func GammaLUT(gamma float64) [256]uint8 {
	var lut [256]uint8
	for i := range lut {
		lut[i] = uint8(math.Pow(float64(i)/255.0, gamma) * 255.0)
	}
	return lut
}

// ApplyGamma maps every channel of every pixel through GammaLUT(gamma).
func ApplyGamma(img *RGBAImage, gamma float64) *RGBAImage {
	lut := GammaLUT(gamma)
	return img.MapRGB(func(_, _ int, c RGB) RGB {
		return RGB{R: lut[c.R], G: lut[c.G], B: lut[c.B]}
	})
}

// ApplyVignette darkens img toward the corners by 1 - strength*r², where r
// is the distance to the image center normalized by the half-diagonal.
func ApplyVignette(img *RGBAImage, strength float64) *RGBAImage {
	return radialScale(img, func(r2 float64) float64 {
		return 1.0 - strength*r2
	})
}

// CorrectVignette compensates corner falloff by brightening each pixel by
// 1 + k*r², clamping at 255.
func CorrectVignette(img *RGBAImage, k float64) *RGBAImage {
	return radialScale(img, func(r2 float64) float64 {
		return 1.0 + k*r2
	})
}

func radialScale(img *RGBAImage, factorAt func(r2 float64) float64) *RGBAImage {
	cx := float64(img.Width()) / 2.0
	cy := float64(img.Height()) / 2.0
	dmax2 := cx*cx + cy*cy

	return img.MapRGB(func(x, y int, c RGB) RGB {
		dx := float64(x) - cx
		dy := float64(y) - cy
		factor := factorAt((dx*dx + dy*dy) / dmax2)
		return RGB{
			R: truncUint8(float64(c.R) * factor),
			G: truncUint8(float64(c.G) * factor),
			B: truncUint8(float64(c.B) * factor),
		}
	})
}

// truncUint8 truncates v toward zero and clamps it to [0, 255].
func truncUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
