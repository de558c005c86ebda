package imageutil

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	// This is the closest equivalent to OpenCV's INTER_AREA.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	// Equivalent to OpenCV's INTER_LINEAR, the default of cv::resize.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality.
	InterpolationNearest
)

func (interp Interpolation) scaler() draw.Scaler {
	switch interp {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// Resize resizes an RGBA image to the specified dimensions using the
// given interpolation method.
func Resize(img *RGBAImage, width, height int, interp Interpolation) *RGBAImage {
	dst := NewRGBAImage(width, height)
	dstRect := image.Rect(0, 0, width, height)

	interp.scaler().Scale(dst.RGBA, dstRect, img.RGBA, img.Bounds(), draw.Over, nil)
	return dst
}

// ResizeToFit shrinks img so that it fits inside width x height while
// keeping its aspect ratio. Images that already fit are returned as is.
func ResizeToFit(img *RGBAImage, width, height int, interp Interpolation) *RGBAImage {
	w, h := img.Width(), img.Height()
	if w <= width && h <= height {
		return img
	}
	scale := math.Min(float64(width)/float64(w), float64(height)/float64(h))
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))
	return Resize(img, nw, nh, interp)
}

// ScaleNearest scales an image by factor using pixel-by-pixel
// nearest-neighbor sampling. The output is round(w*factor) x
// round(h*factor), never smaller than 1x1, and each destination pixel
// copies the source pixel at floor(dst/factor), clamped to the image.
func ScaleNearest(img *RGBAImage, factor float64) *RGBAImage {
	w, h := img.Width(), img.Height()
	newW := max(1, int(math.Round(float64(w)*factor)))
	newH := max(1, int(math.Round(float64(h)*factor)))
	dst := NewRGBAImage(newW, newH)

	for y := 0; y < newH; y++ {
		srcY := clampInt(int(math.Floor(float64(y)/factor)), 0, h-1)
		for x := 0; x < newW; x++ {
			srcX := clampInt(int(math.Floor(float64(x)/factor)), 0, w-1)
			dst.SetRGB(x, y, img.GetRGB(srcX, srcY))
		}
	}
	return dst
}
