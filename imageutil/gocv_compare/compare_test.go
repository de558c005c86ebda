// Package gocv_compare contains tests that compare the pure Go color
// operations and the quantizer against gocv (OpenCV). These tests require
// OpenCV to be installed.
//
// Run with: cd imageutil/gocv_compare && go test -v
package gocv_compare

import (
	"context"
	"image"
	"math"
	"testing"

	"github.com/wbrown/colorquant"
	"github.com/wbrown/colorquant/imageutil"
	"gocv.io/x/gocv"
)

// gocvToRGBA converts a gocv.Mat (BGR) to RGBAImage (RGB).
func gocvToRGBA(mat gocv.Mat) *imageutil.RGBAImage {
	height, width := mat.Rows(), mat.Cols()
	img := imageutil.NewRGBAImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// gocv uses BGR format
			vec := mat.GetVecbAt(y, x)
			img.SetRGB(x, y, imageutil.RGB{R: vec[2], G: vec[1], B: vec[0]})
		}
	}
	return img
}

// gocvGrayToGray converts a gocv.Mat (grayscale) to GrayImage.
func gocvGrayToGray(mat gocv.Mat) *imageutil.GrayImage {
	height, width := mat.Rows(), mat.Cols()
	img := imageutil.NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Gray.Pix[y*img.Stride+x] = mat.GetUCharAt(y, x)
		}
	}
	return img
}

// rgbaToGocv converts an RGBAImage to gocv.Mat (BGR).
func rgbaToGocv(img *imageutil.RGBAImage) gocv.Mat {
	mat := gocv.NewMatWithSize(img.Height(), img.Width(), gocv.MatTypeCV8UC3)

	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			c := img.GetRGB(x, y)
			// gocv uses BGR format
			mat.SetUCharAt(y, x*3, c.B)
			mat.SetUCharAt(y, x*3+1, c.G)
			mat.SetUCharAt(y, x*3+2, c.R)
		}
	}
	return mat
}

func TestCompareGrayscaleConversion(t *testing.T) {
	// Create test image
	img := imageutil.CreateColorBarsImage(256, 256)
	mat := rgbaToGocv(img)
	defer mat.Close()

	// Convert with gocv
	grayMat := gocv.NewMat()
	defer grayMat.Close()
	gocv.CvtColor(mat, &grayMat, gocv.ColorBGRToGray)
	gocvGray := gocvGrayToGray(grayMat)

	// Convert with pure Go
	pureGoGray := imageutil.ToGrayscale(img)

	// Compare
	mse := imageutil.CalculateMSEGray(gocvGray, pureGoGray)
	t.Logf("Grayscale conversion MSE: %f", mse)

	// Allow small differences due to rounding
	if mse > 1.0 {
		t.Errorf("Grayscale MSE too high: %f (threshold: 1.0)", mse)
	}
}

func TestCompareResize(t *testing.T) {
	testCases := []struct {
		name      string
		srcWidth  int
		srcHeight int
		dstWidth  int
		dstHeight int
		threshold float64
	}{
		{"Downscale 2x", 256, 256, 128, 128, 10.0},
		{"Downscale 4x", 256, 256, 64, 64, 15.0},
		{"Upscale 2x", 64, 64, 128, 128, 10.0},
		{"Arbitrary", 256, 256, 100, 75, 15.0},
		{"Training size", 640, 480, 160, 120, 15.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			img := imageutil.CreateGradientImage(tc.srcWidth, tc.srcHeight)
			mat := rgbaToGocv(img)
			defer mat.Close()

			// Resize with gocv (area interpolation)
			resizedMat := gocv.NewMat()
			defer resizedMat.Close()
			gocv.Resize(mat, &resizedMat, image.Point{X: tc.dstWidth, Y: tc.dstHeight},
				0, 0, gocv.InterpolationArea)
			gocvResized := gocvToRGBA(resizedMat)

			// Resize with pure Go
			pureGoResized := imageutil.Resize(img, tc.dstWidth, tc.dstHeight, imageutil.InterpolationArea)

			// Compare
			mse := imageutil.CalculateMSE(gocvResized, pureGoResized)
			t.Logf("%s resize MSE: %f", tc.name, mse)

			if mse > tc.threshold {
				t.Errorf("Resize MSE too high: %f (threshold: %f)", mse, tc.threshold)
			}
		})
	}
}

func TestCompareSharpening(t *testing.T) {
	img := imageutil.CreateEdgeImage(256, 256)
	mat := rgbaToGocv(img)
	defer mat.Close()

	// Sharpen with gocv
	kernel := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
	defer kernel.Close()
	kernel.SetFloatAt(0, 0, 0)
	kernel.SetFloatAt(0, 1, -0.5)
	kernel.SetFloatAt(0, 2, 0)
	kernel.SetFloatAt(1, 0, -0.5)
	kernel.SetFloatAt(1, 1, 3)
	kernel.SetFloatAt(1, 2, -0.5)
	kernel.SetFloatAt(2, 0, 0)
	kernel.SetFloatAt(2, 1, -0.5)
	kernel.SetFloatAt(2, 2, 0)

	sharpenedMat := gocv.NewMat()
	defer sharpenedMat.Close()
	gocv.Filter2D(mat, &sharpenedMat, -1, kernel, image.Point{-1, -1}, 0, gocv.BorderDefault)
	gocvSharpened := gocvToRGBA(sharpenedMat)

	// Sharpen with pure Go
	pureGoSharpened := imageutil.Sharpen(img)

	// Compare
	mse := imageutil.CalculateMSE(gocvSharpened, pureGoSharpened)
	maxDiff := imageutil.CalculateMaxDiff(gocvSharpened, pureGoSharpened)
	t.Logf("Sharpening MSE: %f, Max diff: %d", mse, maxDiff)

	if mse > 5.0 {
		t.Errorf("Sharpening MSE too high: %f (threshold: 5.0)", mse)
	}
}

func TestCompareHSV(t *testing.T) {
	img := imageutil.CreateNoisyBarsImage(256, 64, imageutil.ColorBars, 40, 1)
	mat := rgbaToGocv(img)
	defer mat.Close()

	hsvMat := gocv.NewMat()
	defer hsvMat.Close()
	gocv.CvtColor(mat, &hsvMat, gocv.ColorBGRToHSV)
	gocvHSV := matToPacked(hsvMat)

	pureGoHSV := imageutil.ToHSV(img)

	// OpenCV rounds where the pure Go conversion truncates, and hue wraps
	// at 180, so only the average is tight.
	mse := imageutil.CalculateMSE(gocvHSV, pureGoHSV)
	maxDiff := imageutil.CalculateMaxDiff(gocvHSV, pureGoHSV)
	t.Logf("HSV MSE: %f, Max diff: %d", mse, maxDiff)

	if mse > 2.0 {
		t.Errorf("HSV MSE too high: %f (threshold: 2.0)", mse)
	}
}

func TestCompareYUV(t *testing.T) {
	img := imageutil.CreateNoisyBarsImage(256, 64, imageutil.ColorBars, 40, 2)
	mat := rgbaToGocv(img)
	defer mat.Close()

	// BT.601 YUV with a 128 chroma offset is OpenCV's YCrCb with the
	// chroma channels swapped.
	ycrcbMat := gocv.NewMat()
	defer ycrcbMat.Close()
	gocv.CvtColor(mat, &ycrcbMat, gocv.ColorBGRToYCrCb)
	ycrcb := matToPacked(ycrcbMat)
	gocvYUV := ycrcb.MapRGB(func(_, _ int, c imageutil.RGB) imageutil.RGB {
		return imageutil.RGB{R: c.R, G: c.B, B: c.G}
	})

	pureGoYUV := imageutil.ToYUV(img)

	maxDiff := imageutil.CalculateMaxDiff(gocvYUV, pureGoYUV)
	t.Logf("YUV max diff: %d", maxDiff)

	if maxDiff > 1 {
		t.Errorf("YUV max diff too high: %d (threshold: 1)", maxDiff)
	}
}

func TestCompareKMeans(t *testing.T) {
	img := imageutil.CreateNoisyBarsImage(160, 120, imageutil.ColorBars, 20, 3)
	samples := colorquant.SamplesFromImage(img)
	const k = 8

	data := gocv.NewMatWithSize(len(samples), 3, gocv.MatTypeCV32F)
	defer data.Close()
	for i, s := range samples {
		data.SetFloatAt(i, 0, float32(s.R))
		data.SetFloatAt(i, 1, float32(s.G))
		data.SetFloatAt(i, 2, float32(s.B))
	}

	labels := gocv.NewMat()
	defer labels.Close()
	centers := gocv.NewMat()
	defer centers.Close()
	criteria := gocv.NewTermCriteria(gocv.MaxIter, colorquant.DefaultIterations, 0)
	compactness := gocv.KMeans(data, k, &labels, criteria, 5, gocv.KMeansPPCenters, &centers)

	// Random initialization can land in a worse local minimum than
	// k-means++, so compare the best of a few seeds.
	best := math.Inf(1)
	for seed := int64(1); seed <= 5; seed++ {
		q := colorquant.NewQuantizer(colorquant.WithSeed(seed))
		res, err := q.Quantize(context.Background(), samples, k, colorquant.DefaultIterations)
		if err != nil {
			t.Fatalf("Quantize failed: %v", err)
		}
		best = math.Min(best, res.Inertia)
	}
	t.Logf("Inertia: colorquant %.0f, OpenCV %.0f", best, compactness)

	if best > 2*compactness {
		t.Errorf("Inertia %.0f is more than twice OpenCV's %.0f", best, compactness)
	}
}

// matToPacked copies a 3-channel 8-bit Mat into an RGBAImage without any
// channel reordering, for color spaces that are not BGR.
func matToPacked(mat gocv.Mat) *imageutil.RGBAImage {
	height, width := mat.Rows(), mat.Cols()
	img := imageutil.NewRGBAImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			vec := mat.GetVecbAt(y, x)
			img.SetRGB(x, y, imageutil.RGB{R: vec[0], G: vec[1], B: vec[2]})
		}
	}
	return img
}
