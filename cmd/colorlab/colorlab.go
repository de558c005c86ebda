package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/wbrown/colorquant/imageutil"
)

// params holds the per-operation knobs. Out of range values are replaced
// by the defaults in normalize.
type params struct {
	scale      float64
	saturation float64
	gamma      float64
	k          float64
	strength   float64
}

// output is one image produced by an operation. suffix is appended to the
// output file name; the primary image has none.
type output struct {
	suffix string
	img    image.Image
}

var operations = []string{"hsv", "saturate", "grayworld", "gamma", "vignette", "devignette", "scale"}

func main() {
	inputFile := flag.String("input", "",
		"Path to the input image file (required)")
	outputFile := flag.String("output", "",
		"Path to save the result (required); extra images get a suffix")
	op := flag.String("op", "",
		"Operation: "+strings.Join(operations, ", "))
	var p params
	flag.Float64Var(&p.scale, "scale", 0.5,
		"Scale factor for -op scale")
	flag.Float64Var(&p.saturation, "saturation", imageutil.DefaultSaturationFactor,
		"Saturation multiplier for -op saturate")
	flag.Float64Var(&p.gamma, "gamma", imageutil.DefaultGamma,
		"Gamma for -op gamma, in (0, 5]; below 1 brightens")
	flag.Float64Var(&p.k, "k", imageutil.DefaultVignetteK,
		"Correction strength for -op devignette, in [0, 2]")
	flag.Float64Var(&p.strength, "strength", imageutil.DefaultVignetteStrength,
		"Darkening strength for -op vignette, in [0, 1]")
	flag.Parse()

	if *inputFile == "" || *outputFile == "" || *op == "" {
		fmt.Println("Please provide -input, -output and -op")
		flag.PrintDefaults()
		return
	}

	for _, notice := range p.normalize() {
		fmt.Println(notice)
	}

	img, err := imageutil.LoadImage(*inputFile)
	if err != nil {
		fmt.Printf("Error loading image: %v\n", err)
		os.Exit(1)
	}

	outputs, err := process(*op, img, p)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	for _, o := range outputs {
		path := outputPath(*outputFile, o.suffix)
		if err := imageutil.SaveImage(o.img, path); err != nil {
			fmt.Printf("Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Output written to %s\n", path)
	}
}

// normalize replaces out of range parameters with their defaults and
// returns a notice for each replacement.
func (p *params) normalize() []string {
	var notices []string
	if p.scale <= 0 {
		notices = append(notices, fmt.Sprintf("Invalid scale %g, using 1", p.scale))
		p.scale = 1
	}
	if p.saturation < 0 {
		notices = append(notices, fmt.Sprintf("Invalid saturation %g, using %g", p.saturation, imageutil.DefaultSaturationFactor))
		p.saturation = imageutil.DefaultSaturationFactor
	}
	if p.gamma <= 0 || p.gamma > 5 {
		notices = append(notices, fmt.Sprintf("Invalid gamma %g, using %g", p.gamma, imageutil.DefaultGamma))
		p.gamma = imageutil.DefaultGamma
	}
	if p.k < 0 || p.k > 2 {
		notices = append(notices, fmt.Sprintf("Invalid k %g, using %g", p.k, imageutil.DefaultVignetteK))
		p.k = imageutil.DefaultVignetteK
	}
	if p.strength < 0 || p.strength > 1 {
		notices = append(notices, fmt.Sprintf("Invalid strength %g, using %g", p.strength, imageutil.DefaultVignetteStrength))
		p.strength = imageutil.DefaultVignetteStrength
	}
	return notices
}

func process(op string, img *imageutil.RGBAImage, p params) ([]output, error) {
	switch strings.ToLower(op) {
	case "hsv":
		return []output{{img: imageutil.ToHSV(img).RGBA}}, nil
	case "saturate":
		return []output{{img: imageutil.ScaleSaturation(img, p.saturation).RGBA}}, nil
	case "grayworld":
		balanced, gains := imageutil.GrayWorld(img)
		fmt.Printf("Gains: R=%.3f G=%.3f B=%.3f\n", gains.R, gains.G, gains.B)
		return []output{{img: balanced.RGBA}}, nil
	case "gamma":
		return []output{{img: imageutil.ApplyGamma(img, p.gamma).RGBA}}, nil
	case "vignette":
		return []output{{img: imageutil.ApplyVignette(img, p.strength).RGBA}}, nil
	case "devignette":
		return []output{{img: imageutil.CorrectVignette(img, p.k).RGBA}}, nil
	case "scale":
		scaled := imageutil.ScaleNearest(img, p.scale)
		return []output{
			{img: scaled.RGBA},
			{suffix: "gray", img: imageutil.ToGrayscale(scaled).Gray},
			{suffix: "hsv", img: imageutil.ToHSV(scaled).RGBA},
			{suffix: "yuv", img: imageutil.ToYUV(scaled).RGBA},
		}, nil
	default:
		return nil, fmt.Errorf("unknown operation %q, options are %s", op, strings.Join(operations, ", "))
	}
}

// outputPath inserts "_suffix" before the extension of path.
func outputPath(path, suffix string) string {
	if suffix == "" {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + suffix + ext
}
