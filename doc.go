// Package colorquant quantizes image colors with K-Means (Lloyd's
// algorithm) in plain RGB space.
//
// The core is Quantize: given one Sample per pixel, a cluster count K and
// an iteration count, it returns a label per sample and K centroid colors.
// Initial centroids are drawn from an injected random source, so a fixed
// seed reproduces a run exactly. The iteration count is always run in
// full.
//
//	img, _ := imageutil.LoadImage("photo.jpg")
//	q := colorquant.NewQuantizer(colorquant.WithSeed(42))
//	res, err := q.QuantizeImage(ctx, img, 5, colorquant.DefaultIterations)
//	quantized, _ := res.Image()
//	swatch, _ := colorquant.RenderPalette(res.Palette(), colorquant.PaletteOptions{})
//
// Around the core the package provides the image adapters (SamplesFromImage,
// Paint, RenderPalette), a KD-tree PaletteIndex for applying a trained
// palette to other images, and zstd-compressed result files.
package colorquant
