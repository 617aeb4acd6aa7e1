package imaging

import "image"

// Sharpness computes the variance of a discrete Laplacian over the image's
// luminance plane. Sharp images produce strong second-derivative responses
// at edges and therefore high variance; blurry images score low. The scale
// matches the conventional cv2.Laplacian(gray).var() blur metric, so the
// usual ~100 threshold applies.
func Sharpness(path string) (float64, error) {
	img, err := decode(path)
	if err != nil {
		return 0, err
	}
	return sharpnessOf(img), nil
}

func sharpnessOf(img image.Image) float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 3 || h < 3 {
		// No interior pixels to convolve; treat as perfectly flat.
		return 0
	}

	lum := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// ITU-R BT.601 luma on 8-bit scale.
			lum[y*w+x] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
		}
	}

	// 4-neighbor Laplacian over interior pixels.
	n := (w - 2) * (h - 2)
	responses := make([]float64, 0, n)
	var sum float64
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			c := lum[y*w+x]
			l := lum[(y-1)*w+x] + lum[(y+1)*w+x] + lum[y*w+x-1] + lum[y*w+x+1] - 4*c
			responses = append(responses, l)
			sum += l
		}
	}

	mean := sum / float64(n)
	var variance float64
	for _, l := range responses {
		d := l - mean
		variance += d * d
	}
	return variance / float64(n)
}
