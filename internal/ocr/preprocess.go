package ocr

import (
	"image"
	"image/color"
	"math"
)

// ToGray converts img to 8-bit luminance. Gray images are returned as is.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return out
}

// Equalize applies contrast-limited adaptive histogram equalization over a
// tiles x tiles grid. clipLimit bounds each histogram bin at clipLimit times
// the mean bin height; the clipped excess is spread over all bins. Pixels are
// mapped by bilinear interpolation between the four nearest tile mappings.
func Equalize(src *image.Gray, clipLimit float64, tiles int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	if w == 0 || h == 0 {
		return out
	}
	tiles = max(tiles, 1)
	tileW := (w + tiles - 1) / tiles
	tileH := (h + tiles - 1) / tiles
	cols := (w + tileW - 1) / tileW
	rows := (h + tileH - 1) / tileH

	luts := make([][256]uint8, cols*rows)
	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < cols; tx++ {
			rect := image.Rect(tx*tileW, ty*tileH, min((tx+1)*tileW, w), min((ty+1)*tileH, h)).Add(b.Min)
			luts[ty*cols+tx] = tileLUT(src, rect, clipLimit)
		}
	}

	for y := 0; y < h; y++ {
		ty0, ty1, fy := neighbours(y, tileH, rows)
		for x := 0; x < w; x++ {
			tx0, tx1, fx := neighbours(x, tileW, cols)
			v := src.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			top := lerp(float64(luts[ty0*cols+tx0][v]), float64(luts[ty0*cols+tx1][v]), fx)
			bottom := lerp(float64(luts[ty1*cols+tx0][v]), float64(luts[ty1*cols+tx1][v]), fx)
			out.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: uint8(math.Round(lerp(top, bottom, fy)))})
		}
	}
	return out
}

func tileLUT(src *image.Gray, rect image.Rectangle, clipLimit float64) [256]uint8 {
	var hist [256]int
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			hist[src.GrayAt(x, y).Y]++
		}
	}
	area := rect.Dx() * rect.Dy()

	if clipLimit > 0 {
		limit := max(int(clipLimit*float64(area)/256), 1)
		excess := 0
		for i := range hist {
			if hist[i] > limit {
				excess += hist[i] - limit
				hist[i] = limit
			}
		}
		share, rest := excess/256, excess%256
		for i := range hist {
			hist[i] += share
			if i < rest {
				hist[i]++
			}
		}
	}

	var lut [256]uint8
	cdf := 0
	for i, n := range hist {
		cdf += n
		lut[i] = uint8(math.Round(float64(cdf) * 255 / float64(area)))
	}
	return lut
}

// neighbours returns the two tile indices around pixel p along one axis and
// the interpolation weight of the second.
func neighbours(p, size, count int) (int, int, float64) {
	pos := (float64(p)+0.5)/float64(size) - 0.5
	if pos <= 0 {
		return 0, 0, 0
	}
	i0 := int(pos)
	if i0 >= count-1 {
		return count - 1, count - 1, 0
	}
	return i0, i0 + 1, pos - float64(i0)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// OtsuThreshold returns the gray level that maximizes the between-class
// variance of img's histogram.
func OtsuThreshold(img *image.Gray) uint8 {
	var hist [256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[img.GrayAt(x, y).Y]++
		}
	}
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i * n)
	}
	var (
		sumB      float64
		weightB   int
		best      float64
		threshold uint8
	)
	for t := 0; t < 256; t++ {
		weightB += hist[t]
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		meanB := sumB / float64(weightB)
		meanF := (sum - sumB) / float64(weightF)
		between := float64(weightB) * float64(weightF) * (meanB - meanF) * (meanB - meanF)
		if between > best {
			best = between
			threshold = uint8(t)
		}
	}
	return threshold
}

// Binarize maps pixels above the Otsu threshold to white and the rest to
// black.
func Binarize(img *image.Gray) *image.Gray {
	threshold := OtsuThreshold(img)
	b := img.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.GrayAt(x, y).Y > threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}
