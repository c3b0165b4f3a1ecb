package ocr

import (
	"image"
	"image/color"
	"testing"
)

func bimodal(w, h int, dark, light uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := dark
			if x >= w/2 {
				v = light
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestOtsuSeparatesModes(t *testing.T) {
	img := bimodal(20, 10, 40, 200)
	threshold := OtsuThreshold(img)
	if threshold < 40 || threshold >= 200 {
		t.Fatalf("threshold %d does not separate 40 and 200", threshold)
	}

	out := Binarize(img)
	if out.GrayAt(0, 0).Y != 0 || out.GrayAt(19, 9).Y != 255 {
		t.Fatalf("unexpected binarization %d %d", out.GrayAt(0, 0).Y, out.GrayAt(19, 9).Y)
	}
}

func TestOtsuUniformImage(t *testing.T) {
	img := bimodal(4, 4, 90, 90)
	if got := OtsuThreshold(img); got != 0 {
		t.Fatalf("threshold = %d, want 0 for a single-level histogram", got)
	}
	// Nothing separates the classes, so every nonzero pixel lands above 0.
	out := Binarize(img)
	for i, v := range out.Pix {
		if v != 255 {
			t.Fatalf("pixel %d = %d, expected a uniform image to turn white", i, v)
		}
	}
	if OtsuThreshold(image.NewGray(image.Rect(0, 0, 0, 0))) != 0 {
		t.Fatal("empty image threshold should be 0")
	}
}

func TestEqualizeStretchesContrast(t *testing.T) {
	img := bimodal(32, 16, 100, 120)
	out := Equalize(img, 0, 1)
	if out.Bounds() != img.Bounds() {
		t.Fatalf("bounds changed: %v", out.Bounds())
	}
	lo, hi := out.GrayAt(0, 0).Y, out.GrayAt(31, 15).Y
	if hi-lo <= 20 {
		t.Fatalf("expected wider contrast than 20, got %d..%d", lo, hi)
	}
	if hi != 255 {
		t.Fatalf("brightest level should map to 255, got %d", hi)
	}
}

func TestEqualizeClipLimitsGain(t *testing.T) {
	img := bimodal(32, 32, 100, 120)
	full := Equalize(img, 0, 1)
	clipped := Equalize(img, 1, 1)
	spread := func(g *image.Gray) int {
		return int(g.GrayAt(31, 31).Y) - int(g.GrayAt(0, 0).Y)
	}
	if spread(clipped) >= spread(full) {
		t.Fatalf("clip limit should reduce the stretch: clipped=%d full=%d", spread(clipped), spread(full))
	}
}

func TestEqualizeKeepsOffsetBounds(t *testing.T) {
	img := image.NewGray(image.Rect(5, 7, 15, 12))
	out := Equalize(img, 7, 8)
	if out.Bounds() != img.Bounds() {
		t.Fatalf("bounds changed: %v", out.Bounds())
	}
}

func TestToGray(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 2, 1))
	rgba.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	gray := ToGray(rgba)
	if gray.GrayAt(0, 0).Y != 255 || gray.GrayAt(1, 0).Y != 0 {
		t.Fatalf("unexpected gray pixels %v", gray.Pix)
	}
}
