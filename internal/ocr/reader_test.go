package ocr_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"impulsetrim/internal/ocr"
	"impulsetrim/internal/services"
	"impulsetrim/internal/testsupport"
)

func TestParseDigits(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1234", 1234, true},
		{" 12 3a4\n", 1234, true},
		{"rpm: 2,000", 2000, true},
		{"", 0, false},
		{"O0l", 0, true},
		{"abc", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tt := range tests {
		got, ok := ocr.ParseDigits(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseDigits(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func writeFrame(t *testing.T, path string) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 8, 4))
	for x := 4; x < 8; x++ {
		for y := 0; y < 4; y++ {
			img.SetGray(x, y, color.Gray{Y: 220})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestScanReadsEveryFrame(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	bin := filepath.Join(testsupport.BaseDir(cfg), "bin")
	fixture := filepath.Join(testsupport.BaseDir(cfg), "fixture.png")
	writeFrame(t, fixture)
	argsLog := filepath.Join(bin, "ffmpeg.args")

	cfg.Tools.FFmpeg = testsupport.StubBinary(t, bin, "ffmpeg", `for last; do :; done
printf '%s ' "$@" > '`+argsLog+`'
out=$(dirname "$last")
cp '`+fixture+`' "$out/frame_000001.png"
cp '`+fixture+`' "$out/frame_000002.png"
cp '`+fixture+`' "$out/frame_000003.png"
`)
	counter := filepath.Join(bin, "count")
	cfg.Tools.Tesseract = testsupport.StubBinary(t, bin, "tesseract", `test -f "$1" || exit 2
n=$(cat '`+counter+`' 2>/dev/null || echo 0)
n=$((n+1))
echo $n > '`+counter+`'
if [ $n -eq 2 ]; then echo "--"; else echo "1 20$n"; fi
`)
	cfg.OCR.FPS = 2

	reader, err := ocr.NewReader(cfg, nil)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	readings, err := reader.Scan(context.Background(), "/media/video_for_ocr.mp4")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(readings))
	}
	if !readings[0].OK || readings[0].Value != 1201 || readings[0].Frame != 0 {
		t.Fatalf("unexpected first reading %+v", readings[0])
	}
	if readings[1].OK || readings[1].Raw != "--" {
		t.Fatalf("expected unreadable second frame, got %+v", readings[1])
	}
	if readings[2].Value != 1203 || readings[2].Frame != 2 {
		t.Fatalf("unexpected third reading %+v", readings[2])
	}

	args, _ := os.ReadFile(argsLog)
	if !strings.Contains(string(args), "fps=2,crop=558:214:218:1097,format=gray") {
		t.Fatalf("unexpected filter chain in %q", args)
	}
}

func TestScanWithoutFrames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	bin := filepath.Join(testsupport.BaseDir(cfg), "bin")
	cfg.Tools.FFmpeg = testsupport.StubBinary(t, bin, "ffmpeg", "exit 0\n")

	reader, err := ocr.NewReader(cfg, nil)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, err := reader.Scan(context.Background(), "empty.mp4"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNewReaderRejectsBadCrop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.OCR.Crop = []int{0, 0, 0, 5}
	if _, err := ocr.NewReader(cfg, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
