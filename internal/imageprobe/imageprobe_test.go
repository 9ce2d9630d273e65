package imageprobe

import (
	"os"
	"path/filepath"
	"testing"
)

// pngPixel is a valid 1x1 PNG file.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func TestProbe(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pixel.png")
	if err := os.WriteFile(path, pngPixel, 0o600); err != nil {
		t.Fatalf("writing image: %v", err)
	}

	format, w, h, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if format != "png" || w != 1 || h != 1 {
		t.Errorf("Probe() = %s %dx%d, want png 1x1", format, w, h)
	}
}

func TestProbeErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, _, _, err := Probe(filepath.Join(t.TempDir(), "absent.png")); err == nil {
			t.Error("Probe() succeeded on a missing file")
		}
	})

	t.Run("corrupt header", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "broken.png")
		if err := os.WriteFile(path, []byte("not an image"), 0o600); err != nil {
			t.Fatalf("writing file: %v", err)
		}
		if _, _, _, err := Probe(path); err == nil {
			t.Error("Probe() succeeded on garbage")
		}
	})
}
