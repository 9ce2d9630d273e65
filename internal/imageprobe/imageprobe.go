// Package imageprobe decodes image headers to confirm an input image
// is readable before any typesetting work is spent on it. Only the
// header is read; pixels are never decoded.
package imageprobe

import (
	"fmt"
	"image"
	"os"

	// Decoders for the accepted raster input formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// Probe reports the format and pixel dimensions of the image at path.
// An unreadable or unrecognized file is an error.
func Probe(path string) (format string, width, height int, err error) {
	f, err := os.Open(path) // #nosec G304 -- path is a user-supplied input file
	if err != nil {
		return "", 0, 0, fmt.Errorf("opening image: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", 0, 0, fmt.Errorf("decoding image header: %w", err)
	}
	return format, cfg.Width, cfg.Height, nil
}
