package pdfcompose

// Notes:
// - ResolveGeometry: grid/fraction/length validation, landscape swap,
//   underscore escape for negative lengths
// - TrimString: fractional components and the 1.0 full-dimension quirk

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestResolveGeometry - Validation and normalization
// ---------------------------------------------------------------------------

func TestResolveGeometry(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		g, err := ResolveGeometry(DefaultGeometryConfig())
		if err != nil {
			t.Fatalf("ResolveGeometry() error = %v", err)
		}
		if g.Tiled() || g.HasDelta() || g.HasOffset() || g.HasTrim {
			t.Errorf("default geometry is not neutral: %+v", g)
		}
	})

	t.Run("landscape swaps the grid", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultGeometryConfig()
		cfg.NUp = [2]int{2, 3}
		cfg.Landscape = true
		g, err := ResolveGeometry(cfg)
		if err != nil {
			t.Fatalf("ResolveGeometry() error = %v", err)
		}
		if g.Rows != 3 || g.Cols != 2 {
			t.Errorf("grid = %dx%d, want 3x2", g.Rows, g.Cols)
		}
	})

	t.Run("underscore escapes a minus sign", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultGeometryConfig()
		cfg.Offset = [2]string{"_5mm", "0"}
		cfg.Delta = [2]string{"0", "_2.5cm"}
		g, err := ResolveGeometry(cfg)
		if err != nil {
			t.Fatalf("ResolveGeometry() error = %v", err)
		}
		if g.Offset[0] != "-5mm" {
			t.Errorf("Offset[0] = %q, want %q", g.Offset[0], "-5mm")
		}
		if g.Delta[1] != "-2.5cm" {
			t.Errorf("Delta[1] = %q, want %q", g.Delta[1], "-2.5cm")
		}
	})

	t.Run("trim components split into fractions and absolutes", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultGeometryConfig()
		cfg.Trim = [4]string{"0.25", "10mm", "0", "0"}
		g, err := ResolveGeometry(cfg)
		if err != nil {
			t.Fatalf("ResolveGeometry() error = %v", err)
		}
		if !g.HasTrim {
			t.Error("HasTrim = false, want true")
		}
		if !g.FractionalTrim() {
			t.Error("FractionalTrim() = false, want true")
		}
		if g.Trim[0].Fraction != 0.25 || g.Trim[0].Absolute != "" {
			t.Errorf("Trim[0] = %+v, want fraction 0.25", g.Trim[0])
		}
		if g.Trim[1].Absolute != "10mm" {
			t.Errorf("Trim[1] = %+v, want absolute 10mm", g.Trim[1])
		}
	})

	errTests := []struct {
		name    string
		mutate  func(*GeometryConfig)
		wantErr error
	}{
		{"zero rows", func(c *GeometryConfig) { c.NUp = [2]int{0, 2} }, ErrBadGrid},
		{"negative cols", func(c *GeometryConfig) { c.NUp = [2]int{1, -1} }, ErrBadGrid},
		{"width above one", func(c *GeometryConfig) { c.Width = 1.5 }, ErrBadFraction},
		{"negative height", func(c *GeometryConfig) { c.Height = -0.2 }, ErrBadFraction},
		{"offset with unknown unit", func(c *GeometryConfig) { c.Offset[0] = "5parsec" }, ErrBadLength},
		{"delta with stray text", func(c *GeometryConfig) { c.Delta[1] = "abc" }, ErrBadLength},
		{"trim with double minus", func(c *GeometryConfig) { c.Trim[2] = "--5mm" }, ErrBadLength},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultGeometryConfig()
			tt.mutate(&cfg)
			if _, err := ResolveGeometry(cfg); !errors.Is(err, tt.wantErr) {
				t.Errorf("ResolveGeometry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestTrimString - Rendering and the 1.0 normalization
// ---------------------------------------------------------------------------

func TestTrimString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		trim [4]string
		want string
	}{
		{
			name: "fractions against source dimensions",
			trim: [4]string{"0.25", "0.5", "0", "0"},
			want: `0.25\pdfwidth{} 0.5\pdfheight{} 0.0\pdfwidth{} 0.0\pdfheight{} `,
		},
		{
			name: "full dimension collapses to zero",
			trim: [4]string{"1", "0", "1.0", "0"},
			want: `0.0 0.0\pdfheight{} 0.0 0.0\pdfheight{} `,
		},
		{
			name: "near one passes through",
			trim: [4]string{"0.999", "0", "0", "0"},
			want: `0.999\pdfwidth{} 0.0\pdfheight{} 0.0\pdfwidth{} 0.0\pdfheight{} `,
		},
		{
			name: "absolute lengths kept verbatim",
			trim: [4]string{"10mm", "_5mm", "0", "2in"},
			want: `10mm -5mm 0.0\pdfwidth{} 2in `,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultGeometryConfig()
			cfg.Trim = tt.trim
			g, err := ResolveGeometry(cfg)
			if err != nil {
				t.Fatalf("ResolveGeometry() error = %v", err)
			}
			if got := g.TrimString(); got != tt.want {
				t.Errorf("TrimString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatFraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{0.25, "0.25"},
		{0.999, "0.999"},
	}
	for _, tt := range tests {
		if got := formatFraction(tt.in); got != tt.want {
			t.Errorf("formatFraction(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if strings.Contains(formatFraction(0.5), "e") {
		t.Error("formatFraction(0.5) used exponent notation")
	}
}
