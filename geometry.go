package pdfcompose

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// lengthToken matches a bare number or a number with a known TeX unit
// suffix. A leading underscore stands for a minus sign so negative
// values survive shell flag parsing; it is rewritten before matching.
var lengthToken = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)(pt|bp|mm|cm|in|ex|em|pc)?$`)

// trimNormalize rewrites a trim component of exactly one full page
// dimension to zero. The substitution is textual on the rendered trim
// string and matches "1.0" exactly: trimming by precisely one page
// width or height is indistinguishable from no trim, and near-1.0
// values pass through untouched.
var trimNormalize = regexp.MustCompile(`1\.0\\pdf(width|height)\{\}`)

// TrimComponent is one side of the trim box: either an absolute
// unit-suffixed length kept verbatim, or a fraction of the source
// page's width or height.
type TrimComponent struct {
	Absolute string  // e.g. "10mm"; empty when fractional
	Fraction float64 // of \pdfwidth (left/right) or \pdfheight (bottom/top)
}

// Geometry is the normalized geometry descriptor attached to every
// page-inclusion instruction.
type Geometry struct {
	Scale   float64 // explicit factor; 0 means auto-fit
	Width   float64 // fraction of output page width; 0 means unset
	Height  float64 // fraction of output page height; 0 means unset
	Rows    int     // n-up grid, already swapped when landscape is active
	Cols    int
	Delta   [2]string // inter-tile spacing, validated length tokens
	Offset  [2]string // tile displacement, validated length tokens
	Trim    [4]TrimComponent
	HasTrim bool
}

// GeometryConfig carries the raw geometry arguments as given on the
// command line.
type GeometryConfig struct {
	Scale     float64
	Width     float64
	Height    float64
	NUp       [2]int    // rows, cols
	Offset    [2]string // right, top
	Delta     [2]string // x, y
	Trim      [4]string // left, bottom, right, top
	Landscape bool
}

// DefaultGeometryConfig returns a config selecting auto-fit with no
// tiling, spacing, displacement or trimming.
func DefaultGeometryConfig() GeometryConfig {
	return GeometryConfig{
		NUp:    [2]int{1, 1},
		Offset: [2]string{"0", "0"},
		Delta:  [2]string{"0", "0"},
		Trim:   [4]string{"0", "0", "0", "0"},
	}
}

// ResolveGeometry validates and normalizes raw geometry arguments.
// Pure: it never touches the file system or external state. Any
// offset, delta or trim token that is not a numeric or unit-suffixed
// literal is a fatal error.
func ResolveGeometry(cfg GeometryConfig) (*Geometry, error) {
	g := &Geometry{
		Scale:  cfg.Scale,
		Width:  cfg.Width,
		Height: cfg.Height,
		Rows:   cfg.NUp[0],
		Cols:   cfg.NUp[1],
	}
	if g.Rows < 1 || g.Cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadGrid, g.Rows, g.Cols)
	}
	// In landscape mode the row and column counts are swapped.
	if cfg.Landscape {
		g.Rows, g.Cols = g.Cols, g.Rows
	}
	if err := checkFraction("width", cfg.Width); err != nil {
		return nil, err
	}
	if err := checkFraction("height", cfg.Height); err != nil {
		return nil, err
	}

	for i, raw := range cfg.Offset {
		tok, err := resolveLength(raw)
		if err != nil {
			return nil, fmt.Errorf("offset: %w", err)
		}
		g.Offset[i] = tok
	}
	for i, raw := range cfg.Delta {
		tok, err := resolveLength(raw)
		if err != nil {
			return nil, fmt.Errorf("delta: %w", err)
		}
		g.Delta[i] = tok
	}
	for i, raw := range cfg.Trim {
		comp, err := resolveTrim(raw)
		if err != nil {
			return nil, err
		}
		g.Trim[i] = comp
		if comp.Absolute != "" || comp.Fraction != 0 {
			g.HasTrim = true
		}
	}
	return g, nil
}

// resolveLength validates one offset/delta token and rewrites the
// leading underscore escape to a minus sign.
func resolveLength(raw string) (string, error) {
	tok := strings.Replace(raw, "_", "-", 1)
	if !lengthToken.MatchString(tok) {
		return "", fmt.Errorf("%w: %q", ErrBadLength, raw)
	}
	return tok, nil
}

// resolveTrim parses one trim component: a bare number is a fraction
// of the source page dimension, a unit-suffixed number is kept as an
// absolute length.
func resolveTrim(raw string) (TrimComponent, error) {
	tok := strings.Replace(raw, "_", "-", 1)
	if !lengthToken.MatchString(tok) {
		return TrimComponent{}, fmt.Errorf("trim: %w: %q", ErrBadLength, raw)
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return TrimComponent{Fraction: f}, nil
	}
	return TrimComponent{Absolute: tok}, nil
}

func checkFraction(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%w: %s %v", ErrBadFraction, name, v)
	}
	return nil
}

// HasDelta reports whether any inter-tile spacing is set.
func (g *Geometry) HasDelta() bool { return g.Delta != [2]string{"0", "0"} }

// HasOffset reports whether any tile displacement is set.
func (g *Geometry) HasOffset() bool { return g.Offset != [2]string{"0", "0"} }

// Tiled reports whether an n-up grid other than 1x1 is active.
func (g *Geometry) Tiled() bool { return g.Rows != 1 || g.Cols != 1 }

// FractionalTrim reports whether any trim component is expressed as a
// fraction of the source page dimensions, which requires the renderer
// to measure the page first.
func (g *Geometry) FractionalTrim() bool {
	for _, c := range g.Trim {
		if c.Absolute == "" && c.Fraction != 0 {
			return true
		}
	}
	return false
}

// TrimString renders the trim box for the page-inclusion options.
// Fractions are expressed against \pdfwidth (left, right) and
// \pdfheight (bottom, top); the 1.0 full-dimension quirk is then
// normalized textually.
func (g *Geometry) TrimString() string {
	dims := [4]string{`\pdfwidth{}`, `\pdfheight{}`, `\pdfwidth{}`, `\pdfheight{}`}
	var sb strings.Builder
	for i, c := range g.Trim {
		if c.Absolute != "" {
			sb.WriteString(c.Absolute)
		} else {
			sb.WriteString(formatFraction(c.Fraction))
			sb.WriteString(dims[i])
		}
		sb.WriteByte(' ')
	}
	return trimNormalize.ReplaceAllString(sb.String(), "0.0")
}

// formatFraction renders a trim fraction with an explicit decimal
// point so the 1.0 normalization match stays exact.
func formatFraction(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
