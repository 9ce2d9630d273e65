package pdfcompose

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Overlay anchor names: corners and edge midpoints of the text box.
const (
	AnchorTopLeft      = "tl"
	AnchorTopMiddle    = "tm"
	AnchorTopRight     = "tr"
	AnchorBottomLeft   = "bl"
	AnchorBottomMiddle = "bm"
	AnchorBottomRight  = "br"
)

// anchorCoords maps an anchor name to its fractional horizontal and
// vertical anchor coordinates.
var anchorCoords = map[string][2]float64{
	AnchorTopLeft:      {0, 0},
	AnchorTopMiddle:    {0.5, 0},
	AnchorTopRight:     {1, 0},
	AnchorBottomLeft:   {0, 1},
	AnchorBottomMiddle: {0.5, 1},
	AnchorBottomRight:  {1, 1},
}

// OverlayConfig carries one raw --text argument.
type OverlayConfig struct {
	Text   string // template, may reference $day $month $year $page $pages $filename
	Anchor string // one of the anchor names above
	HPos   float64
	VPos   float64
}

// OverlayContext supplies the values overlay templates may reference.
// PageMarker and PagesMarker are symbolic: the renderer's markup
// resolves them at typesetting time, which is why the engine needs a
// second compilation round.
type OverlayContext struct {
	Now         time.Time
	PageMarker  string // substituted for $page
	PagesMarker string // substituted for $pages
	Filename    string // active document base name, without extension
}

// TextOverlay is a resolved per-page text box: escaped content and
// fractional placement relative to the unrotated top-left page corner.
type TextOverlay struct {
	Content string
	AnchorH float64
	AnchorV float64
	HPos    float64
	VPos    float64
}

// ResolveOverlay resolves one overlay configuration. Placeholder
// substitution is purely textual and an unknown placeholder is a
// fatal configuration error, not a silent no-op. After substitution,
// spaces become non-breaking and underscores are escaped; the renderer
// depends on that contract. In landscape mode the position fractions
// are swapped and the content is rotated 90 degrees, keeping positions
// expressed against the unrotated top-left corner.
func ResolveOverlay(cfg OverlayConfig, ctx OverlayContext, landscape bool) (TextOverlay, error) {
	coords, ok := anchorCoords[cfg.Anchor]
	if !ok {
		return TextOverlay{}, fmt.Errorf("%w: %q", ErrBadAnchor, cfg.Anchor)
	}

	content, err := expandPlaceholders(cfg.Text, ctx)
	if err != nil {
		return TextOverlay{}, err
	}
	content = strings.ReplaceAll(content, " ", "~")
	content = strings.ReplaceAll(content, "_", `\_`)

	o := TextOverlay{
		Content: content,
		AnchorH: coords[0],
		AnchorV: coords[1],
		HPos:    cfg.HPos,
		VPos:    cfg.VPos,
	}
	if landscape {
		o.HPos, o.VPos = o.VPos, o.HPos
		o.Content = `\rotatebox{90}{` + o.Content + `}`
	}
	return o, nil
}

// expandPlaceholders substitutes $name references in the template.
// Unknown names are collected and reported together.
func expandPlaceholders(template string, ctx OverlayContext) (string, error) {
	unknown := make(map[string]bool)
	expanded := os.Expand(template, func(name string) string {
		switch name {
		case "day":
			return strconv.Itoa(ctx.Now.Day())
		case "month":
			return strconv.Itoa(int(ctx.Now.Month()))
		case "year":
			return strconv.Itoa(ctx.Now.Year())
		case "page":
			return ctx.PageMarker
		case "pages":
			return ctx.PagesMarker
		case "filename":
			return ctx.Filename
		}
		unknown[name] = true
		return ""
	})
	if len(unknown) > 0 {
		names := make([]string, 0, len(unknown))
		for n := range unknown {
			names = append(names, "$"+n)
		}
		sort.Strings(names)
		return "", fmt.Errorf("%w: %s", ErrBadPlaceholder, strings.Join(names, ", "))
	}
	return expanded, nil
}
