package pdfcompose

import (
	"strings"
	"testing"
)

// planFor builds a minimal plan around sections produced by the merger.
func planFor(t *testing.T, counts map[string]int, in MergeInput) *CompositionPlan {
	t.Helper()
	if in.Directive == nil {
		in.Directive = wholeDocument(t)
	}
	if in.Geometry == nil {
		in.Geometry = neutralGeometry(t)
	}
	plan, err := NewMerger(&countingCounter{counts: counts}).Merge(in)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	return plan
}

// ---------------------------------------------------------------------------
// TestRender - Document scaffolding
// ---------------------------------------------------------------------------

func TestRenderScaffolding(t *testing.T) {
	t.Parallel()

	plan := planFor(t, map[string]int{"a.pdf": 2}, MergeInput{
		Documents: docs("a.pdf"),
		Paper:     "a4paper",
	})
	out := Render(plan)

	for _, want := range []string{
		`\documentclass[a4paper]{article}`,
		`\usepackage{grffile}`,
		`\usepackage{pdfpages, lastpage, fancyhdr, forloop, geometry, calc, graphicx}`,
		`\usepackage[absolute]{textpos}`,
		`\fancypagestyle{composestyle}`,
		`\begin{document}`,
		`\end{document}`,
		`pagecommand=\thispagestyle{composestyle}`,
		`]{\detokenize{a.pdf}}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q", want)
		}
	}
}

func TestRenderWithoutPaperOmitsClassOption(t *testing.T) {
	t.Parallel()

	plan := planFor(t, map[string]int{"a.pdf": 1}, MergeInput{Documents: docs("a.pdf")})
	out := Render(plan)
	if !strings.Contains(out, `\documentclass{article}`) {
		t.Error("output does not use the bare document class")
	}
}

// ---------------------------------------------------------------------------
// TestRenderInclusions - Pages, grouping, rotation
// ---------------------------------------------------------------------------

func TestRenderGroupsSameRotation(t *testing.T) {
	t.Parallel()

	spec, err := ParseRotateSpec("2=90;3=90")
	if err != nil {
		t.Fatalf("ParseRotateSpec() error = %v", err)
	}
	plan := planFor(t, map[string]int{"a.pdf": 4}, MergeInput{
		Documents: docs("a.pdf"),
		Directive: spec,
	})
	out := Render(plan)

	if got := strings.Count(out, `\includepdf`); got != 3 {
		t.Errorf("output has %d inclusions, want 3 (1, 2-3 rotated, 4)", got)
	}
	if !strings.Contains(out, "pages=2,3") {
		t.Error("rotated pages 2 and 3 were not grouped into one inclusion")
	}
	if got := strings.Count(out, "angle=90"); got != 1 {
		t.Errorf("angle option appears %d times, want 1", got)
	}
}

func TestRenderUnrotatedPlanHasNoAngle(t *testing.T) {
	t.Parallel()

	plan := planFor(t, map[string]int{"a.pdf": 5}, MergeInput{Documents: docs("a.pdf")})
	out := Render(plan)
	if strings.Contains(out, "angle=") {
		t.Error("unrotated plan emitted an angle option")
	}
	if !strings.Contains(out, "pages=1-5") {
		t.Error("full-document selection was not rendered as a range")
	}
}

func TestRenderGeometryOptions(t *testing.T) {
	t.Parallel()

	cfg := DefaultGeometryConfig()
	cfg.NUp = [2]int{2, 3}
	cfg.Delta = [2]string{"5mm", "5mm"}
	cfg.Offset = [2]string{"_1cm", "0"}
	cfg.Scale = 0.8
	g, err := ResolveGeometry(cfg)
	if err != nil {
		t.Fatalf("ResolveGeometry() error = %v", err)
	}
	plan := planFor(t, map[string]int{"a.pdf": 6}, MergeInput{
		Documents: docs("a.pdf"),
		Geometry:  g,
	})
	out := Render(plan)

	for _, want := range []string{
		"nup=3x2", // columns times rows
		"delta=5mm 5mm",
		"offset=-1cm 0",
		"noautoscale, scale=0.8",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q", want)
		}
	}
}

func TestRenderFractionalTrimMeasuresSource(t *testing.T) {
	t.Parallel()

	cfg := DefaultGeometryConfig()
	cfg.Trim = [4]string{"0.25", "0", "1", "0"}
	g, err := ResolveGeometry(cfg)
	if err != nil {
		t.Fatalf("ResolveGeometry() error = %v", err)
	}
	plan := planFor(t, map[string]int{"a.pdf": 2}, MergeInput{
		Documents: docs("a.pdf"),
		Geometry:  g,
	})
	out := Render(plan)

	for _, want := range []string{
		`\savebox{\mybox}{\includegraphics{\detokenize{a.pdf}}}`,
		`\settowidth{\pdfwidth}{\usebox{\mybox}}`,
		`\settoheight{\pdfheight}{\usebox{\mybox}}`,
		`trim={0.25\pdfwidth{} 0.0\pdfheight{} 0.0 0.0\pdfheight{} }`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q", want)
		}
	}
}

func TestRenderBooleansAndCustom(t *testing.T) {
	t.Parallel()

	plan := planFor(t, map[string]int{"a.pdf": 1}, MergeInput{
		Documents: docs("a.pdf"),
		Booleans:  []string{"fitpaper", "clip"},
		Custom:    "link=true",
	})
	out := Render(plan)
	if !strings.Contains(out, ",fitpaper,clip,link=true") {
		t.Error("boolean and custom options were not appended to the inclusion")
	}
}

// ---------------------------------------------------------------------------
// TestRenderOverlaysAndImages
// ---------------------------------------------------------------------------

func TestRenderOverlays(t *testing.T) {
	t.Parallel()

	plan := planFor(t, map[string]int{"a.pdf": 1}, MergeInput{
		Documents: docs("a.pdf"),
		Overlays: []TextOverlay{
			{Content: `draft~copy`, AnchorH: 0.5, AnchorV: 1, HPos: 0.5, VPos: 0.95},
		},
	})
	out := Render(plan)

	for _, want := range []string{
		`\savebox{\textbox}{draft~copy}`,
		`\begin{textblock*}{\textboxwidth}[0.5,1](0.5\paperwidth, 0.95\paperheight)`,
		`\raggedright draft~copy`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q", want)
		}
	}
}

func TestRenderImages(t *testing.T) {
	t.Parallel()

	plan := &CompositionPlan{
		Images: []*InputDocument{{Path: `C:\scans\page.png`, Kind: KindImage}},
	}
	out := Render(plan)

	if !strings.Contains(out, `\includegraphics[width=\linewidth]{C:/scans/page.png}`) {
		t.Error("image figure was not rendered with forward slashes")
	}
	if !strings.Contains(out, `\begin{figure}`) {
		t.Error("image was not wrapped in a figure")
	}
}
