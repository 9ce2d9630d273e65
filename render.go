package pdfcompose

import (
	"fmt"
	"strconv"
	"strings"
)

// pageStyle is the fancyhdr page style carrying the text overlays.
const pageStyle = "composestyle"

// Render serializes a composition plan into the markup the typesetting
// engine consumes. Pure: the plan is read-only and no external tool is
// involved, so plans are testable without compiling anything.
func Render(plan *CompositionPlan) string {
	var sb strings.Builder

	sb.WriteString(`\documentclass`)
	if plan.Paper != "" {
		sb.WriteString("[" + plan.Paper + "]")
	}
	sb.WriteString("{article}\n")
	sb.WriteString(`\usepackage[utf8x]{inputenc}` + "\n")
	// grffile must load before pdfpages to keep odd file names working.
	sb.WriteString(`\usepackage{grffile}` + "\n")
	sb.WriteString(`\usepackage{pdfpages, lastpage, fancyhdr, forloop, geometry, calc, graphicx}` + "\n")
	sb.WriteString(`\usepackage[absolute]{textpos}` + "\n")
	sb.WriteString(`\usepackage{changepage}` + "\n")
	sb.WriteString(`\strictpagecheck` + "\n")
	sb.WriteString(`\newsavebox{\mybox}` + "\n")
	sb.WriteString(`\newlength{\pdfwidth}` + "\n")
	sb.WriteString(`\newlength{\pdfheight}` + "\n")
	sb.WriteString(`\newsavebox{\textbox}` + "\n")
	sb.WriteString(`\newlength{\textboxwidth}` + "\n")

	renderPageStyle(&sb, plan.Overlays)

	sb.WriteString(`\begin{document}` + "\n")

	for _, img := range plan.Images {
		sb.WriteString("\t" + `\begin{figure}` + "\n")
		sb.WriteString("\t" + `\includegraphics[width=\linewidth]{` + texPath(img.Path) + "}\n")
		sb.WriteString("\t" + `\end{figure}` + "\n")
	}

	for _, section := range plan.Sections {
		renderSection(&sb, plan, section)
	}

	sb.WriteString(`\end{document}` + "\n")
	return sb.String()
}

// renderPageStyle emits the fancyhdr style holding one positioned text
// block per overlay. Positions are fractions of the output page
// measured from the unrotated top-left corner.
func renderPageStyle(sb *strings.Builder, overlays []TextOverlay) {
	sb.WriteString(`\fancypagestyle{` + pageStyle + "}{\n")
	sb.WriteString("\t" + `\fancyhf{}` + "\n")
	sb.WriteString("\t" + `\renewcommand{\headrulewidth}{0pt}` + "\n")
	sb.WriteString("\t" + `\renewcommand{\footrulewidth}{0pt}` + "\n")
	for _, o := range overlays {
		sb.WriteString("\t" + `\savebox{\textbox}{` + o.Content + "}\n")
		sb.WriteString("\t" + `\settowidth{\textboxwidth}{\usebox{\textbox}}` + "\n")
		sb.WriteString("\t" + `\begin{textblock*}{\textboxwidth}`)
		sb.WriteString(fmt.Sprintf("[%s,%s]", formatFloat(o.AnchorH), formatFloat(o.AnchorV)))
		sb.WriteString(fmt.Sprintf(`(%s\paperwidth, %s\paperheight)`+"\n", formatFloat(o.HPos), formatFloat(o.VPos)))
		sb.WriteString("\t\t" + `\raggedright ` + o.Content + "\n")
		sb.WriteString("\t" + `\end{textblock*}` + "\n")
	}
	sb.WriteString("}\n")
}

// renderSection emits the inclusion commands for one document.
// Consecutive instructions sharing a rotation collapse into a single
// inclusion with a joined pages list; rotate-mode plans keep one
// inclusion per page, the only way the engine applies distinct angles.
func renderSection(sb *strings.Builder, plan *CompositionPlan, section Section) {
	path := texPath(section.Doc.Path)

	if plan.Geometry != nil && plan.Geometry.FractionalTrim() {
		// Fractional trim is relative to the source page, measured on
		// its first page.
		sb.WriteString("\t" + `\savebox{\mybox}{\includegraphics{\detokenize{` + path + "}}}\n")
		sb.WriteString("\t" + `\settowidth{\pdfwidth}{\usebox{\mybox}}` + "\n")
		sb.WriteString("\t" + `\settoheight{\pdfheight}{\usebox{\mybox}}` + "\n")
	}

	for start := 0; start < len(section.Instructions); {
		end := start + 1
		for end < len(section.Instructions) &&
			sameRotation(section.Instructions[end].Rotation, section.Instructions[start].Rotation) {
			end++
		}
		tokens := make([]PageToken, 0, end-start)
		for _, inst := range section.Instructions[start:end] {
			tokens = append(tokens, inst.Pages)
		}
		renderInclude(sb, plan, path, FormatTokens(tokens), section.Instructions[start].Rotation)
		start = end
	}
}

// renderInclude emits one \includepdf command.
func renderInclude(sb *strings.Builder, plan *CompositionPlan, path, pages string, rotation *int) {
	g := plan.Geometry

	sb.WriteString("\t" + `\includepdf[keepaspectratio, pages=` + pages)
	if g != nil {
		if g.Tiled() {
			// pdfpages wants the grid as columns x rows.
			sb.WriteString(fmt.Sprintf(",nup=%dx%d", g.Cols, g.Rows))
		}
		if g.HasDelta() {
			sb.WriteString(",delta=" + g.Delta[0] + " " + g.Delta[1])
		}
		if g.HasOffset() {
			sb.WriteString(",offset=" + g.Offset[0] + " " + g.Offset[1])
		}
		if g.HasTrim {
			sb.WriteString(",trim={" + g.TrimString() + "}")
		}
		if g.Scale != 0 {
			sb.WriteString(",noautoscale, scale=" + formatFloat(g.Scale))
		}
		if g.Width != 0 {
			sb.WriteString(",width=" + formatFloat(g.Width) + `\paperwidth`)
		}
		if g.Height != 0 {
			sb.WriteString(",height=" + formatFloat(g.Height) + `\paperheight`)
		}
	}
	sb.WriteString(`,pagecommand=\thispagestyle{` + pageStyle + "}")
	for _, b := range plan.Booleans {
		sb.WriteString("," + b)
	}
	if plan.Custom != "" {
		sb.WriteString("," + plan.Custom)
	}
	if rotation != nil {
		sb.WriteString(",angle=" + strconv.Itoa(*rotation))
	}
	sb.WriteString(`]{\detokenize{` + path + "}}\n")
}

func sameRotation(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// texPath normalizes a file path for the engine, which wants forward
// slashes on every platform.
func texPath(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
