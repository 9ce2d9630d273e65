// Package pdfcompose assembles one or more PDF and image files into a
// single output PDF according to per-page layout directives: page
// selection, swap pairs, rotation maps, n-up tiling, trimming,
// offsetting, and text overlays.
//
// The heart of the package is the composition planner. Directives are
// resolved into a CompositionPlan, an ordered list of page-inclusion
// instructions with fully resolved geometry and rotations. The plan is
// a plain value: it can be built and inspected without touching any
// external tool. A separate pure renderer serializes the plan into
// LaTeX markup for the pdfpages package, and an engine driver compiles
// that markup with pdflatex using a fixed two-round protocol. Page
// counts are obtained from Ghostscript behind the PageCounter
// interface, so the planner never parses PDF content itself.
//
// Basic usage:
//
//	svc := pdfcompose.New()
//	err := svc.Compose(pdfcompose.ComposeInput{
//		Inputs:     []string{"a.pdf", "b.pdf"},
//		OutputPath: "merged.pdf",
//	})
//
// All validation failures are reported through sentinel errors declared
// in this package and can be tested with errors.Is.
package pdfcompose
