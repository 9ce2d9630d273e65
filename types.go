package pdfcompose

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileKind is the closed classification of an input document,
// determined once at ingestion and carried on InputDocument thereafter.
type FileKind int

const (
	KindPDF FileKind = iota
	KindImage
)

// String returns the kind name for diagnostics.
func (k FileKind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindImage:
		return "image"
	}
	return "unknown"
}

// imageExtensions lists the accepted raster input extensions.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".png":  true,
	".bmp":  true,
}

// ClassifyFile determines the FileKind of a path from its extension.
// Unrecognized extensions are a fatal input error.
func ClassifyFile(path string) (FileKind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" {
		return KindPDF, nil
	}
	if imageExtensions[ext] {
		return KindImage, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFileType, path)
}

// InputDocument identifies one resolved input file. Immutable after
// creation; owned by the merger.
type InputDocument struct {
	Path string // absolute
	Kind FileKind
}

// BaseName returns the file name without directory or extension,
// as exposed to overlay templates via $filename.
func (d *InputDocument) BaseName() string {
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// tokenKind discriminates PageToken variants.
type tokenKind int

const (
	tokenPage tokenKind = iota
	tokenRange
	tokenEmpty
)

// PageToken is one resolved entry of a page sequence: a single source
// page, an inclusive page range (possibly descending), or a literal
// empty page.
type PageToken struct {
	kind tokenKind
	a, b int
}

// PageRef returns a token selecting a single source page.
func PageRef(n int) PageToken { return PageToken{kind: tokenPage, a: n} }

// RangeRef returns a token selecting the inclusive range a..b.
// a > b selects the pages in descending order.
func RangeRef(a, b int) PageToken { return PageToken{kind: tokenRange, a: a, b: b} }

// EmptyRef returns a token producing a blank output page.
func EmptyRef() PageToken { return PageToken{kind: tokenEmpty} }

// IsEmpty reports whether the token is a blank page.
func (t PageToken) IsEmpty() bool { return t.kind == tokenEmpty }

// IsRange reports whether the token is a page range.
func (t PageToken) IsRange() bool { return t.kind == tokenRange }

// Bounds returns the first and last source page of the token.
// Empty tokens have no bounds and return (0, 0).
func (t PageToken) Bounds() (int, int) {
	switch t.kind {
	case tokenPage:
		return t.a, t.a
	case tokenRange:
		return t.a, t.b
	}
	return 0, 0
}

// PhysicalPages returns the number of output pages the token emits.
// Empty tokens emit exactly one blank page.
func (t PageToken) PhysicalPages() int {
	switch t.kind {
	case tokenPage, tokenEmpty:
		return 1
	}
	if t.a > t.b {
		return t.a - t.b + 1
	}
	return t.b - t.a + 1
}

// String renders the token in page-selection syntax: "5", "3-7", "{}".
func (t PageToken) String() string {
	switch t.kind {
	case tokenEmpty:
		return "{}"
	case tokenPage:
		return fmt.Sprintf("%d", t.a)
	}
	return fmt.Sprintf("%d-%d", t.a, t.b)
}

// Directive selects how a document's page sequence is built. Exactly
// one variant is active per run; exclusivity is enforced upstream at
// configuration validation, not by the sequence builder.
type Directive interface {
	isDirective()
}

func (*PageSpec) isDirective()   {}
func (*SwapSpec) isDirective()   {}
func (*RotateSpec) isDirective() {}

// Decorations are the per-document plan decorations applied by the
// merger around each document's page sequence.
type Decorations struct {
	// WhitePage inserts a blank page after every source page.
	WhitePage bool
	// LastPageEven pads a document whose emitted physical page count
	// is odd with one trailing blank page.
	LastPageEven bool
}

// Instruction is the unit of the composition plan: one document
// reference, one resolved page token, an optional rotation, and the
// geometry and overlays active for the run. Instructions are never
// reordered after construction.
type Instruction struct {
	Doc      *InputDocument
	Pages    PageToken
	Rotation *int // nil means no rotation
	Geometry *Geometry
	Overlays []TextOverlay
}

// Section groups the instructions contributed by one input document.
type Section struct {
	Doc          *InputDocument
	Instructions []Instruction
}

// CompositionPlan is the ordered, write-once result of planning: one
// section per input PDF, image figures ahead of them, plus the
// run-wide options the renderer serializes field-for-field.
type CompositionPlan struct {
	Paper    string
	Booleans []string // pdfpages boolean options, e.g. fitpaper, landscape
	Custom   string   // raw extra pdfpages options, passed through
	Geometry *Geometry
	Overlays []TextOverlay
	Images   []*InputDocument
	Sections []Section
}

// Instructions returns the plan's instructions flattened in plan order.
func (p *CompositionPlan) Instructions() []Instruction {
	var out []Instruction
	for _, s := range p.Sections {
		out = append(out, s.Instructions...)
	}
	return out
}

// Landscape reports whether the landscape boolean option is active.
func (p *CompositionPlan) Landscape() bool {
	for _, b := range p.Booleans {
		if b == "landscape" {
			return true
		}
	}
	return false
}
