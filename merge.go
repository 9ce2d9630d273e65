package pdfcompose

import "fmt"

// PageCounter introspects the page count of a document. Implementations
// treat the document as a black box and may fail if it cannot be
// opened.
type PageCounter interface {
	PageCount(path string) (int, error)
}

// Merger concatenates per-document page sequences into one composition
// plan. It iterates documents strictly in the given order; sorting is
// the caller's concern.
type Merger struct {
	counter PageCounter
}

// NewMerger returns a merger using the given page counter.
func NewMerger(counter PageCounter) *Merger {
	return &Merger{counter: counter}
}

// MergeInput carries everything the merger needs to build a plan.
type MergeInput struct {
	Documents []*InputDocument // PDF inputs, in final order
	Images    []*InputDocument // image inputs, rendered as figures
	Directive Directive
	Geometry  *Geometry
	Overlays  []TextOverlay
	Decor     Decorations
	Paper     string
	Booleans  []string
	Custom    string
}

// Merge builds the composition plan. Page counts are queried only when
// the current document differs from the immediately preceding one, so
// a document repeated N times in a row costs one introspection call.
// Any fatal error aborts the merge with no partial plan.
func (m *Merger) Merge(in MergeInput) (*CompositionPlan, error) {
	if _, ok := in.Directive.(*RotateSpec); ok && len(in.Documents) != 1 {
		return nil, fmt.Errorf("%w: got %d", ErrRotateMultiDoc, len(in.Documents))
	}

	plan := &CompositionPlan{
		Paper:    in.Paper,
		Booleans: in.Booleans,
		Custom:   in.Custom,
		Geometry: in.Geometry,
		Overlays: in.Overlays,
		Images:   in.Images,
	}

	pageCount := 0
	for i, doc := range in.Documents {
		if i == 0 || doc.Path != in.Documents[i-1].Path {
			n, err := m.counter.PageCount(doc.Path)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrPageCount, doc.Path, err)
			}
			pageCount = n
		}

		entries, err := buildSequence(in.Directive, pageCount)
		if err != nil {
			return nil, err
		}
		entries = decorate(entries, in.Decor)

		section := Section{Doc: doc}
		for _, e := range entries {
			section.Instructions = append(section.Instructions, Instruction{
				Doc:      doc,
				Pages:    e.Token,
				Rotation: e.Rotation,
				Geometry: in.Geometry,
				Overlays: in.Overlays,
			})
		}
		plan.Sections = append(plan.Sections, section)
	}
	return plan, nil
}

// decorate applies the per-document decorations to a page sequence.
func decorate(entries []sequenceEntry, d Decorations) []sequenceEntry {
	if d.WhitePage {
		entries = interleaveBlanks(entries)
	}
	if d.LastPageEven {
		// Parity counts only the document's own emitted pages. Image
		// figures render ahead of all sections and never shift a
		// section's padding.
		if physicalCount(entries)%2 != 0 {
			entries = append(entries, sequenceEntry{Token: EmptyRef()})
		}
	}
	return entries
}

// interleaveBlanks inserts a blank page after every source page.
// Ranges are expanded so each source page gets its own blank; existing
// blanks are not source pages and gain nothing.
func interleaveBlanks(entries []sequenceEntry) []sequenceEntry {
	var out []sequenceEntry
	for _, e := range entries {
		if e.Token.IsEmpty() {
			out = append(out, e)
			continue
		}
		a, b := e.Token.Bounds()
		step := 1
		if a > b {
			step = -1
		}
		for p := a; ; p += step {
			out = append(out,
				sequenceEntry{Token: PageRef(p), Rotation: e.Rotation},
				sequenceEntry{Token: EmptyRef()},
			)
			if p == b {
				break
			}
		}
	}
	return out
}

// physicalCount is the number of output pages a sequence emits. Parity
// padding is computed from emitted positions, not source page numbers.
func physicalCount(entries []sequenceEntry) int {
	n := 0
	for _, e := range entries {
		n += e.Token.PhysicalPages()
	}
	return n
}
