package pdfcompose

import (
	"fmt"
	"strconv"
	"strings"
)

// RotateSpec maps page numbers to rotation angles in degrees, e.g.
// "1=90;2=180". Applicable only when there is exactly one input PDF:
// the renderer cannot apply distinct angles inside a single multi-page
// inclusion, so the document is replayed once per page instead.
type RotateSpec struct {
	angles map[int]int
}

// ParseRotateSpec parses a semicolon-separated list of page=angle
// pairs.
func ParseRotateSpec(s string) (*RotateSpec, error) {
	spec := &RotateSpec{angles: make(map[int]int)}
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		page, angle, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a page=angle pair", ErrBadRotateSpec, part)
		}
		p, errP := strconv.Atoi(strings.TrimSpace(page))
		a, errA := strconv.Atoi(strings.TrimSpace(angle))
		if errP != nil || errA != nil {
			return nil, fmt.Errorf("%w: %q is not a page=angle pair", ErrBadRotateSpec, part)
		}
		spec.angles[p] = a
	}
	return spec, nil
}

// Angle returns the rotation for a page, if one is mapped.
func (s *RotateSpec) Angle(page int) (int, bool) {
	a, ok := s.angles[page]
	return a, ok
}

// sequence emits one single-page entry per document page, carrying the
// mapped rotation where present. Pages without a mapping are emitted
// unrotated; mapped pages outside the document are ignored, matching
// the selection never reaching them.
func (s *RotateSpec) sequence(pageCount int) []sequenceEntry {
	out := make([]sequenceEntry, 0, pageCount)
	for p := 1; p <= pageCount; p++ {
		entry := sequenceEntry{Token: PageRef(p)}
		if a, ok := s.angles[p]; ok {
			angle := a
			entry.Rotation = &angle
		}
		out = append(out, entry)
	}
	return out
}
