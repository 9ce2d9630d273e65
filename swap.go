package pdfcompose

import (
	"fmt"
	"strconv"
	"strings"
)

// SwapSpec is a set of disjoint page pairs to exchange within one
// document, e.g. "1,5;6,9" swaps page 1 with 5 and page 6 with 9.
type SwapSpec struct {
	pairs [][2]int
}

// ParseSwapSpec parses a semicolon-separated list of comma-separated
// page pairs. Syntax only; disjointness and bounds are checked against
// the page count when the sequence is built.
func ParseSwapSpec(s string) (*SwapSpec, error) {
	spec := &SwapSpec{}
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		fields := strings.Split(part, ",")
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: %q is not a page pair", ErrBadSwapSpec, part)
		}
		a, errA := strconv.Atoi(strings.TrimSpace(fields[0]))
		b, errB := strconv.Atoi(strings.TrimSpace(fields[1]))
		if errA != nil || errB != nil {
			return nil, fmt.Errorf("%w: %q is not a page pair", ErrBadSwapSpec, part)
		}
		spec.pairs = append(spec.pairs, [2]int{a, b})
	}
	return spec, nil
}

// Pairs returns a copy of the parsed page pairs.
func (s *SwapSpec) Pairs() [][2]int {
	out := make([][2]int, len(s.pairs))
	copy(out, s.pairs)
	return out
}

// sequence builds the swapped page sequence for a document of
// pageCount pages: the identity ordering over [min, max] of all pair
// endpoints with each pair's positions exchanged, bracketed by compact
// range tokens for the untouched prefix and suffix.
//
// Disjointness is checked before bounds, and the lower bound before
// the upper one.
func (s *SwapSpec) sequence(pageCount int) ([]PageToken, error) {
	seen := make(map[int]bool)
	for _, pair := range s.pairs {
		for _, p := range pair {
			if seen[p] {
				return nil, fmt.Errorf("%w: page %d", ErrSwapOverlap, p)
			}
			seen[p] = true
		}
	}
	min, max := s.pairs[0][0], s.pairs[0][0]
	for _, pair := range s.pairs {
		for _, p := range pair {
			if p < min {
				min = p
			}
			if p > max {
				max = p
			}
		}
	}
	if min < 1 {
		return nil, fmt.Errorf("%w: page %d", ErrSwapOutOfRange, min)
	}
	if max > pageCount {
		return nil, fmt.Errorf("%w: page %d, document has %d pages", ErrSwapOutOfRange, max, pageCount)
	}

	span := make([]int, max-min+1)
	for i := range span {
		span[i] = min + i
	}
	for _, pair := range s.pairs {
		ai, bi := pair[0]-min, pair[1]-min
		span[ai], span[bi] = span[bi], span[ai]
	}

	var out []PageToken
	if min > 1 {
		out = append(out, RangeRef(1, min-1))
	}
	for _, p := range span {
		out = append(out, PageRef(p))
	}
	if max < pageCount {
		out = append(out, RangeRef(max+1, pageCount))
	}
	return out, nil
}
