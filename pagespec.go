package pdfcompose

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPageSpec selects every page of the document.
const DefaultPageSpec = "-"

// specBound is one end of an unresolved range token.
type specBound struct {
	n    int  // explicit page number, valid when !open && !last
	open bool // omitted: defaults to first (start) or last (end) page
	last bool // the "last" keyword
}

// specToken is one unresolved token of a page spec.
type specToken struct {
	kind tokenKind
	a, b specBound // a only for single pages
}

// PageSpec is a parsed page-selection directive. Tokens are resolved
// against a concrete page count with Resolve.
type PageSpec struct {
	raw    string
	tokens []specToken
}

// ParsePageSpec parses a comma-separated page selection: page numbers,
// inclusive ranges m-n (either bound may be omitted or be the keyword
// "last"), and {} for a literal empty page. The empty string and "-"
// both select the whole document.
func ParsePageSpec(s string) (*PageSpec, error) {
	if s == "" {
		s = DefaultPageSpec
	}
	spec := &PageSpec{raw: s}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		tok, err := parseSpecToken(part)
		if err != nil {
			return nil, err
		}
		spec.tokens = append(spec.tokens, tok)
	}
	return spec, nil
}

func parseSpecToken(part string) (specToken, error) {
	if part == "{}" {
		return specToken{kind: tokenEmpty}, nil
	}
	if part == "" {
		return specToken{}, fmt.Errorf("%w: empty token", ErrBadPageSpec)
	}
	if i := strings.IndexByte(part, '-'); i >= 0 {
		a, err := parseSpecBound(part[:i])
		if err != nil {
			return specToken{}, fmt.Errorf("%w: %q", ErrBadPageSpec, part)
		}
		b, err := parseSpecBound(part[i+1:])
		if err != nil {
			return specToken{}, fmt.Errorf("%w: %q", ErrBadPageSpec, part)
		}
		return specToken{kind: tokenRange, a: a, b: b}, nil
	}
	bound, err := parseSpecBound(part)
	if err != nil || bound.open {
		return specToken{}, fmt.Errorf("%w: %q", ErrBadPageSpec, part)
	}
	return specToken{kind: tokenPage, a: bound}, nil
}

func parseSpecBound(s string) (specBound, error) {
	if s == "" {
		return specBound{open: true}, nil
	}
	if s == "last" {
		return specBound{last: true}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return specBound{}, err
	}
	return specBound{n: n}, nil
}

// Resolve materializes the spec against a concrete page count. An open
// range start resolves to page 1, an open range end and the "last"
// keyword resolve to pageCount. Any referenced page outside
// [1, pageCount] is a fatal error, never clamped.
func (s *PageSpec) Resolve(pageCount int) ([]PageToken, error) {
	var out []PageToken
	for _, tok := range s.tokens {
		switch tok.kind {
		case tokenEmpty:
			out = append(out, EmptyRef())
		case tokenPage:
			n := resolveBound(tok.a, pageCount, 1)
			if err := checkPage(n, pageCount, s.raw); err != nil {
				return nil, err
			}
			out = append(out, PageRef(n))
		case tokenRange:
			a := resolveBound(tok.a, pageCount, 1)
			b := resolveBound(tok.b, pageCount, pageCount)
			if err := checkPage(a, pageCount, s.raw); err != nil {
				return nil, err
			}
			if err := checkPage(b, pageCount, s.raw); err != nil {
				return nil, err
			}
			out = append(out, RangeRef(a, b))
		}
	}
	return out, nil
}

func resolveBound(b specBound, pageCount, whenOpen int) int {
	switch {
	case b.open:
		return whenOpen
	case b.last:
		return pageCount
	}
	return b.n
}

func checkPage(n, pageCount int, raw string) error {
	if n < 1 || n > pageCount {
		return fmt.Errorf("%w: page %d in %q, document has %d pages", ErrPageOutOfRange, n, raw, pageCount)
	}
	return nil
}

// FormatTokens renders a resolved sequence back into page-selection
// syntax. Resolving the result against the same page count yields a
// pairwise-equal sequence.
func FormatTokens(tokens []PageToken) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}
