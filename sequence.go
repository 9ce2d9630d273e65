package pdfcompose

import "fmt"

// sequenceEntry is one (page token, rotation) element produced by the
// sequence builder for a single document.
type sequenceEntry struct {
	Token    PageToken
	Rotation *int
}

// buildSequence produces the ordered page sequence of one document for
// the active directive. The directive is pre-selected upstream; this
// function does not enforce mutual exclusivity.
func buildSequence(directive Directive, pageCount int) ([]sequenceEntry, error) {
	switch d := directive.(type) {
	case *PageSpec:
		tokens, err := d.Resolve(pageCount)
		if err != nil {
			return nil, err
		}
		return plainEntries(tokens), nil
	case *SwapSpec:
		tokens, err := d.sequence(pageCount)
		if err != nil {
			return nil, err
		}
		return plainEntries(tokens), nil
	case *RotateSpec:
		return d.sequence(pageCount), nil
	}
	return nil, fmt.Errorf("unsupported directive %T", directive)
}

func plainEntries(tokens []PageToken) []sequenceEntry {
	out := make([]sequenceEntry, len(tokens))
	for i, t := range tokens {
		out[i] = sequenceEntry{Token: t}
	}
	return out
}
