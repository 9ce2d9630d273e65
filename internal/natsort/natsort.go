// Package natsort orders file names the way humans expect: embedded
// numbers compare by value, so "page2.pdf" sorts before "page10.pdf".
package natsort

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator builds a numeric collator. Collators are not safe for
// concurrent use, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.Numeric)
}

// Sort orders names in place using natural ordering.
func Sort(names []string) {
	c := newCollator()
	sort.SliceStable(names, func(i, j int) bool {
		return c.CompareString(names[i], names[j]) < 0
	})
}

// Less reports whether a orders before b under natural ordering.
func Less(a, b string) bool {
	return newCollator().CompareString(a, b) < 0
}
