package table

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// comparator orders cell values: numbers numerically, strings by locale
// collation and everything else by the collation of its string form.
type comparator struct {
	collator *collate.Collator
}

func newComparator(tag language.Tag) *comparator {
	return &comparator{collator: collate.New(tag)}
}

// compare returns a negative number when a sorts before b, zero when they
// are equal and a positive number otherwise.
func (c *comparator) compare(a, b Value) int {
	if an, ok := numeric(a); ok {
		if bn, ok := numeric(b); ok {
			return compareNumbers(an, bn)
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return c.collator.CompareString(as, bs)
		}
	}
	return c.collator.CompareString(stringOf(a), stringOf(b))
}
