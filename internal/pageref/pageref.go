// Package pageref orders and validates folio page references of the form
// "<number><side>", e.g. "2a", "10b". Pages sort by the numeric part first,
// then side "a" before "b" before anything else, so "2a" < "2b" < "10a".
package pageref

import (
	"fmt"
	"sort"
	"strconv"
	"unicode"
)

// Parse splits a page reference into its numeric part and suffix.
func Parse(page string) (number int, suffix string, err error) {
	i := 0
	for i < len(page) && unicode.IsDigit(rune(page[i])) {
		i++
	}
	if i == 0 {
		return 0, "", fmt.Errorf("page reference %q has no numeric part", page)
	}
	number, err = strconv.Atoi(page[:i])
	if err != nil {
		return 0, "", fmt.Errorf("page reference %q: %w", page, err)
	}
	return number, page[i:], nil
}

func suffixRank(suffix string) int {
	switch suffix {
	case "a":
		return 0
	case "b":
		return 1
	default:
		return 2
	}
}

// Value maps a page reference onto a single sortable integer.
func Value(page string) (int, error) {
	number, suffix, err := Parse(page)
	if err != nil {
		return 0, err
	}
	return number*4 + suffixRank(suffix), nil
}

// Compare orders two page references. Unparseable references sort after
// valid ones so bad data surfaces at the end of a listing, not the front.
func Compare(a, b string) int {
	av, aerr := Value(a)
	bv, berr := Value(b)
	switch {
	case aerr != nil && berr != nil:
		return 0
	case aerr != nil:
		return 1
	case berr != nil:
		return -1
	case av < bv:
		return -1
	case av > bv:
		return 1
	}
	return 0
}

// Sort orders page references in place in reading order.
func Sort(pages []string) {
	sort.SliceStable(pages, func(i, j int) bool {
		return Compare(pages[i], pages[j]) < 0
	})
}

// Valid reports whether the reference parses and uses a known side suffix.
func Valid(page string) bool {
	_, suffix, err := Parse(page)
	return err == nil && suffixRank(suffix) < 2
}
