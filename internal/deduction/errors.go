package deduction

import (
	"fmt"
	"strings"
)

// AmbiguousInitializerListError is the single failure the evaluator can
// report: a brace-enclosed initializer whose elements do not share one type,
// or an empty list with no element type at all. It is returned, never
// panicked, since it models a compile-time diagnostic rather than a runtime
// fault.
type AmbiguousInitializerListError struct {
	// Elems are the element type tags of the offending list.
	Elems []string
}

func (e *AmbiguousInitializerListError) Error() string {
	if len(e.Elems) == 0 {
		return "ambiguous initializer list: empty list has no common element type"
	}

	return fmt.Sprintf("ambiguous initializer list: elements do not share a single type: {%s}",
		strings.Join(e.Elems, ", "))
}
