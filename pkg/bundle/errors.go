package bundle

import (
	"fmt"
)

// ReferenceError is reported when a pattern refers to a variable, message, term,
// attribute or function that does not exist. Formatting continues with fallback text.
type ReferenceError struct {
	Kind string
	ID   string
}

// Reference kinds.
const (
	KindVariable  = "variable"
	KindMessage   = "message"
	KindTerm      = "term"
	KindAttribute = "attribute"
	KindFunction  = "function"
	KindValue     = "value"
)

func (e *ReferenceError) Error() string {
	if e.Kind == KindValue {
		return fmt.Sprintf("no value: %s", e.ID)
	}
	return fmt.Sprintf("unknown %s: %s", e.Kind, e.ID)
}

// CyclicReferenceError is reported when a message or term refers to itself, directly or
// through other entries.
type CyclicReferenceError struct {
	ID string
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("cyclic reference: %s", e.ID)
}

// RangeError is reported when a single Format call expands too many placeables.
// The whole result is replaced by a fallback.
type RangeError struct {
	Count int
	Limit int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("too many placeables expanded: %d, max allowed is %d", e.Count, e.Limit)
}

// TypeError is reported when an argument or a function result cannot be used.
type TypeError struct {
	Msg string
}

func (e *TypeError) Error() string {
	return e.Msg
}

// OverrideError is reported by AddResource for an ID that is already defined.
type OverrideError struct {
	ID   string
	Term bool
}

func (e *OverrideError) Error() string {
	if e.Term {
		return fmt.Sprintf("attempt to override an existing term: -%s", e.ID)
	}
	return fmt.Sprintf("attempt to override an existing message: %s", e.ID)
}
