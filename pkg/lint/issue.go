package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/acronis/go-stacktrace"
	"golang.org/x/text/language"
)

// Severity tells whether an issue fails the check.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Code identifies the kind of an issue.
type Code string

const (
	CodeMissingMessage   Code = "missing-message"
	CodeExtraMessage     Code = "extra-message"
	CodeEmptyMessage     Code = "empty-message"
	CodeDuplicateMessage Code = "duplicate-message"
	CodeMissingAttribute Code = "missing-attribute"
	CodeExtraAttribute   Code = "extra-attribute"
	CodeUnknownVariable  Code = "unknown-variable"
	CodeUnusedVariable   Code = "unused-variable"
	CodeUnknownReference Code = "unknown-reference"
	CodeSyntaxError      Code = "syntax-error"
	CodePluralCoverage   Code = "plural-coverage"
)

// Issue is a single finding. Key is empty for problems that are not bound to a
// message, such as syntax errors.
type Issue struct {
	Severity Severity
	Code     Code
	Locale   language.Tag
	Key      string
	Message  string
}

func (i Issue) String() string {
	key := i.Key
	if key == "" {
		key = "-"
	}
	return fmt.Sprintf("%s %s [%s] %s: %s", i.Severity, i.Locale, i.Code, key, i.Message)
}

// Report lists issues ordered by locale, key and code.
type Report struct {
	Issues []Issue
}

func (r *Report) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// Errors returns issues of error severity.
func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns issues of warning severity.
func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

// Count returns the number of issues with the code.
func (r *Report) Count(code Code) int {
	var n int
	for _, i := range r.Issues {
		if i.Code == code {
			n++
		}
	}
	return n
}

// Err aggregates error-severity issues. It returns nil when there are none.
func (r *Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}

	lines := make([]string, 0, len(errs))
	for _, i := range errs {
		lines = append(lines, i.String())
	}
	st := stacktrace.New(fmt.Sprintf("%d lint errors: %s", len(errs), strings.Join(lines, "; ")),
		stacktrace.WithType("lint"))
	for _, i := range errs {
		_ = st.Append(stacktrace.New(i.Message,
			stacktrace.WithInfo("locale", i.Locale.String()),
			stacktrace.WithInfo("key", i.Key),
			stacktrace.WithInfo("code", string(i.Code)),
			stacktrace.WithType("lint")))
	}
	return st
}

func (r *Report) sort(order map[language.Tag]int) {
	sort.SliceStable(r.Issues, func(a, b int) bool {
		x, y := r.Issues[a], r.Issues[b]
		if order[x.Locale] != order[y.Locale] {
			return order[x.Locale] < order[y.Locale]
		}
		if x.Key != y.Key {
			return x.Key < y.Key
		}
		return x.Code < y.Code
	})
}
