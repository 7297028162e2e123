/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package ftl

import (
	"fmt"
	"strings"

	"github.com/acronis/go-stacktrace"
)

// Error codes reported by the parser.
const (
	CodeExpectedEntry           = "E0002"
	CodeExpectedToken           = "E0003"
	CodeExpectedCharRange       = "E0004"
	CodeMessageWithoutValue     = "E0005"
	CodeTermWithoutValue        = "E0006"
	CodeCalleeNotUppercase      = "E0008"
	CodeNamedArgumentName       = "E0009"
	CodeMissingDefaultVariant   = "E0010"
	CodeMissingVariants         = "E0011"
	CodeMissingValue            = "E0012"
	CodeMissingVariantKey       = "E0013"
	CodeExpectedLiteral         = "E0014"
	CodeMultipleDefaultVariants = "E0015"
	CodeMessageAsSelector       = "E0016"
	CodeTermAsSelector          = "E0017"
	CodeMessageAttrAsSelector   = "E0018"
	CodeTermAttrAsPlaceable     = "E0019"
	CodeUnterminatedString      = "E0020"
	CodePositionalAfterNamed    = "E0021"
	CodeDuplicateNamedArgument  = "E0022"
	CodeInvalidUnicodeEscape    = "E0025"
	CodeInvalidEscape           = "E0026"
	CodeUnbalancedBrace         = "E0027"
	CodeExpectedInlineExpr      = "E0028"
)

// ParseError describes why an entry became Junk.
type ParseError struct {
	Code    string
	Message string
	Offset  int
	Line    int
	Column  int
}

// Error implements "error" interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s (line %d, column %d)", e.Code, e.Message, e.Line, e.Column)
}

// Errors collects annotations of all junk entries of the resource into a single error.
// It returns nil when the resource has no junk.
func (r *Resource) Errors() error {
	var msgs []string
	var list []*stacktrace.StackTrace
	for _, j := range r.Junk() {
		for _, a := range j.Annotations {
			msgs = append(msgs, a.Error())
			list = append(list, stacktrace.New(a.Error(),
				stacktrace.WithInfo("code", a.Code),
				stacktrace.WithInfo("line", a.Line),
				stacktrace.WithType("syntax")))
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	st := stacktrace.New(strings.Join(msgs, "; "), stacktrace.WithType("syntax"))
	for _, item := range list {
		_ = st.Append(item)
	}
	return st
}
