/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/
package ftl

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func assertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("Values are not equal: expected=%#v actual=%#v", expected, actual)
	}
}

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func assertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Errorf("Expected error containing %q, but got nil", substr)
		return
	}
	if !strings.Contains(fmt.Sprint(err), substr) {
		t.Errorf("Expected error containing %q, got: %q", substr, err.Error())
	}
}

func assertPanics(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("Expected panic, but no panic occurred")
		}
	}()
	f()
}

func text(s string) *TextElement {
	return &TextElement{Value: s}
}

func pattern(elements ...PatternElement) *Pattern {
	return &Pattern{Elements: elements}
}

func placeable(expr Expression) *Placeable {
	return &Placeable{Expression: expr}
}

func variable(id string) *Placeable {
	return placeable(&VariableReference{ID: id})
}
