// Package plural maps numbers to CLDR plural categories.
package plural

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// Category is a CLDR plural category.
type Category int

const (
	Zero Category = iota
	One
	Two
	Few
	Many
	Other
)

var categoryNames = [...]string{"zero", "one", "two", "few", "many", "other"}

func (c Category) String() string {
	if c < Zero || c > Other {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory returns the category named s.
func ParseCategory(s string) (Category, bool) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), true
		}
	}
	return Other, false
}

// maxFraction bounds the fraction digits passed to the rule engine.
const maxFraction = 9

// Operands are the CLDR plural operands of a decimal number.
//
//	N - absolute value
//	I - integer digits of N
//	V - number of visible fraction digits, with trailing zeros
//	W - number of visible fraction digits, without trailing zeros
//	F - visible fraction digits, with trailing zeros
//	T - visible fraction digits, without trailing zeros
type Operands struct {
	N float64
	I int
	V int
	W int
	F int
	T int
}

// OperandsOf computes the operands of a decimal literal such as "-1.50".
func OperandsOf(s string) (Operands, error) {
	var ops Operands
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ops, fmt.Errorf("parse number %q: %w", s, err)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return ops, fmt.Errorf("parse number %q: not a finite number", s)
	}
	ops.N = math.Abs(n)

	digits := strings.TrimLeft(s, "+-")
	if strings.Trim(digits, "0123456789.") != "" {
		// Exponent or hexadecimal notation.
		digits = strconv.FormatFloat(ops.N, 'f', -1, 64)
	}
	intPart, fracPart, _ := strings.Cut(digits, ".")
	ops.I = integerOperand(intPart)

	ops.V = len(fracPart)
	trimmed := strings.TrimRight(fracPart, "0")
	ops.W = len(trimmed)
	if len(fracPart) > maxFraction {
		fracPart = fracPart[:maxFraction]
	}
	if len(trimmed) > maxFraction {
		trimmed = trimmed[:maxFraction]
	}
	if fracPart != "" {
		ops.F, _ = strconv.Atoi(fracPart)
	}
	if trimmed != "" {
		ops.T, _ = strconv.Atoi(trimmed)
	}
	return ops, nil
}

// integerOperand parses the integer part. Values that do not fit keep their
// last 15 digits, which preserves every modulus the rules use.
func integerOperand(s string) int {
	if s == "" {
		return 0
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil || len(s) <= 15 {
		return int(i)
	}
	const keep = 15
	i, _ := strconv.ParseInt(s[len(s)-keep:], 10, 64)
	if i == 0 {
		i = 1_000_000_000_000_000
	}
	return int(i)
}

// FromFloat computes the operands of v shown with fractionDigits digits after the
// decimal point. A negative fractionDigits uses the shortest representation.
func FromFloat(v float64, fractionDigits int) Operands {
	ops, err := OperandsOf(strconv.FormatFloat(v, 'f', fractionDigits, 64))
	if err != nil {
		// NaN and infinities have no plural operands.
		return Operands{}
	}
	return ops
}

// Match returns the cardinal or ordinal category of the operands in the locale.
func Match(tag language.Tag, ops Operands, ordinal bool) Category {
	rules := plural.Cardinal
	if ordinal {
		rules = plural.Ordinal
	}
	return fromForm(rules.MatchPlural(tag, ops.I, ops.V, ops.W, ops.F, ops.T))
}

// Cardinal returns the cardinal category of value, e.g. "1 file" vs "2 files".
func Cardinal(tag language.Tag, value float64, fractionDigits int) Category {
	return Match(tag, FromFloat(value, fractionDigits), false)
}

// Ordinal returns the ordinal category of value, e.g. "1st" vs "2nd".
func Ordinal(tag language.Tag, value float64, fractionDigits int) Category {
	return Match(tag, FromFloat(value, fractionDigits), true)
}

var samples = func() []string {
	out := make([]string, 0, 1100)
	for i := 0; i <= 1000; i++ {
		out = append(out, strconv.Itoa(i))
	}
	out = append(out, "1000000", "0.0", "0.5", "1.0", "1.5", "2.5", "0.1", "1.1", "10.1", "100.1")
	return out
}()

// Categories returns the categories used by the locale, in CLDR order.
// They are found by probing a fixed set of integer and decimal samples.
func Categories(tag language.Tag, ordinal bool) []Category {
	return probe(tag, ordinal, ordinal)
}

// IntegerCategories returns the categories reachable by integer values only.
func IntegerCategories(tag language.Tag, ordinal bool) []Category {
	return probe(tag, ordinal, true)
}

func probe(tag language.Tag, ordinal, integersOnly bool) []Category {
	var seen [Other + 1]bool
	for _, s := range samples {
		ops, _ := OperandsOf(s)
		if integersOnly && ops.V > 0 {
			continue
		}
		seen[Match(tag, ops, ordinal)] = true
	}
	var out []Category
	for c, ok := range seen {
		if ok {
			out = append(out, Category(c))
		}
	}
	return out
}

func fromForm(f plural.Form) Category {
	switch f {
	case plural.Zero:
		return Zero
	case plural.One:
		return One
	case plural.Two:
		return Two
	case plural.Few:
		return Few
	case plural.Many:
		return Many
	default:
		return Other
	}
}
