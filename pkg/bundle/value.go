package bundle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/acronis/go-ftl/pkg/plural"
)

// Args are the variables passed to Format. Accepted values are strings, all integer
// and floating point kinds, Value implementations, time.Time and fmt.Stringer.
type Args map[string]any

// Value is the result of evaluating an expression.
type Value interface {
	// Format returns the text of the value for the locale of the printer.
	Format(p *message.Printer) string
}

// StringValue is a text value.
type StringValue string

func (v StringValue) Format(_ *message.Printer) string {
	return string(v)
}

// defaultMaxFractionDigits is used when NumberOptions do not set a maximum.
const defaultMaxFractionDigits = 3

// NumberOptions control how a NumberValue is displayed and which plural rules apply.
type NumberOptions struct {
	MinimumFractionDigits int
	// MaximumFractionDigits is used when positive, otherwise 3.
	// Set RoundToInteger to show no fraction at all.
	MaximumFractionDigits int
	RoundToInteger        bool
	NoGrouping            bool
	Ordinal               bool
}

func (o NumberOptions) fractionRange() (minDigits, maxDigits int) {
	minDigits = max(o.MinimumFractionDigits, 0)
	switch {
	case o.RoundToInteger:
		maxDigits = 0
	case o.MaximumFractionDigits > 0:
		maxDigits = o.MaximumFractionDigits
	default:
		maxDigits = defaultMaxFractionDigits
	}
	if minDigits > maxDigits {
		maxDigits = minDigits
	}
	return minDigits, maxDigits
}

// NumberValue is a numeric value with its display options.
type NumberValue struct {
	Value   float64
	Options NumberOptions
}

// Number returns a NumberValue with default options.
func Number(v float64) NumberValue {
	return NumberValue{Value: v}
}

// Format renders the number with locale-specific separators.
func (v NumberValue) Format(p *message.Printer) string {
	if math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
		return strconv.FormatFloat(v.Value, 'f', -1, 64)
	}
	minDigits, maxDigits := v.Options.fractionRange()
	opts := []number.Option{
		number.MinFractionDigits(minDigits),
		number.MaxFractionDigits(maxDigits),
	}
	if v.Options.NoGrouping {
		opts = append(opts, number.NoSeparator())
	}
	return p.Sprint(number.Decimal(v.Value, opts...))
}

// Decimal returns the number as shown, in plain notation without grouping.
// Plural operands are computed from it.
func (v NumberValue) Decimal() string {
	minDigits, maxDigits := v.Options.fractionRange()
	s := strconv.FormatFloat(v.Value, 'f', maxDigits, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s
	}
	for len(s)-dot-1 > minDigits && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return strings.TrimSuffix(s, ".")
}

// Category returns the plural category of the number in the locale.
func (v NumberValue) Category(tag language.Tag) plural.Category {
	ops, err := plural.OperandsOf(v.Decimal())
	if err != nil {
		return plural.Other
	}
	return plural.Match(tag, ops, v.Options.Ordinal)
}

// NoneValue stands for a value that could not be resolved. It is displayed as its
// fallback text wrapped in braces.
type NoneValue struct {
	Fallback string
}

func (v NoneValue) Format(_ *message.Printer) string {
	if v.Fallback == "" {
		return "{???}"
	}
	return "{" + v.Fallback + "}"
}

func numberLiteral(s string) (NumberValue, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NumberValue{}, fmt.Errorf("parse number literal %q: %w", s, err)
	}
	var digits int
	if _, frac, ok := strings.Cut(s, "."); ok {
		digits = len(frac)
	}
	return NumberValue{Value: f, Options: NumberOptions{MinimumFractionDigits: digits}}, nil
}

func toValue(arg any) (Value, error) {
	switch v := arg.(type) {
	case Value:
		return v, nil
	case string:
		return StringValue(v), nil
	case int:
		return Number(float64(v)), nil
	case int8:
		return Number(float64(v)), nil
	case int16:
		return Number(float64(v)), nil
	case int32:
		return Number(float64(v)), nil
	case int64:
		return Number(float64(v)), nil
	case uint:
		return Number(float64(v)), nil
	case uint8:
		return Number(float64(v)), nil
	case uint16:
		return Number(float64(v)), nil
	case uint32:
		return Number(float64(v)), nil
	case uint64:
		return Number(float64(v)), nil
	case float32:
		return Number(float64(v)), nil
	case float64:
		return Number(v), nil
	case time.Time:
		return StringValue(v.Format(time.DateOnly)), nil
	case fmt.Stringer:
		return StringValue(v.String()), nil
	}
	return nil, &TypeError{Msg: fmt.Sprintf("unsupported argument type %T", arg)}
}
