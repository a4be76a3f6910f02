// Package filter implements the backup-policy filter expression language:
// a total, side-effect-free boolean DSL evaluated against an entity's
// metadata bag.
package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindTuple
)

// Value is the tagged value type of the filter language: Null, Bool,
// Number (float64), String, or Tuple (ordered list of Value).
type Value struct {
	kind  Kind
	b     bool
	n     float64
	s     string
	tuple []Value
}

// Null is the absent/unknown value.
var Null = Value{kind: KindNull}

// Bool constructs a Bool value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number constructs a Number value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Int constructs a Number value from an integer.
func Int(n int) Value { return Number(float64(n)) }

// String constructs a String value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Tuple constructs a Tuple value from its elements.
func Tuple(vs ...Value) Value { return Value{kind: KindTuple, tuple: vs} }

// FromOptionalString maps an absent string to Null and a present one to String.
func FromOptionalString(s *string) Value {
	if s == nil {
		return Null
	}
	return String(*s)
}

// FromStrings builds a Tuple of Strings from a string slice.
func FromStrings(ss []string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return Tuple(vs...)
}

// Kind reports the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsTruthy implements the truthiness rules: Null is false,
// Bool is itself, Number is non-zero, String is non-empty, Tuple is
// non-empty.
func (v Value) IsTruthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0
	case KindString:
		return v.s != ""
	case KindTuple:
		return len(v.tuple) > 0
	default:
		return false
	}
}

// Equal implements structural equality: Strings compare ASCII
// case-insensitively, cross-variant comparisons are false except
// Null == Null.
func (v Value) Equal(o Value) bool {
	if v.kind == KindNull && o.kind == KindNull {
		return true
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return strings.EqualFold(v.s, o.s)
	case KindTuple:
		if len(v.tuple) != len(o.tuple) {
			return false
		}
		for i := range v.tuple {
			if !v.tuple[i].Equal(o.tuple[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Less reports whether v orders strictly before o. ok is false when
// the two values have no defined ordering (different variants, or
// both Null). Bools order false before true.
func (v Value) Less(o Value) (less bool, ok bool) {
	if v.kind != o.kind {
		return false, false
	}
	switch v.kind {
	case KindNumber:
		return v.n < o.n, true
	case KindString:
		return strings.ToLower(v.s) < strings.ToLower(o.s), true
	case KindTuple:
		if len(v.tuple) != len(o.tuple) {
			return len(v.tuple) < len(o.tuple), true
		}
		for i := range v.tuple {
			if !v.tuple[i].Equal(o.tuple[i]) {
				return v.tuple[i].Less(o.tuple[i])
			}
		}
		return false, true
	case KindBool:
		return !v.b && o.b, true
	default:
		return false, false
	}
}

// Contains implements the `contains` operator: for a Tuple receiver,
// true iff some element equals x; for a String receiver, case
// insensitive substring; any other shape mismatch yields false.
func (v Value) Contains(x Value) bool {
	switch v.kind {
	case KindTuple:
		for _, e := range v.tuple {
			if e.Equal(x) {
				return true
			}
		}
		return false
	case KindString:
		if x.kind != KindString {
			return false
		}
		return strings.Contains(strings.ToLower(v.s), strings.ToLower(x.s))
	default:
		return false
	}
}

// StartsWith implements the `startswith` operator (String receivers only).
func (v Value) StartsWith(x Value) bool {
	if v.kind != KindString || x.kind != KindString {
		return false
	}
	return strings.HasPrefix(strings.ToLower(v.s), strings.ToLower(x.s))
}

// EndsWith implements the `endswith` operator (String receivers only).
func (v Value) EndsWith(x Value) bool {
	if v.kind != KindString || x.kind != KindString {
		return false
	}
	return strings.HasSuffix(strings.ToLower(v.s), strings.ToLower(x.s))
}

// String renders the value the way a literal would be written back,
// quoting and escaping strings.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case KindString:
		var b strings.Builder
		b.WriteByte('"')
		for _, r := range v.s {
			switch r {
			case '"':
				b.WriteString(`\"`)
			case '\\':
				b.WriteString(`\\`)
			default:
				b.WriteRune(r)
			}
		}
		b.WriteByte('"')
		return b.String()
	case KindTuple:
		parts := make([]string, len(v.tuple))
		for i, e := range v.tuple {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("<unknown kind %d>", v.kind)
	}
}

// AsString returns the underlying string and whether v was a String.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsNumber returns the underlying number and whether v was a Number.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.n, true
}
