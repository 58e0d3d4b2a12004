package processor

import (
	"encoding/json"
	"strconv"
)

// Kind identifies the variant held by a Scalar.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Scalar is a flat cell value: string, number, bool or null.
// Numbers keep the decimal text they had in the source JSON.
type Scalar struct {
	text string
	kind Kind
	b    bool
}

// String returns a string scalar.
func String(s string) Scalar { return Scalar{kind: KindString, text: s} }

// Number returns a number scalar holding the literal n.
func Number(n json.Number) Scalar { return Scalar{kind: KindNumber, text: string(n)} }

// Bool returns a boolean scalar.
func Bool(b bool) Scalar { return Scalar{kind: KindBool, b: b} }

// Null returns the null scalar.
func Null() Scalar { return Scalar{} }

// Kind returns the variant.
func (s Scalar) Kind() Kind { return s.kind }

// String renders the value as a CSV field:
// strings verbatim, numbers as their source literal,
// booleans as true/false and null as an empty field.
func (s Scalar) String() string {
	switch s.kind {
	case KindString, KindNumber:
		return s.text
	case KindBool:
		return strconv.FormatBool(s.b)
	default:
		return ""
	}
}

// Truthy reports whether the value counts as present when used as a
// time period marker. Null, "", false and zero are not.
func (s Scalar) Truthy() bool {
	switch s.kind {
	case KindString:
		return s.text != ""
	case KindBool:
		return s.b
	case KindNumber:
		f, err := strconv.ParseFloat(s.text, 64)
		return err != nil || f != 0
	default:
		return false
	}
}
