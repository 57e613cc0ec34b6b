package token

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind distinguishes string values from numeric values.
type Kind uint8

const (
	// KindInvalid is the zero Kind. A zero Value has this kind.
	KindInvalid Kind = iota
	// KindString is a string literal or a reference expression.
	KindString
	// KindNumber is a numeric literal.
	KindNumber
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "invalid"
	}
}

// Value is a token value: a string or a number.
//
// Numbers keep their source text ("16", "1.50", "1e3") so that a file can be
// loaded and written back without reformatting. Values are comparable with ==.
type Value struct {
	kind Kind
	text string
}

// String creates a string value.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Number creates a numeric value from its literal text. The text must be a
// valid JSON number; use [ParseNumber] when the input is untrusted.
func Number(literal string) Value {
	return Value{kind: KindNumber, text: literal}
}

// Float creates a numeric value from a float64 using the shortest
// representation that round-trips.
func Float(f float64) Value {
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// ParseNumber validates literal as a JSON number and returns it as a Value.
func ParseNumber(literal string) (Value, error) {
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || !json.Valid([]byte(literal)) {
		return Value{}, fmt.Errorf("invalid number literal %q", literal)
	}
	return Number(literal), nil
}

// Ref builds the reference expression that points at name.
func Ref(name string) Value {
	return String("{" + name + "}")
}

// ValueOf converts a decoded primitive into a Value. It accepts strings,
// json.Number and Go numeric types. Anything else (objects, arrays, booleans,
// nil) is not a token value and ValueOf reports false.
func ValueOf(x any) (Value, bool) {
	switch v := x.(type) {
	case string:
		return String(v), true
	case json.Number:
		return Number(v.String()), true
	case float64:
		return Float(v), true
	case float32:
		return Float(float64(v)), true
	case int:
		return Number(strconv.Itoa(v)), true
	case int64:
		return Number(strconv.FormatInt(v, 10)), true
	case uint64:
		return Number(strconv.FormatUint(v, 10)), true
	case Value:
		return v, v.kind != KindInvalid
	}
	return Value{}, false
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether v is the zero Value.
func (v Value) IsZero() bool { return v.kind == KindInvalid }

// IsString reports whether v is a string value.
func (v Value) IsString() bool { return v.kind == KindString }

// IsNumber reports whether v is a numeric value.
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// String returns the value as text: the string itself, or the number's
// literal. It is what the CSS generator writes after the colon.
func (v Value) String() string { return v.text }

// Float returns the numeric value. It reports false for strings.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IsReference reports whether v is a reference expression: a string that
// begins with "{" and ends with "}".
func (v Value) IsReference() bool {
	return v.kind == KindString && len(v.text) >= 2 &&
		strings.HasPrefix(v.text, "{") && strings.HasSuffix(v.text, "}")
}

// Reference returns the referenced token name, taken verbatim from between
// the braces. It reports false when v is not a reference expression.
func (v Value) Reference() (string, bool) {
	if !v.IsReference() {
		return "", false
	}
	return v.text[1 : len(v.text)-1], true
}

// Interface returns the value as a plain Go value suitable for encoding:
// a string or a json.Number. The zero Value returns nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.text
	case KindNumber:
		return json.Number(v.text)
	}
	return nil
}

// MarshalJSON encodes strings as JSON strings and numbers as their literal.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return marshalNoEscape(v.text)
	case KindNumber:
		return []byte(v.text), nil
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a JSON string or number. Other JSON types are
// rejected because they are not token values.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}
	val, ok := ValueOf(x)
	if !ok {
		return fmt.Errorf("token value must be a string or a number, got %s", data)
	}
	*v = val
	return nil
}

// marshalNoEscape encodes v as JSON without HTML escaping, so values such as
// "a > b" or "&" stay readable in exported files.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
