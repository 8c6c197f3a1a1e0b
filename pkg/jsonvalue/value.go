/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: value.go
Description: Sum-typed JSON value model used by every jsonlens component. Values are
immutable once built; objects remember key insertion order for stable output while
equality ignores it.
*/

package jsonvalue

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which of the six JSON shapes a Value holds
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns the JSON name of the kind
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is an immutable JSON value. The zero Value is JSON null.
type Value struct {
	kind   Kind
	b      bool
	n      float64
	s      string
	items  []Value
	keys   []string
	fields map[string]Value
}

// Member is a single key/value pair used to build objects in order
type Member struct {
	Key   string
	Value Value
}

// NullValue returns JSON null
func NullValue() Value {
	return Value{}
}

// BoolValue wraps a boolean
func BoolValue(b bool) Value {
	return Value{kind: Bool, b: b}
}

// NumberValue wraps a number
func NumberValue(n float64) Value {
	return Value{kind: Number, n: n}
}

// StringValue wraps a string
func StringValue(s string) Value {
	return Value{kind: String, s: s}
}

// ArrayValue builds an array from the given elements. The slice is copied.
func ArrayValue(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: Array, items: cp}
}

// ObjectValue builds an object from ordered members.
// A repeated key keeps its first position and its last value.
func ObjectValue(members ...Member) Value {
	v := Value{kind: Object, fields: make(map[string]Value, len(members))}
	for _, m := range members {
		if _, seen := v.fields[m.Key]; !seen {
			v.keys = append(v.keys, m.Key)
		}
		v.fields[m.Key] = m.Value
	}
	return v
}

// Kind returns the shape of the value
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is JSON null
func (v Value) IsNull() bool {
	return v.kind == Null
}

// AsBool returns the boolean payload and whether the value is a boolean
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == Bool
}

// AsNumber returns the numeric payload and whether the value is a number
func (v Value) AsNumber() (float64, bool) {
	return v.n, v.kind == Number
}

// AsString returns the string payload and whether the value is a string
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == String
}

// Len returns the element count of an array or the key count of an object
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.keys)
	default:
		return 0
	}
}

// Index returns the i-th array element
func (v Value) Index(i int) (Value, bool) {
	if v.kind != Array || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Items returns a copy of the array elements, or nil for non-arrays
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}
	cp := make([]Value, len(v.items))
	copy(cp, v.items)
	return cp
}

// Keys returns the object keys in insertion order, or nil for non-objects
func (v Value) Keys() []string {
	if v.kind != Object {
		return nil
	}
	cp := make([]string, len(v.keys))
	copy(cp, v.keys)
	return cp
}

// Field looks up an object member
func (v Value) Field(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	f, ok := v.fields[key]
	return f, ok
}

// String renders the value with Stringify
func (v Value) String() string {
	return Stringify(v)
}

// Stringify renders a value as text. Strings are returned verbatim, numbers in their
// shortest form, containers as compact JSON.
func Stringify(v Value) string {
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(v.b)
	case Number:
		return formatNumber(v.n)
	case String:
		return v.s
	default:
		data, err := v.MarshalJSON()
		if err != nil {
			return fmt.Sprintf("<%s>", v.kind)
		}
		return string(data)
	}
}

func formatNumber(n float64) string {
	abs := math.Abs(n)
	if n == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
