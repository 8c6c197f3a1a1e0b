/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: codec.go
Description: Decoding and encoding for the JSON value model. Parses JSON text while
keeping object key order, converts YAML documents and encoding/json trees, and writes
values back out as JSON.
*/

package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupported is returned when a Go value has no JSON equivalent
	ErrUnsupported = errors.New("unsupported value")
	// ErrTrailingData is returned when input holds more than one JSON value
	ErrTrailingData = errors.New("trailing data after JSON value")
)

// Parse decodes a single JSON document
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, ErrTrailingData
	}
	return v, nil
}

// decodeValue reads one value from the token stream
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return NumberValue(f), nil
	case json.Delim:
		switch t {
		case '[':
			items := make([]Value, 0)
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{kind: Array, items: items}, nil
		case '{':
			members := make([]Member, 0)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("expected object key, got %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				members = append(members, Member{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return ObjectValue(members...), nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// ParseYAML decodes a single YAML document into the JSON value model.
// Mapping keys are rendered as strings.
func ParseYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind == 0 {
		return NullValue(), nil
	}
	return fromYAMLNode(&doc)
}

func fromYAMLNode(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NullValue(), nil
		}
		return fromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := fromYAMLNode(c)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: Array, items: items}, nil
	case yaml.MappingNode:
		members := make([]Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			val, err := fromYAMLNode(n.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			members = append(members, Member{Key: n.Content[i].Value, Value: val})
		}
		return ObjectValue(members...), nil
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	default:
		return Value{}, fmt.Errorf("%w: yaml node kind %d", ErrUnsupported, n.Kind)
	}
}

func fromYAMLScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return NullValue(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, err
		}
		return NumberValue(f), nil
	default:
		return StringValue(n.Value), nil
	}
}

// FromInterface converts a tree produced by encoding/json (or built by hand from the same
// Go types) into a Value. Map keys are ordered lexically.
func FromInterface(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return t, nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case float64:
		return NumberValue(t), nil
	case float32:
		return NumberValue(float64(t)), nil
	case int:
		return NumberValue(float64(t)), nil
	case int32:
		return NumberValue(float64(t)), nil
	case int64:
		return NumberValue(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return NumberValue(f), nil
	case []any:
		items := make([]Value, 0, len(t))
		for _, e := range t {
			item, err := FromInterface(e)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: Array, items: items}, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, 0, len(keys))
		for _, k := range keys {
			val, err := FromInterface(t[k])
			if err != nil {
				return Value{}, err
			}
			members = append(members, Member{Key: k, Value: val})
		}
		return ObjectValue(members...), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupported, x)
	}
}

// MustParse is Parse for literals in tests and examples; it panics on error
func MustParse(s string) Value {
	v, err := Parse([]byte(s))
	if err != nil {
		panic(err)
	}
	return v
}

// MarshalJSON encodes the value, keeping object key order
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes JSON text into the value
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func encodeValue(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return fmt.Errorf("%w: number %v", ErrUnsupported, v.n)
		}
		buf.WriteString(formatNumber(v.n))
	case String:
		data, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(data)
	case Array:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := encodeValue(buf, v.fields[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}
