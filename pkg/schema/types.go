/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Schema model for inferred JSON structure. A Type is a tagged variant over
primitive, array, object and union shapes; a Node pairs a Type with an optionality flag.
Schemas are treated as immutable values: every operation builds new nodes.
*/

package schema

import "sort"

// PrimitiveKind is one of the four scalar JSON kinds
type PrimitiveKind string

const (
	KindString  PrimitiveKind = "string"
	KindNumber  PrimitiveKind = "number"
	KindBoolean PrimitiveKind = "boolean"
	KindNull    PrimitiveKind = "null"
)

// Tag identifies the variant held by a Type
type Tag string

const (
	TagPrimitive Tag = "primitive"
	TagArray     Tag = "array"
	TagObject    Tag = "object"
	TagUnion     Tag = "union"
)

// Type is the inferred structural type of one JSON position.
// Exactly the fields matching Tag are populated.
type Type struct {
	Tag       Tag              `json:"kind"`
	Primitive PrimitiveKind    `json:"type,omitempty"`
	Items     *Node            `json:"itemSchema,omitempty"`
	Fields    map[string]*Node `json:"fields,omitempty"`
	Members   []Type           `json:"members,omitempty"`
}

// Node is a Type plus whether the position was absent in at least one merged sample
type Node struct {
	Type     Type `json:"type"`
	Optional bool `json:"optional"`
}

// PrimitiveType builds a scalar type
func PrimitiveType(kind PrimitiveKind) Type {
	return Type{Tag: TagPrimitive, Primitive: kind}
}

// ArrayType builds an array type over a single item schema
func ArrayType(items *Node) Type {
	return Type{Tag: TagArray, Items: items}
}

// ObjectType builds an object type. The map is copied.
func ObjectType(fields map[string]*Node) Type {
	cp := make(map[string]*Node, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Type{Tag: TagObject, Fields: cp}
}

// UnionType builds a union, dropping structurally duplicate members
func UnionType(members ...Type) Type {
	out := make([]Type, 0, len(members))
	for _, m := range members {
		out = addMember(out, m)
	}
	return Type{Tag: TagUnion, Members: out}
}

// addMember appends m unless an equal member is already present
func addMember(members []Type, m Type) []Type {
	for _, existing := range members {
		if Equal(existing, m) {
			return members
		}
	}
	return append(members, m)
}

// FieldNames returns the object's field names in lexical order
func (t Type) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// IsPrimitive reports whether the type is a scalar of the given kind
func (t Type) IsPrimitive(kind PrimitiveKind) bool {
	return t.Tag == TagPrimitive && t.Primitive == kind
}

// Equal compares two types structurally. Object field order never matters and union
// members are compared as sets.
func Equal(a, b Type) bool {
	if a.Tag != b.Tag {
		return false
	}

	switch a.Tag {
	case TagPrimitive:
		return a.Primitive == b.Primitive
	case TagArray:
		return NodeEqual(a.Items, b.Items)
	case TagObject:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for k, an := range a.Fields {
			bn, ok := b.Fields[k]
			if !ok || !NodeEqual(an, bn) {
				return false
			}
		}
		return true
	case TagUnion:
		return containsAll(a.Members, b.Members) && containsAll(b.Members, a.Members)
	}
	return false
}

func containsAll(haystack, needles []Type) bool {
	for _, n := range needles {
		found := false
		for _, h := range haystack {
			if Equal(h, n) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// NodeEqual compares two nodes, including their optional flags
func NodeEqual(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Optional == b.Optional && Equal(a.Type, b.Type)
}
