/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fields.go
Description: Field-path collectors. Walks an object schema and lists the scalar leaves
that filters and charts can address by dot path.
*/

package schema

import "sort"

// FieldKind is the predicate family a collected field supports
type FieldKind string

const (
	FieldString  FieldKind = "string"
	FieldNumber  FieldKind = "number"
	FieldBoolean FieldKind = "boolean"
	// FieldUnknown marks null leaves and all-primitive unions; no single predicate applies
	FieldUnknown FieldKind = "unknown"
)

// Field is one filterable scalar leaf
type Field struct {
	Path     string    `json:"path"`
	Kind     FieldKind `json:"kind"`
	Optional bool      `json:"optional"`
}

// CollectFilterableFields lists every scalar leaf reachable through nested objects.
// Arrays are not entered; pass an array's Items node to expose its element fields.
// A leaf is optional when it or any enclosing object field is optional.
// Results are sorted by path. A nil or non-object schema yields an empty list.
func CollectFilterableFields(root *Node) []Field {
	fields := make([]Field, 0)
	if root == nil || root.Type.Tag != TagObject {
		return fields
	}

	walkObject(root.Type, "", false, func(path string, n *Node, optional bool) {
		switch n.Type.Tag {
		case TagPrimitive:
			fields = append(fields, Field{Path: path, Kind: primitiveFieldKind(n.Type.Primitive), Optional: optional})
		case TagUnion:
			if allPrimitive(n.Type.Members) {
				fields = append(fields, Field{Path: path, Kind: FieldUnknown, Optional: optional})
			}
		}
	})

	sort.Slice(fields, func(i, j int) bool { return fields[i].Path < fields[j].Path })
	return fields
}

// NumericFieldPaths lists the paths whose type is number or a union containing number
func NumericFieldPaths(root *Node) []string {
	paths := make([]string, 0)
	if root == nil || root.Type.Tag != TagObject {
		return paths
	}

	walkObject(root.Type, "", false, func(path string, n *Node, _ bool) {
		if isNumeric(n.Type) {
			paths = append(paths, path)
		}
	})

	sort.Strings(paths)
	return paths
}

// walkObject visits every non-object field below t, recursing into nested objects
func walkObject(t Type, prefix string, parentOptional bool, visit func(path string, n *Node, optional bool)) {
	for _, name := range t.FieldNames() {
		n := t.Fields[name]
		if n == nil {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		optional := parentOptional || n.Optional

		if n.Type.Tag == TagObject {
			walkObject(n.Type, path, optional, visit)
			continue
		}
		visit(path, n, optional)
	}
}

func primitiveFieldKind(k PrimitiveKind) FieldKind {
	switch k {
	case KindString:
		return FieldString
	case KindNumber:
		return FieldNumber
	case KindBoolean:
		return FieldBoolean
	default:
		return FieldUnknown
	}
}

func allPrimitive(members []Type) bool {
	for _, m := range members {
		if m.Tag != TagPrimitive {
			return false
		}
	}
	return true
}

func isNumeric(t Type) bool {
	switch t.Tag {
	case TagPrimitive:
		return t.Primitive == KindNumber
	case TagUnion:
		for _, m := range t.Members {
			if m.IsPrimitive(KindNumber) {
				return true
			}
		}
	}
	return false
}
