/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: infer.go
Description: Schema inference and merging. Infer classifies a JSON value recursively;
Merge combines independently inferred samples into one schema, widening to unions and
marking fields optional when they are missing from some samples.
*/

package schema

import "github.com/kleascm/jsonlens/pkg/jsonvalue"

// Infer computes the schema of a single JSON value. It is total: null and empty
// containers have defined schemas.
//
// An empty array gets a string item schema as a placeholder, since there is no element to
// sample. Callers should not read meaning into that item type.
func Infer(v jsonvalue.Value) *Node {
	return &Node{Type: inferType(v)}
}

// InferAll merges the schemas of several samples, e.g. successive snapshots of one
// endpoint. It returns nil when no samples are given.
func InferAll(values ...jsonvalue.Value) *Node {
	var acc *Node
	for _, v := range values {
		n := Infer(v)
		if acc == nil {
			acc = n
			continue
		}
		acc = Merge(acc, n)
	}
	return acc
}

// inferType classifies a value and recurses into containers
func inferType(v jsonvalue.Value) Type {
	switch v.Kind() {
	case jsonvalue.Null:
		return PrimitiveType(KindNull)
	case jsonvalue.Bool:
		return PrimitiveType(KindBoolean)
	case jsonvalue.Number:
		return PrimitiveType(KindNumber)
	case jsonvalue.String:
		return PrimitiveType(KindString)
	case jsonvalue.Array:
		return inferArray(v.Items())
	case jsonvalue.Object:
		fields := make(map[string]*Node, v.Len())
		for _, k := range v.Keys() {
			f, _ := v.Field(k)
			fields[k] = Infer(f)
		}
		return Type{Tag: TagObject, Fields: fields}
	}
	return PrimitiveType(KindNull)
}

// inferArray folds the element schemas into a single item schema
func inferArray(items []jsonvalue.Value) Type {
	if len(items) == 0 {
		return ArrayType(&Node{Type: PrimitiveType(KindString)})
	}

	acc := Infer(items[0])
	for _, item := range items[1:] {
		acc = Merge(acc, Infer(item))
	}
	return ArrayType(acc)
}

// Merge combines two schema nodes into a new one; neither input is modified.
// The result is optional when either input is.
//
// Merge is commutative up to union member order. It is not associative in every case:
// a union built early in a fold is extended member by member rather than re-merged, so
// different groupings can yield differently shaped unions.
func Merge(a, b *Node) *Node {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return b
	case b == nil:
		return a
	}

	return &Node{
		Type:     mergeTypes(a.Type, b.Type),
		Optional: a.Optional || b.Optional,
	}
}

func mergeTypes(a, b Type) Type {
	if Equal(a, b) {
		return a
	}

	switch {
	case a.Tag == TagUnion:
		return extendUnion(a.Members, b)
	case b.Tag == TagUnion:
		return extendUnion(b.Members, a)
	case a.Tag == TagArray && b.Tag == TagArray:
		return ArrayType(Merge(a.Items, b.Items))
	case a.Tag == TagObject && b.Tag == TagObject:
		return mergeObjects(a.Fields, b.Fields)
	default:
		return UnionType(a, b)
	}
}

// extendUnion adds other (or each of its members, if it is itself a union) to a copy of
// members
func extendUnion(members []Type, other Type) Type {
	out := make([]Type, len(members), len(members)+1)
	copy(out, members)

	if other.Tag == TagUnion {
		for _, m := range other.Members {
			out = addMember(out, m)
		}
	} else {
		out = addMember(out, other)
	}
	return Type{Tag: TagUnion, Members: out}
}

// mergeObjects unions the key sets; keys seen on one side only become optional
func mergeObjects(a, b map[string]*Node) Type {
	fields := make(map[string]*Node, len(a)+len(b))

	for k, an := range a {
		if bn, ok := b[k]; ok {
			fields[k] = Merge(an, bn)
			continue
		}
		fields[k] = &Node{Type: an.Type, Optional: true}
	}
	for k, bn := range b {
		if _, ok := a[k]; ok {
			continue
		}
		fields[k] = &Node{Type: bn.Type, Optional: true}
	}

	return Type{Tag: TagObject, Fields: fields}
}
