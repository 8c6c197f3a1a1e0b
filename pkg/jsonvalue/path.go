/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: path.go
Description: Structural equality and dot-path resolution over JSON values.
*/

package jsonvalue

import "strings"

// Equal reports deep structural equality. Object key order is ignored, array order is not,
// and primitives must match in both kind and value.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case Number:
		return a.n == b.n
	case String:
		return a.s == b.s
	case Array:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for k, av := range a.fields {
			bv, ok := b.fields[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// SplitPath splits a dot-separated field path into its segments
func SplitPath(path string) []string {
	return strings.Split(path, ".")
}

// Resolve walks a dot-separated path through nested objects. The boolean is false when
// any step lands on a non-object or a missing key; a present null resolves to (null, true).
func Resolve(v Value, path string) (Value, bool) {
	return ResolveSegments(v, SplitPath(path))
}

// ResolveSegments is Resolve over pre-split segments
func ResolveSegments(v Value, segments []string) (Value, bool) {
	cur := v
	for _, seg := range segments {
		next, ok := cur.Field(seg)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}
