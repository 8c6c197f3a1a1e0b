/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: schema_test.go
Description: Tests for schema inference, merging, structural equality and rendering.
*/

package schema

import (
	"testing"

	"github.com/kleascm/jsonlens/pkg/jsonvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inferString(t *testing.T, s string) *Node {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	require.NoError(t, err)
	return Infer(v)
}

// TestInferPrimitives tests classification of scalar values
func TestInferPrimitives(t *testing.T) {
	cases := map[string]PrimitiveKind{
		`null`:    KindNull,
		`true`:    KindBoolean,
		`3.5`:     KindNumber,
		`"hello"`: KindString,
	}
	for input, want := range cases {
		n := inferString(t, input)
		assert.True(t, n.Type.IsPrimitive(want), "input %s", input)
		assert.False(t, n.Optional)
	}
}

// TestInferEmptyContainers tests the placeholder for empty arrays and empty objects
func TestInferEmptyContainers(t *testing.T) {
	arr := inferString(t, `[]`)
	require.Equal(t, TagArray, arr.Type.Tag)
	// An empty array has no elements to sample; the string item type is a placeholder.
	assert.True(t, arr.Type.Items.Type.IsPrimitive(KindString))

	obj := inferString(t, `{}`)
	assert.Equal(t, TagObject, obj.Type.Tag)
	assert.Empty(t, obj.Type.Fields)
}

// TestInferArrayMixedFieldTypes tests that differing field kinds widen to a union
func TestInferArrayMixedFieldTypes(t *testing.T) {
	n := inferString(t, `[{"a":1},{"a":"x"}]`)
	require.Equal(t, TagArray, n.Type.Tag)

	item := n.Type.Items
	require.Equal(t, TagObject, item.Type.Tag)

	a := item.Type.Fields["a"]
	require.NotNil(t, a)
	assert.False(t, a.Optional)
	assert.True(t, Equal(UnionType(PrimitiveType(KindNumber), PrimitiveType(KindString)), a.Type))
}

// TestInferArrayOptionalFields tests that keys missing from some elements become optional
func TestInferArrayOptionalFields(t *testing.T) {
	n := inferString(t, `[{"a":1},{"b":2}]`)
	item := n.Type.Items

	require.Len(t, item.Type.Fields, 2)
	assert.True(t, item.Type.Fields["a"].Optional)
	assert.True(t, item.Type.Fields["a"].Type.IsPrimitive(KindNumber))
	assert.True(t, item.Type.Fields["b"].Optional)
	assert.True(t, item.Type.Fields["b"].Type.IsPrimitive(KindNumber))
}

// TestInferNestedArrays tests item schemas of arrays of arrays
func TestInferNestedArrays(t *testing.T) {
	n := inferString(t, `{"grid":[[1,2],[3]],"tags":["a",null]}`)

	grid := n.Type.Fields["grid"]
	require.Equal(t, TagArray, grid.Type.Tag)
	require.Equal(t, TagArray, grid.Type.Items.Type.Tag)
	assert.True(t, grid.Type.Items.Type.Items.Type.IsPrimitive(KindNumber))

	tags := n.Type.Fields["tags"]
	assert.True(t, Equal(UnionType(PrimitiveType(KindString), PrimitiveType(KindNull)), tags.Type.Items.Type))
}

// TestInferUnionDeduplication tests that repeated shapes do not grow a union
func TestInferUnionDeduplication(t *testing.T) {
	n := inferString(t, `[1, "a", 2, "b", {"x":1}, {"x":2}, true]`)
	items := n.Type.Items.Type
	require.Equal(t, TagUnion, items.Tag)
	assert.Len(t, items.Members, 4)
}

// TestMergeIdempotent tests merge(a, a) == a for a range of schemas
func TestMergeIdempotent(t *testing.T) {
	samples := []string{
		`null`, `1`, `[]`, `{}`,
		`{"a":1,"b":{"c":[1,"x"]}}`,
		`[{"a":1},{"b":"x"},{"a":null}]`,
		`[1,"x",{"y":[true]}]`,
	}
	for _, s := range samples {
		n := inferString(t, s)
		assert.True(t, NodeEqual(n, Merge(n, n)), "sample %s", s)
	}
}

// TestMergeCommutative tests merge(a, b) == merge(b, a) up to union member order
func TestMergeCommutative(t *testing.T) {
	samples := []string{
		`null`, `1`, `"s"`, `[]`, `[1]`, `{}`,
		`{"a":1}`, `{"a":"x","b":true}`, `{"a":{"c":1}}`, `{"a":[{"d":1}]}`,
		`[1,"x"]`, `[{"a":1},{"a":"y"}]`,
	}
	for _, sa := range samples {
		for _, sb := range samples {
			a := inferString(t, sa)
			b := inferString(t, sb)
			ab := Merge(a, b)
			ba := Merge(b, a)
			assert.True(t, NodeEqual(ab, ba), "merge(%s, %s)", sa, sb)
		}
	}
}

// TestMergeDoesNotMutate tests that merge leaves both inputs untouched
func TestMergeDoesNotMutate(t *testing.T) {
	a := inferString(t, `{"a":1,"nested":{"x":1}}`)
	b := inferString(t, `{"b":"x","nested":{"y":2}}`)
	aCopy := inferString(t, `{"a":1,"nested":{"x":1}}`)
	bCopy := inferString(t, `{"b":"x","nested":{"y":2}}`)

	merged := Merge(a, b)
	require.NotNil(t, merged)

	assert.True(t, NodeEqual(aCopy, a))
	assert.True(t, NodeEqual(bCopy, b))
	assert.True(t, merged.Type.Fields["nested"].Type.Fields["x"].Optional)
	assert.False(t, a.Type.Fields["nested"].Type.Fields["x"].Optional)
}

// TestMergeKindRules tests each combination the merge handles
func TestMergeKindRules(t *testing.T) {
	num := &Node{Type: PrimitiveType(KindNumber)}
	str := &Node{Type: PrimitiveType(KindString)}
	obj := inferString(t, `{"a":1}`)
	arr := inferString(t, `[1]`)

	t.Run("primitive kinds", func(t *testing.T) {
		m := Merge(num, str)
		assert.True(t, Equal(UnionType(num.Type, str.Type), m.Type))
	})

	t.Run("object and array", func(t *testing.T) {
		m := Merge(obj, arr)
		assert.Equal(t, TagUnion, m.Type.Tag)
		assert.Len(t, m.Type.Members, 2)
	})

	t.Run("arrays merge items", func(t *testing.T) {
		m := Merge(arr, inferString(t, `["x"]`))
		require.Equal(t, TagArray, m.Type.Tag)
		assert.True(t, Equal(UnionType(num.Type, str.Type), m.Type.Items.Type))
	})

	t.Run("union absorbs member", func(t *testing.T) {
		u := &Node{Type: UnionType(num.Type, str.Type)}
		m := Merge(u, num)
		assert.True(t, Equal(u.Type, m.Type))

		m = Merge(&Node{Type: PrimitiveType(KindBoolean)}, u)
		assert.Len(t, m.Type.Members, 3)
	})

	t.Run("union with union", func(t *testing.T) {
		u1 := &Node{Type: UnionType(num.Type, str.Type)}
		u2 := &Node{Type: UnionType(str.Type, PrimitiveType(KindNull))}
		m := Merge(u1, u2)
		assert.True(t, Equal(UnionType(num.Type, str.Type, PrimitiveType(KindNull)), m.Type))
	})

	t.Run("optional is OR", func(t *testing.T) {
		opt := &Node{Type: PrimitiveType(KindNumber), Optional: true}
		assert.True(t, Merge(num, opt).Optional)
		assert.True(t, Merge(opt, num).Optional)
		assert.False(t, Merge(num, num).Optional)
	})
}

// TestInferAll tests merging of several response snapshots
func TestInferAll(t *testing.T) {
	assert.Nil(t, InferAll())

	n := InferAll(
		jsonvalue.MustParse(`{"id":1,"name":"a"}`),
		jsonvalue.MustParse(`{"id":2}`),
		jsonvalue.MustParse(`{"id":"3","name":"c"}`),
	)
	require.Equal(t, TagObject, n.Type.Tag)
	assert.False(t, n.Type.Fields["id"].Optional)
	assert.Equal(t, TagUnion, n.Type.Fields["id"].Type.Tag)
	assert.True(t, n.Type.Fields["name"].Optional)
}

// TestEqualIgnoresUnionOrder tests set semantics for union members
func TestEqualIgnoresUnionOrder(t *testing.T) {
	a := UnionType(PrimitiveType(KindNumber), PrimitiveType(KindString))
	b := UnionType(PrimitiveType(KindString), PrimitiveType(KindNumber))
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, UnionType(PrimitiveType(KindNumber))))
}

// TestRender tests the indented tree output
func TestRender(t *testing.T) {
	n := inferString(t, `[{"id":1,"user":{"name":"a"},"tags":["x"]},{"id":2,"user":{"name":"b","age":3},"tags":[]}]`)
	out := Render(n)

	assert.Contains(t, out, "array<object>\n")
	assert.Contains(t, out, "  id: number\n")
	assert.Contains(t, out, "  tags: array<string>\n")
	assert.Contains(t, out, "  user: object\n")
	assert.Contains(t, out, "    age?: number\n")
	assert.Contains(t, out, "    name: string\n")

	assert.Equal(t, "<none>\n", Render(nil))
	assert.Equal(t, "null | number", Describe(UnionType(PrimitiveType(KindNumber), PrimitiveType(KindNull))))
}
