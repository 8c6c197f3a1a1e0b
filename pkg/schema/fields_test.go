/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fields_test.go
Description: Tests for the filterable and numeric field collectors.
*/

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCollectFilterableFields tests leaf collection across nested objects
func TestCollectFilterableFields(t *testing.T) {
	n := inferString(t, `[
		{"id":1,"name":"a","active":true,"meta":{"score":2.5,"note":null},"tags":["x"],"mixed":1,"shape":1},
		{"id":2,"name":"b","active":false,"meta":{"score":3},"tags":[],"mixed":"one","shape":{"k":1}}
	]`)

	fields := CollectFilterableFields(n.Type.Items)

	assert.Equal(t, []Field{
		{Path: "active", Kind: FieldBoolean},
		{Path: "id", Kind: FieldNumber},
		{Path: "meta.note", Kind: FieldUnknown, Optional: true},
		{Path: "meta.score", Kind: FieldNumber},
		{Path: "mixed", Kind: FieldUnknown},
		{Path: "name", Kind: FieldString},
	}, fields)
}

// TestCollectFilterableFieldsNonObject tests the empty results for unusable roots
func TestCollectFilterableFieldsNonObject(t *testing.T) {
	assert.Empty(t, CollectFilterableFields(nil))
	assert.Empty(t, CollectFilterableFields(inferString(t, `[{"a":1}]`)), "arrays are not traversed")
	assert.Empty(t, CollectFilterableFields(inferString(t, `5`)))
	assert.NotNil(t, CollectFilterableFields(nil))
}

// TestCollectOptionalParent tests that leaves under an optional object are optional
func TestCollectOptionalParent(t *testing.T) {
	n := inferString(t, `[{"id":1,"owner":{"login":"x"}},{"id":2}]`)
	fields := CollectFilterableFields(n.Type.Items)

	assert.Equal(t, []Field{
		{Path: "id", Kind: FieldNumber},
		{Path: "owner.login", Kind: FieldString, Optional: true},
	}, fields)
}

// TestNumericFieldPaths tests numeric path collection
func TestNumericFieldPaths(t *testing.T) {
	n := inferString(t, `[
		{"day":"Mon","temp":10,"wind":{"speed":4},"rain":null,"mixed":{"a":1},"counts":[1]},
		{"day":"Tue","temp":null,"wind":{"speed":5.5},"rain":0.2,"mixed":7,"counts":[2]}
	]`)

	assert.Equal(t, []string{"mixed", "rain", "temp", "wind.speed"}, NumericFieldPaths(n.Type.Items))
	assert.Empty(t, NumericFieldPaths(nil))
}
