/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: value_test.go
Description: Tests for the JSON value model: parsing, key order, equality, path
resolution and stringification.
*/

package jsonvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseKeepsKeyOrder tests that object keys come back in document order
func TestParseKeepsKeyOrder(t *testing.T) {
	v, err := Parse([]byte(`{"zeta": 1, "alpha": {"y": true, "b": null}, "mid": [1, "two"]}`))
	require.NoError(t, err)

	assert.Equal(t, Object, v.Kind())
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, v.Keys())

	alpha, ok := v.Field("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, alpha.Keys())

	data, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":{"y":true,"b":null},"mid":[1,"two"]}`, string(data))
}

// TestParseRejectsBadInput tests malformed and trailing input
func TestParseRejectsBadInput(t *testing.T) {
	_, err := Parse([]byte(`{"a": }`))
	assert.Error(t, err)

	_, err = Parse([]byte(`1 2`))
	assert.ErrorIs(t, err, ErrTrailingData)

	_, err = Parse([]byte(``))
	assert.Error(t, err)
}

// TestParseYAML tests YAML documents mapping onto the same model
func TestParseYAML(t *testing.T) {
	v, err := ParseYAML([]byte("name: widget\ncount: 3\nratio: 0.5\nenabled: true\nmissing: ~\ntags:\n  - a\n  - b\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "count", "ratio", "enabled", "missing", "tags"}, v.Keys())
	want := MustParse(`{"name":"widget","count":3,"ratio":0.5,"enabled":true,"missing":null,"tags":["a","b"]}`)
	assert.True(t, Equal(want, v))
}

// TestFromInterface tests conversion from encoding/json trees
func TestFromInterface(t *testing.T) {
	v, err := FromInterface(map[string]any{
		"b": []any{1, 2.5, "x", nil, true},
		"a": map[string]any{"n": int64(7)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v.Keys())
	assert.True(t, Equal(MustParse(`{"a":{"n":7},"b":[1,2.5,"x",null,true]}`), v))

	_, err = FromInterface(struct{}{})
	assert.ErrorIs(t, err, ErrUnsupported)
}

// TestEqual tests structural equality rules
func TestEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want bool
	}{
		{"key order ignored", `{"a":1,"b":2}`, `{"b":2,"a":1}`, true},
		{"array order matters", `[1,2]`, `[2,1]`, false},
		{"number vs string", `1`, `"1"`, false},
		{"null vs false", `null`, `false`, false},
		{"nested", `{"a":[{"x":null}]}`, `{"a":[{"x":null}]}`, true},
		{"extra key", `{"a":1}`, `{"a":1,"b":1}`, false},
		{"array vs object", `[]`, `{}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Equal(MustParse(tc.a), MustParse(tc.b)))
		})
	}
}

// TestResolve tests dot-path resolution and the not-found signal
func TestResolve(t *testing.T) {
	rec := MustParse(`{"user":{"name":"Ada","age":0,"tags":["x"],"nick":null}}`)

	v, ok := Resolve(rec, "user.name")
	require.True(t, ok)
	s, _ := v.AsString()
	assert.Equal(t, "Ada", s)

	v, ok = Resolve(rec, "user.nick")
	assert.True(t, ok)
	assert.True(t, v.IsNull())

	_, ok = Resolve(rec, "user.missing")
	assert.False(t, ok)

	_, ok = Resolve(rec, "user.tags.0")
	assert.False(t, ok, "arrays are not traversed")

	_, ok = Resolve(rec, "user.name.first")
	assert.False(t, ok)

	_, ok = Resolve(MustParse(`[1]`), "a")
	assert.False(t, ok)
}

// TestStringify tests text rendering of every kind
func TestStringify(t *testing.T) {
	assert.Equal(t, "null", Stringify(NullValue()))
	assert.Equal(t, "true", Stringify(BoolValue(true)))
	assert.Equal(t, "10", Stringify(NumberValue(10)))
	assert.Equal(t, "0.25", Stringify(NumberValue(0.25)))
	assert.Equal(t, "1e+21", Stringify(NumberValue(1e21)))
	assert.Equal(t, "Mon", Stringify(StringValue("Mon")))
	assert.Equal(t, `{"a":[1,2]}`, Stringify(MustParse(`{"a":[1,2]}`)))
}

// TestImmutability tests that accessors hand out copies
func TestImmutability(t *testing.T) {
	arr := MustParse(`[1,2,3]`)
	items := arr.Items()
	items[0] = StringValue("changed")
	first, _ := arr.Index(0)
	n, ok := first.AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 1.0, n)

	obj := MustParse(`{"a":1}`)
	keys := obj.Keys()
	keys[0] = "b"
	assert.Equal(t, []string{"a"}, obj.Keys())
}
