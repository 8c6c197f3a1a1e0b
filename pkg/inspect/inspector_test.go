/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inspector_test.go
Description: Tests for snapshots, schema caching, comparison and record selection.
*/

package inspect

import (
	"bytes"
	"testing"

	"github.com/kleascm/jsonlens/pkg/chart"
	"github.com/kleascm/jsonlens/pkg/diff"
	"github.com/kleascm/jsonlens/pkg/filter"
	"github.com/kleascm/jsonlens/pkg/jsonvalue"
	"github.com/kleascm/jsonlens/pkg/logging"
	"github.com/kleascm/jsonlens/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersBody = `{"page":1,"users":[{"name":"Ada","age":36,"admin":true},{"name":"Alan","age":41}]}`

func newInspector(t *testing.T) (*Inspector, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevelDebug
	cfg.Format = logging.LogFormatJSON
	logger, err := logging.NewWithWriter(cfg, &buf)
	require.NoError(t, err)

	insp, err := New(4, logger)
	require.NoError(t, err)
	return insp, &buf
}

// TestInspectObject tests snapshot fields of an object body
func TestInspectObject(t *testing.T) {
	insp, _ := newInspector(t)

	snap, err := insp.Inspect([]byte(`{"id":7,"name":"x","meta":{"ok":true,"n":null}}`))
	require.NoError(t, err)

	assert.Equal(t, schema.TagObject, snap.Schema.Type.Tag)
	assert.Equal(t, []schema.Field{
		{Path: "id", Kind: schema.FieldNumber},
		{Path: "meta.n", Kind: schema.FieldUnknown},
		{Path: "meta.ok", Kind: schema.FieldBoolean},
		{Path: "name", Kind: schema.FieldString},
	}, snap.Fields)
	assert.Equal(t, []string{"id"}, snap.NumericFields)
}

// TestInspectArrayRoot tests that an array body exposes its element fields
func TestInspectArrayRoot(t *testing.T) {
	insp, _ := newInspector(t)

	snap, err := insp.Inspect([]byte(`[{"day":"Mon","temp":10},{"day":"Tue"}]`))
	require.NoError(t, err)
	assert.Equal(t, schema.TagArray, snap.Schema.Type.Tag)
	assert.Equal(t, []schema.Field{
		{Path: "day", Kind: schema.FieldString},
		{Path: "temp", Kind: schema.FieldNumber, Optional: true},
	}, snap.Fields)
	assert.Equal(t, []string{"temp"}, snap.NumericFields)
}

// TestInspectCache tests that identical bodies reuse the cached schema
func TestInspectCache(t *testing.T) {
	insp, logs := newInspector(t)

	first, err := insp.Inspect([]byte(usersBody))
	require.NoError(t, err)
	second, err := insp.Inspect([]byte(usersBody))
	require.NoError(t, err)

	assert.Same(t, first.Schema, second.Schema)
	assert.Equal(t, 1, insp.CacheLen())
	assert.Contains(t, logs.String(), `"cached":true`)

	for _, body := range []string{`1`, `2`, `3`, `4`, `5`} {
		_, err := insp.Inspect([]byte(body))
		require.NoError(t, err)
	}
	assert.Equal(t, 4, insp.CacheLen())
}

// TestInspectNotJSON tests the non-JSON error
func TestInspectNotJSON(t *testing.T) {
	insp, _ := newInspector(t)
	_, err := insp.Inspect([]byte(`<html>`))
	assert.ErrorIs(t, err, ErrNotJSON)

	_, err = insp.Compare([]byte(`{}`), []byte(`nope`))
	assert.ErrorIs(t, err, ErrNotJSON)
}

// TestCompare tests body comparison
func TestCompare(t *testing.T) {
	insp, logs := newInspector(t)

	root, err := insp.Compare([]byte(`{"a":1,"b":2}`), []byte(`{"a":1,"b":3,"c":4}`))
	require.NoError(t, err)
	assert.Equal(t, diff.StatusChanged, root.Status)
	assert.Equal(t, diff.Stats{Added: 1, Changed: 1, Unchanged: 1}, diff.Count(root))
	assert.Contains(t, logs.String(), `"msg":"Diff computed"`)
}

// TestRecords tests record list selection
func TestRecords(t *testing.T) {
	v := jsonvalue.MustParse(usersBody)

	recs, err := Records(v, "")
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = Records(v, "users")
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	nested := jsonvalue.MustParse(`{"data":{"items":[1,2,3]},"tags":["a"]}`)
	recs, err = Records(nested, "data.items")
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	_, err = Records(nested, "")
	assert.ErrorIs(t, err, ErrNoRecords)
	_, err = Records(nested, "data")
	assert.ErrorIs(t, err, ErrNoRecords)
	_, err = Records(nested, "missing")
	assert.ErrorIs(t, err, ErrNoRecords)

	recs, err = Records(jsonvalue.MustParse(`[]`), "")
	require.NoError(t, err)
	assert.Empty(t, recs)

	for _, body := range []string{`[1,2,3]`, `[{"a":1},"b"]`, `[[{"a":1}]]`} {
		_, err = Records(jsonvalue.MustParse(body), "")
		assert.ErrorIs(t, err, ErrNoRecords, body)
	}

	recs, err = Records(jsonvalue.MustParse(`{"tags":[1,2]}`), "tags")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

// TestRecordPipeline tests filtering and charting selected records
func TestRecordPipeline(t *testing.T) {
	insp, logs := newInspector(t)
	recs, err := Records(jsonvalue.MustParse(usersBody), "")
	require.NoError(t, err)

	fields, numeric := RecordFieldPaths(recs)
	assert.Equal(t, []string{"age"}, numeric)
	require.Len(t, fields, 3)
	assert.Equal(t, schema.Field{Path: "admin", Kind: schema.FieldBoolean, Optional: true}, fields[0])

	rules := []filter.Rule{filter.NumberRule("age", filter.Bound(40), nil)}
	require.NoError(t, filter.Validate(rules, fields))

	matched := insp.Filter(recs, rules)
	require.Len(t, matched, 1)
	assert.Contains(t, logs.String(), `"matched":1`)

	points := insp.Chart(recs, chart.Config{XField: "name", YField: "age", Type: chart.Bar})
	assert.Equal(t, []chart.Datum{{X: "Ada", Y: 36}, {X: "Alan", Y: 41}}, points)

	assert.Nil(t, RecordSchema(nil))
}
