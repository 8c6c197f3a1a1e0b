/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inspector.go
Description: Inspection workspace tying the core together. Parses response bodies,
caches their inferred schemas, collects filterable and numeric fields, and picks out
the record lists that filters and charts operate on.
*/

package inspect

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kleascm/jsonlens/pkg/chart"
	"github.com/kleascm/jsonlens/pkg/diff"
	"github.com/kleascm/jsonlens/pkg/filter"
	"github.com/kleascm/jsonlens/pkg/jsonvalue"
	"github.com/kleascm/jsonlens/pkg/logging"
	"github.com/kleascm/jsonlens/pkg/schema"
)

var (
	// ErrNotJSON is returned for bodies that do not parse as JSON
	ErrNotJSON = errors.New("body is not JSON")
	// ErrNoRecords is returned when no record list can be found
	ErrNoRecords = errors.New("no record list found")
)

// Snapshot is everything derived from one response body
type Snapshot struct {
	Value         jsonvalue.Value `json:"value"`
	Schema        *schema.Node    `json:"schema"`
	Fields        []schema.Field  `json:"fields"`
	NumericFields []string        `json:"numericFields"`
}

// Inspector derives snapshots, diffs and record views. Safe for concurrent use.
type Inspector struct {
	cache  *lru.Cache[string, *schema.Node]
	logger *logging.Logger
}

// New creates an inspector whose schema cache holds cacheSize bodies. logger may be nil.
func New(cacheSize int, logger *logging.Logger) (*Inspector, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	cache, err := lru.New[string, *schema.Node](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema cache: %w", err)
	}
	return &Inspector{cache: cache, logger: logger}, nil
}

// Inspect parses body and derives its schema and field lists
func (i *Inspector) Inspect(body []byte) (*Snapshot, error) {
	v, err := jsonvalue.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}

	key := bodyKey(body)
	root, cached := i.cache.Get(key)
	if !cached {
		root = schema.Infer(v)
		i.cache.Add(key, root)
	}

	snap := snapshot(v, root)
	if i.logger != nil {
		i.logger.LogInference(len(body), len(snap.Fields), len(snap.NumericFields), cached)
	}
	return snap, nil
}

// InspectValue derives a snapshot from an already parsed value, bypassing the cache
func (i *Inspector) InspectValue(v jsonvalue.Value) *Snapshot {
	return snapshot(v, schema.Infer(v))
}

// CacheLen returns the number of cached schemas
func (i *Inspector) CacheLen() int {
	return i.cache.Len()
}

// Compare parses two bodies and diffs them
func (i *Inspector) Compare(oldBody, newBody []byte) (*diff.Node, error) {
	oldValue, err := jsonvalue.Parse(oldBody)
	if err != nil {
		return nil, fmt.Errorf("%w: old body: %v", ErrNotJSON, err)
	}
	newValue, err := jsonvalue.Parse(newBody)
	if err != nil {
		return nil, fmt.Errorf("%w: new body: %v", ErrNotJSON, err)
	}
	return i.CompareValues(oldValue, newValue), nil
}

// CompareValues diffs two parsed values and logs the change counts
func (i *Inspector) CompareValues(oldValue, newValue jsonvalue.Value) *diff.Node {
	root := diff.Diff(oldValue, newValue)
	if i.logger != nil {
		stats := diff.Count(root)
		i.logger.LogDiff(stats.Added, stats.Removed, stats.Changed, stats.Unchanged)
	}
	return root
}

// Filter applies rules to records and logs how many matched
func (i *Inspector) Filter(records []jsonvalue.Value, rules []filter.Rule) []jsonvalue.Value {
	out := filter.Apply(records, rules)
	if i.logger != nil {
		i.logger.LogFilter(len(rules), len(records), len(out))
	}
	return out
}

// Chart projects records onto chart points
func (i *Inspector) Chart(records []jsonvalue.Value, cfg chart.Config) []chart.Datum {
	return chart.Build(records, cfg)
}

// Records picks the record list out of a value. With an empty path it is the value itself
// when that is an array of objects (possibly empty), otherwise the first top-level field holding an array of objects.
// A non-empty path must resolve to an array.
func Records(v jsonvalue.Value, path string) ([]jsonvalue.Value, error) {
	if path != "" {
		target, ok := jsonvalue.Resolve(v, path)
		if !ok {
			return nil, fmt.Errorf("%w: path %q does not exist", ErrNoRecords, path)
		}
		if target.Kind() != jsonvalue.Array {
			return nil, fmt.Errorf("%w: path %q holds %s, not an array", ErrNoRecords, path, target.Kind())
		}
		return target.Items(), nil
	}

	if v.Kind() == jsonvalue.Array && allObjects(v) {
		return v.Items(), nil
	}
	if v.Kind() == jsonvalue.Object {
		for _, key := range v.Keys() {
			field, _ := v.Field(key)
			if isObjectArray(field) {
				return field.Items(), nil
			}
		}
	}
	return nil, ErrNoRecords
}

// RecordSchema merges the schemas of every record. It is nil for an empty list.
func RecordSchema(records []jsonvalue.Value) *schema.Node {
	return schema.InferAll(records...)
}

// RecordFieldPaths returns the filterable and numeric paths of a record list
func RecordFieldPaths(records []jsonvalue.Value) (fields []schema.Field, numeric []string) {
	root := RecordSchema(records)
	return schema.CollectFilterableFields(root), schema.NumericFieldPaths(root)
}

func snapshot(v jsonvalue.Value, root *schema.Node) *Snapshot {
	fieldRoot := root
	if root != nil && root.Type.Tag == schema.TagArray {
		fieldRoot = root.Type.Items
	}
	return &Snapshot{
		Value:         v,
		Schema:        root,
		Fields:        schema.CollectFilterableFields(fieldRoot),
		NumericFields: schema.NumericFieldPaths(fieldRoot),
	}
}

func isObjectArray(v jsonvalue.Value) bool {
	return v.Kind() == jsonvalue.Array && v.Len() > 0 && allObjects(v)
}

func allObjects(v jsonvalue.Value) bool {
	for _, item := range v.Items() {
		if item.Kind() != jsonvalue.Object {
			return false
		}
	}
	return true
}

func bodyKey(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
