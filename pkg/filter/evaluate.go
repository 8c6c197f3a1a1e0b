/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: evaluate.go
Description: Filter evaluation over dynamically shaped records. Rules are AND-composed
and resolved against each record by dot path at evaluation time.
*/

package filter

import (
	"strings"

	"github.com/kleascm/jsonlens/pkg/jsonvalue"
)

// Apply returns the records that satisfy every rule, in their original order. The input
// slice is not modified. A rule with an unknown type or mode never matches.
func Apply(records []jsonvalue.Value, rules []Rule) []jsonvalue.Value {
	out := make([]jsonvalue.Value, 0, len(records))
	for _, rec := range records {
		if MatchAll(rec, rules) {
			out = append(out, rec)
		}
	}
	return out
}

// MatchAll reports whether a record passes every rule. An empty rule list passes.
func MatchAll(record jsonvalue.Value, rules []Rule) bool {
	for _, r := range rules {
		if !r.Match(record) {
			return false
		}
	}
	return true
}

// Match evaluates a single rule against a record
func (r Rule) Match(record jsonvalue.Value) bool {
	v, found := jsonvalue.Resolve(record, r.Path)

	switch r.Type {
	case TypeString:
		if !found {
			return false
		}
		text := strings.ToLower(jsonvalue.Stringify(v))
		term := strings.ToLower(r.Text)
		switch r.Mode {
		case ModeContains:
			return strings.Contains(text, term)
		case ModeStartsWith:
			return strings.HasPrefix(text, term)
		}
		return false

	case TypeNumber:
		n, ok := v.AsNumber()
		if !found || !ok {
			return false
		}
		if r.Min != nil && n < *r.Min {
			return false
		}
		if r.Max != nil && n > *r.Max {
			return false
		}
		return true

	case TypeBoolean:
		b, ok := v.AsBool()
		return found && ok && b == r.Bool

	case TypeExists:
		switch r.Mode {
		case ModeExists:
			return found
		case ModeMissing:
			return !found
		}
	}
	return false
}
