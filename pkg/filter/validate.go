/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: validate.go
Description: Checks rules against the fields collected from a schema, so that callers can
reject rules that address unknown paths or apply the wrong predicate family.
*/

package filter

import (
	"fmt"

	"github.com/kleascm/jsonlens/pkg/schema"
	"go.uber.org/multierr"
)

// Validate checks every rule against the filterable fields of a record schema and returns
// all problems at once.
//
// Exists rules may address any path. Other rules must name a collected field, and the
// field kind must accept the predicate: number rules need number fields and boolean
// rules need boolean fields. String rules accept any scalar, since every scalar has a text
// form.
func Validate(rules []Rule, fields []schema.Field) error {
	byPath := make(map[string]schema.Field, len(fields))
	for _, f := range fields {
		byPath[f.Path] = f
	}

	var errs error
	for i, r := range rules {
		if err := r.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("rule %d: %w", i, err))
			continue
		}
		if r.Type == TypeExists {
			continue
		}

		f, ok := byPath[r.Path]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("rule %d: %w: unknown field %q", i, ErrInvalidRule, r.Path))
			continue
		}
		if !accepts(f.Kind, r.Type) {
			errs = multierr.Append(errs, fmt.Errorf("rule %d: %w: %s rule cannot apply to %s field %q", i, ErrInvalidRule, r.Type, f.Kind, r.Path))
		}
	}
	return errs
}

func accepts(kind schema.FieldKind, t RuleType) bool {
	switch t {
	case TypeNumber:
		return kind == schema.FieldNumber
	case TypeBoolean:
		return kind == schema.FieldBoolean
	case TypeString:
		return true
	}
	return false
}
