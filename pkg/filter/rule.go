/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: rule.go
Description: Declarative filter rules. A Rule is a tagged variant over string, number,
boolean and exists predicates, addressed by a dot-separated field path. Rules encode to
and from the JSON form {"type": ..., "path": ..., ...}.
*/

package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/kleascm/jsonlens/pkg/jsonvalue"
)

// RuleType selects the predicate family
type RuleType string

const (
	TypeString  RuleType = "string"
	TypeNumber  RuleType = "number"
	TypeBoolean RuleType = "boolean"
	TypeExists  RuleType = "exists"
)

// Mode refines string and exists rules
type Mode string

const (
	ModeContains   Mode = "contains"
	ModeStartsWith Mode = "startsWith"
	ModeExists     Mode = "exists"
	ModeMissing    Mode = "missing"
)

// ErrInvalidRule is wrapped by every rule validation failure
var ErrInvalidRule = errors.New("invalid filter rule")

// Rule is one predicate. Which fields matter depends on Type:
//   - string:  Mode (contains|startsWith), Text
//   - number:  Min and/or Max, inclusive; nil means unbounded
//   - boolean: Bool
//   - exists:  Mode (exists|missing)
type Rule struct {
	Type RuleType
	Path string
	Mode Mode
	Text string
	Min  *float64
	Max  *float64
	Bool bool
}

// StringRule matches values whose text contains or starts with term, ignoring case
func StringRule(path string, mode Mode, term string) Rule {
	return Rule{Type: TypeString, Path: path, Mode: mode, Text: term}
}

// NumberRule matches numbers within [lower, upper]; either bound may be nil
func NumberRule(path string, lower, upper *float64) Rule {
	return Rule{Type: TypeNumber, Path: path, Min: lower, Max: upper}
}

// BooleanRule matches booleans equal to want
func BooleanRule(path string, want bool) Rule {
	return Rule{Type: TypeBoolean, Path: path, Bool: want}
}

// ExistsRule matches on the presence (ModeExists) or absence (ModeMissing) of a path
func ExistsRule(path string, mode Mode) Rule {
	return Rule{Type: TypeExists, Path: path, Mode: mode}
}

// Bound returns a pointer to f, for NumberRule bounds
func Bound(f float64) *float64 {
	return &f
}

// Validate checks that the rule is well formed
func (r Rule) Validate() error {
	if r.Path == "" {
		return fmt.Errorf("%w: %s rule has an empty path", ErrInvalidRule, r.Type)
	}

	switch r.Type {
	case TypeString:
		if r.Mode != ModeContains && r.Mode != ModeStartsWith {
			return fmt.Errorf("%w: string rule on %q has mode %q", ErrInvalidRule, r.Path, r.Mode)
		}
	case TypeNumber:
		for _, b := range []*float64{r.Min, r.Max} {
			if b != nil && (math.IsNaN(*b) || math.IsInf(*b, 0)) {
				return fmt.Errorf("%w: number rule on %q has non-finite bound %v", ErrInvalidRule, r.Path, *b)
			}
		}
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return fmt.Errorf("%w: number rule on %q has min %v above max %v", ErrInvalidRule, r.Path, *r.Min, *r.Max)
		}
	case TypeBoolean:
	case TypeExists:
		if r.Mode != ModeExists && r.Mode != ModeMissing {
			return fmt.Errorf("%w: exists rule on %q has mode %q", ErrInvalidRule, r.Path, r.Mode)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRule, r.Type)
	}
	return nil
}

// String renders the rule in the expression syntax accepted by ParseExpr
func (r Rule) String() string {
	switch r.Type {
	case TypeString:
		if r.Mode == ModeStartsWith {
			return r.Path + "^" + r.Text
		}
		return r.Path + "~" + r.Text
	case TypeNumber:
		switch {
		case r.Min != nil && r.Max != nil:
			return fmt.Sprintf("%s=%s..%s", r.Path, fmtBound(*r.Min), fmtBound(*r.Max))
		case r.Min != nil:
			return fmt.Sprintf("%s>=%s", r.Path, fmtBound(*r.Min))
		case r.Max != nil:
			return fmt.Sprintf("%s<=%s", r.Path, fmtBound(*r.Max))
		default:
			return r.Path + "=.."
		}
	case TypeBoolean:
		return fmt.Sprintf("%s==%t", r.Path, r.Bool)
	case TypeExists:
		if r.Mode == ModeMissing {
			return "!" + r.Path
		}
		return r.Path + "?"
	}
	return fmt.Sprintf("<%s %s>", r.Type, r.Path)
}

func fmtBound(f float64) string {
	return jsonvalue.Stringify(jsonvalue.NumberValue(f))
}

// wireRule is the JSON shape of a rule
type wireRule struct {
	Type  RuleType        `json:"type"`
	Path  string          `json:"path"`
	Mode  Mode            `json:"mode,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
	Min   *float64        `json:"min,omitempty"`
	Max   *float64        `json:"max,omitempty"`
}

// MarshalJSON encodes the rule in its tagged JSON form
func (r Rule) MarshalJSON() ([]byte, error) {
	w := wireRule{Type: r.Type, Path: r.Path}
	switch r.Type {
	case TypeString:
		w.Mode = r.Mode
		text, err := json.Marshal(r.Text)
		if err != nil {
			return nil, err
		}
		w.Value = text
	case TypeNumber:
		w.Min, w.Max = r.Min, r.Max
	case TypeBoolean:
		w.Value = json.RawMessage(fmt.Sprintf("%t", r.Bool))
	case TypeExists:
		w.Mode = r.Mode
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the tagged JSON form and validates the result
func (r *Rule) UnmarshalJSON(data []byte) error {
	var w wireRule
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	out := Rule{Type: w.Type, Path: w.Path, Mode: w.Mode, Min: w.Min, Max: w.Max}
	switch w.Type {
	case TypeString:
		if err := json.Unmarshal(w.Value, &out.Text); err != nil {
			return fmt.Errorf("%w: string rule on %q needs a string value", ErrInvalidRule, w.Path)
		}
	case TypeBoolean:
		if err := json.Unmarshal(w.Value, &out.Bool); err != nil {
			return fmt.Errorf("%w: boolean rule on %q needs a boolean value", ErrInvalidRule, w.Path)
		}
	}

	if err := out.Validate(); err != nil {
		return err
	}
	*r = out
	return nil
}

// ParseRules decodes a JSON array of rules
func ParseRules(data []byte) ([]Rule, error) {
	var rules []Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}
	return rules, nil
}

// ParseRulesYAML decodes a YAML sequence of rules with the same fields as the JSON form
func ParseRulesYAML(data []byte) ([]Rule, error) {
	v, err := jsonvalue.ParseYAML(data)
	if err != nil {
		return nil, err
	}
	encoded, err := v.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to convert rules: %w", err)
	}
	return ParseRules(encoded)
}
