/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: chart.go
Description: Projects records onto an (x, y) point list for bar and line charts. Each
record yields at most one point; there is no sorting, bucketing or aggregation.
*/

package chart

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kleascm/jsonlens/pkg/jsonvalue"
	"go.uber.org/multierr"
)

// Type is the chart style handed to the presentation layer
type Type string

const (
	Bar  Type = "bar"
	Line Type = "line"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid chart config")

// Config selects the axes. An empty field path means the axis is unset.
type Config struct {
	XField string `json:"xField,omitempty"`
	YField string `json:"yField,omitempty"`
	Type   Type   `json:"type"`
}

// Datum is one point. X holds a float64 when the source value was numeric and a string
// otherwise.
type Datum struct {
	X any     `json:"x"`
	Y float64 `json:"y"`
}

// Build projects records onto points in input order. It returns an empty list when either
// axis is unset. Records whose y value is not a number, or whose x path resolves to
// nothing, are skipped. A present null x is kept and labelled "null".
func Build(records []jsonvalue.Value, cfg Config) []Datum {
	points := make([]Datum, 0)
	if cfg.XField == "" || cfg.YField == "" {
		return points
	}

	xPath := jsonvalue.SplitPath(cfg.XField)
	yPath := jsonvalue.SplitPath(cfg.YField)

	for _, rec := range records {
		yv, ok := jsonvalue.ResolveSegments(rec, yPath)
		if !ok {
			continue
		}
		y, ok := yv.AsNumber()
		if !ok {
			continue
		}

		xv, ok := jsonvalue.ResolveSegments(rec, xPath)
		if !ok {
			continue
		}

		var x any
		if n, isNum := xv.AsNumber(); isNum {
			x = n
		} else {
			x = jsonvalue.Stringify(xv)
		}
		points = append(points, Datum{X: x, Y: y})
	}
	return points
}

// Validate checks the config against the chartable paths of a record schema. The y axis
// must be one of numericPaths; the x axis may be any of fieldPaths.
func (c Config) Validate(fieldPaths, numericPaths []string) error {
	var errs error
	if c.Type != Bar && c.Type != Line {
		errs = multierr.Append(errs, fmt.Errorf("%w: unknown type %q", ErrInvalidConfig, c.Type))
	}
	if c.XField == "" {
		errs = multierr.Append(errs, fmt.Errorf("%w: x field is unset", ErrInvalidConfig))
	} else if !slices.Contains(fieldPaths, c.XField) {
		errs = multierr.Append(errs, fmt.Errorf("%w: unknown x field %q", ErrInvalidConfig, c.XField))
	}
	if c.YField == "" {
		errs = multierr.Append(errs, fmt.Errorf("%w: y field is unset", ErrInvalidConfig))
	} else if !slices.Contains(numericPaths, c.YField) {
		errs = multierr.Append(errs, fmt.Errorf("%w: y field %q is not numeric", ErrInvalidConfig, c.YField))
	}
	return errs
}

// ParseType maps a user-supplied name onto a chart type, defaulting to bar
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case "", Bar:
		return Bar, nil
	case Line:
		return Line, nil
	}
	return "", fmt.Errorf("%w: unknown type %q", ErrInvalidConfig, s)
}
