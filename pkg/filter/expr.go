/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: expr.go
Description: Compact rule expressions for the command line, e.g. "name~ada",
"score>=10", "age=18..65", "active==true", "email?" and "!deleted_at".
*/

package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// operators in match priority; at equal positions the longer token wins
var operators = []string{"==", ">=", "<=", "=", "~", "^"}

// ParseExpr parses a single rule expression:
//
//	path~term     string contains
//	path^term     string starts with
//	path>=n       number, lower bound
//	path<=n       number, upper bound
//	path=a..b     number range; either side may be empty
//	path==bool    boolean
//	path?         exists
//	!path         missing
func ParseExpr(expr string) (Rule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Rule{}, fmt.Errorf("%w: empty expression", ErrInvalidRule)
	}

	if strings.HasPrefix(expr, "!") {
		return checked(ExistsRule(strings.TrimPrefix(expr, "!"), ModeMissing))
	}
	if strings.HasSuffix(expr, "?") && !strings.ContainsAny(expr, "=~^<>") {
		return checked(ExistsRule(strings.TrimSuffix(expr, "?"), ModeExists))
	}

	pos, op := findOperator(expr)
	if pos <= 0 {
		return Rule{}, fmt.Errorf("%w: no operator in %q", ErrInvalidRule, expr)
	}
	path := expr[:pos]
	arg := expr[pos+len(op):]

	switch op {
	case "~":
		return checked(StringRule(path, ModeContains, arg))
	case "^":
		return checked(StringRule(path, ModeStartsWith, arg))
	case "==":
		b, err := strconv.ParseBool(arg)
		if err != nil {
			return Rule{}, fmt.Errorf("%w: %q is not a boolean", ErrInvalidRule, arg)
		}
		return checked(BooleanRule(path, b))
	case ">=":
		n, err := parseBound(arg)
		if err != nil || n == nil {
			return Rule{}, fmt.Errorf("%w: %q is not a number", ErrInvalidRule, arg)
		}
		return checked(NumberRule(path, n, nil))
	case "<=":
		n, err := parseBound(arg)
		if err != nil || n == nil {
			return Rule{}, fmt.Errorf("%w: %q is not a number", ErrInvalidRule, arg)
		}
		return checked(NumberRule(path, nil, n))
	case "=":
		lo, hi, ok := strings.Cut(arg, "..")
		if !ok {
			return Rule{}, fmt.Errorf("%w: range %q must look like a..b", ErrInvalidRule, arg)
		}
		lower, err := parseBound(lo)
		if err != nil {
			return Rule{}, fmt.Errorf("%w: %q is not a number", ErrInvalidRule, lo)
		}
		upper, err := parseBound(hi)
		if err != nil {
			return Rule{}, fmt.Errorf("%w: %q is not a number", ErrInvalidRule, hi)
		}
		return checked(NumberRule(path, lower, upper))
	}
	return Rule{}, fmt.Errorf("%w: unsupported operator %q", ErrInvalidRule, op)
}

// ParseExprs parses several expressions, stopping at the first error
func ParseExprs(exprs []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(exprs))
	for _, e := range exprs {
		r, err := ParseExpr(e)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func findOperator(expr string) (int, string) {
	best, bestOp := -1, ""
	for _, op := range operators {
		i := strings.Index(expr, op)
		if i < 0 {
			continue
		}
		if best < 0 || i < best || (i == best && len(op) > len(bestOp)) {
			best, bestOp = i, op
		}
	}
	return best, bestOp
}

func parseBound(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func checked(r Rule) (Rule, error) {
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}
