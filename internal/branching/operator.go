package branching

import (
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Operator is the closed set of comparison operators a branch condition
// may use. Unknown operators compare false, never panic.
type Operator string

const (
	OpEquals             Operator = "equals"
	OpNotEquals          Operator = "not_equals"
	OpGreaterThan        Operator = "greater_than"
	OpLessThan           Operator = "less_than"
	OpGreaterThanOrEqual Operator = "greater_than_or_equal"
	OpLessThanOrEqual    Operator = "less_than_or_equal"
	OpContains           Operator = "contains"
	OpNotContains        Operator = "not_contains"
	OpStartsWith         Operator = "starts_with"
	OpEndsWith           Operator = "ends_with"
	OpInArray            Operator = "in_array"
	OpNotInArray         Operator = "not_in_array"
	OpIsEmpty            Operator = "is_empty"
	OpIsNotEmpty         Operator = "is_not_empty"
	OpRegexMatch         Operator = "regex_match"
)

// Known reports whether o is a member of the operator set.
func (o Operator) Known() bool {
	switch o {
	case OpEquals, OpNotEquals,
		OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual,
		OpContains, OpNotContains, OpStartsWith, OpEndsWith,
		OpInArray, OpNotInArray,
		OpIsEmpty, OpIsNotEmpty,
		OpRegexMatch:
		return true
	}
	return false
}

// Compare tests actual against expected under op.
//
// It never returns an error and never panics: non-numeric values under
// numeric operators, non-set values under set operators, and invalid
// regex patterns all yield a false match (logged where diagnosable).
func Compare(actual any, op Operator, expected any) bool {
	switch op {
	case OpEquals:
		return valuesEqual(actual, expected)
	case OpNotEquals:
		return !valuesEqual(actual, expected)

	case OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
		a, aok := toFloat(actual)
		e, eok := toFloat(expected)
		if !aok || !eok {
			return false
		}
		switch op {
		case OpGreaterThan:
			return a > e
		case OpLessThan:
			return a < e
		case OpGreaterThanOrEqual:
			return a >= e
		default:
			return a <= e
		}

	case OpContains:
		return strings.Contains(lowerString(actual), lowerString(expected))
	case OpNotContains:
		return !strings.Contains(lowerString(actual), lowerString(expected))
	case OpStartsWith:
		return strings.HasPrefix(lowerString(actual), lowerString(expected))
	case OpEndsWith:
		return strings.HasSuffix(lowerString(actual), lowerString(expected))

	case OpInArray:
		return inSequence(actual, expected)
	case OpNotInArray:
		seq, ok := asSequence(expected)
		if !ok {
			return false
		}
		for _, item := range seq {
			if valuesEqual(actual, item) {
				return false
			}
		}
		return true

	case OpIsEmpty:
		return isEmptyValue(actual)
	case OpIsNotEmpty:
		return !isEmptyValue(actual)

	case OpRegexMatch:
		pattern := stringForm(expected)
		re, err := regexp.Compile(pattern)
		if err != nil {
			slog.Warn("branching: invalid regex pattern in condition", "pattern", pattern, "err", err)
			return false
		}
		return re.MatchString(stringForm(actual))
	}

	slog.Warn("branching: unknown operator in condition", "operator", string(op))
	return false
}

func inSequence(actual, expected any) bool {
	seq, ok := asSequence(expected)
	if !ok {
		return false
	}
	for _, item := range seq {
		if valuesEqual(actual, item) {
			return true
		}
	}
	return false
}

// valuesEqual applies strict equality with one concession: numbers
// compare by numeric value regardless of Go kind, since JSON decoding
// produces float64 where stores may produce int.
func valuesEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
		return false
	}
	if ab, ok := a.(bool); ok {
		bb, ok2 := b.(bool)
		return ok2 && ab == bb
	}
	as, aok := asString(a)
	bs, bok := asString(b)
	if aok && bok {
		return as == bs
	}
	return reflect.DeepEqual(a, b)
}

// toFloat coerces numeric kinds and numeric strings to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// stringForm renders any scalar as its string form for substring and
// regex semantics.
func stringForm(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func lowerString(v any) string {
	return strings.ToLower(stringForm(v))
}

// asSequence normalizes set-valued expectations into []any.
func asSequence(v any) ([]any, bool) {
	switch seq := v.(type) {
	case []any:
		return seq, true
	case []string:
		out := make([]any, len(seq))
		for i, s := range seq {
			out[i] = s
		}
		return out, true
	case []int:
		out := make([]any, len(seq))
		for i, n := range seq {
			out[i] = n
		}
		return out, true
	case []float64:
		out := make([]any, len(seq))
		for i, f := range seq {
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

// isEmptyValue reports whether v is falsy, an empty string, or an empty
// sequence.
func isEmptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case bool:
		return !x
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	}
	if f, ok := toFloat(v); ok {
		return f == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return false
}
