package where

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/fraiseql/fraiseql-go/internal/sqltext"
)

// strategy renders one (accessor, operator, value) triple as a SQL fragment.
// A strategy is selected per field by the field's declared type.
type strategy interface {
	build(acc Accessor, op string, value any) (string, error)
}

// comparisonOps maps filter operator names to SQL comparison operators
// shared by every strategy.
var comparisonOps = map[string]string{
	"eq":  "=",
	"neq": "!=",
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
}

// genericStrategy handles untyped fields and the scalar-typed fields
// (uuid, date, timestamp) whose operators are the plain comparison set.
// The declared type forces the literal and accessor casts; for untyped
// fields the cast is inferred from each value's shape.
type genericStrategy struct {
	declared DeclaredType
}

func (s genericStrategy) build(acc Accessor, op string, value any) (string, error) {
	if sqlOp, ok := comparisonOps[op]; ok {
		return s.compare(acc, op, sqlOp, value)
	}
	switch op {
	case "isnull":
		return nullTest(acc, op, value)
	case "like":
		return patternMatch(acc, op, "LIKE", value, "", "")
	case "ilike":
		return patternMatch(acc, op, "ILIKE", value, "", "")
	case "startswith":
		return patternMatch(acc, op, "LIKE", value, "", "%")
	case "istartswith":
		return patternMatch(acc, op, "ILIKE", value, "", "%")
	case "endswith":
		return patternMatch(acc, op, "LIKE", value, "%", "")
	case "iendswith":
		return patternMatch(acc, op, "ILIKE", value, "%", "")
	case "contains":
		if s, ok := value.(string); ok {
			return patternMatch(acc, op, "LIKE", s, "%", "%")
		}
		return jsonContainment(acc, op, value)
	case "icontains":
		return patternMatch(acc, op, "ILIKE", value, "%", "%")
	case "matches":
		return patternMatch(acc, op, "~", value, "", "")
	case "in":
		return s.inList(acc, op, value, false)
	case "notin":
		return s.inList(acc, op, value, true)
	case "len_eq":
		return arrayLength(acc, op, "=", value)
	case "len_gt":
		return arrayLength(acc, op, ">", value)
	case "len_gte":
		return arrayLength(acc, op, ">=", value)
	case "len_lt":
		return arrayLength(acc, op, "<", value)
	case "len_lte":
		return arrayLength(acc, op, "<=", value)
	case "overlaps":
		lit, err := jsonLiteral(op, value)
		if err != nil {
			return "", err
		}
		return acc.JSON() + " && " + lit, nil
	case "strictly_contains":
		lit, err := jsonLiteral(op, value)
		if err != nil {
			return "", err
		}
		target := acc.JSON()
		return "(" + target + " @> " + lit + " AND " + target + " != " + lit + ")", nil
	default:
		return "", &UnsupportedOperatorError{Operator: op, Type: s.declared}
	}
}

func (s genericStrategy) compare(acc Accessor, op, sqlOp string, value any) (string, error) {
	sv, err := renderValue(value, s.declared)
	if err != nil {
		return "", tagOperator(err, op)
	}
	return acc.Text() + sv.cast + " " + sqlOp + " " + sv.literal, nil
}

// inList renders IN/NOT IN with one independently cast literal per element;
// list order is preserved. When every element shares a cast the accessor is
// cast to match, the same way compare casts both sides; heterogeneous lists
// leave the accessor as text and rely on the per-element casts.
func (s genericStrategy) inList(acc Accessor, op string, value any, negate bool) (string, error) {
	items, ok := value.([]any)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "value must be a list"}
	}
	if len(items) == 0 {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "list must not be empty"}
	}
	literals := make([]string, len(items))
	accCast := ""
	for i, item := range items {
		sv, err := renderValue(item, s.declared)
		if err != nil {
			return "", tagOperator(err, op)
		}
		literals[i] = sv.castLiteral()
		if i == 0 {
			accCast = sv.cast
		} else if sv.cast != accCast {
			accCast = ""
		}
	}
	sqlOp := "IN"
	if negate {
		sqlOp = "NOT IN"
	}
	return acc.Text() + accCast + " " + sqlOp + " (" + strings.Join(literals, ", ") + ")", nil
}

func nullTest(acc Accessor, op string, value any) (string, error) {
	isNull, ok := value.(bool)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "value must be a boolean"}
	}
	if isNull {
		return acc.Text() + " IS NULL", nil
	}
	return acc.Text() + " IS NOT NULL", nil
}

// patternMatch renders LIKE-family and regex matches. like/ilike and the
// regex operator take the pattern raw; the affix operators escape the value
// and synthesize the wildcards themselves.
func patternMatch(acc Accessor, op, sqlOp string, value any, prefix, suffix string) (string, error) {
	pat, ok := value.(string)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "value must be a string"}
	}
	if prefix != "" || suffix != "" {
		pat = prefix + escapeLikePattern(pat) + suffix
	}
	return acc.Text() + " " + sqlOp + " " + sqltext.QuoteLiteral(pat), nil
}

// escapeLikePattern escapes LIKE metacharacters so affix operators match the
// value verbatim.
func escapeLikePattern(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '%', '_':
			sb.WriteRune('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// arrayLength compares the cardinality of a JSON array field against an
// integer bound.
func arrayLength(acc Accessor, op, sqlOp string, value any) (string, error) {
	n, ok := intArgument(value)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "value must be an integer"}
	}
	return "jsonb_array_length(" + acc.JSON() + ") " + sqlOp + " " + strconv.FormatInt(n, 10), nil
}

func jsonContainment(acc Accessor, op string, value any) (string, error) {
	lit, err := jsonLiteral(op, value)
	if err != nil {
		return "", err
	}
	return acc.JSON() + " @> " + lit, nil
}

// jsonLiteral renders a list or object value as a quoted jsonb literal for
// the document containment operators.
func jsonLiteral(op string, value any) (string, error) {
	switch value.(type) {
	case []any, map[string]any:
	default:
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "value must be a list or an object"}
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: err.Error()}
	}
	return sqltext.QuoteLiteral(string(encoded)) + "::jsonb", nil
}

// tagOperator attaches the operator name to argument errors raised while
// rendering a value, where the renderer does not know which operator asked.
func tagOperator(err error, op string) error {
	var inv *InvalidOperatorArgumentError
	if errors.As(err, &inv) && inv.Operator == "" {
		inv.Operator = op
	}
	return err
}
