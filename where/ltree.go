package where

import (
	"fmt"

	"github.com/fraiseql/fraiseql-go/internal/sqltext"
)

// ltreeStrategy handles hierarchical-path fields. Ancestry tests use the
// ltree containment operators, pattern tests go through lquery and
// ltxtquery, and depth tests compare nlevel of the path.
type ltreeStrategy struct {
	generic genericStrategy
}

func newLTreeStrategy() ltreeStrategy {
	return ltreeStrategy{generic: genericStrategy{declared: TypeLTree}}
}

func (s ltreeStrategy) build(acc Accessor, op string, value any) (string, error) {
	switch op {
	case "ancestor_of":
		return s.pathOp(acc, op, "@>", value)
	case "descendant_of":
		return s.pathOp(acc, op, "<@", value)
	case "matches_lquery":
		return s.queryOp(acc, op, "~", value, "lquery")
	case "matches_ltxtquery":
		return s.queryOp(acc, op, "@", value, "ltxtquery")
	case "depth_eq":
		return s.depthOp(acc, op, "=", value)
	case "depth_gt":
		return s.depthOp(acc, op, ">", value)
	case "depth_lt":
		return s.depthOp(acc, op, "<", value)
	case "eq", "neq", "in", "notin", "isnull":
		return s.generic.build(acc, op, value)
	default:
		return "", &UnsupportedOperatorError{Operator: op, Type: TypeLTree}
	}
}

// pathOp renders the containment operators; the operand is another path.
func (s ltreeStrategy) pathOp(acc Accessor, op, sqlOp string, value any) (string, error) {
	path, ok := value.(string)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "value must be a path string"}
	}
	return s.ltreeAccessor(acc) + " " + sqlOp + " " + sqltext.QuoteLiteral(path) + "::ltree", nil
}

func (s ltreeStrategy) queryOp(acc Accessor, op, sqlOp string, value any, queryType string) (string, error) {
	pat, ok := value.(string)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "value must be a query string"}
	}
	return s.ltreeAccessor(acc) + " " + sqlOp + " " + sqltext.QuoteLiteral(pat) + "::" + queryType, nil
}

func (s ltreeStrategy) depthOp(acc Accessor, op, sqlOp string, value any) (string, error) {
	depth, ok := intArgument(value)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "value must be an integer"}
	}
	return fmt.Sprintf("nlevel(%s) %s %d", s.ltreeAccessor(acc), sqlOp, depth), nil
}

func (s ltreeStrategy) ltreeAccessor(acc Accessor) string {
	return acc.Text() + "::ltree"
}

// intArgument accepts the integer forms a JSON decoder or a Go caller may
// hand over.
func intArgument(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}
