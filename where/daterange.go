package where

import (
	"time"

	"github.com/fraiseql/fraiseql-go/internal/sqltext"
)

// rangeOps maps the date-range operators to the Postgres range operators.
// not_left and not_right are the "does not extend" tests.
var rangeOps = map[string]string{
	"overlaps":       "&&",
	"adjacent":       "-|-",
	"strictly_left":  "<<",
	"strictly_right": ">>",
	"not_left":       "&>",
	"not_right":      "&<",
}

// daterangeStrategy handles fields holding date ranges. Every comparison,
// plain equality included, casts the accessor to daterange; operands are
// either range literal strings or {"from", "to"} objects.
type daterangeStrategy struct {
	generic genericStrategy
}

func newDateRangeStrategy() daterangeStrategy {
	return daterangeStrategy{generic: genericStrategy{declared: TypeDateRange}}
}

func (s daterangeStrategy) build(acc Accessor, op string, value any) (string, error) {
	if sqlOp, ok := rangeOps[op]; ok {
		return s.rangeOp(acc, op, sqlOp, value)
	}
	switch op {
	case "contains_date":
		return s.containsDate(acc, op, value)
	case "eq", "neq", "gt", "gte", "lt", "lte", "in", "notin", "isnull":
		return s.generic.build(acc, op, value)
	default:
		return "", &UnsupportedOperatorError{Operator: op, Type: TypeDateRange}
	}
}

func (s daterangeStrategy) rangeOp(acc Accessor, op, sqlOp string, value any) (string, error) {
	sv, err := renderValue(value, TypeDateRange)
	if err != nil {
		return "", tagOperator(err, op)
	}
	return s.rangeAccessor(acc) + " " + sqlOp + " " + sv.literal, nil
}

// containsDate tests whether the range contains a single date.
func (s daterangeStrategy) containsDate(acc Accessor, op string, value any) (string, error) {
	str, ok := value.(string)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "value must be a date string"}
	}
	if _, err := time.Parse(dateLayout, str); err != nil {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "invalid date " + str}
	}
	return s.rangeAccessor(acc) + " @> " + sqltext.QuoteLiteral(str) + "::date", nil
}

func (s daterangeStrategy) rangeAccessor(acc Accessor) string {
	return acc.Text() + "::daterange"
}
