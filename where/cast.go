package where

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fraiseql/fraiseql-go/internal/sqltext"
)

// sqlValue is a filter value rendered for SQL text. literal carries its own
// cast suffix where one is needed; cast is the suffix applied to the field
// accessor so both sides of a comparison share a type.
type sqlValue struct {
	literal string
	cast    string
}

const (
	dateLayout = "2006-01-02"
)

// renderValue renders a filter value as a SQL literal, inferring the cast
// from the declared type when one is set and from the value's shape
// otherwise. The JSONB accessor always yields text, so typed comparisons
// cast both sides.
func renderValue(v any, dt DeclaredType) (sqlValue, error) {
	switch val := v.(type) {
	case bool:
		if val {
			return sqlValue{literal: "'true'::boolean", cast: "::boolean"}, nil
		}
		return sqlValue{literal: "'false'::boolean", cast: "::boolean"}, nil
	case int:
		return numericValue(strconv.FormatInt(int64(val), 10)), nil
	case int32:
		return numericValue(strconv.FormatInt(int64(val), 10)), nil
	case int64:
		return numericValue(strconv.FormatInt(val, 10)), nil
	case float32:
		return renderValue(float64(val), dt)
	case float64:
		// JSON decoding yields float64 for every number; keep integral
		// values in integer form so literals stay stable.
		return numericValue(formatFloat(val)), nil
	case string:
		return renderString(val, dt)
	case map[string]any:
		if dt == TypeDateRange {
			return renderDateRangeBounds(val)
		}
		return sqlValue{}, &UnsupportedValueTypeError{Value: v}
	default:
		return sqlValue{}, &UnsupportedValueTypeError{Value: v}
	}
}

func numericValue(lit string) sqlValue {
	return sqlValue{literal: lit, cast: "::numeric"}
}

// castLiteral returns the literal with its cast attached for contexts, such
// as IN lists, where the accessor cast alone cannot type the element.
func (v sqlValue) castLiteral() string {
	if v.cast == "" || strings.HasSuffix(v.literal, v.cast) {
		return v.literal
	}
	return v.literal + v.cast
}

func formatFloat(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func renderString(s string, dt DeclaredType) (sqlValue, error) {
	switch dt {
	case TypeUUID:
		u, err := uuid.Parse(s)
		if err != nil {
			return sqlValue{}, &InvalidOperatorArgumentError{Operator: "", Reason: fmt.Sprintf("invalid uuid %q", s)}
		}
		return sqlValue{literal: sqltext.QuoteLiteral(u.String()) + "::uuid", cast: "::uuid"}, nil
	case TypeDate:
		if _, err := time.Parse(dateLayout, s); err != nil {
			return sqlValue{}, &InvalidOperatorArgumentError{Operator: "", Reason: fmt.Sprintf("invalid date %q", s)}
		}
		return sqlValue{literal: sqltext.QuoteLiteral(s) + "::date", cast: "::date"}, nil
	case TypeTimestamp:
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return sqlValue{}, &InvalidOperatorArgumentError{Operator: "", Reason: fmt.Sprintf("invalid timestamp %q", s)}
		}
		return sqlValue{literal: sqltext.QuoteLiteral(s) + "::timestamptz", cast: "::timestamptz"}, nil
	case TypeDateRange:
		return sqlValue{literal: sqltext.QuoteLiteral(s) + "::daterange", cast: "::daterange"}, nil
	case TypeIPAddress, TypeCIDR:
		return sqlValue{literal: sqltext.QuoteLiteral(s) + "::inet", cast: "::inet"}, nil
	case TypeLTree:
		return sqlValue{literal: sqltext.QuoteLiteral(s) + "::ltree", cast: "::ltree"}, nil
	default:
		return inferString(s), nil
	}
}

// inferString detects typed string shapes for untyped fields. UUIDs,
// ISO dates and RFC 3339 timestamps compare through the matching Postgres
// type; anything else compares as plain text.
func inferString(s string) sqlValue {
	if looksLikeUUID(s) {
		u, err := uuid.Parse(s)
		if err == nil {
			return sqlValue{literal: sqltext.QuoteLiteral(u.String()) + "::uuid", cast: "::uuid"}
		}
	}
	if len(s) == len(dateLayout) {
		if _, err := time.Parse(dateLayout, s); err == nil {
			return sqlValue{literal: sqltext.QuoteLiteral(s) + "::date", cast: "::date"}
		}
	}
	if strings.ContainsRune(s, 'T') {
		if _, err := time.Parse(time.RFC3339, s); err == nil {
			return sqlValue{literal: sqltext.QuoteLiteral(s) + "::timestamptz", cast: "::timestamptz"}
		}
	}
	return sqlValue{literal: sqltext.QuoteLiteral(s)}
}

// looksLikeUUID is a cheap shape check before handing off to uuid.Parse;
// only the canonical hyphenated form is treated as a UUID so ordinary
// 32-character strings keep comparing as text.
func looksLikeUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	return s[8] == '-' && s[13] == '-' && s[18] == '-' && s[23] == '-'
}

// renderDateRangeBounds renders a {"from", "to"} object as an inclusive
// daterange literal.
func renderDateRangeBounds(bounds map[string]any) (sqlValue, error) {
	from, err := rangeBound(bounds, "from")
	if err != nil {
		return sqlValue{}, err
	}
	to, err := rangeBound(bounds, "to")
	if err != nil {
		return sqlValue{}, err
	}
	lit := fmt.Sprintf("[%s,%s]", from, to)
	return sqlValue{literal: sqltext.QuoteLiteral(lit) + "::daterange", cast: "::daterange"}, nil
}

func rangeBound(bounds map[string]any, key string) (string, error) {
	raw, ok := bounds[key]
	if !ok {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: "", Reason: fmt.Sprintf("range bound %q must be a date string", key)}
	}
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", &InvalidOperatorArgumentError{Operator: "", Reason: fmt.Sprintf("invalid date %q in range bound %q", s, key)}
	}
	return s, nil
}
