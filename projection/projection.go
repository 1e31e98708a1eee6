// Package projection plans the SELECT list for document-backed views:
// either a selective object built field by field, or a whole-document
// passthrough once the field count crosses the threshold.
package projection

import (
	"strings"

	"github.com/fraiseql/fraiseql-go/internal/sqltext"
)

// DefaultThreshold is the field count above which a selection falls back
// to the full-document passthrough. Beyond it, selective projections stop
// paying for themselves and SQL text length grows without bound.
const DefaultThreshold = 20

// FieldPath selects one output field: the caller-visible alias and the
// storage-key path into the document column. Aliases and storage keys may
// differ by case convention only ("ipAddress" stored as "ip_address"); the
// planner performs no renaming of its own.
type FieldPath struct {
	Alias string
	Path  []string
}

// Plan describes one projection. The zero value of Threshold selects
// DefaultThreshold.
type Plan struct {
	Fields    []FieldPath
	Threshold int
	// Transform is an optional qualified function wrapped around the
	// projected object. It receives TypeTag as a literal second argument.
	Transform string
	TypeTag   string
	// RawText appends a text cast so consumers can skip re-parsing.
	RawText bool
}

func (p Plan) threshold() int {
	if p.Threshold <= 0 {
		return DefaultThreshold
	}
	return p.Threshold
}

// UsesFallback reports whether the plan degrades to the full-document
// passthrough instead of projecting individual fields.
func (p Plan) UsesFallback() bool {
	return len(p.Fields) == 0 || len(p.Fields) > p.threshold()
}

// SelectList renders the SELECT list expression, aliased as "result".
// documentColumn defaults to "data" when empty. Fields render in input
// order, so identical plans yield byte-identical SQL.
func (p Plan) SelectList(documentColumn string) string {
	if documentColumn == "" {
		documentColumn = "data"
	}
	column := sqltext.QuoteIdentifier(documentColumn)

	var expr string
	if p.UsesFallback() {
		expr = column
	} else {
		var sb strings.Builder
		sb.WriteString("jsonb_build_object(")
		for i, f := range p.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(sqltext.QuoteLiteral(f.Alias))
			sb.WriteString(", ")
			sb.WriteString(fieldAccessor(column, f.Path))
		}
		sb.WriteString(")")
		expr = sb.String()
	}

	if p.Transform != "" {
		expr = p.Transform + "(" + expr + ", " + sqltext.QuoteLiteral(p.TypeTag) + ")"
	}
	if p.RawText {
		expr += "::text"
	}
	return expr + " AS result"
}

// fieldAccessor walks the storage path with -> and extracts the terminal
// key as text.
func fieldAccessor(column string, path []string) string {
	var sb strings.Builder
	sb.WriteString(column)
	for i, key := range path {
		if i == len(path)-1 {
			sb.WriteString("->>")
		} else {
			sb.WriteString("->")
		}
		sb.WriteString(sqltext.QuoteLiteral(key))
	}
	return sb.String()
}
