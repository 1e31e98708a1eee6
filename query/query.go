// Package query assembles complete SELECT statements from compiled
// projection and predicate fragments.
package query

import (
	"strconv"
	"strings"

	"github.com/fraiseql/fraiseql-go/internal/sqltext"
)

// DatabaseQuery is a ready-to-execute statement. Params carries any
// positional arguments for the executor; predicate literals are inlined,
// so it is empty for compiled filters.
type DatabaseQuery struct {
	SQL    string
	Params []any
	// FetchResult is false for statements whose single aggregate value is
	// scanned directly, such as counts.
	FetchResult bool
}

// OrderClause orders results by an already-rendered accessor expression.
type OrderClause struct {
	Expr string
	Desc bool
}

// Options carries the pagination and ordering settings appended after the
// WHERE clause. Zero values leave the corresponding clause out.
type Options struct {
	OrderBy []OrderClause
	Limit   int
	Offset  int
}

// BuildFind assembles a SELECT over a document-backed view. view may be
// schema-qualified; where is the compiled predicate fragment, empty for
// no WHERE clause.
func BuildFind(view, selectList, where string, opts Options) DatabaseQuery {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(selectList)
	sb.WriteString(" FROM ")
	sb.WriteString(sqltext.QuoteQualifiedIdentifier(view))
	writeWhere(&sb, where)
	writeOptions(&sb, opts)
	return DatabaseQuery{SQL: sb.String(), FetchResult: true}
}

// BuildFindOne is BuildFind constrained to a single row.
func BuildFindOne(view, selectList, where string, opts Options) DatabaseQuery {
	opts.Limit = 1
	return BuildFind(view, selectList, where, opts)
}

// BuildCount assembles a COUNT over the view with the same predicate
// semantics as BuildFind. Ordering and pagination do not apply.
func BuildCount(view, where string) DatabaseQuery {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(sqltext.QuoteQualifiedIdentifier(view))
	writeWhere(&sb, where)
	return DatabaseQuery{SQL: sb.String()}
}

func writeWhere(sb *strings.Builder, where string) {
	if where == "" {
		return
	}
	sb.WriteString(" WHERE ")
	sb.WriteString(where)
}

func writeOptions(sb *strings.Builder, opts Options) {
	for i, clause := range opts.OrderBy {
		if i == 0 {
			sb.WriteString(" ORDER BY ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(clause.Expr)
		if clause.Desc {
			sb.WriteString(" DESC")
		}
	}
	if opts.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(opts.Offset))
	}
}
