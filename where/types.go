package where

import (
	"strings"

	"github.com/fraiseql/fraiseql-go/internal/sqltext"
)

// DeclaredType is an optional semantic tag attached to a filterable field.
// It selects a specialized operator strategy beyond the generic scalar
// operators. The zero value selects the generic strategy, which infers
// casts from the runtime shape of each value.
type DeclaredType string

const (
	TypeGeneric   DeclaredType = ""
	TypeUUID      DeclaredType = "uuid"
	TypeDate      DeclaredType = "date"
	TypeTimestamp DeclaredType = "timestamp"
	TypeDateRange DeclaredType = "daterange"
	TypeIPAddress DeclaredType = "ip_address"
	TypeCIDR      DeclaredType = "cidr"
	TypeLTree     DeclaredType = "ltree"
	TypeGeometry  DeclaredType = "geometry"
)

// Node is the interface implemented by all filter tree nodes.
// Use type switches to access specific node data.
type Node interface {
	// nodeMarker is a marker method to prevent external implementation.
	nodeMarker()
}

// OpSet maps operator names to their argument values for one field.
// Entries whose value is nil are dropped before compilation, so callers
// may submit optional filter objects without pre-pruning.
type OpSet map[string]any

// Predicate filters one or more fields of a document. Multiple operators
// on one field combine with AND, as do predicates across fields.
type Predicate map[string]OpSet

// And combines child filters so that all must match.
type And []Node

// Or combines child filters so that at least one must match.
type Or []Node

// Not negates its child filter.
type Not struct {
	Child Node
}

func (Predicate) nodeMarker() {}
func (And) nodeMarker()       {}
func (Or) nodeMarker()        {}
func (Not) nodeMarker()       {}

// Accessor locates a value inside the document column of a view.
// The column holds a JSONB document; Path is the ordered sequence of
// document keys (snake_case) leading to the value.
type Accessor struct {
	Column string
	Path   []string
}

// Text returns the text-extraction form of the accessor,
// e.g. (data->>'name') or (data->'address'->>'city').
// The terminal key is extracted with ->> so the result is always text;
// comparisons re-cast it to the target type as needed.
func (a Accessor) Text() string {
	return a.render("->>")
}

// JSON returns the JSON-valued form of the accessor, e.g. (data->'tags').
// Used by document containment operators that compare JSON values.
func (a Accessor) JSON() string {
	return a.render("->")
}

func (a Accessor) render(terminal string) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(sqltext.QuoteIdentifier(a.Column))
	for i, key := range a.Path {
		if i == len(a.Path)-1 {
			sb.WriteString(terminal)
		} else {
			sb.WriteString("->")
		}
		sb.WriteString(sqltext.QuoteLiteral(key))
	}
	sb.WriteString(")")
	return sb.String()
}

// FieldResolver resolves a filter field name to its document accessor and
// declared type. Field names are assumed pre-validated by the caller; the
// compiler treats them as opaque path segments.
type FieldResolver interface {
	ResolveFilterField(name string) (Accessor, DeclaredType)
}

// DocumentResolver is the default FieldResolver: every field maps into a
// single JSONB document column using the snake_case form of its name.
// Dotted names address nested keys ("address.city" -> data->'address'->>'city').
type DocumentResolver struct {
	// Column is the document column name. Empty defaults to "data".
	Column string
}

// ResolveFilterField implements FieldResolver.
func (r DocumentResolver) ResolveFilterField(name string) (Accessor, DeclaredType) {
	column := r.Column
	if column == "" {
		column = "data"
	}
	segments := strings.Split(name, ".")
	path := make([]string, len(segments))
	for i, seg := range segments {
		path[i] = sqltext.ToSnake(seg)
	}
	return Accessor{Column: column, Path: path}, TypeGeneric
}
