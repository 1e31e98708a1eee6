// Package catalog registers document-backed views and the typed fields
// they expose for filtering and projection.
package catalog

import (
	"strings"

	"github.com/fraiseql/fraiseql-go/projection"
	"github.com/fraiseql/fraiseql-go/where"
)

// Catalog is an immutable set of views built by Builder. Safe for
// concurrent use.
type Catalog struct {
	views map[string]*View
}

// View looks up a registered view by its exposed name.
func (c *Catalog) View(name string) (*View, bool) {
	v, ok := c.views[name]
	return v, ok
}

// Views returns the exposed names of all registered views.
func (c *Catalog) Views() []string {
	names := make([]string, 0, len(c.views))
	for name := range c.views {
		names = append(names, name)
	}
	return names
}

// View is one immutable registered view.
type View struct {
	name           string
	relation       string
	documentColumn string
	typeTag        string
	transform      string
	fields         map[string]field
}

type field struct {
	path     []string
	declared where.DeclaredType
}

// Name returns the exposed view name.
func (v *View) Name() string {
	return v.name
}

// Relation returns the backing relation, possibly schema-qualified.
func (v *View) Relation() string {
	return v.relation
}

// DocumentColumn returns the JSONB document column name.
func (v *View) DocumentColumn() string {
	return v.documentColumn
}

// TypeTag returns the entity-type tag passed to the transform function.
func (v *View) TypeTag() string {
	return v.typeTag
}

// Transform returns the optional qualified transform function name.
func (v *View) Transform() string {
	return v.transform
}

// ResolveFilterField implements where.FieldResolver. Registered fields
// resolve to their storage path and declared type; unregistered names fall
// back to the snake_case document key, untyped.
func (v *View) ResolveFilterField(name string) (where.Accessor, where.DeclaredType) {
	if f, ok := v.fields[name]; ok {
		return where.Accessor{Column: v.documentColumn, Path: f.path}, f.declared
	}
	return where.DocumentResolver{Column: v.documentColumn}.ResolveFilterField(name)
}

// ProjectionFields maps requested field names to projection paths, in
// request order.
func (v *View) ProjectionFields(names []string) []projection.FieldPath {
	out := make([]projection.FieldPath, len(names))
	for i, name := range names {
		out[i] = projection.FieldPath{Alias: name, Path: v.storagePath(name)}
	}
	return out
}

// OrderExpr returns the accessor expression used to order by a field.
func (v *View) OrderExpr(name string) string {
	acc := where.Accessor{Column: v.documentColumn, Path: v.storagePath(name)}
	return acc.Text()
}

func (v *View) storagePath(name string) []string {
	if f, ok := v.fields[name]; ok {
		return f.path
	}
	acc, _ := where.DocumentResolver{Column: v.documentColumn}.ResolveFilterField(name)
	return acc.Path
}

func splitStorageKey(key string) []string {
	return strings.Split(key, ".")
}
