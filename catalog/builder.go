package catalog

import (
	"fmt"

	"github.com/fraiseql/fraiseql-go/internal/sqltext"
	"github.com/fraiseql/fraiseql-go/where"
)

// FieldDef defines one exposed field of a view.
type FieldDef struct {
	// Name is the caller-visible field name (e.g. "ipAddress").
	// REQUIRED: MUST be non-empty and unique within the view.
	Name string

	// StorageKey is the document key holding the value. Dotted keys address
	// nested objects ("address.city").
	// OPTIONAL: defaults to the snake_case form of Name.
	StorageKey string

	// Type selects a specialized operator strategy for the field.
	// OPTIONAL: untyped fields use the generic strategy.
	Type where.DeclaredType
}

// ViewDef defines a document-backed view.
type ViewDef struct {
	// Name is the exposed view name used in requests.
	// REQUIRED: MUST be non-empty and unique within the catalog.
	Name string

	// Relation is the backing relation, optionally schema-qualified
	// (e.g. "catalog.v_products").
	// OPTIONAL: defaults to Name.
	Relation string

	// DocumentColumn is the JSONB column holding the precomputed document.
	// OPTIONAL: defaults to "data".
	DocumentColumn string

	// TypeTag is the entity-type tag passed as the second argument to the
	// transform function.
	// OPTIONAL: empty if the view has no transform.
	TypeTag string

	// Transform is a qualified SQL function wrapped around projections.
	// OPTIONAL: empty for plain projections.
	Transform string

	// Fields declares the typed fields. Undeclared fields remain filterable
	// through the generic strategy.
	// OPTIONAL: may be empty.
	Fields []FieldDef
}

// declaredTypes is the closed set accepted at registration time.
var declaredTypes = map[where.DeclaredType]bool{
	where.TypeGeneric:   true,
	where.TypeUUID:      true,
	where.TypeDate:      true,
	where.TypeTimestamp: true,
	where.TypeDateRange: true,
	where.TypeIPAddress: true,
	where.TypeCIDR:      true,
	where.TypeLTree:     true,
	where.TypeGeometry:  true,
}

// Builder builds immutable catalogs using a fluent API.
// Not thread-safe, use only during initialization.
type Builder struct {
	defs  []ViewDef
	built bool
}

// NewBuilder creates an empty catalog builder.
//
// Example:
//
//	cat, err := catalog.NewBuilder().
//	    View(catalog.ViewDef{Name: "products", Relation: "v_products"}).
//	    View(catalog.ViewDef{Name: "servers", Fields: []catalog.FieldDef{
//	        {Name: "ipAddress", Type: where.TypeIPAddress},
//	    }}).
//	    Build()
func NewBuilder() *Builder {
	return &Builder{}
}

// View adds a view definition to the catalog.
func (b *Builder) View(def ViewDef) *Builder {
	b.defs = append(b.defs, def)
	return b
}

// Build validates every definition and returns the immutable catalog.
// Can only be called once.
func (b *Builder) Build() (*Catalog, error) {
	if b.built {
		return nil, fmt.Errorf("catalog already built")
	}

	views := make(map[string]*View, len(b.defs))
	for _, def := range b.defs {
		if def.Name == "" {
			return nil, fmt.Errorf("view name cannot be empty")
		}
		if _, ok := views[def.Name]; ok {
			return nil, fmt.Errorf("duplicate view name: %s", def.Name)
		}
		v, err := buildView(def)
		if err != nil {
			return nil, err
		}
		views[def.Name] = v
	}

	b.built = true
	return &Catalog{views: views}, nil
}

func buildView(def ViewDef) (*View, error) {
	v := &View{
		name:           def.Name,
		relation:       def.Relation,
		documentColumn: def.DocumentColumn,
		typeTag:        def.TypeTag,
		transform:      def.Transform,
		fields:         make(map[string]field, len(def.Fields)),
	}
	if v.relation == "" {
		v.relation = def.Name
	}
	if v.documentColumn == "" {
		v.documentColumn = "data"
	}

	for _, f := range def.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field name cannot be empty in view %s", def.Name)
		}
		if _, ok := v.fields[f.Name]; ok {
			return nil, fmt.Errorf("duplicate field %s in view %s", f.Name, def.Name)
		}
		if !declaredTypes[f.Type] {
			return nil, fmt.Errorf("unknown declared type %q for field %s in view %s", f.Type, f.Name, def.Name)
		}
		key := f.StorageKey
		if key == "" {
			key = sqltext.ToSnake(f.Name)
		}
		v.fields[f.Name] = field{path: splitStorageKey(key), declared: f.Type}
	}
	return v, nil
}
