// Package fraiseql compiles typed filter trees and field selections into
// parameterizable SQL statements over document-backed Postgres views.
//
// A document-backed view carries one JSONB column holding a precomputed
// nested representation of the row. The compiler turns a request (view
// name, filter tree, selected fields, ordering and pagination) into a
// single SELECT whose predicate accesses the document column and whose
// projection either builds the result object field by field or passes the
// whole document through once the field count crosses a threshold.
//
// # Quick Start
//
//	cat, err := catalog.NewBuilder().
//	    View(catalog.ViewDef{
//	        Name:     "products",
//	        Relation: "catalog.v_products",
//	    }).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	compiler, err := fraiseql.New(fraiseql.Config{Catalog: cat})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer compiler.Close()
//
//	q, err := compiler.CompileFind(fraiseql.Request{
//	    View:   "products",
//	    Filter: where.Predicate{"name": {"eq": "Widget A"}},
//	    Fields: []string{"id", "name", "price"},
//	})
//	// q.SQL:
//	// SELECT jsonb_build_object('id', data->>'id', 'name', data->>'name',
//	//   'price', data->>'price') AS result
//	// FROM catalog.v_products WHERE (data->>'name') = 'Widget A'
//
// Filter values are validated and escaped at compilation time; invalid
// operators or values abort the whole compilation before any SQL leaves
// the process. Typed fields (network addresses, hierarchical paths, date
// ranges, geometries) are declared in the catalog and unlock specialized
// operators.
package fraiseql
