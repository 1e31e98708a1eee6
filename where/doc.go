// Package where compiles typed filter trees into Postgres WHERE-clause
// fragments over JSONB document columns.
//
// A filter tree is built from Predicate, And, Or and Not nodes. Each
// predicate field resolves to an accessor into the document column plus an
// optional declared type; the declared type selects an operator strategy
// (network, hierarchical path, date range, geometry) beyond the generic
// scalar operators. All literal values are escaped and inlined, and
// identical trees always compile to byte-identical SQL.
package where
