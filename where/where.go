package where

import (
	"sort"
	"strings"
)

// MatchNone is the fragment an empty Or compiles to. An Or with no
// surviving children has no branch that can match, and emitting a constant
// keeps the choice visible in the SQL text instead of silently matching
// everything.
const MatchNone = "FALSE"

// Builder compiles filter trees into WHERE-clause fragments. It holds no
// mutable state, so one Builder is safe for concurrent use.
type Builder struct {
	registry *Registry
	resolver FieldResolver
}

// NewBuilder returns a Builder using the given registry and field resolver.
// A nil registry uses the built-in strategies; a nil resolver maps every
// field into the "data" document column.
func NewBuilder(registry *Registry, resolver FieldResolver) *Builder {
	if registry == nil {
		registry = NewRegistry()
	}
	if resolver == nil {
		resolver = DocumentResolver{}
	}
	return &Builder{registry: registry, resolver: resolver}
}

// Compile renders a filter tree as a SQL fragment with inlined, escaped
// literals. The empty string means no predicate: the caller omits the
// WHERE clause. Identical trees always compile to byte-identical SQL;
// predicate fields and operators render in sorted order, and And/Or
// children and IN lists preserve input order.
func (b *Builder) Compile(node Node) (string, error) {
	if node == nil {
		return "", nil
	}
	switch n := node.(type) {
	case Predicate:
		return b.compilePredicate(n)
	case And:
		return b.compileJunction([]Node(n), "AND", "")
	case Or:
		return b.compileJunction([]Node(n), "OR", MatchNone)
	case Not:
		child, err := b.Compile(n.Child)
		if err != nil {
			return "", err
		}
		if child == "" {
			return "", nil
		}
		return "NOT (" + child + ")", nil
	default:
		return "", &UnsupportedValueTypeError{Value: node}
	}
}

func (b *Builder) compilePredicate(p Predicate) (string, error) {
	fields := make([]string, 0, len(p))
	for field := range p {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var terms []string
	for _, field := range fields {
		ops := p[field]
		names := make([]string, 0, len(ops))
		for name := range ops {
			names = append(names, name)
		}
		sort.Strings(names)

		acc, dt := b.resolver.ResolveFilterField(field)
		for _, name := range names {
			value := ops[name]
			if value == nil {
				continue
			}
			frag, err := b.registry.Build(acc, name, value, dt)
			if err != nil {
				return "", err
			}
			terms = append(terms, frag)
		}
	}
	return joinTerms(terms, "AND"), nil
}

// compileJunction compiles And/Or children, dropping the ones that vanish.
// empty is the fragment for a fully-vanished child set.
func (b *Builder) compileJunction(children []Node, sqlOp, empty string) (string, error) {
	var terms []string
	for _, child := range children {
		frag, err := b.Compile(child)
		if err != nil {
			return "", err
		}
		if frag == "" {
			continue
		}
		terms = append(terms, frag)
	}
	if len(terms) == 0 {
		return empty, nil
	}
	return joinTerms(terms, sqlOp), nil
}

func joinTerms(terms []string, sqlOp string) string {
	switch len(terms) {
	case 0:
		return ""
	case 1:
		return terms[0]
	default:
		return "(" + strings.Join(terms, " "+sqlOp+" ") + ")"
	}
}
