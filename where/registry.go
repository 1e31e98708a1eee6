package where

// Registry dispatches operator rendering by declared field type. It is
// immutable after construction, so one Registry can serve concurrent
// compilations without locking.
type Registry struct {
	strategies map[DeclaredType]strategy
	fallback   strategy
}

// NewRegistry builds the operator registry with the built-in strategies.
func NewRegistry() *Registry {
	generic := genericStrategy{}
	return &Registry{
		strategies: map[DeclaredType]strategy{
			TypeGeneric:   generic,
			TypeUUID:      genericStrategy{declared: TypeUUID},
			TypeDate:      genericStrategy{declared: TypeDate},
			TypeTimestamp: genericStrategy{declared: TypeTimestamp},
			TypeDateRange: newDateRangeStrategy(),
			TypeIPAddress: newNetworkStrategy(TypeIPAddress),
			TypeCIDR:      newNetworkStrategy(TypeCIDR),
			TypeLTree:     newLTreeStrategy(),
			TypeGeometry:  newGeometryStrategy(),
		},
		fallback: generic,
	}
}

// Build renders one (accessor, operator, value) triple as a SQL fragment
// using the strategy for the declared type. Unknown declared types fall
// back to the generic strategy.
func (r *Registry) Build(acc Accessor, op string, value any, dt DeclaredType) (string, error) {
	st, ok := r.strategies[dt]
	if !ok {
		st = r.fallback
	}
	return st.build(acc, op, value)
}
