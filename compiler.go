package fraiseql

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/fraiseql/fraiseql-go/catalog"
	"github.com/fraiseql/fraiseql-go/internal/plancache"
	"github.com/fraiseql/fraiseql-go/monitoring"
	"github.com/fraiseql/fraiseql-go/projection"
	"github.com/fraiseql/fraiseql-go/query"
	"github.com/fraiseql/fraiseql-go/where"
)

// Order orders results by one exposed field.
type Order struct {
	Field string
	Desc  bool
}

// Request describes one query against a registered view.
type Request struct {
	// View is the exposed view name.
	View string
	// Filter is the predicate tree. Nil means no WHERE clause.
	Filter where.Node
	// Fields selects the projected fields. Empty selects the whole
	// document.
	Fields  []string
	OrderBy []Order
	Limit   int
	Offset  int
}

// Compiler turns requests into executable statements. It holds no mutable
// state besides the optional statement cache and is safe for concurrent
// use.
type Compiler struct {
	catalog   *catalog.Catalog
	registry  *where.Registry
	threshold int
	rawText   bool
	log       *slog.Logger
	cache     *plancache.Cache
}

// New creates a Compiler from cfg.
func New(cfg Config) (*Compiler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	registry := cfg.Registry
	if registry == nil {
		registry = where.NewRegistry()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	var cache *plancache.Cache
	if cfg.CacheSize >= 0 {
		var err error
		cache, err = plancache.New(cfg.CacheSize)
		if err != nil {
			return nil, err
		}
	}
	return &Compiler{
		catalog:   cfg.Catalog,
		registry:  registry,
		threshold: cfg.fieldThreshold(),
		rawText:   cfg.RawText,
		log:       log,
		cache:     cache,
	}, nil
}

// Close releases the statement cache.
func (c *Compiler) Close() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Close()
}

// CompileFind compiles a multi-row SELECT for the request.
func (c *Compiler) CompileFind(req Request) (query.DatabaseQuery, error) {
	return c.compile("find", req)
}

// CompileFindOne compiles a single-row SELECT for the request.
func (c *Compiler) CompileFindOne(req Request) (query.DatabaseQuery, error) {
	return c.compile("one", req)
}

// CompileCount compiles a COUNT with the request's predicate. Field
// selection, ordering and pagination are ignored.
func (c *Compiler) CompileCount(req Request) (query.DatabaseQuery, error) {
	return c.compile("count", req)
}

func (c *Compiler) compile(kind string, req Request) (query.DatabaseQuery, error) {
	view, ok := c.catalog.View(req.View)
	if !ok {
		monitoring.CompileTotal.WithLabelValues(req.View, "error").Inc()
		return query.DatabaseQuery{}, fmt.Errorf("%w: %s", ErrViewNotFound, req.View)
	}

	var key string
	if c.cache != nil {
		key = requestSignature(kind, req)
		if q, hit := c.cache.Get(key); hit {
			monitoring.PlanCacheHits.Inc()
			return q, nil
		}
		monitoring.PlanCacheMisses.Inc()
	}

	cond, err := where.NewBuilder(c.registry, view).Compile(req.Filter)
	if err != nil {
		monitoring.CompileTotal.WithLabelValues(req.View, "error").Inc()
		return query.DatabaseQuery{}, err
	}

	var q query.DatabaseQuery
	switch kind {
	case "count":
		q = query.BuildCount(view.Relation(), cond)
	default:
		plan := projection.Plan{
			Fields:    view.ProjectionFields(req.Fields),
			Threshold: c.threshold,
			Transform: view.Transform(),
			TypeTag:   view.TypeTag(),
			RawText:   c.rawText,
		}
		if len(req.Fields) > 0 && plan.UsesFallback() {
			monitoring.ProjectionFallbackTotal.WithLabelValues(req.View).Inc()
			c.log.Debug("projection fell back to full document",
				"view", req.View, "fields", len(req.Fields), "threshold", c.threshold)
		}
		selectList := plan.SelectList(view.DocumentColumn())

		opts := query.Options{Limit: req.Limit, Offset: req.Offset}
		for _, o := range req.OrderBy {
			opts.OrderBy = append(opts.OrderBy, query.OrderClause{
				Expr: view.OrderExpr(o.Field),
				Desc: o.Desc,
			})
		}
		if kind == "one" {
			q = query.BuildFindOne(view.Relation(), selectList, cond, opts)
		} else {
			q = query.BuildFind(view.Relation(), selectList, cond, opts)
		}
	}

	monitoring.CompileTotal.WithLabelValues(req.View, "ok").Inc()
	if c.cache != nil {
		if err := c.cache.Put(key, q); err != nil {
			c.log.Warn("failed to cache compiled statement", "view", req.View, "error", err)
		}
	}
	return q, nil
}

// requestSignature renders a request as a deterministic cache key.
// Predicate fields and operators are written sorted, matching the order
// the predicate compiler emits them in.
func requestSignature(kind string, req Request) string {
	var sb strings.Builder
	sb.WriteString(kind)
	sb.WriteByte('|')
	sb.WriteString(req.View)
	sb.WriteByte('|')
	writeNodeSignature(&sb, req.Filter)
	sb.WriteByte('|')
	sb.WriteString(strings.Join(req.Fields, ","))
	sb.WriteByte('|')
	for _, o := range req.OrderBy {
		sb.WriteString(o.Field)
		if o.Desc {
			sb.WriteString(" desc")
		}
		sb.WriteByte(',')
	}
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(req.Limit))
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(req.Offset))
	return sb.String()
}

func writeNodeSignature(sb *strings.Builder, node where.Node) {
	switch n := node.(type) {
	case nil:
	case where.Predicate:
		fields := make([]string, 0, len(n))
		for f := range n {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		sb.WriteString("p{")
		for _, f := range fields {
			ops := n[f]
			names := make([]string, 0, len(ops))
			for name := range ops {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				sb.WriteString(f)
				sb.WriteByte(':')
				sb.WriteString(name)
				sb.WriteByte('=')
				// json.Marshal writes map keys sorted, keeping the
				// signature deterministic for object values.
				if encoded, err := json.Marshal(ops[name]); err == nil {
					sb.Write(encoded)
				}
				sb.WriteByte(';')
			}
		}
		sb.WriteString("}")
	case where.And:
		sb.WriteString("and(")
		for _, child := range n {
			writeNodeSignature(sb, child)
			sb.WriteByte(',')
		}
		sb.WriteString(")")
	case where.Or:
		sb.WriteString("or(")
		for _, child := range n {
			writeNodeSignature(sb, child)
			sb.WriteByte(',')
		}
		sb.WriteString(")")
	case where.Not:
		sb.WriteString("not(")
		writeNodeSignature(sb, n.Child)
		sb.WriteString(")")
	}
}
