package fraiseql

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fraiseql/fraiseql-go/catalog"
	"github.com/fraiseql/fraiseql-go/projection"
	"github.com/fraiseql/fraiseql-go/where"
)

// Config contains configuration for the query compiler.
type Config struct {
	// Catalog registers the views the compiler may target.
	// REQUIRED: MUST NOT be nil.
	Catalog *catalog.Catalog

	// Registry dispatches filter operators by declared field type.
	// OPTIONAL: Uses the built-in strategies if nil.
	Registry *where.Registry

	// FieldThreshold is the projected-field count above which a selection
	// falls back to the full document column.
	// OPTIONAL: If 0, uses projection.DefaultThreshold.
	FieldThreshold int

	// RawText appends a text cast to projections so consumers can skip
	// re-parsing the result document.
	// OPTIONAL: Defaults to false.
	RawText bool

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	Logger *slog.Logger

	// CacheSize bounds the compiled-statement cache.
	// OPTIONAL: If 0, uses the default size. Negative disables caching.
	CacheSize int
}

// Standard errors returned by the fraiseql package.
var (
	// ErrInvalidConfig indicates Config validation failed.
	ErrInvalidConfig = errors.New("invalid compiler config")

	// ErrViewNotFound indicates a request named an unregistered view.
	ErrViewNotFound = errors.New("view not found")
)

func (c *Config) validate() error {
	if c.Catalog == nil {
		return fmt.Errorf("%w: catalog is required", ErrInvalidConfig)
	}
	if c.FieldThreshold < 0 {
		return fmt.Errorf("%w: field threshold cannot be negative", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) fieldThreshold() int {
	if c.FieldThreshold == 0 {
		return projection.DefaultThreshold
	}
	return c.FieldThreshold
}
