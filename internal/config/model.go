package config

import (
	"context"

	"github.com/vk/paramgrid/internal/param"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific schema loader.
type Loader interface {
	// Load reads every schema file found under paths and merges them into
	// one Model. Paths that do not exist are skipped.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Model is the unified, format-agnostic representation of a schema.
type Model struct {
	// Params in declaration order. Pages are params of type page.
	Params []*Param
	// PageOrder names pages in display order; empty leaves it unset.
	PageOrder []string
}

// Merge appends other's params to m. A non-empty page order in other
// replaces m's.
func (m *Model) Merge(other *Model) {
	m.Params = append(m.Params, other.Params...)
	if len(other.PageOrder) > 0 {
		m.PageOrder = other.PageOrder
	}
}

// Param is one declared parameter. Nil pointers, empty strings and null
// values mean "keep the store's default".
type Param struct {
	Name string
	Type param.Type
	// Source is the file the param was declared in.
	Source string

	Label      string
	ShortLabel string
	LongLabel  string
	Hint       string
	ScriptName string
	Secret     *bool
	Enabled    *bool
	Parent     string

	Animates          *bool
	Persistent        *bool
	EvaluateOnChange  *bool
	CanUndo           *bool
	CacheInvalidation string

	// Value-typed slots; converted to the kind's value type when applied.
	Default    cty.Value
	Min        cty.Value
	Max        cty.Value
	DisplayMin cty.Value
	DisplayMax cty.Value

	DimensionLabels []string
	Increment       *float64
	Digits          *int
	DoubleType      string
	ShowTimeMarker  *bool
	StringType      string
	FilePathExists  *bool
	Options         []string

	// Children is the layout of a page.
	Children []param.PageEntry
}

// IsSet reports whether a value-typed field was given. cty.NilVal counts
// as null.
func IsSet(v cty.Value) bool {
	return !v.IsNull()
}
