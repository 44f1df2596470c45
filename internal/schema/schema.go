// Package schema holds the gohcl-tagged structs schema files decode into.
package schema

import "github.com/hashicorp/hcl/v2"

// Param is a `param "<type>" "<name>"` block.
type Param struct {
	Type string `hcl:"type,label"`
	Name string `hcl:"name,label"`

	Label      *string `hcl:"label,optional"`
	ShortLabel *string `hcl:"short_label,optional"`
	LongLabel  *string `hcl:"long_label,optional"`
	Hint       *string `hcl:"hint,optional"`
	ScriptName *string `hcl:"script_name,optional"`
	Secret     *bool   `hcl:"secret,optional"`
	Enabled    *bool   `hcl:"enabled,optional"`
	Parent     *string `hcl:"parent,optional"`

	Animates          *bool   `hcl:"animates,optional"`
	Persistent        *bool   `hcl:"persistent,optional"`
	EvaluateOnChange  *bool   `hcl:"evaluate_on_change,optional"`
	CanUndo           *bool   `hcl:"can_undo,optional"`
	CacheInvalidation *string `hcl:"cache_invalidation,optional"`

	// Typed by the parameter kind, so they stay expressions until the kind
	// is known.
	Default    hcl.Expression `hcl:"default,optional"`
	Min        hcl.Expression `hcl:"min,optional"`
	Max        hcl.Expression `hcl:"max,optional"`
	DisplayMin hcl.Expression `hcl:"display_min,optional"`
	DisplayMax hcl.Expression `hcl:"display_max,optional"`

	DimensionLabels []string `hcl:"dimension_labels,optional"`
	Increment       *float64 `hcl:"increment,optional"`
	Digits          *int     `hcl:"digits,optional"`
	DoubleType      *string  `hcl:"double_type,optional"`
	ShowTimeMarker  *bool    `hcl:"show_time_marker,optional"`
	StringType      *string  `hcl:"string_type,optional"`
	FilePathExists  *bool    `hcl:"file_path_exists,optional"`
	Options         []string `hcl:"options,optional"`
}

// Page is a `page "<name>"` block. Children is a tuple of parameter names
// and the skip_row / skip_column layout variables.
type Page struct {
	Name       string         `hcl:"name,label"`
	Label      *string        `hcl:"label,optional"`
	ShortLabel *string        `hcl:"short_label,optional"`
	LongLabel  *string        `hcl:"long_label,optional"`
	Hint       *string        `hcl:"hint,optional"`
	Children   hcl.Expression `hcl:"children,optional"`
}

// File is the top-level structure of a schema file.
type File struct {
	Params    []*Param `hcl:"param,block"`
	Pages     []*Page  `hcl:"page,block"`
	PageOrder []string `hcl:"page_order,optional"`
	Remain    hcl.Body `hcl:",remain"`
}
