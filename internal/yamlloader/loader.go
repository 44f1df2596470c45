// Package yamlloader provides the YAML implementation of config.Loader for
// .yaml and .yml schema files:
//
//	params:
//	  - name: gain
//	    type: int
//	    min: 0
//	    max: 100
//	    default: 50
//	  - name: main
//	    type: page
//	    children: [gain, {skip: row}, mode]
//	page_order: [main]
//
// Value-typed fields (default, min, max, display_min, display_max) are
// converted to cty through cty's JSON codec and typed later, when the
// parameter kind is applied.
package yamlloader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vk/paramgrid/internal/config"
	"github.com/vk/paramgrid/internal/ctxlog"
	"github.com/vk/paramgrid/internal/fsutil"
	"github.com/vk/paramgrid/internal/param"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

type fileDoc struct {
	Params    []paramDoc `yaml:"params"`
	PageOrder []string   `yaml:"page_order"`
}

type paramDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	Label      string `yaml:"label"`
	ShortLabel string `yaml:"short_label"`
	LongLabel  string `yaml:"long_label"`
	Hint       string `yaml:"hint"`
	ScriptName string `yaml:"script_name"`
	Secret     *bool  `yaml:"secret"`
	Enabled    *bool  `yaml:"enabled"`
	Parent     string `yaml:"parent"`

	Animates          *bool  `yaml:"animates"`
	Persistent        *bool  `yaml:"persistent"`
	EvaluateOnChange  *bool  `yaml:"evaluate_on_change"`
	CanUndo           *bool  `yaml:"can_undo"`
	CacheInvalidation string `yaml:"cache_invalidation"`

	Default    yaml.Node `yaml:"default"`
	Min        yaml.Node `yaml:"min"`
	Max        yaml.Node `yaml:"max"`
	DisplayMin yaml.Node `yaml:"display_min"`
	DisplayMax yaml.Node `yaml:"display_max"`

	DimensionLabels []string `yaml:"dimension_labels"`
	Increment       *float64 `yaml:"increment"`
	Digits          *int     `yaml:"digits"`
	DoubleType      string   `yaml:"double_type"`
	ShowTimeMarker  *bool    `yaml:"show_time_marker"`
	StringType      string   `yaml:"string_type"`
	FilePathExists  *bool    `yaml:"file_path_exists"`
	Options         []string `yaml:"options"`

	Children []yaml.Node `yaml:"children"`
}

// Loader implements config.Loader for YAML files.
type Loader struct{}

func NewLoader() *Loader { return &Loader{} }

var _ config.Loader = (*Loader)(nil)

func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFiles(paths, ".yaml", ".yml")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	model := &config.Model{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file %s: %w", file, err)
		}
		var doc fileDoc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse schema file %s: %w", file, err)
		}
		part, err := translate(file, &doc)
		if err != nil {
			return nil, err
		}
		model.Merge(part)
	}
	logger.Debug("YAML loading complete.", "params", len(model.Params))
	return model, nil
}

func translate(file string, doc *fileDoc) (*config.Model, error) {
	m := &config.Model{PageOrder: doc.PageOrder}
	for i := range doc.Params {
		p := &doc.Params[i]
		if p.Name == "" {
			return nil, fmt.Errorf("%s: param #%d has no name", file, i+1)
		}
		kind, err := param.ParseType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: param %q: %w", file, p.Name, err)
		}
		cp := &config.Param{
			Name:              p.Name,
			Type:              kind,
			Source:            file,
			Label:             p.Label,
			ShortLabel:        p.ShortLabel,
			LongLabel:         p.LongLabel,
			Hint:              p.Hint,
			ScriptName:        p.ScriptName,
			Secret:            p.Secret,
			Enabled:           p.Enabled,
			Parent:            p.Parent,
			Animates:          p.Animates,
			Persistent:        p.Persistent,
			EvaluateOnChange:  p.EvaluateOnChange,
			CanUndo:           p.CanUndo,
			CacheInvalidation: p.CacheInvalidation,
			DimensionLabels:   p.DimensionLabels,
			Increment:         p.Increment,
			Digits:            p.Digits,
			DoubleType:        p.DoubleType,
			ShowTimeMarker:    p.ShowTimeMarker,
			StringType:        p.StringType,
			FilePathExists:    p.FilePathExists,
			Options:           p.Options,
		}
		nodes := []struct {
			name string
			node *yaml.Node
			dst  *cty.Value
		}{
			{"default", &p.Default, &cp.Default},
			{"min", &p.Min, &cp.Min},
			{"max", &p.Max, &cp.Max},
			{"display_min", &p.DisplayMin, &cp.DisplayMin},
			{"display_max", &p.DisplayMax, &cp.DisplayMax},
		}
		for _, n := range nodes {
			v, err := nodeValue(n.node)
			if err != nil {
				return nil, fmt.Errorf("%s: param %q: %s: %w", file, p.Name, n.name, err)
			}
			*n.dst = v
		}
		if cp.Children, err = children(p.Children); err != nil {
			return nil, fmt.Errorf("%s: param %q: %w", file, p.Name, err)
		}
		m.Params = append(m.Params, cp)
	}
	return m, nil
}

// nodeValue converts a YAML node to the cty value its JSON form implies.
// Absent and null nodes give cty.NilVal.
func nodeValue(n *yaml.Node) (cty.Value, error) {
	if n.Kind == 0 {
		return cty.NilVal, nil
	}
	var raw any
	if err := n.Decode(&raw); err != nil {
		return cty.NilVal, err
	}
	if raw == nil {
		return cty.NilVal, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return cty.NilVal, err
	}
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(data, ty)
}

func children(nodes []yaml.Node) ([]param.PageEntry, error) {
	var out []param.PageEntry
	for _, n := range nodes {
		switch n.Kind {
		case yaml.ScalarNode:
			out = append(out, param.ParamEntry(n.Value))
		case yaml.MappingNode:
			var skip struct {
				Skip string `yaml:"skip"`
			}
			if err := n.Decode(&skip); err != nil {
				return nil, err
			}
			switch skip.Skip {
			case "row":
				out = append(out, param.SkipRow())
			case "column":
				out = append(out, param.SkipColumn())
			default:
				return nil, fmt.Errorf("line %d: skip must be row or column, got %q", n.Line, skip.Skip)
			}
		default:
			return nil, fmt.Errorf("line %d: children entries are names or {skip: row|column}", n.Line)
		}
	}
	return out, nil
}
