// Package declare runs a declaration phase from a loaded schema: it defines
// every parameter of a config.Model in a descriptor set and applies its
// metadata, parents, page layouts and page order.
package declare

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/paramgrid/internal/config"
	"github.com/vk/paramgrid/internal/ctxlog"
	"github.com/vk/paramgrid/internal/descriptor"
	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/propstore"
	"github.com/zclconf/go-cty/cty"
)

// Apply declares m into set. It keeps going after a failing parameter and
// returns every failure joined.
func Apply(ctx context.Context, m *config.Model, set *descriptor.Set) error {
	logger := ctxlog.FromContext(ctx)
	var errs []error
	fail := func(p *config.Param, err error) {
		logger.Warn("Parameter declaration failed.", "name", p.Name, "source", p.Source, "error", err)
		errs = append(errs, fmt.Errorf("%s: %s %q: %w", p.Source, p.Type, p.Name, err))
	}

	// Define everything first so parents and children may be referenced
	// before their own declaration.
	var ok []*config.Param
	for _, p := range m.Params {
		d, err := set.Define(ctx, p.Name, p.Type)
		if err != nil {
			fail(p, err)
			continue
		}
		if err := applySlots(d.Handle(), p); err != nil {
			fail(p, err)
			continue
		}
		ok = append(ok, p)
	}

	for _, p := range ok {
		d, _ := set.Descriptor(p.Name)
		if p.Parent != "" {
			if err := applyParent(set, d, p.Parent); err != nil {
				fail(p, err)
			}
		}
		if page, isPage := d.(*descriptor.Page); isPage && p.Children != nil {
			if err := applyChildren(set, page, p.Children); err != nil {
				fail(p, err)
			}
		}
	}

	if len(m.PageOrder) > 0 {
		if err := applyPageOrder(set, m.PageOrder); err != nil {
			errs = append(errs, err)
		}
	}

	logger.Debug("Declaration applied.", "params", len(ok), "failed", len(errs))
	return errors.Join(errs...)
}

func applySlots(h propstore.Handle, p *config.Param) error {
	strs := []struct {
		slot propstore.Slot
		v    string
	}{
		{propstore.SlotLabel, p.Label},
		{propstore.SlotShortLabel, p.ShortLabel},
		{propstore.SlotLongLabel, p.LongLabel},
		{propstore.SlotHint, p.Hint},
		{propstore.SlotScriptName, p.ScriptName},
	}
	for _, s := range strs {
		if s.v == "" {
			continue
		}
		if err := propstore.Set(h, s.slot, param.StringCodec, s.v); err != nil {
			return err
		}
	}

	bools := []struct {
		slot propstore.Slot
		v    *bool
	}{
		{propstore.SlotSecret, p.Secret},
		{propstore.SlotEnabled, p.Enabled},
		{propstore.SlotAnimates, p.Animates},
		{propstore.SlotPersistent, p.Persistent},
		{propstore.SlotEvaluateOnChange, p.EvaluateOnChange},
		{propstore.SlotCanUndo, p.CanUndo},
		{propstore.SlotShowTimeMarker, p.ShowTimeMarker},
		{propstore.SlotFilePathExists, p.FilePathExists},
	}
	for _, b := range bools {
		if b.v == nil {
			continue
		}
		if err := propstore.Set(h, b.slot, param.BoolCodec, *b.v); err != nil {
			return err
		}
	}

	// Range slots before the default so a store that clamps sees the
	// final range.
	values := []struct {
		slot propstore.Slot
		v    cty.Value
	}{
		{propstore.SlotMin, p.Min},
		{propstore.SlotMax, p.Max},
		{propstore.SlotDisplayMin, p.DisplayMin},
		{propstore.SlotDisplayMax, p.DisplayMax},
		{propstore.SlotDefault, p.Default},
	}
	for _, v := range values {
		if !config.IsSet(v.v) {
			continue
		}
		if err := h.Set(v.slot, v.v); err != nil {
			return err
		}
	}

	if p.CacheInvalidation != "" {
		policy, err := param.ParseCacheInvalidation(p.CacheInvalidation)
		if err != nil {
			return err
		}
		if err := (propstore.Behavior{P: h}).SetCacheInvalidation(policy); err != nil {
			return err
		}
	}
	if p.DoubleType != "" {
		dt, err := param.ParseDoubleType(p.DoubleType)
		if err != nil {
			return err
		}
		if err := (propstore.DoubleAttrs{P: h}).SetDoubleType(dt); err != nil {
			return err
		}
	}
	if p.StringType != "" {
		st, err := param.ParseStringType(p.StringType)
		if err != nil {
			return err
		}
		if err := (propstore.StringAttrs{P: h}).SetStringType(st); err != nil {
			return err
		}
	}
	if p.Increment != nil {
		if err := (propstore.DoubleAttrs{P: h}).SetIncrement(*p.Increment); err != nil {
			return err
		}
	}
	if p.Digits != nil {
		if err := (propstore.DoubleAttrs{P: h}).SetDigits(*p.Digits); err != nil {
			return err
		}
	}
	if p.DimensionLabels != nil {
		dims := propstore.Dimensions{P: h, N: h.Type().Dimension()}
		if err := dims.SetDimensionLabels(p.DimensionLabels...); err != nil {
			return err
		}
	}
	if p.Options != nil {
		if err := propstore.Set(h, propstore.SlotChoiceOptions, param.StringsCodec, p.Options); err != nil {
			return err
		}
	}
	return nil
}

func applyParent(set *descriptor.Set, d descriptor.Descriptor, parent string) error {
	pd, ok := set.Descriptor(parent)
	if !ok {
		return fmt.Errorf("parent %q: %w", parent, param.ErrNotFound)
	}
	g, ok := pd.(*descriptor.Group)
	if !ok {
		return fmt.Errorf("parent %q is a %s, not a group", parent, pd.Type())
	}
	return d.SetParent(g)
}

func applyChildren(set *descriptor.Set, page *descriptor.Page, entries []param.PageEntry) error {
	if err := page.ResetChildren(); err != nil {
		return err
	}
	for _, e := range entries {
		var err error
		switch e.EntryKind() {
		case param.EntrySkipRow:
			err = page.AddSkipRow()
		case param.EntrySkipColumn:
			err = page.AddSkipColumn()
		default:
			child, ok := set.Descriptor(e.Name)
			if !ok {
				return fmt.Errorf("child %q: %w", e.Name, param.ErrNotFound)
			}
			err = page.AddChild(child)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func applyPageOrder(set *descriptor.Set, names []string) error {
	pages := make([]*descriptor.Page, 0, len(names))
	for _, name := range names {
		d, ok := set.Descriptor(name)
		if !ok {
			return fmt.Errorf("page order: %q: %w", name, param.ErrNotFound)
		}
		page, ok := d.(*descriptor.Page)
		if !ok {
			return fmt.Errorf("page order: %q is a %s, not a page", name, d.Type())
		}
		pages = append(pages, page)
	}
	return set.SetPageOrder(pages...)
}
