package descriptor

import (
	"fmt"

	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/propstore"
)

// Page lays descriptors out for display. Its children are an ordered list
// of parameter references and row/column skips; the order carries no value
// semantics.
type Page struct{ base }

func (p *Page) Children() ([]param.PageEntry, error) {
	return propstore.Get(p.h, propstore.SlotPageChildren, param.EntriesCodec)
}

// AddChild appends d, which must be defined in the same set.
func (p *Page) AddChild(d Descriptor) error {
	if !p.set.owns(d) {
		return fmt.Errorf("page %q: child %q: %w in this set", p.Name(), d.Name(), param.ErrNotFound)
	}
	if d.Type() == param.TypePage {
		return fmt.Errorf("page %q: child %q is itself a page", p.Name(), d.Name())
	}
	return p.add(param.ParamEntry(d.Name()))
}

// ResetChildren empties the page.
func (p *Page) ResetChildren() error {
	return propstore.Set(p.h, propstore.SlotPageChildren, param.EntriesCodec, nil)
}

// AddSkipRow moves the layout to the next row.
func (p *Page) AddSkipRow() error { return p.add(param.SkipRow()) }

// AddSkipColumn moves the layout to the next column.
func (p *Page) AddSkipColumn() error { return p.add(param.SkipColumn()) }

func (p *Page) add(e param.PageEntry) error {
	children, err := p.Children()
	if err != nil {
		return err
	}
	return propstore.Set(p.h, propstore.SlotPageChildren, param.EntriesCodec, append(children, e))
}
