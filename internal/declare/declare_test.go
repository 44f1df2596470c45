package declare

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/paramgrid/internal/config"
	"github.com/vk/paramgrid/internal/descriptor"
	"github.com/vk/paramgrid/internal/inmemorystore"
	"github.com/vk/paramgrid/internal/param"
	"github.com/zclconf/go-cty/cty"
)

func ptr[T any](v T) *T { return &v }

func TestApply_DefinesAndConfigures(t *testing.T) {
	ctx := context.Background()
	set := descriptor.NewSet(inmemorystore.New(), nil)

	m := &config.Model{
		Params: []*config.Param{
			{Name: "controls", Type: param.TypeGroup, Source: "a.hcl", Label: "Controls"},
			{
				Name: "gain", Type: param.TypeInt, Source: "a.hcl",
				Label: "Gain", Hint: "output gain", Parent: "controls",
				Animates:          ptr(true),
				CacheInvalidation: "value_change_to_end",
				Default:           cty.NumberIntVal(50),
				Min:               cty.NumberIntVal(0),
				Max:               cty.NumberIntVal(100),
			},
			{
				Name: "offset", Type: param.TypeDouble2D, Source: "a.hcl",
				DimensionLabels: []string{"x", "y"},
				Increment:       ptr(0.5),
				Digits:          ptr(3),
				DoubleType:      "normalised_xy_absolute",
			},
			{Name: "mode", Type: param.TypeChoice, Source: "a.hcl", Options: []string{"fast", "slow"}},
			{
				Name: "main", Type: param.TypePage, Source: "a.hcl",
				Children: []param.PageEntry{param.ParamEntry("gain"), param.SkipRow(), param.ParamEntry("mode")},
			},
		},
		PageOrder: []string{"main"},
	}
	require.NoError(t, Apply(ctx, m, set))
	assert.Equal(t, []string{"controls", "gain", "offset", "mode", "main"}, set.Names())

	d, ok := set.Descriptor("gain")
	require.True(t, ok)
	gain := d.(*descriptor.Int)
	def, err := gain.Default()
	require.NoError(t, err)
	assert.Equal(t, 50, def)
	lo, hi, err := gain.Range()
	require.NoError(t, err)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 100, hi)
	label, err := gain.Label()
	require.NoError(t, err)
	assert.Equal(t, "Gain", label)
	policy, err := gain.CacheInvalidation()
	require.NoError(t, err)
	assert.Equal(t, param.InvalidateValueChangeToEnd, policy)
	parent, err := gain.ParentName()
	require.NoError(t, err)
	assert.Equal(t, "controls", parent)

	d, _ = set.Descriptor("offset")
	offset := d.(*descriptor.Double2D)
	labels, err := offset.DimensionLabels()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, labels)
	digits, err := offset.Digits()
	require.NoError(t, err)
	assert.Equal(t, 3, digits)

	d, _ = set.Descriptor("mode")
	n, err := d.(*descriptor.Choice).NOptions()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	d, _ = set.Descriptor("main")
	children, err := d.(*descriptor.Page).Children()
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, param.EntrySkipRow, children[1].EntryKind())

	order, err := set.PageOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, order)
}

func TestApply_ReappliesPageChildren(t *testing.T) {
	ctx := context.Background()
	store := inmemorystore.New()
	m := &config.Model{Params: []*config.Param{
		{Name: "gain", Type: param.TypeInt},
		{Name: "main", Type: param.TypePage, Children: []param.PageEntry{param.ParamEntry("gain")}},
	}}

	require.NoError(t, Apply(ctx, m, descriptor.NewSet(store, nil)))
	set := descriptor.NewSet(store, nil)
	require.NoError(t, Apply(ctx, m, set))

	d, _ := set.Descriptor("main")
	children, err := d.(*descriptor.Page).Children()
	require.NoError(t, err)
	assert.Len(t, children, 1)
}

func TestApply_CollectsErrors(t *testing.T) {
	ctx := context.Background()
	set := descriptor.NewSet(inmemorystore.New(), nil)

	m := &config.Model{
		Params: []*config.Param{
			{Name: "gain", Type: param.TypeInt, Source: "a.hcl"},
			{Name: "gain", Type: param.TypeDouble, Source: "b.hcl"},
			{Name: "flag", Type: param.TypeBoolean, Source: "b.hcl", Parent: "missing"},
			{Name: "level", Type: param.TypeInt, Source: "b.hcl", Parent: "gain"},
			{Name: "count", Type: param.TypeInt, Source: "b.hcl", Options: []string{"a"}},
		},
		PageOrder: []string{"gain"},
	}
	err := Apply(ctx, m, set)
	require.Error(t, err)
	assert.True(t, errors.Is(err, param.ErrSchemaConflict))
	assert.True(t, errors.Is(err, param.ErrNotFound))
	assert.True(t, errors.Is(err, param.ErrUnknownSlot))
	assert.Contains(t, err.Error(), "b.hcl")
	assert.Contains(t, err.Error(), "not a group")
	assert.Contains(t, err.Error(), "not a page")

	// the valid parts still landed
	_, ok := set.Descriptor("flag")
	assert.True(t, ok)
}

func TestApply_RejectsBadEnums(t *testing.T) {
	ctx := context.Background()
	set := descriptor.NewSet(inmemorystore.New(), nil)

	m := &config.Model{Params: []*config.Param{
		{Name: "gain", Type: param.TypeInt, CacheInvalidation: "sometimes"},
	}}
	assert.Error(t, Apply(ctx, m, set))
}
