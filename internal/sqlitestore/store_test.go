package sqlitestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/propstore"
	"github.com/zclconf/go-cty/cty"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func asInt(t *testing.T, v cty.Value) int {
	t.Helper()
	i, err := param.IntCodec.Decode(v)
	require.NoError(t, err)
	return i
}

func TestCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	h, err := s.CreateProperty(ctx, "gain", param.TypeInt)
	require.NoError(t, err)
	assert.Equal(t, "gain", h.Name())

	again, err := s.CreateProperty(ctx, "gain", param.TypeInt)
	require.NoError(t, err)
	assert.Equal(t, param.TypeInt, again.Type())

	_, err = s.CreateProperty(ctx, "gain", param.TypeDouble)
	assert.True(t, errors.Is(err, param.ErrSchemaConflict))

	_, err = s.LookupProperty(ctx, "missing")
	assert.True(t, errors.Is(err, param.ErrNotFound))

	ok, err := s.PropertyExists(ctx, "gain")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.PropertyExists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.CreateProperty(ctx, "main", param.TypePage)
	require.NoError(t, err)
	names, err := s.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"gain", "main"}, names)
}

func TestSlots(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	h, err := s.CreateProperty(ctx, "gain", param.TypeInt)
	require.NoError(t, err)

	label, err := propstore.Get(h, propstore.SlotLabel, param.StringCodec)
	require.NoError(t, err)
	assert.Equal(t, "gain", label)

	require.NoError(t, propstore.SetRange(h, propstore.SlotMin, propstore.SlotMax, param.IntCodec, 0, 100))
	lo, hi, err := propstore.Range(h, propstore.SlotMin, propstore.SlotMax, param.IntCodec)
	require.NoError(t, err)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 100, hi)

	_, err = h.Get(propstore.SlotChoiceOptions)
	assert.True(t, errors.Is(err, param.ErrUnknownSlot))
	err = h.Set(propstore.SlotChoiceOptions, cty.ListValEmpty(cty.String))
	assert.True(t, errors.Is(err, param.ErrUnknownSlot))
}

func TestDefaultFollowsUntilWritten(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	h, err := s.CreateProperty(ctx, "gain", param.TypeInt)
	require.NoError(t, err)

	require.NoError(t, h.Set(propstore.SlotDefault, cty.NumberIntVal(50)))
	v, err := h.Value()
	require.NoError(t, err)
	assert.Equal(t, 50, asInt(t, v))

	require.NoError(t, h.SetValue(cty.NumberIntVal(7)))
	require.NoError(t, h.Set(propstore.SlotDefault, cty.NumberIntVal(60)))
	v, err = h.Value()
	require.NoError(t, err)
	assert.Equal(t, 7, asInt(t, v))
}

func TestKeysPersistAcrossReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openTestStore(t)
	h, err := s.CreateProperty(ctx, "gain", param.TypeInt)
	require.NoError(t, err)

	require.NoError(t, h.SetValueAtTime(20, cty.NumberIntVal(80)))
	require.NoError(t, h.SetValueAtTime(10, cty.NumberIntVal(20)))
	require.NoError(t, s.SetProperties().Set(propstore.SlotPageOrder, cty.ListVal([]cty.Value{cty.StringVal("main")})))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	h, err = reopened.LookupProperty(ctx, "gain")
	require.NoError(t, err)

	n, err := h.NumKeys()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	first, err := h.KeyTime(0)
	require.NoError(t, err)
	assert.Equal(t, 10.0, first)

	v, err := h.ValueAtTime(15)
	require.NoError(t, err)
	assert.Equal(t, 50, asInt(t, v))

	i, err := h.KeyIndex(12, param.SearchForward)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	order, err := propstore.Get(reopened.SetProperties(), propstore.SlotPageOrder, param.StringsCodec)
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, order)
}

func TestKeyEditing(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	h, err := s.CreateProperty(ctx, "blend", param.TypeDouble)
	require.NoError(t, err)

	require.NoError(t, h.SetValueAtTime(0, cty.NumberFloatVal(0)))
	require.NoError(t, h.SetValueAtTime(10, cty.NumberFloatVal(1)))

	_, err = h.KeyTime(2)
	var re *param.RangeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "blend", re.Name)

	d, err := h.Derivative(5)
	require.NoError(t, err)
	f, _ := d.AsBigFloat().Float64()
	assert.InDelta(t, 0.1, f, 1e-12)

	area, err := h.Integral(0, 10)
	require.NoError(t, err)
	f, _ = area.AsBigFloat().Float64()
	assert.InDelta(t, 5.0, f, 1e-12)

	require.NoError(t, h.DeleteKeyAtTime(3))
	n, err := h.NumKeys()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	s.SetTime(5)
	require.NoError(t, h.DeleteAllKeys())
	n, err = h.NumKeys()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	v, err := h.ValueAtTime(-3)
	require.NoError(t, err)
	f, _ = v.AsBigFloat().Float64()
	assert.InDelta(t, 0.5, f, 1e-12)
}

func TestEditBlocks(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	h, err := s.CreateProperty(ctx, "gain", param.TypeInt)
	require.NoError(t, err)

	require.NoError(t, s.BeginEditBlock(ctx, "ramp"))
	require.NoError(t, s.BeginEditBlock(ctx, "inner"))
	require.NoError(t, h.SetValueAtTime(0, cty.NumberIntVal(1)))
	require.NoError(t, s.EndEditBlock(ctx))
	require.NoError(t, h.SetValueAtTime(1, cty.NumberIntVal(2)))
	require.NoError(t, s.EndEditBlock(ctx))
	assert.ErrorIs(t, s.EndEditBlock(ctx), param.ErrNoEditBlock)

	blocks, err := s.EditBlocks(ctx)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "ramp", blocks[0].Label)
	assert.Equal(t, 2, blocks[0].Mutations)
	assert.True(t, blocks[0].Closed)
}

func TestNoValueKinds(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	h, err := s.CreateProperty(ctx, "main", param.TypePage)
	require.NoError(t, err)

	_, err = h.NumKeys()
	assert.Error(t, err)

	children, err := propstore.Get(h, propstore.SlotPageChildren, param.EntriesCodec)
	require.NoError(t, err)
	assert.Empty(t, children)
	require.NoError(t, propstore.Set(h, propstore.SlotPageChildren, param.EntriesCodec,
		[]param.PageEntry{param.ParamEntry("gain"), param.SkipRow()}))
	children, err = propstore.Get(h, propstore.SlotPageChildren, param.EntriesCodec)
	require.NoError(t, err)
	assert.Equal(t, []param.PageEntry{param.ParamEntry("gain"), param.SkipRow()}, children)
}
