package propstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/paramgrid/internal/inmemorystore"
	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/propstore"
	"github.com/zclconf/go-cty/cty"
)

func newHandle(t *testing.T, name string, kind param.Type) propstore.Handle {
	t.Helper()
	h, err := inmemorystore.New().CreateProperty(context.Background(), name, kind)
	require.NoError(t, err)
	return h
}

func TestDefaults(t *testing.T) {
	testCases := []struct {
		kind     param.Type
		has      []propstore.Slot
		lacks    []propstore.Slot
		animates bool
	}{
		{param.TypeInt, []propstore.Slot{propstore.SlotMin, propstore.SlotDefault}, []propstore.Slot{propstore.SlotIncrement}, true},
		{param.TypeDouble, []propstore.Slot{propstore.SlotShowTimeMarker, propstore.SlotDigits}, []propstore.Slot{propstore.SlotDimensionLabels}, true},
		{param.TypeDouble3D, []propstore.Slot{propstore.SlotDimensionLabels}, []propstore.Slot{propstore.SlotShowTimeMarker}, true},
		{param.TypeChoice, []propstore.Slot{propstore.SlotChoiceOptions}, []propstore.Slot{propstore.SlotMin}, true},
		{param.TypeCustom, []propstore.Slot{propstore.SlotDefault}, nil, false},
		{param.TypeGroup, []propstore.Slot{propstore.SlotLabel}, []propstore.Slot{propstore.SlotDefault, propstore.SlotAnimates}, false},
		{param.TypePage, []propstore.Slot{propstore.SlotPageChildren}, []propstore.Slot{propstore.SlotDefault}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			slots := propstore.Defaults("p", tc.kind)
			for _, s := range tc.has {
				assert.Contains(t, slots, s)
			}
			for _, s := range tc.lacks {
				assert.NotContains(t, slots, s)
			}
			assert.Equal(t, "p", slots[propstore.SlotLabel].AsString())
			if a, ok := slots[propstore.SlotAnimates]; ok {
				assert.Equal(t, tc.animates, a.True())
			}
		})
	}
}

func TestCoerce(t *testing.T) {
	v, err := propstore.Coerce(param.TypeInt2D, propstore.SlotDefault,
		cty.ObjectVal(map[string]cty.Value{"x": cty.NumberIntVal(1), "y": cty.StringVal("2")}))
	require.NoError(t, err)
	assert.True(t, v.Type().Equals(param.ValueType(param.TypeInt2D)))

	_, err = propstore.Coerce(param.TypeBoolean, propstore.SlotDefault, cty.StringVal("maybe"))
	assert.Error(t, err)

	_, err = propstore.Coerce(param.TypeInt, propstore.SlotLabel, cty.NullVal(cty.String))
	assert.Error(t, err)
}

func TestTypedHelpers(t *testing.T) {
	h := newHandle(t, "gain", param.TypeInt)

	require.NoError(t, propstore.SetRange(h, propstore.SlotMin, propstore.SlotMax, param.IntCodec, 0, 100))
	lo, hi, err := propstore.Range(h, propstore.SlotMin, propstore.SlotMax, param.IntCodec)
	require.NoError(t, err)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 100, hi)

	_, err = propstore.Get(h, propstore.SlotLabel, param.IntCodec)
	assert.Error(t, err, "a label does not decode as an int")
}

func TestMetaAndBehavior(t *testing.T) {
	h := newHandle(t, "gain", param.TypeDouble)
	meta := propstore.Meta{P: h}
	behavior := propstore.Behavior{P: h}

	require.NoError(t, meta.SetLabels("Gain", "G", "Output gain"))
	short, err := meta.ShortLabel()
	require.NoError(t, err)
	assert.Equal(t, "G", short)

	require.NoError(t, behavior.SetCacheInvalidation(param.InvalidateAll))
	policy, err := behavior.CacheInvalidation()
	require.NoError(t, err)
	assert.Equal(t, param.InvalidateAll, policy)

	require.NoError(t, behavior.SetAnimates(false))
	animates, err := behavior.Animates()
	require.NoError(t, err)
	assert.False(t, animates)
}

func TestDimensions(t *testing.T) {
	h := newHandle(t, "center", param.TypeDouble2D)
	dims := propstore.Dimensions{P: h, N: 2}

	labels, err := dims.DimensionLabels()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, labels)

	assert.Error(t, dims.SetDimensionLabels("u"))
	require.NoError(t, dims.SetDimensionLabels("u", "v"))
	labels, err = dims.DimensionLabels()
	require.NoError(t, err)
	assert.Equal(t, []string{"u", "v"}, labels)
}

func TestChoiceOptions(t *testing.T) {
	h := newHandle(t, "mode", param.TypeChoice)
	opts := propstore.ChoiceOptions{P: h}

	for _, o := range []string{"A", "B", "C"} {
		require.NoError(t, opts.AppendOption(o))
	}
	n, err := opts.NOptions()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, opts.ResetOptions())
	require.NoError(t, opts.AppendOption("X"))
	all, err := opts.Options()
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, all)
}
