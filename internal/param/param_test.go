package param

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParseType(t *testing.T) {
	for ty := TypeDummy; ty <= TypePushButton; ty++ {
		parsed, err := ParseType(ty.String())
		require.NoError(t, err)
		assert.Equal(t, ty, parsed)
	}
	_, err := ParseType("float")
	assert.Error(t, err)
}

func TestTypeClassification(t *testing.T) {
	testCases := []struct {
		ty         Type
		holdsValue bool
		numeric    bool
		dimension  int
	}{
		{TypeDummy, false, false, 0},
		{TypeString, true, false, 1},
		{TypeInt, true, true, 1},
		{TypeInt2D, true, true, 2},
		{TypeDouble3D, true, true, 3},
		{TypeRGB, true, false, 3},
		{TypeRGBA, true, false, 4},
		{TypeChoice, true, false, 1},
		{TypeGroup, false, false, 0},
		{TypePage, false, false, 0},
		{TypePushButton, false, false, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.ty.String(), func(t *testing.T) {
			assert.Equal(t, tc.holdsValue, tc.ty.HoldsValue())
			assert.Equal(t, tc.numeric, tc.ty.IsNumeric())
			assert.Equal(t, tc.dimension, tc.ty.Dimension())
		})
	}
}

func TestParseEnums(t *testing.T) {
	ci, err := ParseCacheInvalidation("value_change_to_end")
	require.NoError(t, err)
	assert.Equal(t, InvalidateValueChangeToEnd, ci)

	ks, err := ParseKeySearch("near")
	require.NoError(t, err)
	assert.Equal(t, SearchNear, ks)

	st, err := ParseStringType("directory_path")
	require.NoError(t, err)
	assert.Equal(t, StringDirectoryPath, st)

	dt, err := ParseDoubleType("normalised_xy_absolute")
	require.NoError(t, err)
	assert.Equal(t, DoubleNormalisedXYAbsolute, dt)

	_, err = ParseDoubleType("")
	assert.Error(t, err)
}

func TestCodec(t *testing.T) {
	v, err := Int3DCodec.Encode(Int3D{X: 1, Y: -2, Z: 3})
	require.NoError(t, err)
	assert.True(t, v.Type().Equals(ValueType(TypeInt3D)))

	back, err := Int3DCodec.Decode(v)
	require.NoError(t, err)
	assert.Equal(t, Int3D{X: 1, Y: -2, Z: 3}, back)

	_, err = IntCodec.Decode(cty.NumberFloatVal(1.5))
	assert.Error(t, err, "fractional numbers do not fit an int")

	_, err = StringCodec.Decode(cty.NullVal(cty.String))
	assert.Error(t, err)

	empty, err := StringsCodec.Encode(nil)
	require.NoError(t, err)
	assert.False(t, empty.IsNull())
	assert.Equal(t, 0, empty.LengthInt())
}

func TestPageEntries(t *testing.T) {
	entries := []PageEntry{ParamEntry("gain"), SkipRow(), SkipColumn()}
	v, err := EntriesCodec.Encode(entries)
	require.NoError(t, err)
	back, err := EntriesCodec.Decode(v)
	require.NoError(t, err)
	require.Len(t, back, 3)
	assert.Equal(t, EntryParam, back[0].EntryKind())
	assert.Equal(t, EntrySkipRow, back[1].EntryKind())
	assert.Equal(t, EntrySkipColumn, back[2].EntryKind())
}

func TestKindErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("define: %w", &KindError{Err: ErrSchemaConflict, Name: "gain", Requested: TypeDouble, Actual: TypeInt})
	assert.True(t, errors.Is(err, ErrSchemaConflict))
	assert.False(t, errors.Is(err, ErrTypeMismatch))

	var ke *KindError
	require.True(t, errors.As(err, &ke))
	assert.Equal(t, TypeInt, ke.Actual)
	assert.Contains(t, err.Error(), `"gain" is a int, requested double`)
}
