package inmemorystore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/propstore"
	"github.com/zclconf/go-cty/cty"
)

func TestCreateAndLookup(t *testing.T) {
	s := New()
	ctx := context.Background()

	exists, err := s.PropertyExists(ctx, "gain")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.LookupProperty(ctx, "gain")
	assert.True(t, errors.Is(err, param.ErrNotFound))

	h, err := s.CreateProperty(ctx, "gain", param.TypeInt)
	require.NoError(t, err)
	assert.Equal(t, "gain", h.Name())
	assert.Equal(t, param.TypeInt, h.Type())

	exists, err = s.PropertyExists(ctx, "gain")
	require.NoError(t, err)
	assert.True(t, exists)

	kind, err := s.PropertyType(ctx, "gain")
	require.NoError(t, err)
	assert.Equal(t, param.TypeInt, kind)

	_, err = s.CreateProperty(ctx, "gain", param.TypeDouble)
	assert.True(t, errors.Is(err, param.ErrSchemaConflict))

	names, err := s.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"gain"}, names)
}

func TestDefaultSlots(t *testing.T) {
	s := New()
	h, err := s.CreateProperty(context.Background(), "blur", param.TypeDouble)
	require.NoError(t, err)

	label, err := h.Get(propstore.SlotLabel)
	require.NoError(t, err)
	assert.Equal(t, "blur", label.AsString())

	animates, err := h.Get(propstore.SlotAnimates)
	require.NoError(t, err)
	assert.True(t, animates.True())

	_, err = h.Get(propstore.SlotChoiceOptions)
	assert.True(t, errors.Is(err, param.ErrUnknownSlot))
	assert.True(t, errors.Is(h.Set(propstore.SlotChoiceOptions, cty.ListValEmpty(cty.String)), param.ErrUnknownSlot))
}

func TestSetDefaultFollowsUntilValueWritten(t *testing.T) {
	s := New()
	h, err := s.CreateProperty(context.Background(), "gain", param.TypeInt)
	require.NoError(t, err)

	require.NoError(t, h.Set(propstore.SlotDefault, cty.NumberIntVal(50)))
	v, err := h.Value()
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberIntVal(50)))

	require.NoError(t, h.SetValue(cty.NumberIntVal(7)))
	require.NoError(t, h.Set(propstore.SlotDefault, cty.NumberIntVal(60)))
	v, err = h.Value()
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberIntVal(7)))
}

func TestValueFollowsHostTime(t *testing.T) {
	s := New()
	h, err := s.CreateProperty(context.Background(), "opacity", param.TypeDouble)
	require.NoError(t, err)
	require.NoError(t, h.SetValueAtTime(0, cty.NumberIntVal(0)))
	require.NoError(t, h.SetValueAtTime(10, cty.NumberIntVal(1)))

	s.SetTime(5)
	v, err := h.Value()
	require.NoError(t, err)
	f, _ := v.AsBigFloat().Float64()
	assert.Equal(t, 0.5, f)

	// writes "now" become keys once animating
	require.NoError(t, h.SetValue(cty.NumberIntVal(3)))
	n, err := h.NumKeys()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestKeyTimeOutOfRangeCarriesName(t *testing.T) {
	s := New()
	h, err := s.CreateProperty(context.Background(), "gain", param.TypeInt)
	require.NoError(t, err)

	_, err = h.KeyTime(0)
	var re *param.RangeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "gain", re.Name)
}

func TestNonValueKindsHaveNoTrack(t *testing.T) {
	s := New()
	h, err := s.CreateProperty(context.Background(), "main", param.TypePage)
	require.NoError(t, err)
	_, err = h.Value()
	assert.Error(t, err)
	_, err = h.NumKeys()
	assert.Error(t, err)
}

func TestEditBlocks(t *testing.T) {
	s := New()
	ctx := context.Background()
	h, err := s.CreateProperty(ctx, "gain", param.TypeInt)
	require.NoError(t, err)

	assert.True(t, errors.Is(s.EndEditBlock(ctx), param.ErrNoEditBlock))

	require.NoError(t, s.BeginEditBlock(ctx, "outer"))
	require.NoError(t, h.SetValueAtTime(1, cty.NumberIntVal(1)))
	require.NoError(t, s.BeginEditBlock(ctx, "inner"))
	require.NoError(t, h.SetValueAtTime(2, cty.NumberIntVal(2)))
	require.NoError(t, s.EndEditBlock(ctx))
	assert.True(t, s.OpenEditBlock())
	require.NoError(t, s.EndEditBlock(ctx))
	assert.False(t, s.OpenEditBlock())

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, "outer", history[0].Label)
	assert.Equal(t, 2, history[0].Mutations)
}

// TestStore_ConcurrentAccess verifies that a host can share the store between
// goroutines without data races or lost writes.
func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	ctx := context.Background()
	numGoroutines := 50
	var wg sync.WaitGroup

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			h, err := s.CreateProperty(ctx, fmt.Sprintf("p%d", i), param.TypeDouble)
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			if err := h.SetValueAtTime(float64(i), cty.NumberIntVal(int64(i))); err != nil {
				t.Errorf("set: %v", err)
			}
		}(i)
	}
	wg.Wait()

	names, err := s.Names(ctx)
	require.NoError(t, err)
	assert.Len(t, names, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		h, err := s.LookupProperty(ctx, fmt.Sprintf("p%d", i))
		require.NoError(t, err)
		v, err := h.ValueAtTime(float64(i))
		require.NoError(t, err)
		assert.True(t, v.RawEquals(cty.NumberIntVal(int64(i))), "mismatched value for p%d", i)
	}
}
