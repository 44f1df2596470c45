package livesync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vk/paramgrid/internal/instance"
	"github.com/vk/paramgrid/internal/param"
)

type mockEmitter struct {
	mock.Mock
}

func (m *mockEmitter) Emit(event string, payload any) error {
	args := m.Called(event, payload)
	return args.Error(0)
}

func TestPublisher_EmitsChange(t *testing.T) {
	em := new(mockEmitter)
	em.On("Emit", EventParamChanged, Message{
		Name:   "gain",
		Type:   "int",
		Op:     instance.OpSetAt,
		Time:   2,
		Policy: "value_change_to_end",
	}).Return(nil).Once()

	p := NewPublisher(em, nil)
	p.ParamChanged(instance.Change{
		Name:   "gain",
		Type:   param.TypeInt,
		Op:     instance.OpSetAt,
		Time:   2,
		Policy: param.InvalidateValueChangeToEnd,
	})

	em.AssertExpectations(t)
}

func TestPublisher_SwallowsEmitErrors(t *testing.T) {
	em := new(mockEmitter)
	em.On("Emit", EventParamChanged, mock.Anything).Return(errors.New("down"))

	p := NewPublisher(em, nil)
	assert.NotPanics(t, func() {
		p.ParamChanged(instance.Change{Name: "gain", Type: param.TypeInt, Op: instance.OpDeleteAll})
	})
	em.AssertNumberOfCalls(t, "Emit", 1)
}

func TestPublisher_AsInstanceObserver(t *testing.T) {
	var got []Message
	p := NewPublisher(EmitterFunc(func(event string, payload any) error {
		assert.Equal(t, EventParamChanged, event)
		got = append(got, payload.(Message))
		return nil
	}), nil)

	var obs instance.Observer = p
	obs.ParamChanged(instance.Change{Name: "a", Type: param.TypeDouble, Op: instance.OpSet})
	obs.ParamChanged(instance.Change{Name: "a", Type: param.TypeDouble, Op: instance.OpDeleteKey, Time: 1})

	if assert.Len(t, got, 2) {
		assert.Equal(t, "double", got[0].Type)
		assert.Equal(t, instance.OpDeleteKey, got[1].Op)
	}
}

func TestDial_RejectsBadURL(t *testing.T) {
	_, err := Dial(t.Context(), Options{URL: "localhost"})
	assert.Error(t, err)
}
