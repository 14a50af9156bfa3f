package mobius_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fkorotkov/mobius"
)

func TestCollisionError_NamesBothVariants(t *testing.T) {
	err := &mobius.CollisionError{
		New:      reflect.TypeOf(effectA{}),
		Existing: reflect.TypeOf(effectA{}),
	}
	assert.Contains(t, err.Error(), "collision")
	assert.Contains(t, err.Error(), "effectA")
}

func TestUnknownEffectError_NamesInstance(t *testing.T) {
	err := &mobius.UnknownEffectError{Effect: effectB{Name: "orphan"}}
	assert.Contains(t, err.Error(), "orphan")
	assert.Contains(t, err.Error(), "effectB")
}

func TestPanicError_NamesValue(t *testing.T) {
	err := &mobius.PanicError{Value: "boom", Stack: "stack"}
	assert.Contains(t, err.Error(), "panicked")
	assert.Contains(t, err.Error(), "boom")
}
