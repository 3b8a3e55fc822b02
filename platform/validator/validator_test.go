package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string `validate:"required,notblank,max=5"`
	Address string `validate:"required,notblank"`
}

func TestStruct_NotBlank(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(sample{Name: "Anna", Address: "Moscow"}))

	err := v.Struct(sample{Name: "   ", Address: "Moscow"})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"name": "notblank"}, FieldErrors(err))
}

func TestFieldErrors(t *testing.T) {
	v := New()

	err := v.Struct(sample{Name: "too long name"})
	fields := FieldErrors(err)
	assert.Equal(t, "max", fields["name"])
	assert.Equal(t, "required", fields["address"])

	assert.Nil(t, FieldErrors(errors.New("not a validation error")))
	assert.Nil(t, FieldErrors(nil))
}

func TestVar(t *testing.T) {
	v := New()
	assert.NoError(t, v.Var("x", "notblank"))
	assert.Error(t, v.Var("\t", "notblank"))
}
