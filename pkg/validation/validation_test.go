package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string   `json:"name" validate:"required"`
	Tags []string `json:"tags" validate:"dive,required"`
	Skip string   `json:"-" validate:"omitempty"`
}

func message(fe validator.FieldError) string {
	return fe.Tag()
}

func TestStruct(t *testing.T) {
	v := New()

	require.NoError(t, Struct(v, &item{Name: "ok"}, message))

	err := Struct(v, &item{Tags: []string{"a", ""}}, message)
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)

	assert.Equal(t, ValidationErrors{
		{Field: "name", Message: "required"},
		{Field: "tags[1]", Message: "required"},
	}, errs)
	assert.Equal(t, "validation failed: 2 error(s)", errs.Error())
	assert.Equal(t, map[string]any{
		"fields": map[string]string{"name": "required", "tags[1]": "required"},
	}, errs.Details())
}
