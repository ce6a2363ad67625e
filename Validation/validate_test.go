package Validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Age   int    `validate:"min=18"`
}

func TestStructValid(t *testing.T) {
	assert.Nil(t, Struct(sampleInput{Name: "Sam", Email: "sam@example.com", Age: 30}))
}

func TestStructReportsPerFieldMessages(t *testing.T) {
	errs := Struct(sampleInput{Email: "not-an-email", Age: 12})
	require.NotNil(t, errs)

	assert.Contains(t, errs, "Name")
	assert.Contains(t, errs, "Email")
	assert.Contains(t, errs, "Age")
	assert.Contains(t, errs["Name"], "required")
}
