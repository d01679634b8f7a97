package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/m/internal/apperr"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Count int    `json:"count" validate:"gte=1"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(sample{Email: "nope"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalid))

	var e *apperr.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "is required", e.Fields["name"])
	assert.Equal(t, "must be a valid email", e.Fields["email"])
	assert.Equal(t, "must be at least 1", e.Fields["count"])
}

func TestStructPasses(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: "a", Email: "a@b.co", Count: 2}))
}
