package middleware

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func TestValidationDetails(t *testing.T) {
	SetupValidator()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	t.Run("reports json field names with readable messages", func(t *testing.T) {
		err := v.Struct(registerPayload{Email: "not-an-email", Password: "short"})
		require.Error(t, err)

		details, ok := ValidationDetails(err)
		require.True(t, ok)
		require.Len(t, details, 2)
		assert.Equal(t, "email", details[0].Field)
		assert.Equal(t, "Invalid email format", details[0].Message)
		assert.Equal(t, "password", details[1].Field)
		assert.Equal(t, "Must be at least 8 characters", details[1].Message)
	})

	t.Run("flags required fields", func(t *testing.T) {
		err := v.Struct(registerPayload{})
		require.Error(t, err)

		details, ok := ValidationDetails(err)
		require.True(t, ok)
		require.Len(t, details, 2)
		assert.Equal(t, "This field is required", details[0].Message)
	})

	t.Run("rejects non-validation errors", func(t *testing.T) {
		_, ok := ValidationDetails(errors.New("unexpected EOF"))
		assert.False(t, ok)
	})
}
