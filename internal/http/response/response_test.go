package response

import (
	"net/http"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOK(t *testing.T) {
	resp := OK("subscription found", map[string]int{"months_left": 2})
	assert.True(t, resp.Success)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "subscription found", resp.Message)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error(http.StatusNotFound, "subscription not found")
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, resp.Data)
}

func TestValidationError(t *testing.T) {
	type request struct {
		Email string `validate:"required,email"`
		Code  string `validate:"required,len=6"`
	}

	err := validator.New().Struct(request{Email: "not-an-email", Code: "12"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, resp.Message, "Email")
	assert.Contains(t, resp.Message, "Code")
}
