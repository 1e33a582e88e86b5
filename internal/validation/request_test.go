package validation

import (
	"errors"
	"strings"
	"testing"

	"noticeboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=6,max=72"`
	FirstName string `validate:"required,max=50"`
	LastName  string `validate:"required,max=50"`
}

func TestStructValid(t *testing.T) {
	req := registerRequest{
		Email:     "resident@example.com",
		Password:  "hunter22",
		FirstName: "Pat",
		LastName:  "Nguyen",
	}
	assert.NoError(t, Struct(req))
}

func TestStructCollectsFieldErrors(t *testing.T) {
	req := registerRequest{
		Email:    "not-an-email",
		Password: "abc",
	}
	err := Struct(req)
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeValidation, appErr.Code)

	byField := map[string]string{}
	for _, fe := range appErr.Fields {
		byField[fe.Field] = fe.Message
	}
	assert.Equal(t, "must be a valid email address", byField["email"])
	assert.Equal(t, "must be at least 6 characters", byField["password"])
	assert.Equal(t, "is required", byField["firstName"])
	assert.Equal(t, "is required", byField["lastName"])
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("category", "general", "oneof=general announcement event"))

	err := Var("category", "banana", "oneof=general announcement event")
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret1"))
	assert.Error(t, ValidatePassword("abc"))

	// The upper bound tracks bcrypt's 72-byte input limit, so anything
	// the policy accepts can actually be hashed.
	long := strings.Repeat("p", 72)
	assert.NoError(t, ValidatePassword(long))
	assert.Error(t, ValidatePassword(long+"p"))

	_, err := bcrypt.GenerateFromPassword([]byte(long), bcrypt.MinCost)
	assert.NoError(t, err)
}
