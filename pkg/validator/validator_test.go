package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type signUpForm struct {
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"min=18"`
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	err := ValidateStruct(signUpForm{Age: 12})

	var failures ValidationErrors
	require.ErrorAs(t, err, &failures)
	require.Len(t, failures, 2)

	byField := make(map[string]ValidationError, len(failures))
	for _, failure := range failures {
		byField[failure.Field] = failure
	}

	require.Equal(t, "required", byField["email"].Tag)
	require.Equal(t, "min", byField["age"].Tag)
	require.Equal(t, "18", byField["age"].Param)
	require.Contains(t, err.Error(), "age violates min=18")
}

func TestValidateStructAccepts(t *testing.T) {
	require.NoError(t, ValidateStruct(signUpForm{Email: "jamie@smu.edu.sg", Age: 21}))
}
