package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/smunity/smunity/pkg/errors"
	"github.com/smunity/smunity/pkg/response"
	appValidator "github.com/smunity/smunity/pkg/validator"
)

// bindAndValidate decodes the JSON payload into dest and runs the struct
// validation rules. On failure it writes the 400 response itself and returns
// false, so handlers can bail out with a bare return.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload"))
		return false
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest(formatValidationError(err)))
		return false
	}

	return true
}

func formatValidationError(err error) string {
	var failures appValidator.ValidationErrors
	if !errors.As(err, &failures) || len(failures) == 0 {
		return "invalid request payload"
	}

	messages := make([]string, len(failures))
	for i, failure := range failures {
		messages[i] = failureMessage(humanField(failure.Field), failure.Tag, failure.Param)
	}
	return strings.Join(messages, "; ")
}

func failureMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "uuid4":
		return field + " must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	}

	if param != "" {
		return fmt.Sprintf("%s failed validation: %s=%s", field, tag, param)
	}
	return fmt.Sprintf("%s failed validation: %s", field, tag)
}

func humanField(name string) string {
	if name == "" {
		return "field"
	}
	return strings.ToLower(strings.ReplaceAll(name, "_", " "))
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return fallback
	}
	return parsed
}
