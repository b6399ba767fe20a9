package helper

import (
	"errors"
	"fmt"

	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct checks validate tags and maps the first failure onto the
// shared validation errors.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return common.ErrMissingFields
	case "email":
		return common.ErrInvalidEmail
	case "min":
		if fe.Field() == "Password" {
			return common.ErrWeakPassword
		}
	}
	return fmt.Errorf("%w: %s is invalid", common.ErrValidation, fe.Field())
}

func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}
