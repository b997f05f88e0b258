package guitars

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// dot segments do not survive URL resolution, so they cannot be addressed
	if err := v.RegisterValidation("segment", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return name != "." && name != ".."
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate runs the struct level rules of item.
func Validate(item Item) error {
	err := validate.Struct(item)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatFieldError(e))
	}
	return errors.New(strings.Join(messages, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "excludesall":
		return fmt.Sprintf("%s must not contain %q", field, ",")
	case "segment":
		return fmt.Sprintf("%s must not be a dot segment", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
