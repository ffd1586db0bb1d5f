package impl

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"sfc/internal/domain"
	"sfc/internal/dto"
	"sfc/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// validate checks the `validate` tags on dto request structs. Field names in
// messages are the json names clients send.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	must("notblank", validators.NotBlank)
	must("goal", func(fl validator.FieldLevel) bool { return domain.Goal(fl.Field().String()).Valid() })
	must("difficulty", func(fl validator.FieldLevel) bool { return domain.Difficulty(fl.Field().String()).Valid() })
	must("intensity", func(fl validator.FieldLevel) bool { return domain.Intensity(fl.Field().String()).Valid() })
	return v
}

// checkRequest reports the first tag violation on req as a validation error.
func checkRequest(req any) error {
	if fe := firstViolation(validate.Struct(req)); fe != nil {
		return invalid(describe(fe))
	}
	return nil
}

// checkCatalog is checkRequest for admin catalog input, which reports
// INVALID_PROGRAM instead.
func checkCatalog(req any) error {
	if fe := firstViolation(validate.Struct(req)); fe != nil {
		return domain.InvalidProgram(describe(fe))
	}
	return nil
}

func firstViolation(err error) validator.FieldError {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0]
	}
	// InvalidValidationError: a programming error, not bad input
	panic(err)
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "email":
		return field + " is not a valid email address"
	case "len":
		return fmt.Sprintf("%s must be %s%s", field, fe.Param(), unit)
	case "number":
		return field + " must contain only digits"
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, fe.Param(), unit)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "goal", "difficulty", "intensity":
		return fmt.Sprintf("%s is not a known %s", field, fe.Tag())
	}
	return field + " is invalid"
}

// cleanEmail normalizes an address and checks it is a bare addr-spec.
func cleanEmail(raw string) (string, error) {
	email := store.NormalizeEmail(raw)
	if err := checkRequest(dto.EmailRequest{Email: email}); err != nil {
		return "", err
	}
	return email, nil
}
