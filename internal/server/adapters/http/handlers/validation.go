package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest проверяет теги validate и возвращает текст первой ошибки.
func validateRequest(req any) (string, bool) {
	err := validate.Struct(req)
	if err == nil {
		return "", true
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ErrMsgInvalidRequestBody, false
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required", false
	case "email":
		return fe.Field() + " must be a valid email", false
	case "min":
		return fmt.Sprintf("%s must contain at least %s characters", fe.Field(), fe.Param()), false
	case "max":
		return fmt.Sprintf("%s must contain at most %s characters", fe.Field(), fe.Param()), false
	default:
		return fe.Field() + " is invalid", false
	}
}
