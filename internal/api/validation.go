package api

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"resource-booking-backend/internal/failure"
)

var messages = map[string]string{
	"required":         "{field} is required",
	"required_with":    "{field} is required together with {param}",
	"required_without": "{field} is required when {param} is missing",
	"max":              "{field} must be at most {param} characters",
	"min":              "{field} must be at least {param} characters",
	"email":            "{field} must be a valid email address",
	"hexcolor":         "{field} must be a hex color such as #3b82f6",
}

func init() {
	// Report request fields by their JSON names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	}
}

// bindError turns a binding failure into a Validation failure with a readable message.
func bindError(err error) error {
	var valErrors validator.ValidationErrors
	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			msg := messages[valErr.Tag()]
			if msg == "" {
				continue
			}
			msg = strings.ReplaceAll(msg, "{field}", valErr.Field())
			msg = strings.ReplaceAll(msg, "{param}", valErr.Param())
			return failure.Validation(msg)
		}
		return failure.Validation(valErrors.Error())
	}
	return failure.Validation("invalid request: " + err.Error())
}
