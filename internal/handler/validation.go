package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// Report field names as they appear on the wire, not as Go identifiers
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	}
}

// bindingErrorMessage flattens a binding failure into the aggregated
// "<message>: <field>" list the API returns with a 400.
func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fmt.Sprintf("%s: %s", validationMessage(fe), fe.Field()))
		}
		return strings.Join(parts, ", ")
	}
	return "Invalid request body"
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required value missing"
	case "min":
		return fmt.Sprintf("Must be at least %s characters long", fe.Param())
	case "email":
		return "Must be a valid email address"
	case "oneof":
		return fmt.Sprintf("Must be one of [%s]", fe.Param())
	case "datetime":
		return "Must be a date in YYYY-MM-DD format"
	default:
		return "Invalid value"
	}
}
