package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Init makes gin's validator report json (or form) names instead of Go
// field names. Call it once before serving.
func Init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

var titleCaser = cases.Title(language.English)

// start_date -> Start Date
func fieldLabel(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

var dateLayouts = map[string]string{
	"2006-01-02": "YYYY-MM-DD",
	"2006-01":    "YYYY-MM",
}

// MapValidationError turns the first binding failure into a readable AppError.
// Anything that is not a validator error (malformed JSON, wrong types) maps to
// a generic message.
func MapValidationError(err error) *AppError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return New(CodeValidation, "Invalid input", http.StatusBadRequest)
	}

	e := errs[0]
	field := fieldLabel(e.Field())
	switch e.Tag() {
	case "required":
		return RequiredField(field)
	case "oneof":
		return validationf("%s must be one of: %s", field, strings.ReplaceAll(e.Param(), " ", ", "))
	case "datetime":
		if layout, ok := dateLayouts[e.Param()]; ok {
			return validationf("%s must use the %s format", field, layout)
		}
	case "min":
		return validationf("%s must be at least %s", field, e.Param())
	case "max":
		return validationf("%s must be at most %s", field, e.Param())
	}
	return InvalidField(field)
}

func validationf(format string, args ...any) *AppError {
	return New(CodeValidation, fmt.Sprintf(format, args...), http.StatusBadRequest)
}
