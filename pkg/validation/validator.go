package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator is echo's Validator. Errors name the query parameter, not the Go field.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func New() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(paramName)

	if err := registerRules(v); err != nil {
		panic("validator rule registration failed: " + err.Error())
	}
	return &CustomValidator{validator: v}
}

// paramName prefers the query tag, then json, then the field name.
func paramName(f reflect.StructField) string {
	for _, tag := range []string{"query", "json"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}
