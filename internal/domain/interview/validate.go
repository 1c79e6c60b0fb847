package interview

import (
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
		_ = validate.RegisterValidation("meetingtype", func(fl validator.FieldLevel) bool {
			return slices.Contains(MeetingTypes, fl.Field().String())
		})
	})
	return validate
}

// Validate checks the required fields and enumerations of the interview form.
// The error is a validator.ValidationErrors when the record itself is at fault.
func (r Record) Validate() error {
	return validatorInstance().Struct(r)
}
