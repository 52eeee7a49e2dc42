package middleware

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	slugPattern          = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	paymentMethodPattern = regexp.MustCompile(`^\s*[A-Za-z][A-Za-z0-9_ -]{1,31}\s*$`)
)

// RegisterValidators installs the custom binding tags used by request
// models on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
		return paymentMethodPattern.MatchString(fl.Field().String())
	})
}
