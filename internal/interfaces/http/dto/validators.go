package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// phMobilePattern accepts Philippine mobile numbers in local (09xxxxxxxxx)
// or international (639xxxxxxxxx, +639xxxxxxxxx) form
var phMobilePattern = regexp.MustCompile(`^(\+?639|09)\d{9}$`)

// phMobile validates the phmobile binding tag
func phMobile(fl validator.FieldLevel) bool {
	return phMobilePattern.MatchString(fl.Field().String())
}

// RegisterCustomValidators wires custom binding tags into gin's validator
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("phmobile", phMobile)
}
