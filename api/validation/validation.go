// Package validation custom binding rules shared by every request DTO
package validation

import (
	"reflect"
	"strings"
	"sync"

	"posimarket/domain/shipping"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var once sync.Once

// Register installs the custom rules on gin's validator and reports fields by
// their JSON name. Safe to call more than once.
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonName)
		_ = v.RegisterValidation("postalcode", postalCode)
	})
}

func postalCode(fl validator.FieldLevel) bool {
	return shipping.IsValidPostalCode(fl.Field().String())
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}
