package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so errors map straight onto request fields
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return toSnake(fld.Name)
		}
		return name
	})

	_ = v.RegisterValidation("itemcategory", func(fl validator.FieldLevel) bool {
		return IsValidCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("itemunit", func(fl validator.FieldLevel) bool {
		return IsValidUnit(fl.Field().String())
	})

	return v
}

// Validator exposes the shared validator, with the item choice tags registered
func Validator() *validator.Validate {
	return validate
}

// ValidateStruct runs the struct tag validations of a model
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}

// toSnake converts a Go field name such as ShoppingListID to shopping_list_id
func toSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
