package config

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("config")
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateValues runs the range checks declared on ServerConfig and returns the
// first violation in field order.
func validateValues(cfg ServerConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		return &InvalidFieldValueError{Field: fe.Field(), Rule: rule, Value: fe.Value()}
	}
	return err
}
