package api

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// Validate checks request DTOs before they reach the engine. The engine
// absorbs bad data with fallbacks; the API rejects it so callers notice.
var Validate *validator.Validate

func init() {
	Validate = validator.New()

	// Report json names, not Go field names.
	Validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Decimals compare as numbers in gte/lte.
	Validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		d, ok := v.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})

	// A date in one of the accepted contract layouts.
	_ = Validate.RegisterValidation("contractdate", func(fl validator.FieldLevel) bool {
		_, ok := generic.ParseDate(fl.Field().String())
		return ok
	})
}

func validateStruct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", generic.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fieldErrorToString(e))
	}
	return fmt.Errorf("%w: %s", generic.ErrInvalidInput, strings.Join(msgs, "; "))
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Namespace())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", e.Namespace(), e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", e.Namespace(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Namespace(), e.Param())
	case "contractdate":
		return fmt.Sprintf("%s must be a date like 2025-01-31", e.Namespace())
	default:
		return fmt.Sprintf("%s is invalid", e.Namespace())
	}
}
