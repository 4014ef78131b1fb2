package api

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every Validate error.
var ErrInvalid = errors.New("invalid request")

var (
	validate     *validator.Validate
	validateOnce sync.Once
	errValidate  error
)

func initValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"nonblank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
		"positive_amount": func(fl validator.FieldLevel) bool {
			f := fl.Field().Float()
			return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
		},
		"distinct_members": distinctMembers,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("register %q: %w", tag, err)
		}
	}
	return v, nil
}

// distinctMembers rejects split lists naming an email twice, ignoring case
// and surrounding spaces.
func distinctMembers(fl validator.FieldLevel) bool {
	splits, ok := fl.Field().Interface().([]SplitWeight)
	if !ok {
		return false
	}
	seen := make(map[string]bool, len(splits))
	for _, s := range splits {
		key := strings.ToLower(strings.TrimSpace(s.Email))
		if seen[key] {
			return false
		}
		seen[key] = true
	}
	return true
}

func getValidator() (*validator.Validate, error) {
	validateOnce.Do(func() {
		validate, errValidate = initValidator()
	})
	return validate, errValidate
}

// check validates msg against its struct tags and reports the first
// failing field wrapped in ErrInvalid.
func check(msg any) error {
	v, err := getValidator()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := v.Struct(msg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalid, describe(fieldErrs[0]))
		}
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "nonblank":
		return field + " is required"
	case "email":
		return fmt.Sprintf("%s %q is not a valid email", field, fe.Value())
	case "positive_amount":
		return field + " must be positive"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "distinct_members":
		return field + " name the same member twice"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
