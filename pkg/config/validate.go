package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

var validate = validator.New()

// Validate checks the `validate` struct tags of v, reporting every failing
// field.
func Validate(v any) error {
	return validateConfig(v)
}

func validateConfig(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	var merr *multierror.Error
	for _, fe := range fieldErrs {
		merr = multierror.Append(merr, fieldError(fe))
	}
	return merr.ErrorOrNil()
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Namespace())
	case "url":
		return fmt.Errorf("%s must be a url, got %q", fe.Namespace(), fe.Value())
	case "eth_addr":
		return fmt.Errorf("%s must be a 0x-prefixed 20 byte hex address, got %q", fe.Namespace(), fe.Value())
	default:
		return fmt.Errorf("%s failed %q validation (param %q)", fe.Namespace(), fe.Tag(), fe.Param())
	}
}
