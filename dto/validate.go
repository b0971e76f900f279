package dto

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// checkVar validates a single value against a validator tag and names the field on failure
func checkVar(field string, value interface{}, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.Newf("%s failed the '%s' rule", field, verrs[0].Tag())
		}
		return errors.Wrapf(err, "invalid %s", field)
	}
	return nil
}

// checkPresent validates an optional value against tag when it carries a value
func checkPresent(field string, o Optional[string], tag string) error {
	if o.Value == nil {
		return nil
	}
	return checkVar(field, *o.Value, tag)
}

// requireValue rejects an explicit null for a non-nullable field
func requireValue[T any](field string, o Optional[T]) error {
	if o.IsNull() {
		return errors.Newf("%s cannot be null", field)
	}
	return nil
}

// notBlank rejects a string field that is present but empty after trimming
func notBlank(field string, o Optional[string]) error {
	if err := requireValue(field, o); err != nil {
		return err
	}
	if o.Set && strings.TrimSpace(*o.Value) == "" {
		return errors.Newf("%s cannot be empty", field)
	}
	return nil
}

// assign copies a present optional value onto a nullable model field
func assign[T any](dst **T, o Optional[T]) {
	if !o.Set {
		return
	}
	if o.Value == nil {
		*dst = nil
		return
	}
	v := *o.Value
	*dst = &v
}
