// Package validate checks request structs against their `validate` struct tags.
// One validator instance is shared by the whole process because it caches the
// parsed tags of every struct type it has seen.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	// validator reads rules like `validate:"omitempty,email"` from struct tags
	"github.com/go-playground/validator/v10"
)

var std = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name so error messages match what the client sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates s. Failing fields are listed in one error, e.g.
// "contact_email must be email; reminder_hours_before must be max=168".
func Struct(s interface{}) error {
	err := std.Struct(s)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	parts := make([]string, 0, len(fields))
	for _, fe := range fields {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s must be %s", fe.Field(), rule))
	}
	return errors.New(strings.Join(parts, "; "))
}
