package classroom

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

// InitValidators registers the classroom types with the validator.
func InitValidators(validate *validator.Validate) {
	// validate Timestamps like time.Time so `required` applies to them
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		ts, ok := v.Interface().(Timestamp)
		if !ok || ts.IsZero() {
			return nil
		}
		return ts.Time
	}, Timestamp{})
}
