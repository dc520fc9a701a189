package validator

import (
	"math"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// validateFiniteVector accepts numeric slices that hold no NaN or infinite values.
func validateFiniteVector(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice && field.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < field.Len(); i++ {
		elem := field.Index(i)
		switch elem.Kind() {
		case reflect.Float32, reflect.Float64:
			v := elem.Float()
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		default:
			return false
		}
	}
	return true
}
