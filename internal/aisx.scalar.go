package internal

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// ScalarText converts a scalar value to its canonical text form.
// Booleans are suppressed outside attribute context, and nil values of any
// kind, typed or not, are empty text.
// Returns false when v is not a scalar.
func ScalarText(v any, isAttr bool) (string, bool) {
	if isNil(v) {
		return StringValueEmpty, true
	}

	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		if !isAttr {
			return StringValueEmpty, true
		}
		if val {
			return StringValueTrue, true
		}
		return StringValueFalse, true
	case []byte:
		return string(val), true
	case time.Time:
		return DateText(val), true
	case *time.Time:
		return DateText(*val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return FloatText(val), true
	case fmt.Stringer:
		return val.String(), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return ScalarText(rv.Bool(), isAttr)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return FloatText(rv.Float()), true
	case reflect.Complex64, reflect.Complex128:
		return fmt.Sprint(v), true
	}
	return StringValueEmpty, false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// DateText renders an instant as ISO-8601 in UTC with millisecond precision.
func DateText(t time.Time) string {
	return t.UTC().Format(DateLayoutISO)
}

// FloatText renders a float in its shortest decimal form.
func FloatText(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ObjectText serializes a structured value as JSON.
func ObjectText(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return StringValueEmpty, err
	}
	return string(data), nil
}
