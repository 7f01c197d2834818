package errors

import (
	goerrors "errors"
	"reflect"
	"strings"
)

// Classify returns a normalized type name for an error, suitable for log and metric labels.
// It unwraps to the innermost error first so wrapping layers do not hide the cause.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}
	return typeName(err)
}

// ClassifyValue is Classify for arbitrary recovered values such as panic payloads.
func ClassifyValue(v any) string {
	if v == nil {
		return "nil"
	}
	if err, ok := v.(error); ok {
		return Classify(err)
	}
	return typeName(v)
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
