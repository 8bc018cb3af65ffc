// Package collection classifies arbitrary values as sequences or mappings.
//
// Slices and arrays are sequences. Maps are mappings. Everything else,
// including nil, strings, numbers and structs, is rejected with
// ErrInvalidInputKind.
package collection

import (
	"reflect"

	apperrors "github.com/louisbranch/notebook/internal/platform/errors"
)

// Kind is the shape of a classified value.
type Kind int

const (
	KindInvalid Kind = iota
	KindSequence
	KindMapping
)

// String returns a readable kind name.
func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "invalid"
	}
}

// ErrInvalidInputKind is returned when a value is neither a sequence nor a mapping.
var ErrInvalidInputKind = apperrors.E(apperrors.KindInvalidInput, "Collection must be a list or an object.")

// Classify reports the shape of value. One level of pointer indirection is
// followed; a nil pointer is invalid.
func Classify(value any) Kind {
	_, kind := classify(value)
	return kind
}

// IsEmpty reports whether a sequence has no elements or a mapping has no keys.
func IsEmpty(value any) (bool, error) {
	size, err := SizeOf(value)
	if err != nil {
		return false, err
	}
	return size == 0, nil
}

// SizeOf returns the element count of a sequence or the key count of a mapping.
func SizeOf(value any) (int, error) {
	rv, kind := classify(value)
	if kind == KindInvalid {
		return 0, ErrInvalidInputKind
	}
	return rv.Len(), nil
}

func classify(value any) (reflect.Value, Kind) {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, KindInvalid
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv, KindSequence
	case reflect.Map:
		return rv, KindMapping
	default:
		return reflect.Value{}, KindInvalid
	}
}
