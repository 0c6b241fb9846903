package req

import (
	"reflect"

	v10 "github.com/go-playground/validator/v10"
)

// transport checks strings arriving from the query, path params or headers
// against the shape of a number or boolean.
var transport = v10.New()

// numeric is satisfied by the number types JSON decoders produce with UseNumber.
type numeric interface {
	Float64() (float64, error)
}

// Accepts asserts whether v, read from the query, path params, headers or a form body, satisfies pt.
//
// Numbers and booleans arrive as strings there,
// so Number accepts numeric strings and Boolean accepts strings parseable as booleans.
// Object accepts any non-primitive value: maps, slices, arrays and structs.
func (pt PropertyType) Accepts(v any) bool { return pt.accepts(v, true) }

// AcceptsDecoded asserts whether v, decoded from a JSON body, satisfies pt.
//
// Decoded values keep their JSON types, so a string never satisfies Number or Boolean.
func (pt PropertyType) AcceptsDecoded(v any) bool { return pt.accepts(v, false) }

func (pt PropertyType) accepts(v any, coerce bool) bool {
	switch pt {
	case String:
		_, ok := v.(string)
		return ok

	case Number:
		switch val := v.(type) {
		case numeric:
			_, err := val.Float64()
			return err == nil
		case string:
			return coerce && transport.Var(val, "required,numeric") == nil
		}

		switch reflect.ValueOf(v).Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return true
		default:
			return false
		}

	case Boolean:
		switch val := v.(type) {
		case bool:
			return true
		case string:
			return coerce && transport.Var(val, "required,boolean") == nil
		default:
			return false
		}

	case Object:
		if v == nil {
			return false
		}

		if _, ok := v.(numeric); ok {
			return false
		}

		switch reflect.ValueOf(v).Kind() {
		case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
			return true
		default:
			return false
		}

	default:
		return false
	}
}
