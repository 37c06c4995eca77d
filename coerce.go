// FILE: lixenwraith/hiconfig/coerce.go
package hiconfig

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// CoerceString keeps the raw string.
func CoerceString(s string) (any, error) {
	return s, nil
}

// CoerceInt parses an int, accepting base prefixes such as "0x".
func CoerceInt(s string) (any, error) {
	i, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		return nil, err
	}
	return int(i), nil
}

// CoerceFloat parses a float64.
func CoerceFloat(s string) (any, error) {
	return strconv.ParseFloat(s, 64)
}

// CoerceBool parses a bool as strconv.ParseBool does.
func CoerceBool(s string) (any, error) {
	return strconv.ParseBool(s)
}

// CoerceDuration parses a time.Duration such as "1m30s".
func CoerceDuration(s string) (any, error) {
	return time.ParseDuration(s)
}

// coerceFor derives a coercion producing values of type t.
// Named types (type Unit string) keep their type.
func coerceFor(t reflect.Type) (CoerceFunc, error) {
	if t == durationType {
		return CoerceDuration, nil
	}

	switch t.Kind() {
	case reflect.String:
		return func(s string) (any, error) {
			return reflect.ValueOf(s).Convert(t).Interface(), nil
		}, nil
	case reflect.Bool:
		return func(s string) (any, error) {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return nil, err
			}
			return reflect.ValueOf(b).Convert(t).Interface(), nil
		}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(s string) (any, error) {
			i, err := strconv.ParseInt(s, 0, t.Bits())
			if err != nil {
				return nil, err
			}
			v := reflect.New(t).Elem()
			v.SetInt(i)
			return v.Interface(), nil
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(s string) (any, error) {
			u, err := strconv.ParseUint(s, 0, t.Bits())
			if err != nil {
				return nil, err
			}
			v := reflect.New(t).Elem()
			v.SetUint(u)
			return v.Interface(), nil
		}, nil
	case reflect.Float32, reflect.Float64:
		return func(s string) (any, error) {
			f, err := strconv.ParseFloat(s, t.Bits())
			if err != nil {
				return nil, err
			}
			v := reflect.New(t).Elem()
			v.SetFloat(f)
			return v.Interface(), nil
		}, nil
	}

	return nil, fmt.Errorf("cannot derive coercion for type %s; set Coerce explicitly", t)
}

// coerceAll converts raw strings of one value, producing a slice for
// repeatable values. Slice defaults keep their element type.
func coerceAll(v Value, raws []string) (any, error) {
	coerce, err := v.coercer()
	if err != nil {
		return nil, err
	}

	convert := func(raw string) (any, error) {
		if len(v.Choices) > 0 && !slices.Contains(v.Choices, raw) {
			return nil, fmt.Errorf("%w: %q is not one of %v", ErrInvalidValue, raw, v.Choices)
		}
		out, err := coerce(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidValue, raw, err)
		}
		return out, nil
	}

	if !v.isMultiple() {
		if len(raws) == 0 {
			return nil, fmt.Errorf("%w: no value given", ErrInvalidValue)
		}
		return convert(raws[len(raws)-1])
	}

	if dt := reflect.TypeOf(v.Default); v.Coerce == nil && dt != nil && dt.Kind() == reflect.Slice {
		slice := reflect.MakeSlice(dt, 0, len(raws))
		for _, raw := range raws {
			out, err := convert(raw)
			if err != nil {
				return nil, err
			}
			slice = reflect.Append(slice, reflect.ValueOf(out))
		}
		return slice.Interface(), nil
	}

	out := make([]any, 0, len(raws))
	for _, raw := range raws {
		c, err := convert(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
