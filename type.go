// File: lixenwraith/hiconfig/type.go
package hiconfig

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// value fetches a leaf for the typed accessors; subtrees are not convertible.
func (ns *Namespace) value(key string) (any, error) {
	val, err := ns.Get(key)
	if err != nil {
		return nil, err
	}
	if _, isNS := val.(*Namespace); isNS {
		return nil, fmt.Errorf("key %s holds a namespace, not a value", key)
	}
	return val, nil
}

// String retrieves a string value at key.
// Attempts conversion from common types if the stored value isn't already a string.
func (ns *Namespace) String(key string) (string, error) {
	val, err := ns.value(key)
	if err != nil {
		return "", err
	}
	if val == nil {
		return "", nil
	}

	switch v := val.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case []byte:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case error:
		return v.Error(), nil
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	}
	return "", fmt.Errorf("cannot convert type %T to string for key %s", val, key)
}

// Int64 retrieves an int64 value at key.
// Attempts conversion from numeric types, parsable strings, and booleans.
func (ns *Namespace) Int64(key string) (int64, error) {
	val, err := ns.value(key)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, fmt.Errorf("value for key %s is nil, cannot convert to int64", key)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > uint64(int64(^uint64(0)>>1)) {
			return 0, fmt.Errorf("cannot convert unsigned integer %d (type %T) to int64 for key %s: overflow", u, val, key)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return int64(v.Float()), nil
	case reflect.String:
		s := v.String()
		i, err := strconv.ParseInt(s, 0, 64)
		if err == nil {
			return i, nil
		}
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			return int64(f), nil
		}
		return 0, fmt.Errorf("cannot convert string %q to int64 for key %s: %w", s, key, err)
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("cannot convert type %T to int64 for key %s", val, key)
}

// Bool retrieves a boolean value at key.
// Numeric values are true when non-zero.
func (ns *Namespace) Bool(key string) (bool, error) {
	val, err := ns.value(key)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, fmt.Errorf("value for key %s is nil, cannot convert to bool", key)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.String:
		b, err := strconv.ParseBool(v.String())
		if err != nil {
			return false, fmt.Errorf("cannot convert string %q to bool for key %s: %w", v.String(), key, err)
		}
		return b, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return v.Float() != 0, nil
	}
	return false, fmt.Errorf("cannot convert type %T to bool for key %s", val, key)
}

// Float64 retrieves a float64 value at key.
// Attempts conversion from numeric types, parsable strings, and booleans.
func (ns *Namespace) Float64(key string) (float64, error) {
	val, err := ns.value(key)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, fmt.Errorf("value for key %s is nil, cannot convert to float64", key)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	case reflect.String:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to float64 for key %s: %w", v.String(), key, err)
		}
		return f, nil
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("cannot convert type %T to float64 for key %s", val, key)
}

// Duration retrieves a time.Duration value at key.
// Strings are parsed with time.ParseDuration; integers are nanoseconds.
func (ns *Namespace) Duration(key string) (time.Duration, error) {
	val, err := ns.value(key)
	if err != nil {
		return 0, err
	}

	switch v := val.(type) {
	case time.Duration:
		return v, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to duration for key %s: %w", v, key, err)
		}
		return d, nil
	case nil:
		return 0, fmt.Errorf("value for key %s is nil, cannot convert to duration", key)
	}

	n, err := ns.Int64(key)
	if err != nil {
		return 0, err
	}
	return time.Duration(n), nil
}
