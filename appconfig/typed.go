package appconfig

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// String retrieves a string value for a key.
// Attempts conversion from common types if the stored value isn't already a
// string.
func (r *Resolver) String(key string) (string, error) {
	val, ok := r.Get(key)
	if !ok {
		return "", fmt.Errorf("key not present: %s", key)
	}
	if val == nil {
		return "", nil // treat nil as empty string for convenience
	}

	if s, ok := val.(string); ok {
		return s, nil
	}

	switch v := val.(type) {
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
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	}

	return "", fmt.Errorf("cannot convert type %T to string for key %s", val, key)
}

// Int64 retrieves an int64 value for a key.
// Attempts conversion from numeric types, parsable strings, and booleans;
// environment-sourced values are strings and are re-parsed here.
func (r *Resolver) Int64(key string) (int64, error) {
	val, ok := r.Get(key)
	if !ok {
		return 0, fmt.Errorf("key not present: %s", key)
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
		if u > uint64(1<<63-1) {
			return 0, fmt.Errorf("cannot convert unsigned integer %d to int64 for key %s: overflow", u, key)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return int64(v.Float()), nil // truncate
	case reflect.String:
		s := v.String()
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return i, nil
		} else {
			if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
				return int64(f), nil
			}
			return 0, fmt.Errorf("cannot convert string %q to int64 for key %s: %w", s, key, err)
		}
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("cannot convert type %T to int64 for key %s", val, key)
}

// Float64 retrieves a float64 value for a key.
func (r *Resolver) Float64(key string) (float64, error) {
	val, ok := r.Get(key)
	if !ok {
		return 0, fmt.Errorf("key not present: %s", key)
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
		s := v.String()
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, nil
		} else {
			return 0, fmt.Errorf("cannot convert string %q to float64 for key %s: %w", s, key, err)
		}
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("cannot convert type %T to float64 for key %s", val, key)
}

// Bool retrieves a boolean value for a key.
// Numbers are interpreted as 0=false/non-zero=true; strings are parsed.
func (r *Resolver) Bool(key string) (bool, error) {
	val, ok := r.Get(key)
	if !ok {
		return false, fmt.Errorf("key not present: %s", key)
	}
	if val == nil {
		return false, fmt.Errorf("value for key %s is nil, cannot convert to bool", key)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.String:
		s := v.String()
		if b, err := strconv.ParseBool(s); err == nil {
			return b, nil
		} else {
			return false, fmt.Errorf("cannot convert string %q to bool for key %s: %w", s, key, err)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return v.Float() != 0, nil
	}

	return false, fmt.Errorf("cannot convert type %T to bool for key %s", val, key)
}

// Duration retrieves a time.Duration value for a key. Strings are parsed
// with time.ParseDuration; bare numbers are taken as seconds.
func (r *Resolver) Duration(key string) (time.Duration, error) {
	val, ok := r.Get(key)
	if !ok {
		return 0, fmt.Errorf("key not present: %s", key)
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
	}

	if secs, err := r.Float64(key); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}

	return 0, fmt.Errorf("cannot convert type %T to duration for key %s", val, key)
}

// StringSlice retrieves a list of strings for a key. Stored lists are
// converted element-wise; strings are split on commas.
func (r *Resolver) StringSlice(key string) ([]string, error) {
	val, ok := r.Get(key)
	if !ok {
		return nil, fmt.Errorf("key not present: %s", key)
	}

	switch v := val.(type) {
	case []string:
		return v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out, nil
	}

	return nil, fmt.Errorf("cannot convert type %T to string slice for key %s", val, key)
}
