package appconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultsFilename is the fixed name of the application defaults file.
	DefaultsFilename = "appdefaults.toml"

	// PrefixKey names the reserved key holding the environment variable
	// prefix used by the environment overlay.
	PrefixKey = "ENV_CONFIG_PREFIX"

	// PrefixFallback is the environment prefix used when the defaults file
	// does not set one.
	PrefixFallback = "APP_"

	// UserConfigKey names the reserved key holding the user config file path.
	UserConfigKey = "USER_CONFIG"

	// UserConfigFallback is the user config file name used when the defaults
	// file does not set one.
	UserConfigFallback = "userconfig.yml"

	// privateMarker prefixes keys in the defaults file that are internal to
	// the file itself and must not appear in the resolved mapping.
	privateMarker = "_"

	// maxSearchDepth bounds the upward directory search for the defaults
	// file so a pathological root (container mounted at /) cannot make the
	// search wander.
	maxSearchDepth = 32
)

// LoadDefaults locates and loads the application defaults file, replacing
// the current contents of the mapping.
//
// The file is found by searching upward from the application root through
// ancestor directories, stopping at the first directory that contains
// DefaultsFilename, at the filesystem root, or after maxSearchDepth levels.
// A missing file leaves the mapping empty; a malformed file is a fatal load
// error. Keys beginning with an underscore are stripped. The reserved keys
// ENV_CONFIG_PREFIX and USER_CONFIG are guaranteed present afterward.
func (r *Resolver) LoadDefaults() error {
	defaults := make(map[string]any)

	path, found := findDefaultsFile(r.appRoot)
	if found {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read defaults file '%s': %w", path, err)
		}
		if err := toml.Unmarshal(data, &defaults); err != nil {
			return fmt.Errorf("failed to parse defaults file '%s': %w", path, err)
		}
		for key := range defaults {
			if strings.HasPrefix(key, privateMarker) {
				delete(defaults, key)
			}
		}
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.values = defaults

	// Make sure critical values are set
	if _, ok := r.values[PrefixKey]; !ok {
		r.values[PrefixKey] = PrefixFallback
	}
	if _, ok := r.values[UserConfigKey]; !ok {
		r.values[UserConfigKey] = UserConfigFallback
	}

	return nil
}

// RegisterDefaults registers the exported fields of a struct as default
// values, keyed by the "config" tag (falling back to the lowercased field
// name). Existing keys are left untouched, so registration composes with a
// loaded defaults file. This is the code-level replacement for computed
// defaults.
func (r *Resolver) RegisterDefaults(defaults any) error {
	v := reflect.ValueOf(defaults)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return errors.New("RegisterDefaults requires a non-nil struct pointer or value")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("RegisterDefaults requires a struct or struct pointer, got %T", defaults)
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("config")
		if tag == "-" {
			continue
		}
		key := strings.ToLower(field.Name)
		if tag != "" {
			if name, _, _ := strings.Cut(tag, ","); name != "" {
				key = name
			}
		}

		r.SetDefault(key, v.Field(i).Interface())
	}

	return nil
}

// findDefaultsFile searches start and its ancestors for the defaults file.
func findDefaultsFile(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		dir = start
	}

	for depth := 0; depth < maxSearchDepth; depth++ {
		candidate := filepath.Join(dir, DefaultsFilename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // filesystem root
		}
		dir = parent
	}

	return "", false
}
