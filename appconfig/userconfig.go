package appconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadUserConfig loads the user config overlay and merges it on top of the
// current mapping. Keys present in the file overwrite existing values; keys
// absent from the file are untouched, so re-invoking this stage layers the
// new file over whatever state is already present. Callers that want
// environment overrides to keep winning must re-run LoadEnvironment
// afterward.
//
// An empty path selects the current USER_CONFIG value (or its fallback). A
// relative path that does not exist against the working directory is
// resolved against the application root. The resolved path is written back
// into USER_CONFIG. A missing file is not an error; a malformed file is a
// fatal parse error.
func (r *Resolver) LoadUserConfig(path string) error {
	if path == "" {
		if v, err := r.String(UserConfigKey); err == nil && v != "" {
			path = v
		} else {
			path = UserConfigFallback
		}
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !filepath.IsAbs(path) {
		path = filepath.Join(r.appRoot, path)
	}

	r.Set(UserConfigKey, path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // missing user config is not an error
		}
		return fmt.Errorf("failed to read user config file '%s': %w", path, err)
	}

	overlay := make(map[string]any)
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse user config file '%s': %w", path, err)
	}

	// The file must not override the record of where it was loaded from.
	delete(overlay, UserConfigKey)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for key, value := range overlay {
		r.values[key] = value
	}

	return nil
}
