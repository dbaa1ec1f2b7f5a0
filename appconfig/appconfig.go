package appconfig

import (
	"os"
	"path/filepath"
	"sync"
)

// Resolver holds configuration values merged from defaults, a user config
// file, and environment variables.
//
// Resolution is intended to run synchronously during process start-up.
// Access is guarded by an RWMutex so later reads from goroutines are safe,
// but the resolver does not coordinate concurrent re-resolution.
type Resolver struct {
	mutex   sync.RWMutex
	values  map[string]any
	appRoot string
}

// New creates a Resolver rooted at the directory containing the running
// executable, falling back to the current working directory. The mapping
// starts empty; call Resolve (or the individual Load* stages) to populate it.
func New() *Resolver {
	return NewAt(appRoot())
}

// NewAt creates a Resolver with an explicit application root directory.
// The root anchors the upward search for the defaults file and the
// resolution of relative user config paths.
func NewAt(root string) *Resolver {
	return &Resolver{
		values:  make(map[string]any),
		appRoot: root,
	}
}

// Quick creates a Resolver and runs the full three-stage resolution.
// This is the recommended way to initialize configuration for most
// applications.
func Quick() (*Resolver, error) {
	r := New()
	if err := r.Resolve(); err != nil {
		return nil, err
	}
	return r, nil
}

// Resolve runs all stages in precedence order: defaults, then the user
// config file, then environment variables. The user config path itself may
// be overridden through its environment variable before the file is read.
func (r *Resolver) Resolve() error {
	if err := r.LoadDefaults(); err != nil {
		return err
	}

	userFile, err := r.String(UserConfigKey)
	if err != nil || userFile == "" {
		userFile = UserConfigFallback
	}
	if override, ok := os.LookupEnv(r.EnvName(UserConfigKey)); ok {
		userFile = override
	}
	if err := r.LoadUserConfig(userFile); err != nil {
		return err
	}

	r.LoadEnvironment()
	return nil
}

// Get retrieves the value for a key. The second return value indicates
// whether the key is present.
func (r *Resolver) Get(key string) (any, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	val, ok := r.values[key]
	return val, ok
}

// GetDefault retrieves the value for a key, or fallback if the key is not
// present.
func (r *Resolver) GetDefault(key string, fallback any) any {
	if val, ok := r.Get(key); ok {
		return val
	}
	return fallback
}

// Set stores a value for a key, overwriting any existing value.
func (r *Resolver) Set(key string, value any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.values[key] = value
}

// SetDefault stores a value for a key only if the key is not already
// present. Collaborating packages use this to register their own
// configuration needs without depending on the defaults file.
func (r *Resolver) SetDefault(key string, value any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.values[key]; !ok {
		r.values[key] = value
	}
}

// Keys returns all keys currently present in the mapping.
func (r *Resolver) Keys() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	return keys
}

// Root returns the application root directory the resolver was created with.
func (r *Resolver) Root() string {
	return r.appRoot
}

// appRoot determines the application root: the directory of the running
// executable, or the working directory if the executable path is unknown.
func appRoot() string {
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}
