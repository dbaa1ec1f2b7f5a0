package appconfig

import (
	"os"
	"strings"
)

// LoadEnvironment applies the environment overlay: for every key currently
// in the mapping except ENV_CONFIG_PREFIX itself, the variable named
// <prefix><KEY_UPPERCASED> overwrites the key's value when set.
//
// Values are stored as raw strings with no coercion back to the original
// type; the typed getters re-parse on access. The overlay never introduces
// new keys, and absent variables are silently skipped, so this stage cannot
// fail. It must run after the defaults and user-file stages to override both.
func (r *Resolver) LoadEnvironment() {
	prefix := r.envPrefix()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for key := range r.values {
		if key == PrefixKey {
			continue
		}
		if value, ok := os.LookupEnv(prefix + strings.ToUpper(key)); ok {
			r.values[key] = value
		}
	}
}

// EnvName returns the environment variable name consulted for a key:
// the current prefix followed by the uppercased key.
func (r *Resolver) EnvName(key string) string {
	return r.envPrefix() + strings.ToUpper(key)
}

func (r *Resolver) envPrefix() string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if prefix, ok := r.values[PrefixKey].(string); ok && prefix != "" {
		return prefix
	}
	return PrefixFallback
}
