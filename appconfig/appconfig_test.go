package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// TestResolvePrecedence verifies the layering of the three stages.
func TestResolvePrecedence(t *testing.T) {
	t.Run("DefaultsOnly", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, DefaultsFilename), `
ENV_CONFIG_PREFIX = "RESTEST_"
some_value = 1
other_value = "hello"
`)

		r := NewAt(root)
		require.NoError(t, r.Resolve())

		val, ok := r.Get("some_value")
		assert.True(t, ok)
		assert.Equal(t, int64(1), val)

		other, ok := r.Get("other_value")
		assert.True(t, ok)
		assert.Equal(t, "hello", other)
	})

	t.Run("UserFileOverridesDefaults", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, DefaultsFilename), `
ENV_CONFIG_PREFIX = "RESTEST_"
some_value = 1
`)
		writeFile(t, filepath.Join(root, UserConfigFallback), "some_value: 123\n")

		r := NewAt(root)
		require.NoError(t, r.Resolve())

		val, _ := r.Get("some_value")
		assert.Equal(t, 123, val)
	})

	t.Run("EnvironmentOverridesUserFile", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, DefaultsFilename), `
ENV_CONFIG_PREFIX = "RESTEST_"
some_value = 1
`)
		writeFile(t, filepath.Join(root, UserConfigFallback), "some_value: 123\n")
		t.Setenv("RESTEST_SOME_VALUE", "456")

		r := NewAt(root)
		require.NoError(t, r.Resolve())

		// Environment wins and the value becomes a raw string.
		val, _ := r.Get("some_value")
		assert.Equal(t, "456", val)
	})

	t.Run("UserConfigPathFromEnvironment", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, DefaultsFilename), `
ENV_CONFIG_PREFIX = "RESTEST_"
some_value = 1
`)
		// A default-named file that must NOT be read.
		writeFile(t, filepath.Join(root, UserConfigFallback), "some_value: 123\n")

		other := filepath.Join(t.TempDir(), "other.yml")
		writeFile(t, other, "some_value: 999\n")
		t.Setenv("RESTEST_USER_CONFIG", other)

		r := NewAt(root)
		require.NoError(t, r.Resolve())

		val, _ := r.Get("some_value")
		assert.Equal(t, 999, val)

		// The environment overlay also records the override in USER_CONFIG.
		path, err := r.String(UserConfigKey)
		require.NoError(t, err)
		assert.Equal(t, other, path)
	})

	t.Run("PrefixFallbackWhenUnset", func(t *testing.T) {
		root := t.TempDir()

		r := NewAt(root)
		require.NoError(t, r.Resolve())

		prefix, err := r.String(PrefixKey)
		require.NoError(t, err)
		assert.Equal(t, PrefixFallback, prefix)
	})
}

func TestGetSetDefault(t *testing.T) {
	r := NewAt(t.TempDir())

	_, ok := r.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 42, r.GetDefault("missing", 42))

	r.Set("key", "value")
	val, ok := r.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", val)

	// SetDefault only applies when the key is absent.
	r.SetDefault("key", "other")
	val, _ = r.Get("key")
	assert.Equal(t, "value", val)

	r.SetDefault("fresh", true)
	val, _ = r.Get("fresh")
	assert.Equal(t, true, val)
}

func TestKeys(t *testing.T) {
	r := NewAt(t.TempDir())
	r.Set("a", 1)
	r.Set("b", 2)

	keys := r.Keys()
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}

func TestReloadLayering(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, DefaultsFilename), `
ENV_CONFIG_PREFIX = "RELTEST_"
first = "default"
second = "default"
`)
	fileA := filepath.Join(root, "a.yml")
	writeFile(t, fileA, "first: from-a\nsecond: from-a\n")
	fileB := filepath.Join(root, "b.yml")
	writeFile(t, fileB, "second: from-b\n")

	r := NewAt(root)
	require.NoError(t, r.LoadDefaults())
	require.NoError(t, r.LoadUserConfig(fileA))

	// Reloading with a second file layers it on top of current state
	// without discarding keys the new file does not mention.
	require.NoError(t, r.LoadUserConfig(fileB))

	first, _ := r.Get("first")
	assert.Equal(t, "from-a", first)
	second, _ := r.Get("second")
	assert.Equal(t, "from-b", second)
}
