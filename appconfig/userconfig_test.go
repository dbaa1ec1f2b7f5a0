package appconfig

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUserConfig(t *testing.T) {
	t.Run("OverlayMergesAndOverwrites", func(t *testing.T) {
		root := t.TempDir()
		cfgFile := filepath.Join(root, "user.yml")
		writeFile(t, cfgFile, `
some_value: 123
extra: "added"
`)

		r := NewAt(root)
		require.NoError(t, r.LoadDefaults())
		r.Set("some_value", 1)
		r.Set("untouched", "still here")

		require.NoError(t, r.LoadUserConfig(cfgFile))

		val, _ := r.Get("some_value")
		assert.Equal(t, 123, val)
		extra, _ := r.Get("extra")
		assert.Equal(t, "added", extra)
		untouched, _ := r.Get("untouched")
		assert.Equal(t, "still here", untouched)
	})

	t.Run("RelativePathResolvesAgainstRoot", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "rel.yml"), "some_value: 7\n")

		r := NewAt(root)
		require.NoError(t, r.LoadDefaults())
		require.NoError(t, r.LoadUserConfig("rel.yml"))

		val, _ := r.Get("some_value")
		assert.Equal(t, 7, val)

		// The resolved absolute path is written back.
		path, err := r.String(UserConfigKey)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "rel.yml"), path)
	})

	t.Run("EmptyPathUsesUserConfigKey", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "named.yml"), "picked: true\n")

		r := NewAt(root)
		require.NoError(t, r.LoadDefaults())
		r.Set(UserConfigKey, "named.yml")

		require.NoError(t, r.LoadUserConfig(""))

		val, ok := r.Get("picked")
		assert.True(t, ok)
		assert.Equal(t, true, val)
	})

	t.Run("MissingFileIsNoOp", func(t *testing.T) {
		root := t.TempDir()

		r := NewAt(root)
		require.NoError(t, r.LoadDefaults())
		r.Set("kept", 1)

		require.NoError(t, r.LoadUserConfig("nope.yml"))

		val, _ := r.Get("kept")
		assert.Equal(t, 1, val)

		// The attempted path is still recorded.
		path, err := r.String(UserConfigKey)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "nope.yml"), path)
	})

	t.Run("MalformedFileIsFatal", func(t *testing.T) {
		root := t.TempDir()
		cfgFile := filepath.Join(root, "bad.yml")
		writeFile(t, cfgFile, "some_value: [unclosed\n")

		r := NewAt(root)
		require.NoError(t, r.LoadDefaults())

		err := r.LoadUserConfig(cfgFile)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse user config file")
	})

	t.Run("SelfReferenceStripped", func(t *testing.T) {
		root := t.TempDir()
		cfgFile := filepath.Join(root, "self.yml")
		writeFile(t, cfgFile, `
USER_CONFIG: /somewhere/else.yml
some_value: 5
`)

		r := NewAt(root)
		require.NoError(t, r.LoadDefaults())
		require.NoError(t, r.LoadUserConfig(cfgFile))

		// The file cannot override the record of where it was loaded from.
		path, err := r.String(UserConfigKey)
		require.NoError(t, err)
		assert.Equal(t, cfgFile, path)

		val, _ := r.Get("some_value")
		assert.Equal(t, 5, val)
	})
}
