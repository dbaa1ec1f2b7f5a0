package argutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/apputil/appconfig"
)

func newTestApp(t *testing.T, cfg *appconfig.Resolver) *App {
	t.Helper()
	app := New("testapp", "A test application.", cfg)
	app.Terminate(nil) // surface parse failures as errors, not exits
	return app
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestStandardFlags(t *testing.T) {
	cfg := appconfig.NewAt(t.TempDir())
	app := newTestApp(t, cfg)

	_, err := app.Parse([]string{"-d", "--debug"})
	require.NoError(t, err)
	assert.Equal(t, 2, *app.Debug)
}

func TestConfigFlagDefault(t *testing.T) {
	cfg := appconfig.NewAt(t.TempDir())
	require.NoError(t, cfg.LoadDefaults())
	cfg.Set("threads", 4)

	t.Run("DefaultFromConfig", func(t *testing.T) {
		app := newTestApp(t, cfg)
		threads := app.ConfigFlag("threads", "Worker count.", "threads").Int()
		_, err := app.Parse([]string{})
		require.NoError(t, err)
		assert.Equal(t, 4, *threads)
	})

	t.Run("CommandLineWins", func(t *testing.T) {
		app := newTestApp(t, cfg)
		threads := app.ConfigFlag("threads", "Worker count.", "threads").Int()
		_, err := app.Parse([]string{"--threads", "8"})
		require.NoError(t, err)
		assert.Equal(t, 8, *threads)
	})
}

func TestConfigFlagEnvar(t *testing.T) {
	cfg := appconfig.NewAt(t.TempDir())
	require.NoError(t, cfg.LoadDefaults())
	cfg.Set(appconfig.PrefixKey, "ARGTEST_")
	cfg.Set("threads", 4)

	t.Setenv("ARGTEST_THREADS", "6")

	// Environment beats the config default...
	app := newTestApp(t, cfg)
	threads := app.ConfigFlag("threads", "Worker count.", "threads").Int()
	_, err := app.Parse([]string{})
	require.NoError(t, err)
	assert.Equal(t, 6, *threads)

	// ...and the command line beats the environment.
	app = newTestApp(t, cfg)
	threads = app.ConfigFlag("threads", "Worker count.", "threads").Int()
	_, err = app.Parse([]string{"--threads", "8"})
	require.NoError(t, err)
	assert.Equal(t, 8, *threads)
}

func TestParseReloadsUserConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alt.yml"), "greeting: bonjour\n")

	cfg := appconfig.NewAt(root)
	require.NoError(t, cfg.LoadDefaults())
	cfg.Set("greeting", "hello")

	app := newTestApp(t, cfg)

	_, err := app.Parse([]string{"--user-config", filepath.Join(root, "alt.yml")})
	require.NoError(t, err)

	val, _ := cfg.Get("greeting")
	assert.Equal(t, "bonjour", val)
}

func TestParseReloadReappliesEnvironment(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alt.yml"), "greeting: bonjour\n")

	cfg := appconfig.NewAt(root)
	require.NoError(t, cfg.LoadDefaults())
	cfg.Set(appconfig.PrefixKey, "ARGTEST_")
	cfg.Set("greeting", "hello")

	t.Setenv("ARGTEST_GREETING", "hola")
	cfg.LoadEnvironment()

	app := newTestApp(t, cfg)
	_, err := app.Parse([]string{"--user-config", filepath.Join(root, "alt.yml")})
	require.NoError(t, err)

	// The reloaded file is overridden again by the environment.
	val, _ := cfg.Get("greeting")
	assert.Equal(t, "hola", val)
}

func TestList(t *testing.T) {
	cfg := appconfig.NewAt(t.TempDir())
	app := newTestApp(t, cfg)
	nodes := List(app.Flag("node", "Target nodes."))

	_, err := app.Parse([]string{"--node", "a,b", "--node", "c d"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, *nodes)
}

func TestListEmpty(t *testing.T) {
	cfg := appconfig.NewAt(t.TempDir())
	app := newTestApp(t, cfg)
	nodes := List(app.Flag("node", "Target nodes."))

	_, err := app.Parse([]string{})
	require.NoError(t, err)
	assert.Empty(t, *nodes)
}

func TestWithEpilog(t *testing.T) {
	cfg := appconfig.NewAt(t.TempDir())
	app := newTestApp(t, cfg).WithEpilog()
	assert.Contains(t, app.Help, "take precedence")
}
