package appconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	type target struct {
		Threads     int           `config:"threads"`
		Name        string        `config:"name"`
		Verbose     bool          `config:"verbose"`
		GracePeriod time.Duration `config:"grace_period"`
		Tags        []string      `config:"tags"`
	}

	r := NewAt(t.TempDir())
	r.Set("threads", "8") // string, as if from the environment
	r.Set("name", "demo")
	r.Set("verbose", true)
	r.Set("grace_period", "30s")
	r.Set("tags", "red,green")

	var out target
	require.NoError(t, r.Scan(&out))

	assert.Equal(t, 8, out.Threads)
	assert.Equal(t, "demo", out.Name)
	assert.True(t, out.Verbose)
	assert.Equal(t, 30*time.Second, out.GracePeriod)
	assert.Equal(t, []string{"red", "green"}, out.Tags)

	// Target must be a non-nil pointer.
	assert.Error(t, r.Scan(target{}))
	assert.Error(t, r.Scan((*target)(nil)))
}
