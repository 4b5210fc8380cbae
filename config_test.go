package hashlife

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 3, cfg.InitialSizeLevel)
	assert.Equal(t, DefaultCacheCompactionThreshold, cfg.CacheCompactionThreshold)
	assert.Equal(t, "localhost:8080", cfg.Addr())
}

func TestLoadConfigWithEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverlaysYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: 0.0.0.0\nport: 9090\ninitial_size_level: 5\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5, cfg.InitialSizeLevel)
	// Fields absent from the file keep their default values.
	assert.Equal(t, DefaultCacheCompactionThreshold, cfg.CacheCompactionThreshold)
}

func TestLoadConfigMissingFileErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
