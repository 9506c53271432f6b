package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverlaysTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.toml")
	require.NoError(t, os.WriteFile(path, []byte("buffer_pool_size = 8\nbulk_load_log_every = 1\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.BufferPoolSize)
	assert.Equal(t, 1, cfg.BulkLoadLogEvery)
	// Occupancies were left unset in the file, so they fall back to the
	// page-size-derived defaults rather than zero.
	leafCap, nodeCap := defaultCapacities()
	assert.Equal(t, leafCap, cfg.LeafOccupancy)
	assert.Equal(t, nodeCap, cfg.NodeOccupancy)
}
