package index

import (
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/ebrown2017/Project3-BPlusTree/internal/pagefile"
)

// Config controls the tunable parameters of an index: buffer pool sizing
// and node capacities. Zero-valued LeafOccupancy/NodeOccupancy mean
// "derive from page size", matching spec.md §3's INTARRAYLEAFSIZE /
// INTARRAYNONLEAFSIZE.
type Config struct {
	BufferPoolSize   int `toml:"buffer_pool_size"`
	LeafOccupancy    int `toml:"leaf_occupancy"`
	NodeOccupancy    int `toml:"node_occupancy"`
	BulkLoadLogEvery int `toml:"bulk_load_log_every"`
}

// DefaultConfig returns the configuration used when no TOML config file is
// present: a modestly sized buffer pool and page-size-derived occupancies.
func DefaultConfig() Config {
	leafCap, nodeCap := defaultCapacities()
	return Config{
		BufferPoolSize:   64,
		LeafOccupancy:    leafCap,
		NodeOccupancy:    nodeCap,
		BulkLoadLogEvery: 10000,
	}
}

// LoadConfig reads a TOML config file at path, overlaying it on top of
// DefaultConfig. A missing file is not an error; DefaultConfig() is
// returned unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, errors.Wrapf(err, "index: read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "index: parse config %s", path)
	}
	if cfg.LeafOccupancy <= 0 || cfg.NodeOccupancy <= 0 {
		leafCap, nodeCap := defaultCapacities()
		if cfg.LeafOccupancy <= 0 {
			cfg.LeafOccupancy = leafCap
		}
		if cfg.NodeOccupancy <= 0 {
			cfg.NodeOccupancy = nodeCap
		}
	}
	return cfg, nil
}

// defaultCapacities derives INTARRAYLEAFSIZE/INTARRAYNONLEAFSIZE from the
// fixed page size and the per-entry footprint of leaf and internal nodes.
func defaultCapacities() (leafCap, nodeCap int) {
	leafCap = (pagefile.PageSize - leafFixedSize) / leafEntrySize
	nodeCap = (pagefile.PageSize - internalFixedSize - internalChildSize) / (internalKeySize + internalChildSize)
	return leafCap, nodeCap
}
