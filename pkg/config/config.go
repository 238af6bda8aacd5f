// Package config holds Mouse's process-wide configuration: the cache soft
// limit, kvs and rdb data locations, the write-batch threshold, and the log
// level. A single Config is parsed once in cmd/mouse and threaded through
// the init order the way the teacher threads its manager.Config.
package config

import (
	"fmt"

	"github.com/mousechain/mouse/pkg/log"
)

// Config is Mouse's top-level runtime configuration.
type Config struct {
	// CacheSizeSoftLimit bounds pkg/cache's accounted byte usage.
	CacheSizeSoftLimit uint64

	// KVSRootPath is the directory holding the intrinsic and extrinsic
	// bbolt stores (as subdirectories/files beneath it).
	KVSRootPath string

	// MaxWriteKVSQueries is the number of write queries coalesced into a
	// batch before kvs flushes it.
	MaxWriteKVSQueries int

	// RDBDataPath is the bbolt file backing the relational index.
	RDBDataPath string

	// LogLevel controls the global logger's verbosity.
	LogLevel log.Level
}

// Default returns a Config with the same defaults cmd/mouse's flags use.
func Default() *Config {
	return &Config{
		CacheSizeSoftLimit: 67108864, // 64 MiB
		KVSRootPath:        "./mouse-data/kvs",
		MaxWriteKVSQueries: 128,
		RDBDataPath:        "./mouse-data/rdb.db",
		LogLevel:           log.WarnLevel,
	}
}

// Check validates the configuration, returning the first problem found.
func (c *Config) Check() error {
	if c.CacheSizeSoftLimit == 0 {
		return fmt.Errorf("config: cache_size_soft_limit must be > 0")
	}
	if c.KVSRootPath == "" {
		return fmt.Errorf("config: kvs_root_path must not be empty")
	}
	if c.RDBDataPath == "" {
		return fmt.Errorf("config: rdb_data_path must not be empty")
	}
	if c.MaxWriteKVSQueries <= 0 {
		return fmt.Errorf("config: max_write_kvs_queries must be > 0")
	}
	switch c.LogLevel {
	case log.TraceLevel, log.DebugLevel, log.InfoLevel, log.WarnLevel, log.ErrorLevel:
	default:
		return fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	return nil
}
