package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mousechain/mouse/pkg/cache"
	"github.com/mousechain/mouse/pkg/config"
	"github.com/mousechain/mouse/pkg/kvs"
	"github.com/mousechain/mouse/pkg/log"
	"github.com/mousechain/mouse/pkg/metrics"
	"github.com/mousechain/mouse/pkg/rdb"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mouse",
	Short: "Mouse - persistence and caching core for blockchain nodes",
	Long: `Mouse is the persistence and caching core shared by blockchain node
implementations: a byte-accounted LRU cache of records, a batched
key/value store, and a relational index over chain and mempool state.

This binary exercises the core's lifecycle; it does not implement
consensus, networking, or transaction validation.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Mouse version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	cobra.OnInitialize(initLogging)

	serveCmd.Flags().Uint64("cache-soft-limit", config.Default().CacheSizeSoftLimit, "LRU cache soft byte limit")
	serveCmd.Flags().String("kvs-root", config.Default().KVSRootPath, "Directory holding the intrinsic/extrinsic kvs stores")
	serveCmd.Flags().Int("max-write-kvs-queries", config.Default().MaxWriteKVSQueries, "KVS write batch coalescing threshold")
	serveCmd.Flags().String("rdb-path", config.Default().RDBDataPath, "Path to the rdb data file")
	serveCmd.Flags().String("metrics-addr", "127.0.0.1:9090", "Address to serve /metrics, /health, /ready, /live on")

	rootCmd.AddCommand(serveCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the core until a termination signal is received",
	RunE: func(cmd *cobra.Command, args []string) error {
		cacheSoftLimit, _ := cmd.Flags().GetUint64("cache-soft-limit")
		kvsRoot, _ := cmd.Flags().GetString("kvs-root")
		maxWriteKVSQueries, _ := cmd.Flags().GetInt("max-write-kvs-queries")
		rdbPath, _ := cmd.Flags().GetString("rdb-path")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
		logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")

		cfg := &config.Config{
			CacheSizeSoftLimit: cacheSoftLimit,
			KVSRootPath:        kvsRoot,
			MaxWriteKVSQueries: maxWriteKVSQueries,
			RDBDataPath:        rdbPath,
			LogLevel:           log.Level(logLevel),
		}
		if err := cfg.Check(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		// Init order: data_types -> kvs -> rdb -> cache.
		// data_types (pkg/acidtype) needs no initialization of its own; its
		// decoder is installed by the concrete blockchain this core is
		// embedded in, not by this binary.
		kv, err := kvs.Open(cfg.KVSRootPath, cfg.MaxWriteKVSQueries)
		if err != nil {
			return fmt.Errorf("failed to open kvs: %w", err)
		}
		log.Info("kvs opened")

		index, err := rdb.Open(cfg.RDBDataPath)
		if err != nil {
			kv.Close()
			return fmt.Errorf("failed to open rdb: %w", err)
		}
		log.Info("rdb opened")

		lru := cache.NewLRU(cfg.CacheSizeSoftLimit)
		log.Info("cache initialized")

		collector := metrics.NewCollector(cache.Usage, 0)
		collector.Start()

		metrics.RegisterComponent("kvs", true, "ready")
		metrics.RegisterComponent("rdb", true, "ready")
		metrics.RegisterComponent("cache", true, "ready")

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		mux.Handle("/health", metrics.HealthHandler())
		mux.Handle("/ready", metrics.ReadyHandler())
		mux.Handle("/live", metrics.LivenessHandler())

		errCh := make(chan error, 1)
		go func() {
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				errCh <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
		log.Info(fmt.Sprintf("metrics endpoint: http://%s/metrics", metricsAddr))

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

		select {
		case <-sigCh:
			log.Info("shutting down")
		case err := <-errCh:
			log.Errorf("fatal error", err)
		}

		// Teardown in reverse order: cache drops entries (updating the
		// usage counter) before kvs/rdb close.
		collector.Stop()
		lru.Drain()
		if err := index.Close(); err != nil {
			log.Errorf("rdb close error", err)
		}
		if err := kv.Close(); err != nil {
			log.Errorf("kvs close error", err)
		}

		log.Info("shutdown complete")
		return nil
	},
}
