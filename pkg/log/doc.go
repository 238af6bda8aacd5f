/*
Package log provides structured logging for Mouse using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific loggers, configurable log levels, and helper
functions for common logging patterns. All logs include timestamps and
support filtering by severity level.

# Architecture

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │            Global Logger                    │          │
	│  │  - Zerolog instance                         │          │
	│  │  - Initialized via log.Init()               │          │
	│  │  - Thread-safe for concurrent use           │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Configuration                     │          │
	│  │  - Level: trace/debug/info/warn/error       │          │
	│  │  - Format: JSON or console (human)          │          │
	│  │  - Output: stdout, file, or custom writer   │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │         Component Loggers                   │          │
	│  │  - WithComponent("rdb")                     │          │
	│  │  - WithAcidID("3f9a...")                    │          │
	│  │  - WithSession("rdb-session-7")             │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │            Log Output                       │          │
	│  │                                              │          │
	│  │  JSON Format:                               │          │
	│  │  {                                           │          │
	│  │    "level": "info",                         │          │
	│  │    "component": "kvs",                      │          │
	│  │    "time": "2026-07-29T10:30:00Z",         │          │
	│  │    "message": "batch flushed"                │          │
	│  │  }                                           │          │
	│  │                                              │          │
	│  │  Console Format:                            │          │
	│  │  10:30AM INF batch flushed component=kvs    │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Core Components

Global Logger:
  - Package-level zerolog.Logger instance
  - Initialized once via log.Init()
  - Accessible from all Mouse packages
  - Thread-safe concurrent writes

Log Levels:
  - Trace: per-query/per-lookup detail, off by default
  - Debug: detailed debugging information
  - Info: general informational messages
  - Warn: warning messages (potential issues)
  - Error: error messages (operation failed)
  - Fatal: critical errors (process exits)

Configuration:
  - Level: filter messages below threshold
  - JSONOutput: JSON vs human-readable console
  - Output: io.Writer for log destination (stdout, file)

Context Loggers:
  - WithComponent: add component name to all logs
  - WithAcidID: add the Id of the Acid a log line concerns
  - WithSession: add an rdb session's correlation id

# Usage

Initializing the Logger:

	import "github.com/mousechain/mouse/pkg/log"

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

Simple Logging:

	log.Info("cache initialized")
	log.Debug("evicting entry")
	log.Warn("rdb session wait exceeded 1s")
	log.Error("kvs batch flush failed")
	log.Fatal("cannot open rdb data file") // exits process

Structured Logging:

	log.Logger.Info().
		Str("acid_id", id.String()).
		Int("parent_count", acid.ParentCount()).
		Msg("acid accepted to mempool")

Component Loggers:

	kvsLog := log.WithComponent("kvs")
	kvsLog.Info().Int("batch_size", n).Msg("flushing write batch")

	sessionLog := log.WithSession(sessionID)
	sessionLog.Debug().Msg("beginning transaction")

# Integration Points

This package integrates with:

  - pkg/cache: does not log; its lookups and evictions are counted in
    pkg/metrics instead
  - pkg/kvs: logs batch flush outcomes
  - pkg/rdb: logs session acquisition, transaction commit/rollback
  - cmd/mouse: initializes the logger from parsed configuration

# Design Patterns

Global Logger Pattern:
  - Single package-level Logger instance, initialized once at startup,
    accessible from all packages without being threaded through calls.

Context Logger Pattern:
  - Create child loggers carrying fixed context fields (component, acid
    id, session id) and pass those down instead of repeating fields.

Error Logging Pattern:
  - Always use .Err(err) for error values rather than string
    interpolation, keeping errors queryable and consistently shaped.

# Security

Log Content:
  - Never log resource owner identifiers or asset values verbatim in
    contexts that cross a trust boundary; prefer acid_id for correlation.
  - Restrict log file permissions and log aggregation access the same
    way any other operational data would be restricted.

# See Also

  - Zerolog documentation: https://github.com/rs/zerolog
  - Structured logging: https://www.thoughtworks.com/radar/techniques/structured-logging
*/
package log
