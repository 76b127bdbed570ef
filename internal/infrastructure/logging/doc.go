// Package logging provides structured logging for zenossctl.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the command and its relay.
//
// # Features
//
//   - JSON output for log shippers, text output for terminals
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Rotating log files via lumberjack
//   - Thread-safe for concurrent use
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # json, text
//	  output: "stderr"   # stdout, stderr, file
//	  file:
//	    path: "/var/log/zenossctl.log"
//	    max_size: 50     # megabytes
//	    max_backups: 3
//	    max_age: 28      # days
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	defer logger.Close()
//	client.SetLogger(logger)
//
// # Security
//
// Never log the Zenoss password or the InfluxDB token. Router request
// bodies are only logged at debug level.
package logging
