// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance for both the CLI commands and the HTTP
// server. Debug level selects zap's development configuration (ISO8601 timestamps,
// caller info); every other level uses the production configuration.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID from a Fiber context and attaches it to
// the log entry, so all logs of one request can be correlated.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: console (colored, no stack traces) or json
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Scanned bundles", zap.Int("bundles", 120))
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
