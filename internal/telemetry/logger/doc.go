// Package logger provides structured logging for pagekeep.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, configuration, global level and default logger
//   - context.go: logger and run ID propagation through context
//   - redact.go: secret redaction and truncation of page markup in attributes
//
// Infrastructure packages take a *slog.Logger; obtain one with Logger.Slog
// or NewSlog so that both share the same handler and level.
package logger
