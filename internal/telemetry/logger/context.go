package logger

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	loggerKey contextKey = "pagekeep.logger"
	runIDKey  contextKey = "pagekeep.run_id"
	pageKey   contextKey = "pagekeep.page"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRunID tags the context with the ID of one command invocation.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the run ID from context.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// WithPage tags the context with the page file being processed.
func WithPage(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pageKey, path)
}

// PageFromContext extracts the page path from context.
func PageFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(pageKey).(string); ok {
		return p
	}
	return ""
}

// L is a shorthand for FromContext that also enriches the logger
// with the run ID and page from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)

	if runID := RunIDFromContext(ctx); runID != "" {
		l = l.With("run_id", runID)
	}
	if page := PageFromContext(ctx); page != "" {
		l = l.With("page", page)
	}

	return l
}
