package bunstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
)

var _ bun.QueryHook = (*QueryHook)(nil)

// QueryHook logs every executed statement at debug level, and failures at
// error level.
type QueryHook struct {
	logger *slog.Logger
}

// NewQueryHook returns a hook logging to logger, or slog.Default() when nil.
func NewQueryHook(logger *slog.Logger) *QueryHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryHook{logger: logger}
}

// BeforeQuery implements bun.QueryHook.
func (h *QueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

// AfterQuery implements bun.QueryHook. Successful statements cost nothing
// unless debug logging is enabled.
func (h *QueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if event.Err != nil {
		h.logger.ErrorContext(ctx, "query failed",
			"query", event.Query,
			"duration", time.Since(event.StartTime),
			"error", event.Err,
		)
		return
	}
	if !h.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	h.logger.DebugContext(ctx, "query",
		"query", event.Query,
		"duration", time.Since(event.StartTime),
	)
}
