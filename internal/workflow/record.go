package workflow

import (
	"context"
	"log/slog"

	"vidna/internal/catalog"
	"vidna/internal/logging"
	"vidna/internal/stream"
)

// beginRun records a running entry and returns the context and logger tagged
// with its ID. Catalog failures are logged and do not stop the run.
func (m *Manager) beginRun(ctx context.Context, run catalog.Run) (context.Context, *slog.Logger, string) {
	ctx = logging.WithPhase(ctx, string(run.Kind))
	if m.store == nil {
		return ctx, logging.WithContext(ctx, m.logger), ""
	}
	stored, err := m.store.Begin(ctx, run)
	if err != nil {
		logging.WarnWithContext(m.logger, "run history unavailable", "catalog_begin_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the data directory is writable"),
		)
		return ctx, logging.WithContext(ctx, m.logger), ""
	}
	ctx = logging.WithRunID(ctx, stored.ID)
	return ctx, logging.WithContext(ctx, m.logger), stored.ID
}

func (m *Manager) finishRun(ctx context.Context, logger *slog.Logger, id string, outcome catalog.Outcome, runErr error) {
	if m.store == nil || id == "" {
		return
	}
	// Record the outcome even when the run was cancelled.
	if err := m.store.Finish(context.WithoutCancel(ctx), id, outcome, runErr); err != nil {
		logging.WarnWithContext(logger, "failed to record run outcome", "catalog_finish_failed",
			logging.Error(err),
		)
	}
}

func outcomeFromStats(output string, stats stream.Stats) catalog.Outcome {
	return catalog.Outcome{
		Output:  output,
		FPS:     stats.Header.FPS,
		Width:   stats.Header.Width,
		Height:  stats.Header.Height,
		Frames:  stats.Frames,
		Symbols: stats.Symbols,
		Mutated: stats.Mutated,
		Padded:  stats.Padded,
	}
}
