package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one encode, decode, or draw invocation.
	FieldRunID = "run_id"
	// FieldPhase names the codec direction (encode, decode, draw).
	FieldPhase = "phase"
	// FieldFrame is the zero-based frame index.
	FieldFrame = "frame"
	// FieldLevel is the posterization level name.
	FieldLevel = "posterization"
	// FieldMutation is the mutation mode name.
	FieldMutation = "mutation"
	// FieldEventType classifies notable log lines for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step alongside warnings and errors.
	FieldErrorHint = "error_hint"
)

type contextKey int

const (
	runIDKey contextKey = iota
	phaseKey
)

// WithRunID stores the run identifier on ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the run identifier stored by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// WithPhase stores the codec phase on ctx.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, phaseKey, phase)
}

// PhaseFromContext returns the phase stored by WithPhase.
func PhaseFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	phase, ok := ctx.Value(phaseKey).(string)
	return phase, ok && phase != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if phase, ok := PhaseFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPhase, phase))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
