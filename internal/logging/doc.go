// Package logging assembles structured slog loggers and formatting helpers used
// across vidna commands.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context helpers so codec code can tag log lines with the run ID
// and the phase (encode, decode, draw) automatically. A no-op logger is
// provided for tests and library callers that do not care about output.
package logging
