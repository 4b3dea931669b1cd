// Package catalog records encode, decode, and draw runs in SQLite.
//
// Each run is inserted when it starts and completed with its outcome, so the
// history command can show what was produced from which input, under which
// posterization level, mutation, and seed. The schema is managed by embedded
// migrations; busy errors are retried with a short backoff.
package catalog
