// Package workflow runs one encode, decode or draw job end to end.
//
// The Manager resolves per-run settings against the config (level, mutation,
// seed, output path), opens the frame source and sink, drives the stream
// codec and records the run in the catalog. Frame sources and sinks are
// injectable so jobs can run against in-memory frames; the defaults shell
// out to ffmpeg.
package workflow
