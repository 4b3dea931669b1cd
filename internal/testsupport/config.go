package testsupport

import (
	"path/filepath"
	"testing"

	"vidna/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.EncodingsDir = filepath.Join(base, "encodings")
	cfgVal.Paths.DecodedDir = filepath.Join(base, "decoded")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Codec.Seed = 1

	builder := &configBuilder{
		t:   t,
		cfg: &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithPosterization sets the default posterization level name.
func WithPosterization(level string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Codec.Posterization = level
	}
}

// WithMutation sets the default mutation name.
func WithMutation(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Codec.Mutation = mode
	}
}

// WithSeed fixes the codec seed.
func WithSeed(seed uint64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Codec.Seed = seed
	}
}

// WithCompression toggles zstd output.
func WithCompression(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Codec.Compress = enabled
	}
}

// WithFFmpegBinaries points the ffmpeg adapters at alternate executables.
func WithFFmpegBinaries(ffmpeg, ffprobe string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.FFmpeg.FFmpegBinary = ffmpeg
		b.cfg.FFmpeg.FFprobeBinary = ffprobe
	}
}
