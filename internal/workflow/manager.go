package workflow

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"

	"vidna/internal/catalog"
	"vidna/internal/config"
	"vidna/internal/frame"
	"vidna/internal/logging"
	"vidna/internal/media/ffmpeg"
)

// VideoSource is a frame source backed by an external resource.
type VideoSource interface {
	frame.Source
	io.Closer
}

// SourceOpener opens the video at path.
type SourceOpener func(ctx context.Context, path string) (VideoSource, error)

// SinkFactory creates the sink writing decoded video to path.
type SinkFactory func(ctx context.Context, path string) frame.Sink

// Manager coordinates single codec runs.
type Manager struct {
	cfg        *config.Config
	store      *catalog.Store
	logger     *slog.Logger
	openSource SourceOpener
	newSink    SinkFactory
	seedSource func() uint64
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithSourceOpener replaces the ffmpeg video reader.
func WithSourceOpener(open SourceOpener) ManagerOption {
	return func(m *Manager) { m.openSource = open }
}

// WithSinkFactory replaces the ffmpeg video writer.
func WithSinkFactory(factory SinkFactory) ManagerOption {
	return func(m *Manager) { m.newSink = factory }
}

// WithSeedSource replaces the generator used when no seed is configured.
func WithSeedSource(fn func() uint64) ManagerOption {
	return func(m *Manager) { m.seedSource = fn }
}

// NewManager constructs a Manager. store may be nil, in which case runs are
// not recorded.
func NewManager(cfg *config.Config, store *catalog.Store, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{
		cfg:        cfg,
		store:      store,
		logger:     logging.NewComponentLogger(logger, "workflow"),
		seedSource: rand.Uint64,
	}
	bins := ffmpeg.Binaries{
		FFmpeg:     cfg.FFmpeg.FFmpegBinary,
		FFprobe:    cfg.FFmpeg.FFprobeBinary,
		VideoCodec: cfg.FFmpeg.VideoCodec,
	}
	m.openSource = func(ctx context.Context, path string) (VideoSource, error) {
		return ffmpeg.OpenSource(ctx, bins, path)
	}
	m.newSink = func(ctx context.Context, path string) frame.Sink {
		return ffmpeg.NewSink(ctx, bins, path)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// resolveSeed picks the request seed, then the configured seed, then a fresh
// non-zero one.
func (m *Manager) resolveSeed(requested uint64) uint64 {
	if requested != 0 {
		return requested
	}
	if m.cfg.Codec.Seed != 0 {
		return m.cfg.Codec.Seed
	}
	for {
		if seed := m.seedSource(); seed != 0 {
			return seed
		}
	}
}

// NewRand returns the deterministic generator used for a run seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
