package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"vidna/internal/catalog"
	"vidna/internal/logging"
	"vidna/internal/posterize"
	"vidna/internal/stream"
	"vidna/internal/symfile"
)

// EncodeRequest describes one video-to-symbols run. Zero values fall back to
// the config.
type EncodeRequest struct {
	Input         string
	Output        string
	Posterization string
	Seed          uint64
	Compress      bool
}

// Result summarizes a finished run.
type Result struct {
	RunID    string
	Input    string
	Output   string
	Seed     uint64
	Checksum string
	Stats    stream.Stats
}

// Encode converts the video at req.Input into a symbol file.
func (m *Manager) Encode(ctx context.Context, req EncodeRequest) (*Result, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return nil, errors.New("encode: input video required")
	}
	level := m.cfg.PosterizationLevel()
	if req.Posterization != "" {
		parsed, err := posterize.ParseLevel(req.Posterization)
		if err != nil {
			return nil, err
		}
		level = parsed
	}
	output := strings.TrimSpace(req.Output)
	if output == "" {
		compress := req.Compress || m.cfg.Codec.Compress
		output = filepath.Join(m.cfg.Paths.EncodingsDir, symfile.EncodingName(input, level.FileTag(), compress))
	}
	seed := m.resolveSeed(req.Seed)

	ctx, logger, runID := m.beginRun(ctx, catalog.Run{
		Kind:          catalog.KindEncode,
		Input:         input,
		Output:        output,
		Posterization: level.String(),
		Seed:          seed,
	})
	result := &Result{RunID: runID, Input: input, Output: output, Seed: seed}

	logger.Info("encode run starting",
		logging.String("input", input),
		logging.String("output", output),
		logging.String(logging.FieldLevel, level.String()),
		logging.Uint64("seed", seed),
	)

	err := m.encode(ctx, input, output, level, seed, result)
	outcome := outcomeFromStats(output, result.Stats)
	outcome.Checksum = result.Checksum
	m.finishRun(ctx, logger, runID, outcome, err)
	if err != nil {
		logger.Error("encode run failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "encode_failed"),
			logging.String(logging.FieldErrorHint, "verify the input is a readable video"),
		)
		return result, err
	}
	logger.Info("encode run finished",
		logging.String("output", output),
		logging.Int("frames", result.Stats.Frames),
		logging.Int("symbols", result.Stats.Symbols),
		logging.String("sha256", result.Checksum),
	)
	return result, nil
}

func (m *Manager) encode(ctx context.Context, input, output string, level posterize.Level, seed uint64, result *Result) error {
	src, err := m.openSource(ctx, input)
	if err != nil {
		return fmt.Errorf("open video: %w", err)
	}
	defer src.Close()

	w, err := symfile.Create(output)
	if err != nil {
		return err
	}
	defer w.Abort()

	stats, err := stream.Encode(ctx, src, w, stream.EncodeOptions{
		Level:  level,
		Rand:   NewRand(seed),
		Logger: m.logger,
	})
	result.Stats = stats
	if err != nil {
		return err
	}
	if err := w.Commit(); err != nil {
		return err
	}
	result.Checksum = w.Sum()
	return nil
}
