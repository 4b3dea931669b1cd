package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"vidna/internal/catalog"
	"vidna/internal/frame"
	"vidna/internal/logging"
	"vidna/internal/mutation"
	"vidna/internal/stream"
	"vidna/internal/symfile"
)

// DecodeRequest describes one symbols-to-video run.
type DecodeRequest struct {
	Input    string
	Output   string
	Mutation string
	Seed     uint64
}

// Decode rebuilds a video from the symbol file at req.Input, applying the
// requested mutation.
func (m *Manager) Decode(ctx context.Context, req DecodeRequest) (*Result, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return nil, errors.New("decode: encoding file required")
	}
	mode, err := m.resolveMutation(req.Mutation)
	if err != nil {
		return nil, err
	}
	output := strings.TrimSpace(req.Output)
	if output == "" {
		output = filepath.Join(m.cfg.Paths.DecodedDir, symfile.DecodedName(input, mode.String(), m.cfg.FFmpeg.Container))
	}
	seed := m.resolveSeed(req.Seed)

	ctx, logger, runID := m.beginRun(ctx, catalog.Run{
		Kind:     catalog.KindDecode,
		Input:    input,
		Output:   output,
		Mutation: mode.String(),
		Seed:     seed,
	})
	result := &Result{RunID: runID, Input: input, Output: output, Seed: seed}

	logger.Info("decode run starting",
		logging.String("input", input),
		logging.String("output", output),
		logging.String(logging.FieldMutation, mode.String()),
		logging.Uint64("seed", seed),
	)

	stats, err := m.decodeInto(ctx, input, m.newSink(ctx, output), mode, seed)
	result.Stats = stats
	outcome := outcomeFromStats(output, stats)
	if stats.Header.Width > 0 {
		outcome.Posterization = stats.Header.Level.String()
	}
	m.finishRun(ctx, logger, runID, outcome, err)
	if err != nil {
		logger.Error("decode run failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "decode_failed"),
			logging.String(logging.FieldErrorHint, "verify the file was produced by vidna encode"),
		)
		return result, err
	}
	logger.Info("decode run finished",
		logging.String("output", output),
		logging.Int("frames", stats.Frames),
		logging.Int("mutated", stats.Mutated),
	)
	return result, nil
}

func (m *Manager) resolveMutation(name string) (mutation.Mode, error) {
	if strings.TrimSpace(name) == "" {
		return m.cfg.MutationMode(), nil
	}
	return mutation.ParseMode(name)
}

func (m *Manager) decodeInto(ctx context.Context, input string, sink frame.Sink, mode mutation.Mode, seed uint64) (stream.Stats, error) {
	r, err := symfile.Open(input)
	if err != nil {
		return stream.Stats{}, err
	}
	defer r.Close()

	opts := stream.DecodeOptions{Mutation: mode, Logger: m.logger}
	if mode == mutation.Recessive {
		opts.Rand = NewRand(seed)
	}
	return stream.Decode(ctx, r, sink, opts)
}
