package stream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"vidna/internal/bases"
	"vidna/internal/delta"
	"vidna/internal/frame"
	"vidna/internal/logging"
	"vidna/internal/mutation"
)

// DecodeOptions configures Decode.
type DecodeOptions struct {
	Mutation mutation.Mode
	// Rand drives Recessive. Required for that mode only.
	Rand   mutation.Rand
	Logger *slog.Logger
}

// Decode reads a complete encoding from r and writes the reconstructed frames
// to sink. Trailing whitespace is ignored; any other byte outside the
// alphabet fails with bases.ErrInvalidSymbol. The sink is closed on every
// path once it has been opened.
func Decode(ctx context.Context, r io.Reader, sink frame.Sink, opts DecodeOptions) (stats Stats, err error) {
	started := time.Now()
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "stream"))

	engine, err := mutation.NewEngine(opts.Mutation, opts.Rand)
	if err != nil {
		return Stats{}, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Stats{}, fmt.Errorf("read encoding: %w", err)
	}
	data = bytes.TrimRight(data, " \t\r\n")

	header, err := ParseHeader(data)
	if err != nil {
		return Stats{}, err
	}
	body := data[HeaderSize:]
	for i, s := range body {
		if !bases.Valid(s) {
			return Stats{Header: header}, fmt.Errorf("%w: %q at offset %d", bases.ErrInvalidSymbol, s, HeaderSize+i)
		}
	}
	stats = Stats{Header: header, Symbols: len(data)}

	logger.Info("decode started",
		logging.String(logging.FieldLevel, header.Level.String()),
		logging.String(logging.FieldMutation, opts.Mutation.String()),
		logging.Int("fps", header.FPS),
		logging.Int("width", header.Width),
		logging.Int("height", header.Height),
		logging.Int("symbols", stats.Symbols),
	)

	if err := sink.Open(header.Info()); err != nil {
		return stats, fmt.Errorf("open sink: %w", err)
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close sink: %w", cerr)
		}
	}()

	reader := bases.NewReader(body)
	dec := delta.NewDecoder(header.Level, header.Width, header.Height, engine)
	sampler := logging.NewProgressSampler(10)
	emit := func(f frame.Frame) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sink.WriteFrame(f); err != nil {
			return fmt.Errorf("write frame %d: %w", dec.Counts().Frames-1, err)
		}
		if sampler.ShouldLog("decode", reader.Pos(), len(body)) {
			logger.Info("decode progress",
				logging.Int("frames", dec.Counts().Frames),
				logging.Int("consumed", reader.Pos()),
				logging.Int("total", len(body)),
			)
		}
		return nil
	}

	if err := dec.Decode(reader, emit); err != nil {
		counts := dec.Counts()
		stats.addCounts(counts.Counts)
		return stats, err
	}

	counts := dec.Counts()
	stats.addCounts(counts.Counts)
	stats.Mutated = counts.Mutated
	stats.Padded = counts.Padded
	stats.Duration = time.Since(started)

	if stats.Padded > 0 {
		logging.WarnWithContext(logger, "final frame padded with black", "short_stream",
			logging.Int("padded", stats.Padded),
			logging.String(logging.FieldErrorHint, "the encoding may be truncated"),
		)
	}
	logger.Info("decode finished",
		logging.Int("frames", stats.Frames),
		logging.Int("runs", stats.Runs),
		logging.Int("literals", stats.Literals),
		logging.Int("mutated", stats.Mutated),
		logging.Duration("elapsed", stats.Duration),
	)
	return stats, nil
}
