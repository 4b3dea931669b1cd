package stream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"vidna/internal/bases"
	"vidna/internal/delta"
	"vidna/internal/frame"
	"vidna/internal/logging"
	"vidna/internal/posterize"
)

// EncodeOptions configures Encode.
type EncodeOptions struct {
	Level posterize.Level
	// Rand picks the symbol within a High class. Required for High.
	Rand   posterize.Rand
	Logger *slog.Logger
}

// Stats summarizes one encode or decode pass.
type Stats struct {
	Header    Header
	Frames    int
	Symbols   int
	Runs      int
	Literals  int
	RunPixels int
	Mutated   int
	Padded    int
	Duration  time.Duration
}

func (s *Stats) addCounts(c delta.Counts) {
	s.Frames = c.Frames
	s.Runs = c.Runs
	s.Literals = c.Literals
	s.RunPixels = c.RunPixels
}

// Encode reads every frame from src and writes the header followed by one
// frame block per frame to w.
func Encode(ctx context.Context, src frame.Source, w io.Writer, opts EncodeOptions) (Stats, error) {
	started := time.Now()
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "stream"))

	header, err := NewHeader(opts.Level, src.Info())
	if err != nil {
		return Stats{}, fmt.Errorf("encode header: %w", err)
	}
	stats := Stats{Header: header}

	bw := bufio.NewWriterSize(w, 64*1024)
	var hbuf bases.Buffer
	if err := header.AppendTo(&hbuf); err != nil {
		return stats, err
	}
	if _, err := hbuf.WriteTo(bw); err != nil {
		return stats, fmt.Errorf("write header: %w", err)
	}
	stats.Symbols = hbuf.Len()

	logger.Info("encode started",
		logging.String(logging.FieldLevel, header.Level.String()),
		logging.Int("fps", header.FPS),
		logging.Int("width", header.Width),
		logging.Int("height", header.Height),
	)

	total := 0
	if counted, ok := src.(frame.Counted); ok {
		total = counted.FrameCount()
	}
	sampler := logging.NewProgressSampler(10)
	enc := delta.NewEncoder(opts.Level, opts.Rand)
	block := make([]byte, 0, header.FrameSize()*opts.Level.SymbolsPerPixel())

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		f, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read frame %d: %w", enc.Counts().Frames, err)
		}
		if f.Width != header.Width || f.Height != header.Height {
			return stats, fmt.Errorf("frame %d is %dx%d, header announces %dx%d",
				enc.Counts().Frames, f.Width, f.Height, header.Width, header.Height)
		}
		block, err = enc.EncodeFrame(block[:0], f)
		if err != nil {
			return stats, fmt.Errorf("encode frame %d: %w", enc.Counts().Frames, err)
		}
		if _, err := bw.Write(block); err != nil {
			return stats, fmt.Errorf("write frame %d: %w", enc.Counts().Frames-1, err)
		}
		stats.Symbols += len(block)

		done := enc.Counts().Frames
		if sampler.ShouldLog("encode", done, total) {
			logger.Info("encode progress",
				logging.Int("frames", done),
				logging.Int("total", total),
				logging.Int("symbols", stats.Symbols),
			)
		}
	}

	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("flush encoding: %w", err)
	}
	stats.addCounts(enc.Counts())
	stats.Duration = time.Since(started)

	logger.Info("encode finished",
		logging.Int("frames", stats.Frames),
		logging.Int("symbols", stats.Symbols),
		logging.Int("runs", stats.Runs),
		logging.Int("literals", stats.Literals),
		logging.Duration("elapsed", stats.Duration),
	)
	return stats, nil
}
