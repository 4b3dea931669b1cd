package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"vidna/internal/catalog"
	"vidna/internal/frame"
	"vidna/internal/glyph"
	"vidna/internal/logging"
	"vidna/internal/stream"
	"vidna/internal/symfile"
)

// DrawRequest renders a video or a symbol file as base letters.
type DrawRequest struct {
	Input    string
	Mutation string
	Seed     uint64
	Writer   io.Writer
	Color    bool
	Animate  bool
}

// Draw renders every frame of req.Input to req.Writer. Symbol files are
// decoded first, with the requested mutation applied.
func (m *Manager) Draw(ctx context.Context, req DrawRequest) (*Result, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return nil, errors.New("draw: input required")
	}
	if req.Writer == nil {
		return nil, errors.New("draw: writer required")
	}
	encoding := symfile.IsEncoding(input)
	mode, err := m.resolveMutation(req.Mutation)
	if err != nil {
		return nil, err
	}
	seed := m.resolveSeed(req.Seed)

	run := catalog.Run{Kind: catalog.KindDraw, Input: input, Seed: seed}
	if encoding {
		run.Mutation = mode.String()
	}
	ctx, logger, runID := m.beginRun(ctx, run)
	result := &Result{RunID: runID, Input: input, Seed: seed}

	sink := glyph.NewSink(req.Writer, glyph.Options{
		Color:    req.Color,
		MaxWidth: m.cfg.Draw.MaxWidth,
		Animate:  req.Animate,
	})
	if encoding {
		result.Stats, err = m.decodeInto(ctx, input, sink, mode, seed)
	} else {
		result.Stats, err = m.pump(ctx, input, sink)
	}
	m.finishRun(ctx, logger, runID, outcomeFromStats("", result.Stats), err)
	if err != nil {
		return result, err
	}
	logger.Debug("draw finished", logging.Int("frames", sink.Frames()))
	return result, nil
}

// pump copies every frame of a video straight into sink.
func (m *Manager) pump(ctx context.Context, input string, sink frame.Sink) (stats stream.Stats, err error) {
	src, err := m.openSource(ctx, input)
	if err != nil {
		return stats, fmt.Errorf("open video: %w", err)
	}
	defer src.Close()

	info := src.Info()
	stats.Header = stream.Header{FPS: int(info.FPS), Width: info.Width, Height: info.Height}
	if err := sink.Open(info); err != nil {
		return stats, fmt.Errorf("open sink: %w", err)
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close sink: %w", cerr)
		}
	}()

	for {
		f, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("read frame %d: %w", stats.Frames, err)
		}
		if err := sink.WriteFrame(f); err != nil {
			return stats, fmt.Errorf("write frame %d: %w", stats.Frames, err)
		}
		stats.Frames++
	}
}
