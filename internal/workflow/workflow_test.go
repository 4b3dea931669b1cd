package workflow_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidna/internal/catalog"
	"vidna/internal/config"
	"vidna/internal/frame"
	"vidna/internal/logging"
	"vidna/internal/stream"
	"vidna/internal/testsupport"
	"vidna/internal/workflow"
)

type memVideo struct {
	*frame.MemorySource
	closed bool
}

func (v *memVideo) Close() error {
	v.closed = true
	return nil
}

type harness struct {
	cfg     *config.Config
	store   *catalog.Store
	manager *workflow.Manager
	sinks   map[string]*frame.MemorySink
	opened  []*memVideo
}

func newHarness(t *testing.T, frames []frame.Frame, info frame.Info, opts ...testsupport.ConfigOption) *harness {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	h := &harness{
		cfg:   cfg,
		store: testsupport.MustOpenCatalog(t, cfg),
		sinks: make(map[string]*frame.MemorySink),
	}
	h.manager = workflow.NewManager(cfg, h.store, logging.NewNop(),
		workflow.WithSourceOpener(func(_ context.Context, path string) (workflow.VideoSource, error) {
			if strings.Contains(path, "missing") {
				return nil, os.ErrNotExist
			}
			v := &memVideo{MemorySource: frame.NewMemorySource(info, frames)}
			h.opened = append(h.opened, v)
			return v, nil
		}),
		workflow.WithSinkFactory(func(_ context.Context, path string) frame.Sink {
			sink := &frame.MemorySink{}
			h.sinks[path] = sink
			return sink
		}),
		workflow.WithSeedSource(func() uint64 { return 77 }),
	)
	return h
}

func gradientClip() ([]frame.Frame, frame.Info) {
	frames := []frame.Frame{
		testsupport.Gradient(4, 3, 0),
		testsupport.Gradient(4, 3, 0),
		testsupport.Gradient(4, 3, 5),
	}
	return frames, frame.Info{FPS: 24, Width: 4, Height: 3}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	frames, info := gradientClip()
	h := newHarness(t, frames, info)
	ctx := context.Background()

	enc, err := h.manager.Encode(ctx, workflow.EncodeRequest{Input: "/videos/clip.mp4"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	wantPath := filepath.Join(h.cfg.Paths.EncodingsDir, "clip.mp4_none_encoding.txt")
	if enc.Output != wantPath {
		t.Fatalf("output = %q, want %q", enc.Output, wantPath)
	}
	if _, err := os.Stat(enc.Output); err != nil {
		t.Fatalf("encoding not published: %v", err)
	}
	if enc.Stats.Frames != 3 || enc.Checksum == "" || enc.Seed != 1 {
		t.Fatalf("unexpected result %+v", enc)
	}
	if len(h.opened) != 1 || !h.opened[0].closed {
		t.Fatal("expected the video source to be closed")
	}

	dec, err := h.manager.Decode(ctx, workflow.DecodeRequest{Input: enc.Output})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	wantDecoded := filepath.Join(h.cfg.Paths.DecodedDir, "clip_none_none.avi")
	sink := h.sinks[wantDecoded]
	if dec.Output != wantDecoded || sink == nil {
		t.Fatalf("decoded to %q, sinks %v", dec.Output, h.sinks)
	}
	if !sink.Closed() || len(sink.Frames) != len(frames) {
		t.Fatalf("sink got %d frames, closed=%v", len(sink.Frames), sink.Closed())
	}
	for i := range frames {
		for j, p := range frames[i].Pixels {
			if sink.Frames[i].Pixels[j] != p {
				t.Fatalf("frame %d pixel %d = %+v, want %+v", i, j, sink.Frames[i].Pixels[j], p)
			}
		}
	}
	if sink.Info.Width != 4 || sink.Info.Height != 3 || sink.Info.FPS != 24 {
		t.Fatalf("unexpected sink info %+v", sink.Info)
	}

	runs, err := h.store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 recorded runs, got %d", len(runs))
	}
	for _, run := range runs {
		if run.Status != catalog.StatusSucceeded || run.Frames != 3 || run.Posterization != "none" {
			t.Fatalf("unexpected run %+v", run)
		}
	}
}

func TestEncodeCompressedAndInspect(t *testing.T) {
	frames, info := gradientClip()
	h := newHarness(t, frames, info, testsupport.WithCompression(true))

	enc, err := h.manager.Encode(context.Background(), workflow.EncodeRequest{Input: "clip.mp4", Posterization: "med"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasSuffix(enc.Output, "clip.mp4_med_encoding.txt.zst") {
		t.Fatalf("unexpected output %q", enc.Output)
	}

	got, err := workflow.Inspect(enc.Output)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	want := stream.Header{Level: enc.Stats.Header.Level, FPS: 24, Width: 4, Height: 3}
	if got.Header != want || !got.Compressed {
		t.Fatalf("unexpected inspection %+v", got)
	}
	if got.Symbols != int64(enc.Stats.Symbols) {
		t.Fatalf("symbols = %d, want %d", got.Symbols, enc.Stats.Symbols)
	}
}

func TestEncodeFailureIsRecorded(t *testing.T) {
	frames, info := gradientClip()
	h := newHarness(t, frames, info)
	ctx := context.Background()

	res, err := h.manager.Encode(ctx, workflow.EncodeRequest{Input: "missing.mp4"})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, statErr := os.Stat(res.Output); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected no output file, stat err %v", statErr)
	}
	run, err := h.store.Get(ctx, res.RunID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run.Status != catalog.StatusFailed || run.Error == "" {
		t.Fatalf("expected failed run, got %+v", run)
	}
}

func TestDecodeRejectsMalformedFile(t *testing.T) {
	h := newHarness(t, nil, frame.Info{})
	path := filepath.Join(h.cfg.Paths.EncodingsDir, "bad.txt")
	if err := os.WriteFile(path, []byte("GATGX"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := h.manager.Decode(context.Background(), workflow.DecodeRequest{Input: path, Mutation: "rip"})
	if !errors.Is(err, stream.ErrMalformedHeader) {
		t.Fatalf("expected malformed header, got %v", err)
	}
	run, err := h.store.Get(context.Background(), res.RunID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run.Status != catalog.StatusFailed || run.Mutation != "rip" || run.Posterization != "" {
		t.Fatalf("unexpected run %+v", run)
	}
}

func TestDecodeRejectsUnknownMutation(t *testing.T) {
	h := newHarness(t, nil, frame.Info{})
	if _, err := h.manager.Decode(context.Background(), workflow.DecodeRequest{Input: "x.txt", Mutation: "cancer"}); err == nil {
		t.Fatal("expected unsupported mutation to fail")
	}
}

func TestSeedResolution(t *testing.T) {
	frames, info := gradientClip()
	h := newHarness(t, frames, info, testsupport.WithSeed(0))
	ctx := context.Background()

	res, err := h.manager.Encode(ctx, workflow.EncodeRequest{Input: "a.mp4"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if res.Seed != 77 {
		t.Fatalf("expected generated seed 77, got %d", res.Seed)
	}
	res, err = h.manager.Encode(ctx, workflow.EncodeRequest{Input: "b.mp4", Seed: 9})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if res.Seed != 9 {
		t.Fatalf("expected requested seed 9, got %d", res.Seed)
	}
}

func TestHighEncodingIsReproducible(t *testing.T) {
	frames := []frame.Frame{testsupport.Noise(6, 4, testsupport.Rand(3))}
	info := frame.Info{FPS: 10, Width: 6, Height: 4}
	h := newHarness(t, frames, info)
	ctx := context.Background()

	first, err := h.manager.Encode(ctx, workflow.EncodeRequest{Input: "n.mp4", Posterization: "high", Output: filepath.Join(t.TempDir(), "one.txt"), Seed: 5})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	second, err := h.manager.Encode(ctx, workflow.EncodeRequest{Input: "n.mp4", Posterization: "high", Output: filepath.Join(t.TempDir(), "two.txt"), Seed: 5})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if first.Checksum != second.Checksum {
		t.Fatal("same seed produced different encodings")
	}
}

func TestDrawVideoAndEncoding(t *testing.T) {
	white := testsupport.Solid(2, 2, frame.White)
	h := newHarness(t, []frame.Frame{white}, frame.Info{FPS: 1, Width: 2, Height: 2})
	ctx := context.Background()

	var video bytes.Buffer
	if _, err := h.manager.Draw(ctx, workflow.DrawRequest{Input: "white.mp4", Writer: &video}); err != nil {
		t.Fatalf("Draw video: %v", err)
	}
	if video.String() != "GG\nGG\n\n" {
		t.Fatalf("unexpected drawing %q", video.String())
	}

	enc, err := h.manager.Encode(ctx, workflow.EncodeRequest{Input: "white.mp4"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded bytes.Buffer
	res, err := h.manager.Draw(ctx, workflow.DrawRequest{Input: enc.Output, Writer: &decoded})
	if err != nil {
		t.Fatalf("Draw encoding: %v", err)
	}
	if decoded.String() != video.String() {
		t.Fatalf("encoding drawing %q differs from video drawing %q", decoded.String(), video.String())
	}
	run, err := h.store.Get(ctx, res.RunID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run.Kind != catalog.KindDraw || run.Mutation != "none" {
		t.Fatalf("unexpected draw run %+v", run)
	}
}

func TestRunsWithoutCatalog(t *testing.T) {
	frames, info := gradientClip()
	cfg := testsupport.NewConfig(t)
	manager := workflow.NewManager(cfg, nil, nil,
		workflow.WithSourceOpener(func(context.Context, string) (workflow.VideoSource, error) {
			return &memVideo{MemorySource: frame.NewMemorySource(info, frames)}, nil
		}),
	)
	res, err := manager.Encode(context.Background(), workflow.EncodeRequest{Input: "clip.mp4"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if res.RunID != "" {
		t.Fatalf("expected no run id without a catalog, got %q", res.RunID)
	}
}

func TestPreflightReportsMissingBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFFmpegBinaries("no-such-ffmpeg", "no-such-ffprobe"))
	manager := workflow.NewManager(cfg, nil, nil)
	err := manager.Preflight(context.Background())
	if err == nil || !strings.Contains(err.Error(), "FFmpeg") {
		t.Fatalf("expected FFmpeg failure, got %v", err)
	}
}
