package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"vidna/internal/frame"
)

// Sink encodes frames into a video file through ffmpeg's stdin.
type Sink struct {
	ctx  context.Context
	bins Binaries
	path string

	info  frame.Info
	proc  *process
	in    io.WriteCloser
	buf   []byte
	count int
}

// NewSink returns a sink that writes path once opened.
func NewSink(ctx context.Context, bins Binaries, path string) *Sink {
	return &Sink{ctx: ctx, bins: bins, path: path}
}

// Path returns the output file.
func (s *Sink) Path() string { return s.path }

// Frames returns the number of frames written.
func (s *Sink) Frames() int { return s.count }

// Open starts ffmpeg for frames described by info.
func (s *Sink) Open(info frame.Info) error {
	if s.proc != nil {
		return errors.New("ffmpeg sink already opened")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	cmd := exec.CommandContext(s.ctx, s.bins.ffmpeg(), sinkArgs(info, s.bins.videoCodec(), s.path)...) //nolint:gosec
	in, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	proc, err := startProcess(cmd)
	if err != nil {
		return err
	}
	s.info = info
	s.proc = proc
	s.in = in
	s.buf = make([]byte, 0, info.Size()*bytesPerPixel)
	return nil
}

func sinkArgs(info frame.Info, codec, path string) []string {
	// ffmpeg rejects a zero rate; headers may legitimately carry 0.
	fps := math.Max(info.FPS, 1)
	args := []string{
		"-v", "error", "-y",
		"-f", "rawvideo", "-pix_fmt", "bgr24",
		"-s", strconv.Itoa(info.Width) + "x" + strconv.Itoa(info.Height),
		"-r", strconv.FormatFloat(fps, 'f', -1, 64),
		"-i", "-",
		"-c:v", codec,
	}
	if codec == "mjpeg" {
		args = append(args, "-q:v", "2", "-pix_fmt", "yuvj444p")
	}
	return append(args, path)
}

// WriteFrame pipes one frame to ffmpeg.
func (s *Sink) WriteFrame(f frame.Frame) error {
	if s.proc == nil {
		return errors.New("ffmpeg sink is not open")
	}
	if f.Width != s.info.Width || f.Height != s.info.Height {
		return fmt.Errorf("frame is %dx%d, sink expects %dx%d", f.Width, f.Height, s.info.Width, s.info.Height)
	}
	s.buf = appendRawFrame(s.buf[:0], f)
	if _, err := s.in.Write(s.buf); err != nil {
		proc := s.proc
		s.proc = nil
		_ = s.in.Close()
		proc.kill()
		return errors.Join(fmt.Errorf("write to ffmpeg: %w", err), proc.wait())
	}
	s.count++
	return nil
}

// Close flushes ffmpeg's input and waits for the container to be finalized.
func (s *Sink) Close() error {
	if s.proc == nil {
		return nil
	}
	proc := s.proc
	s.proc = nil
	if err := s.in.Close(); err != nil {
		proc.kill()
		_ = proc.wait()
		return fmt.Errorf("close ffmpeg input: %w", err)
	}
	return proc.wait()
}
