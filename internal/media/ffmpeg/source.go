package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"vidna/internal/frame"
)

// Source decodes a video file into frames.
type Source struct {
	info  frame.Info
	count int
	proc  *process
	out   io.ReadCloser
	r     *bufio.Reader
	buf   []byte
	eof   bool
}

// OpenSource probes path and starts ffmpeg decoding it to raw bgr24.
func OpenSource(ctx context.Context, bins Binaries, path string) (*Source, error) {
	probe, err := Probe(ctx, bins.ffprobe(), path)
	if err != nil {
		return nil, err
	}
	info, err := probe.Info()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cmd := exec.CommandContext(ctx, bins.ffmpeg(), //nolint:gosec
		"-v", "error", "-nostdin",
		"-i", path,
		"-map", "0:v:0",
		"-f", "rawvideo", "-pix_fmt", "bgr24",
		"-",
	)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	proc, err := startProcess(cmd)
	if err != nil {
		return nil, err
	}
	return &Source{
		info:  info,
		count: probe.FrameCount(),
		proc:  proc,
		out:   out,
		r:     bufio.NewReaderSize(out, 1<<20),
		buf:   make([]byte, info.Size()*bytesPerPixel),
	}, nil
}

func (s *Source) Info() frame.Info { return s.info }

// FrameCount is ffprobe's frame estimate; zero when unknown.
func (s *Source) FrameCount() int { return s.count }

// Next returns the next decoded frame, or io.EOF once ffmpeg has exited
// cleanly.
func (s *Source) Next(ctx context.Context) (frame.Frame, error) {
	if s.eof {
		return frame.Frame{}, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return frame.Frame{}, err
	}
	f, err := readRawFrame(s.r, s.buf, s.info.Width, s.info.Height)
	if errors.Is(err, io.EOF) {
		s.eof = true
		if werr := s.proc.wait(); werr != nil {
			return frame.Frame{}, werr
		}
		return frame.Frame{}, io.EOF
	}
	if err != nil {
		s.eof = true
		s.proc.kill()
		return frame.Frame{}, errors.Join(err, s.proc.wait())
	}
	return f, nil
}

// Close stops ffmpeg if it is still running.
func (s *Source) Close() error {
	if s.eof {
		return nil
	}
	s.eof = true
	_ = s.out.Close()
	s.proc.kill()
	_ = s.proc.wait()
	return nil
}
