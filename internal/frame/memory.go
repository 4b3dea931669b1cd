package frame

import (
	"context"
	"errors"
	"io"
)

// MemorySource serves frames from a slice.
type MemorySource struct {
	info   Info
	frames []Frame
	next   int
}

// NewMemorySource returns a source over frames. Width and height come from info.
func NewMemorySource(info Info, frames []Frame) *MemorySource {
	return &MemorySource{info: info, frames: frames}
}

func (s *MemorySource) Info() Info { return s.info }

func (s *MemorySource) FrameCount() int { return len(s.frames) }

func (s *MemorySource) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if s.next >= len(s.frames) {
		return Frame{}, io.EOF
	}
	f := s.frames[s.next]
	s.next++
	return f, nil
}

// MemorySink collects frames in memory.
type MemorySink struct {
	Info   Info
	Frames []Frame
	opened bool
	closed bool
}

func (s *MemorySink) Open(info Info) error {
	if s.opened {
		return errors.New("memory sink already opened")
	}
	s.Info = info
	s.opened = true
	return nil
}

func (s *MemorySink) WriteFrame(f Frame) error {
	if !s.opened || s.closed {
		return errors.New("memory sink is not open")
	}
	s.Frames = append(s.Frames, f.Clone())
	return nil
}

func (s *MemorySink) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *MemorySink) Closed() bool { return s.closed }
