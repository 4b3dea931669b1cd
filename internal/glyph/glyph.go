// Package glyph draws frames in the terminal as rows of base letters chosen
// by pixel luminance.
package glyph

import (
	"bufio"
	"errors"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"vidna/internal/bases"
	"vidna/internal/frame"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiHome   = "\x1b[H\x1b[2J"
)

// Luminance weighs the three channels in storage order (B, G, R) with the
// BT.709 coefficients.
func Luminance(p frame.Pixel) float64 {
	return 0.2126*float64(p.B) + 0.7152*float64(p.G) + 0.0722*float64(p.R)
}

// Letter maps a pixel to the base drawn for it.
func Letter(p frame.Pixel) bases.Symbol {
	switch l := Luminance(p); {
	case l > 190:
		return bases.G
	case l > 125:
		return bases.A
	case l > 60:
		return bases.C
	default:
		return bases.T
	}
}

func letterColor(s bases.Symbol) string {
	switch s {
	case bases.A:
		return ansiGreen
	case bases.T:
		return ansiRed
	case bases.C:
		return ansiBlue
	case bases.G:
		return ansiYellow
	default:
		return ""
	}
}

// ShouldColorize reports whether w is an interactive terminal.
func ShouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Options controls rendering.
type Options struct {
	// Color wraps each letter in an ANSI colour.
	Color bool
	// MaxWidth downsamples frames wider than this many columns. Zero keeps
	// every column.
	MaxWidth int
	// Animate redraws in place and paces frames at the stream's rate.
	Animate bool
}

// Sink renders each frame it receives to w.
type Sink struct {
	w     *bufio.Writer
	opts  Options
	info  frame.Info
	open  bool
	count int
	next  time.Time
	sleep func(time.Duration)
	now   func() time.Time
}

// NewSink returns a sink drawing to w.
func NewSink(w io.Writer, opts Options) *Sink {
	return &Sink{w: bufio.NewWriter(w), opts: opts, sleep: time.Sleep, now: time.Now}
}

// Frames returns the number of frames drawn.
func (s *Sink) Frames() int { return s.count }

func (s *Sink) Open(info frame.Info) error {
	if s.open {
		return errors.New("glyph sink already opened")
	}
	s.info = info
	s.open = true
	s.next = s.now()
	return nil
}

func (s *Sink) WriteFrame(f frame.Frame) error {
	if !s.open {
		return errors.New("glyph sink is not open")
	}
	if s.opts.Animate {
		s.pace()
		s.w.WriteString(ansiHome)
	}
	step := 1
	if s.opts.MaxWidth > 0 && f.Width > s.opts.MaxWidth {
		step = (f.Width + s.opts.MaxWidth - 1) / s.opts.MaxWidth
	}
	// Terminal cells are roughly twice as tall as wide.
	rowStep := step
	if step > 1 {
		rowStep = step * 2
	}
	for y := 0; y < f.Height; y += rowStep {
		for x := 0; x < f.Width; x += step {
			letter := Letter(f.At(x, y))
			if s.opts.Color {
				s.w.WriteString(letterColor(letter))
				s.w.WriteByte(letter)
				s.w.WriteString(ansiReset)
				continue
			}
			s.w.WriteByte(letter)
		}
		s.w.WriteByte('\n')
	}
	if !s.opts.Animate {
		s.w.WriteByte('\n')
	}
	s.count++
	return s.w.Flush()
}

func (s *Sink) pace() {
	if s.info.FPS <= 0 {
		return
	}
	if wait := s.next.Sub(s.now()); wait > 0 {
		s.sleep(wait)
	}
	s.next = s.next.Add(time.Duration(float64(time.Second) / s.info.FPS))
}

func (s *Sink) Close() error {
	s.open = false
	return s.w.Flush()
}
