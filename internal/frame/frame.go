// Package frame defines the pixel grids exchanged between the codec and the
// video collaborators that produce and consume them.
package frame

import (
	"context"
	"fmt"
)

// Pixel is a single pixel in the source's native (B,G,R) channel order.
type Pixel struct {
	B, G, R uint8
}

// Channels returns the pixel's channel values in stream order.
func (p Pixel) Channels() [3]uint8 {
	return [3]uint8{p.B, p.G, p.R}
}

// FromChannels builds a pixel from channel values in stream order.
func FromChannels(c [3]uint8) Pixel {
	return Pixel{B: c[0], G: c[1], R: c[2]}
}

var (
	Black = Pixel{}
	White = Pixel{B: 255, G: 255, R: 255}
)

// Info carries the stream-level properties shared by every frame.
type Info struct {
	FPS    float64
	Width  int
	Height int
}

// Size returns the pixel count of one frame.
func (i Info) Size() int {
	return i.Width * i.Height
}

// Frame is a row-major width x height grid of pixels.
type Frame struct {
	Width  int
	Height int
	Pixels []Pixel
}

// New allocates a black frame.
func New(width, height int) Frame {
	return Frame{Width: width, Height: height, Pixels: make([]Pixel, width*height)}
}

// Size returns width*height.
func (f Frame) Size() int {
	return f.Width * f.Height
}

// At returns the pixel at column x, row y.
func (f Frame) At(x, y int) Pixel {
	return f.Pixels[y*f.Width+x]
}

// Validate checks that the pixel slice matches the declared dimensions.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("frame dimensions %dx%d must be positive", f.Width, f.Height)
	}
	if len(f.Pixels) != f.Size() {
		return fmt.Errorf("frame has %d pixels, want %d for %dx%d", len(f.Pixels), f.Size(), f.Width, f.Height)
	}
	return nil
}

// Clone returns a deep copy.
func (f Frame) Clone() Frame {
	out := Frame{Width: f.Width, Height: f.Height, Pixels: make([]Pixel, len(f.Pixels))}
	copy(out.Pixels, f.Pixels)
	return out
}

// Source yields frames in presentation order. Next returns io.EOF after the
// last frame.
type Source interface {
	Info() Info
	Next(ctx context.Context) (Frame, error)
}

// Sink receives decoded frames in order. Open is called once before the
// first frame.
type Sink interface {
	Open(info Info) error
	WriteFrame(f Frame) error
	Close() error
}

// Counted is implemented by sources that know their length up front.
type Counted interface {
	FrameCount() int
}
