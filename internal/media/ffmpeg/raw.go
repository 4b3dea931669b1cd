package ffmpeg

import (
	"errors"
	"fmt"
	"io"

	"vidna/internal/frame"
)

const bytesPerPixel = 3

// readRawFrame fills f from one bgr24 frame in r, using buf as scratch.
// It returns io.EOF only when r ends exactly on a frame boundary.
func readRawFrame(r io.Reader, buf []byte, width, height int) (frame.Frame, error) {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return frame.Frame{}, fmt.Errorf("partial raw frame: %w", err)
		}
		return frame.Frame{}, err
	}
	f := frame.New(width, height)
	for i := range f.Pixels {
		o := i * bytesPerPixel
		f.Pixels[i] = frame.Pixel{B: buf[o], G: buf[o+1], R: buf[o+2]}
	}
	return f, nil
}

// appendRawFrame appends f to dst as bgr24.
func appendRawFrame(dst []byte, f frame.Frame) []byte {
	for _, p := range f.Pixels {
		dst = append(dst, p.B, p.G, p.R)
	}
	return dst
}
