package stream

import (
	"errors"
	"fmt"
	"io"

	"vidna/internal/bases"
	"vidna/internal/frame"
	"vidna/internal/posterize"
)

// HeaderSize is the symbol length of a stream header.
const HeaderSize = 1 + fpsDigits + dimDigits + dimDigits

const (
	fpsDigits = 4
	dimDigits = 6

	// MaxFPS is the largest frame rate four digits can carry.
	MaxFPS = 1<<(2*fpsDigits) - 1
	// MaxDimension is the largest width or height six digits can carry.
	MaxDimension = 1<<(2*dimDigits) - 1
)

// ErrMalformedHeader reports a header that is short or carries invalid fields.
var ErrMalformedHeader = errors.New("malformed header")

// Header describes an encoded stream.
type Header struct {
	Level  posterize.Level
	FPS    int
	Width  int
	Height int
}

// NewHeader builds a header for frames described by info. Fractional frame
// rates are truncated.
func NewHeader(level posterize.Level, info frame.Info) (Header, error) {
	h := Header{Level: level, FPS: int(info.FPS), Width: info.Width, Height: info.Height}
	if err := h.Validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// Validate checks that every field fits its digit width.
func (h Header) Validate() error {
	switch {
	case h.FPS < 0 || h.FPS > MaxFPS:
		return fmt.Errorf("%w: fps %d outside 0..%d", bases.ErrOverflow, h.FPS, MaxFPS)
	case h.Width <= 0 || h.Width > MaxDimension:
		return fmt.Errorf("%w: width %d outside 1..%d", bases.ErrOverflow, h.Width, MaxDimension)
	case h.Height <= 0 || h.Height > MaxDimension:
		return fmt.Errorf("%w: height %d outside 1..%d", bases.ErrOverflow, h.Height, MaxDimension)
	}
	return nil
}

// Info returns the frame properties announced by the header.
func (h Header) Info() frame.Info {
	return frame.Info{FPS: float64(h.FPS), Width: h.Width, Height: h.Height}
}

// FrameSize returns width*height.
func (h Header) FrameSize() int { return h.Width * h.Height }

// AppendTo writes the header symbols into buf.
func (h Header) AppendTo(buf *bases.Buffer) error {
	if err := h.Validate(); err != nil {
		return err
	}
	buf.AppendSymbol(h.Level.Marker())
	for _, field := range []struct{ value, digits int }{
		{h.FPS, fpsDigits},
		{h.Width, dimDigits},
		{h.Height, dimDigits},
	} {
		if err := buf.AppendDigits(field.value, field.digits); err != nil {
			return err
		}
	}
	return nil
}

// String returns the header as symbols, or an empty string if it is invalid.
func (h Header) String() string {
	var buf bases.Buffer
	if err := h.AppendTo(&buf); err != nil {
		return ""
	}
	return string(buf.Bytes())
}

// ParseHeader reads the header from the first HeaderSize symbols of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d symbols, need %d", ErrMalformedHeader, len(data), HeaderSize)
	}
	level, err := posterize.LevelFromMarker(data[0])
	if err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	r := bases.NewReader(data[1:HeaderSize])
	fields := make([]int, 0, 3)
	for _, field := range []struct {
		name   string
		digits int
	}{{"fps", fpsDigits}, {"width", dimDigits}, {"height", dimDigits}} {
		symbols, err := r.Take(field.digits)
		if err != nil {
			return Header{}, fmt.Errorf("%w: %s: %w", ErrMalformedHeader, field.name, err)
		}
		v, err := bases.DigitsToValue(symbols)
		if err != nil {
			return Header{}, fmt.Errorf("%w: %s: %w", ErrMalformedHeader, field.name, err)
		}
		fields = append(fields, v)
	}
	h := Header{Level: level, FPS: fields[0], Width: fields[1], Height: fields[2]}
	if h.Width == 0 || h.Height == 0 {
		return Header{}, fmt.Errorf("%w: empty frame size %dx%d", ErrMalformedHeader, h.Width, h.Height)
	}
	return h, nil
}

// ReadHeader reads and parses the first HeaderSize symbols from r.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Header{}, fmt.Errorf("read header: %w", err)
	}
	return ParseHeader(buf[:n])
}
