package delta

import (
	"errors"
	"fmt"

	"vidna/internal/bases"
	"vidna/internal/frame"
	"vidna/internal/mutation"
	"vidna/internal/posterize"
)

// ErrTruncatedToken reports a token whose declared width runs past the end of
// the stream.
var ErrTruncatedToken = errors.New("truncated token")

// DecodeCounts extends Counts with decode-only totals.
type DecodeCounts struct {
	Counts
	// Mutated counts tokens or pixels altered by the mutation engine.
	Mutated int
	// Padded counts black pixels added to complete a short final frame.
	Padded int
}

// Decoder replays frame blocks into frames. It owns the previous and current
// frame buffers and replaces them at every frame boundary.
type Decoder struct {
	level  posterize.Level
	width  int
	height int
	engine *mutation.Engine

	previous []frame.Pixel
	current  []frame.Pixel
	counts   DecodeCounts
}

// NewDecoder returns a decoder for frames of width x height. engine may be nil.
func NewDecoder(level posterize.Level, width, height int, engine *mutation.Engine) *Decoder {
	return &Decoder{
		level:   level,
		width:   width,
		height:  height,
		engine:  engine,
		current: make([]frame.Pixel, 0, width*height),
	}
}

// Counts returns the running totals.
func (d *Decoder) Counts() DecodeCounts { return d.counts }

func (d *Decoder) frameSize() int { return d.width * d.height }

// Decode consumes every remaining symbol in r and hands each completed frame
// to emit. Frame boundaries are found by counting pixels only, so a run that
// reaches past the end of a frame continues into the next one. A short final
// frame is padded with black before it is emitted.
func (d *Decoder) Decode(r *bases.Reader, emit func(frame.Frame) error) error {
	if d.frameSize() <= 0 {
		return fmt.Errorf("frame size %dx%d must be positive", d.width, d.height)
	}
	for r.Remaining() > 0 {
		var err error
		if d.previous == nil {
			err = d.readPlain(r)
		} else {
			err = d.readToken(r, emit)
		}
		if err != nil {
			return fmt.Errorf("frame %d: %w", d.counts.Frames, err)
		}
		if len(d.current) == d.frameSize() {
			if err := d.flush(emit); err != nil {
				return err
			}
		}
	}
	if len(d.current) > 0 {
		missing := d.frameSize() - len(d.current)
		for i := 0; i < missing; i++ {
			d.current = append(d.current, frame.Black)
		}
		d.counts.Padded += missing
		return d.flush(emit)
	}
	return nil
}

func (d *Decoder) flush(emit func(frame.Frame) error) error {
	f := frame.Frame{Width: d.width, Height: d.height, Pixels: d.current}
	d.previous = d.current
	d.current = make([]frame.Pixel, 0, d.frameSize())
	d.counts.Frames++
	return emit(f)
}

// readPlain decodes one marker-less pixel of the first frame.
func (d *Decoder) readPlain(r *bases.Reader) error {
	symbols, err := d.take(r, d.level.SymbolsPerPixel(), "pixel")
	if err != nil {
		return err
	}
	p, err := d.level.Decode(symbols)
	if err != nil {
		return err
	}
	d.current = append(d.current, p)
	return nil
}

func (d *Decoder) readToken(r *bases.Reader, emit func(frame.Frame) error) error {
	marker, err := r.Next()
	if err != nil {
		return err
	}
	switch marker {
	case MarkerRun:
		return d.readRun(r, emit)
	case MarkerLiteral:
		return d.readLiteral(r)
	default:
		return fmt.Errorf("%w: token marker %q at offset %d", bases.ErrInvalidSymbol, marker, r.Pos()-1)
	}
}

func (d *Decoder) readRun(r *bases.Reader, emit func(frame.Frame) error) error {
	digits, err := d.take(r, runDigits, "run")
	if err != nil {
		return err
	}
	requested, err := bases.DigitsToValue(digits)
	if err != nil {
		return err
	}
	capacity := d.frameSize() - len(d.current)
	length, changed := d.engine.RunLength(requested, capacity)
	if changed {
		d.counts.Mutated++
	}
	for n := 0; n < length; n++ {
		if len(d.current) == d.frameSize() {
			if err := d.flush(emit); err != nil {
				return err
			}
		}
		p, rewritten := d.engine.Replay(d.previous[len(d.current)])
		if rewritten {
			d.counts.Mutated++
		}
		d.current = append(d.current, p)
	}
	d.counts.Runs++
	d.counts.RunPixels += length
	return nil
}

func (d *Decoder) readLiteral(r *bases.Reader) error {
	width := d.level.SymbolsPerPixel()
	raw, err := d.take(r, width, "literal")
	if err != nil {
		return err
	}
	d.counts.Literals++

	index := len(d.current)
	if d.engine.KeepPrevious() {
		d.counts.Mutated++
		d.current = append(d.current, d.previous[index])
		return nil
	}

	symbols := raw
	if d.engine.Mode() == mutation.Sickle || d.engine.Mode() == mutation.Sickle2 {
		symbols = append([]byte(nil), raw...)
		next, ok := r.Peek(0)
		if d.engine.RewriteLiteral(symbols, next, ok) {
			d.counts.Mutated++
		}
	}
	p, err := d.level.Decode(symbols)
	if err != nil {
		return err
	}
	d.current = append(d.current, p)
	return nil
}

func (d *Decoder) take(r *bases.Reader, n int, what string) ([]byte, error) {
	symbols, err := r.Take(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %s needs %d symbols at offset %d, %d left", ErrTruncatedToken, what, n, r.Pos(), r.Remaining())
	}
	return symbols, nil
}
