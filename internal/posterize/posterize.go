// Package posterize maps pixels to base symbols at one of four fidelity levels.
//
// Each level owns a quantization step and a pixel encoding:
//
//	High    1 symbol per pixel, black or white, symbol chosen at random
//	Medium  6 symbols per pixel, channels rounded to multiples of 50
//	Low     9 symbols per pixel, channels rounded to multiples of 5
//	None   12 symbols per pixel, lossless
//
// All lookup tables are package-level constants built once at init.
package posterize

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"vidna/internal/bases"
	"vidna/internal/frame"
)

// Level selects the posterization scheme.
type Level uint8

const (
	High Level = iota
	Medium
	Low
	None
)

// ErrLookupMiss reports a Medium code that is not in the fixed table.
var ErrLookupMiss = errors.New("unknown medium code")

// ErrUnknownLevel reports an unrecognised level name or marker.
var ErrUnknownLevel = errors.New("unknown posterization level")

// Rand is the random source used for High encoding.
type Rand interface {
	IntN(n int) int
}

// Levels lists every level in marker order.
var Levels = []Level{High, Medium, Low, None}

// ParseLevel resolves a level name. "med" is accepted as an alias for medium.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "high":
		return High, nil
	case "medium", "med":
		return Medium, nil
	case "low":
		return Low, nil
	case "none", "":
		return None, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
}

// LevelFromMarker resolves the header marker symbol.
func LevelFromMarker(s bases.Symbol) (Level, error) {
	switch s {
	case bases.A:
		return High, nil
	case bases.T:
		return Medium, nil
	case bases.C:
		return Low, nil
	case bases.G:
		return None, nil
	default:
		return None, fmt.Errorf("%w: marker %q", ErrUnknownLevel, s)
	}
}

func (l Level) String() string {
	switch l {
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	case None:
		return "none"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// FileTag is the short name used in encoded file names.
func (l Level) FileTag() string {
	if l == Medium {
		return "med"
	}
	return l.String()
}

// Marker is the header symbol announcing the level.
func (l Level) Marker() bases.Symbol {
	switch l {
	case High:
		return bases.A
	case Medium:
		return bases.T
	case Low:
		return bases.C
	default:
		return bases.G
	}
}

// SymbolsPerPixel is the width of one pixel encoding.
func (l Level) SymbolsPerPixel() int {
	switch l {
	case High:
		return 1
	case Medium:
		return 6
	case Low:
		return 9
	default:
		return 12
	}
}

// Quantize applies the level's lossy rounding.
func (l Level) Quantize(p frame.Pixel) frame.Pixel {
	var table *[256]uint8
	switch l {
	case High:
		table = &highTable
	case Medium:
		table = &mediumTable
	case Low:
		table = &lowTable
	case None:
		return p
	default:
		return p
	}
	return frame.Pixel{B: table[p.B], G: table[p.G], R: table[p.R]}
}

// QuantizeFrame returns a quantized copy of f.
func (l Level) QuantizeFrame(f frame.Frame) frame.Frame {
	out := frame.Frame{Width: f.Width, Height: f.Height, Pixels: make([]frame.Pixel, len(f.Pixels))}
	for i, p := range f.Pixels {
		out.Pixels[i] = l.Quantize(p)
	}
	return out
}

// Encode appends the encoding of an already quantized pixel to dst. High
// reads the class from channel B and draws the symbol from rng.
func (l Level) Encode(dst []byte, p frame.Pixel, rng Rand) ([]byte, error) {
	switch l {
	case High:
		pair := highDark
		if p.B >= highThreshold {
			pair = highLight
		}
		return append(dst, pair[rng.IntN(2)]), nil
	case Medium:
		for _, c := range p.Channels() {
			code, ok := mediumCodes[c]
			if !ok {
				return dst, fmt.Errorf("medium: channel value %d is not quantized", c)
			}
			dst = append(dst, code[0], code[1])
		}
		return dst, nil
	case Low:
		var err error
		for _, c := range p.Channels() {
			if c%5 != 0 {
				return dst, fmt.Errorf("low: channel value %d is not quantized", c)
			}
			if dst, err = bases.AppendDigits(dst, int(c)/5, 3); err != nil {
				return dst, err
			}
		}
		return dst, nil
	case None:
		var err error
		for _, c := range p.Channels() {
			if dst, err = bases.AppendDigits(dst, int(c), 4); err != nil {
				return dst, err
			}
		}
		return dst, nil
	default:
		return dst, fmt.Errorf("%w: %d", ErrUnknownLevel, uint8(l))
	}
}

// Decode reconstructs a pixel from exactly SymbolsPerPixel symbols.
func (l Level) Decode(symbols []byte) (frame.Pixel, error) {
	if len(symbols) != l.SymbolsPerPixel() {
		return frame.Pixel{}, fmt.Errorf("%s: pixel needs %d symbols, got %d", l, l.SymbolsPerPixel(), len(symbols))
	}
	switch l {
	case High:
		switch symbols[0] {
		case bases.A, bases.C:
			return frame.Black, nil
		case bases.T, bases.G:
			return frame.White, nil
		default:
			return frame.Pixel{}, fmt.Errorf("%w: %q", bases.ErrInvalidSymbol, symbols[0])
		}
	case Medium:
		var ch [3]uint8
		for i := range ch {
			code := [2]byte{symbols[2*i], symbols[2*i+1]}
			v, ok := mediumValues[code]
			if !ok {
				if !bases.Valid(code[0]) || !bases.Valid(code[1]) {
					return frame.Pixel{}, fmt.Errorf("%w: %q", bases.ErrInvalidSymbol, code[:])
				}
				return frame.Pixel{}, fmt.Errorf("%w: %q", ErrLookupMiss, code[:])
			}
			ch[i] = v
		}
		return frame.FromChannels(ch), nil
	case Low:
		return decodeChannels(symbols, 3, 5)
	case None:
		return decodeChannels(symbols, 4, 1)
	default:
		return frame.Pixel{}, fmt.Errorf("%w: %d", ErrUnknownLevel, uint8(l))
	}
}

func decodeChannels(symbols []byte, width, scale int) (frame.Pixel, error) {
	var ch [3]uint8
	for i := range ch {
		v, err := bases.DigitsToValue(symbols[i*width : (i+1)*width])
		if err != nil {
			return frame.Pixel{}, err
		}
		v *= scale
		if v > math.MaxUint8 {
			return frame.Pixel{}, fmt.Errorf("channel value %d out of range", v)
		}
		ch[i] = uint8(v)
	}
	return frame.FromChannels(ch), nil
}
