package delta

import (
	"fmt"

	"vidna/internal/bases"
	"vidna/internal/frame"
	"vidna/internal/posterize"
)

const (
	// MarkerRun introduces a run of pixels copied from the previous frame.
	MarkerRun = bases.G
	// MarkerLiteral introduces a changed pixel.
	MarkerLiteral = bases.C

	// MaxRun is the longest run one token can carry in its two count digits.
	MaxRun = 15

	runDigits = 2
)

// Counts tallies the tokens produced or consumed by a coder.
type Counts struct {
	Frames   int
	Runs     int
	Literals int
	// RunPixels is the number of pixels covered by run tokens.
	RunPixels int
}

// Encoder turns frames into frame blocks, remembering the quantized
// predecessor between calls.
type Encoder struct {
	level  posterize.Level
	rng    posterize.Rand
	prev   *frame.Frame
	counts Counts
}

// NewEncoder returns an encoder for level. rng feeds High's symbol choice.
func NewEncoder(level posterize.Level, rng posterize.Rand) *Encoder {
	return &Encoder{level: level, rng: rng}
}

// Counts returns the running token totals.
func (e *Encoder) Counts() Counts { return e.counts }

// EncodeFrame quantizes f and appends its frame block to dst.
func (e *Encoder) EncodeFrame(dst []byte, f frame.Frame) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return dst, err
	}
	if e.level == posterize.High && e.rng == nil {
		return dst, fmt.Errorf("high posterization requires a random source")
	}
	current := e.level.QuantizeFrame(f)

	var err error
	if e.prev == nil {
		for _, p := range current.Pixels {
			if dst, err = e.level.Encode(dst, p, e.rng); err != nil {
				return dst, err
			}
		}
	} else {
		if e.prev.Width != current.Width || e.prev.Height != current.Height {
			return dst, fmt.Errorf("frame %d is %dx%d, previous was %dx%d",
				e.counts.Frames, current.Width, current.Height, e.prev.Width, e.prev.Height)
		}
		if dst, err = e.encodeTokens(dst, current.Pixels, e.prev.Pixels); err != nil {
			return dst, err
		}
	}

	e.prev = &current
	e.counts.Frames++
	return dst, nil
}

func (e *Encoder) encodeTokens(dst []byte, cur, prev []frame.Pixel) ([]byte, error) {
	var err error
	for p := 0; p < len(cur); {
		if cur[p] != prev[p] {
			dst = append(dst, MarkerLiteral)
			if dst, err = e.level.Encode(dst, cur[p], e.rng); err != nil {
				return dst, err
			}
			e.counts.Literals++
			p++
			continue
		}
		run := 1
		for run < MaxRun && p+run < len(cur) && cur[p+run] == prev[p+run] {
			run++
		}
		dst = append(dst, MarkerRun)
		if dst, err = bases.AppendDigits(dst, run, runDigits); err != nil {
			return dst, err
		}
		e.counts.Runs++
		e.counts.RunPixels += run
		p += run
	}
	return dst, nil
}
