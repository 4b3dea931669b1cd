// Package mutation implements the decode-time transforms that perturb a
// reconstruction without changing the stream format.
//
// Recessive keeps a quarter of changed pixels at their previous value.
// Sickle rewrites two token patterns: a run of 3 becomes a run of 7 (GAG to
// GTG) and a literal starting with TC starts with AC instead (CTC to CAC).
// RIP rewrites every replayed pixel by turning C digits into T digits in its
// base-4 representation. Cancer is named but has no defined behaviour and is
// rejected.
package mutation

import (
	"errors"
	"fmt"
	"strings"

	"vidna/internal/bases"
	"vidna/internal/frame"
)

// Mode selects the active transforms.
type Mode uint8

const (
	None Mode = iota
	Recessive
	Sickle1
	Sickle2
	Sickle
	RIP
)

// ErrUnsupportedMutation reports Cancer or an unknown mode name.
var ErrUnsupportedMutation = errors.New("unsupported mutation")

// Modes lists every supported mode.
var Modes = []Mode{None, Recessive, Sickle1, Sickle2, Sickle, RIP}

// Rand is the random source used by Recessive.
type Rand interface {
	IntN(n int) int
}

const (
	sickleRunFrom = 3
	sickleRunTo   = 7
	// ripChannelDigits covers 0..255.
	ripChannelDigits = 4
)

// ParseMode resolves a mode name.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "":
		return None, nil
	case "recessive":
		return Recessive, nil
	case "sickle1":
		return Sickle1, nil
	case "sickle2":
		return Sickle2, nil
	case "sickle":
		return Sickle, nil
	case "rip":
		return RIP, nil
	case "cancer":
		return None, fmt.Errorf("%w: cancer has no defined spreading behaviour", ErrUnsupportedMutation)
	default:
		return None, fmt.Errorf("%w: %q", ErrUnsupportedMutation, name)
	}
}

func (m Mode) String() string {
	switch m {
	case None:
		return "none"
	case Recessive:
		return "recessive"
	case Sickle1:
		return "sickle1"
	case Sickle2:
		return "sickle2"
	case Sickle:
		return "sickle"
	case RIP:
		return "rip"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

func (m Mode) sickleRuns() bool     { return m == Sickle || m == Sickle1 }
func (m Mode) sickleLiterals() bool { return m == Sickle || m == Sickle2 }

// Engine applies a mode during token replay. A nil Engine applies nothing.
type Engine struct {
	mode Mode
	rng  Rand
}

// NewEngine returns an engine for mode. rng is required for Recessive.
func NewEngine(mode Mode, rng Rand) (*Engine, error) {
	switch mode {
	case None, Sickle1, Sickle2, Sickle, RIP:
	case Recessive:
		if rng == nil {
			return nil, errors.New("recessive mutation requires a random source")
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMutation, mode)
	}
	return &Engine{mode: mode, rng: rng}, nil
}

// Mode returns the engine's mode.
func (e *Engine) Mode() Mode {
	if e == nil {
		return None
	}
	return e.mode
}

// RunLength returns the run length to replay for a requested run, given the
// number of pixels still missing from the current frame.
func (e *Engine) RunLength(requested, capacity int) (int, bool) {
	if e == nil || !e.mode.sickleRuns() || requested != sickleRunFrom {
		return requested, false
	}
	n := min(sickleRunTo, max(capacity, requested))
	return n, n != requested
}

// RewriteLiteral applies the literal substitution in place. next is the
// stream symbol after the literal's first symbol, used when the literal is a
// single symbol wide.
func (e *Engine) RewriteLiteral(symbols []byte, next bases.Symbol, hasNext bool) bool {
	if e == nil || !e.mode.sickleLiterals() || len(symbols) == 0 || symbols[0] != bases.T {
		return false
	}
	follower, ok := next, hasNext
	if len(symbols) > 1 {
		follower, ok = symbols[1], true
	}
	if !ok || follower != bases.C {
		return false
	}
	symbols[0] = bases.A
	return true
}

// KeepPrevious reports whether a literal should be replaced by the previous
// frame's pixel. It draws from the random source once per call in Recessive
// mode so decisions depend only on the seed and the token order.
func (e *Engine) KeepPrevious() bool {
	if e == nil || e.mode != Recessive {
		return false
	}
	return e.rng.IntN(4) == 0
}

// Replay returns the pixel to copy from the previous frame.
func (e *Engine) Replay(p frame.Pixel) (frame.Pixel, bool) {
	if e == nil || e.mode != RIP {
		return p, false
	}
	out := RIPPixel(p)
	return out, out != p
}

// RIPPixel rewrites each channel by replacing C digits with T digits.
func RIPPixel(p frame.Pixel) frame.Pixel {
	ch := p.Channels()
	for i, v := range ch {
		ch[i] = RIPChannel(v)
	}
	return frame.FromChannels(ch)
}

// RIPChannel rewrites one channel value.
func RIPChannel(v uint8) uint8 {
	digits, err := bases.ValueToDigits(int(v), ripChannelDigits)
	if err != nil {
		return v
	}
	for i, s := range digits {
		if s == bases.C {
			digits[i] = bases.T
		}
	}
	out, err := bases.DigitsToValue(digits)
	if err != nil {
		return v
	}
	return uint8(out)
}
