package delta

import (
	"errors"
	"math/rand/v2"
	"testing"

	"vidna/internal/bases"
	"vidna/internal/frame"
	"vidna/internal/mutation"
	"vidna/internal/posterize"
)

func gray(v uint8) frame.Pixel { return frame.Pixel{B: v, G: v, R: v} }

func solid(width, height int, p frame.Pixel) frame.Frame {
	f := frame.New(width, height)
	for i := range f.Pixels {
		f.Pixels[i] = p
	}
	return f
}

type token struct {
	run    bool
	length int
}

// tokens splits a frame block into its tokens.
func tokens(t *testing.T, block []byte, level posterize.Level) []token {
	t.Helper()
	var out []token
	r := bases.NewReader(block)
	for r.Remaining() > 0 {
		marker, _ := r.Next()
		switch marker {
		case MarkerRun:
			digits, err := r.Take(runDigits)
			if err != nil {
				t.Fatalf("short run token: %v", err)
			}
			n, _ := bases.DigitsToValue(digits)
			out = append(out, token{run: true, length: n})
		case MarkerLiteral:
			if _, err := r.Take(level.SymbolsPerPixel()); err != nil {
				t.Fatalf("short literal: %v", err)
			}
			out = append(out, token{length: 1})
		default:
			t.Fatalf("unexpected marker %q", marker)
		}
	}
	return out
}

func encodeAll(t *testing.T, level posterize.Level, frames []frame.Frame) ([]byte, [][]byte) {
	t.Helper()
	enc := NewEncoder(level, rand.New(rand.NewPCG(3, 4)))
	var all []byte
	blocks := make([][]byte, 0, len(frames))
	for _, f := range frames {
		start := len(all)
		var err error
		all, err = enc.EncodeFrame(all, f)
		if err != nil {
			t.Fatalf("EncodeFrame: %v", err)
		}
		blocks = append(blocks, all[start:])
	}
	return all, blocks
}

func decodeAll(t *testing.T, level posterize.Level, width, height int, engine *mutation.Engine, data []byte) ([]frame.Frame, DecodeCounts) {
	t.Helper()
	dec := NewDecoder(level, width, height, engine)
	var out []frame.Frame
	err := dec.Decode(bases.NewReader(data), func(f frame.Frame) error {
		out = append(out, f.Clone())
		return nil
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return out, dec.Counts()
}

func TestRunCoversUnchangedSpan(t *testing.T) {
	prev := solid(25, 1, gray(100))
	cur := prev.Clone()
	for i := range cur.Pixels {
		if i < 5 || i > 19 {
			cur.Pixels[i] = gray(200)
		}
	}
	_, blocks := encodeAll(t, posterize.None, []frame.Frame{prev, cur})

	toks := tokens(t, blocks[1], posterize.None)
	covered, pos := 0, 0
	for _, tok := range toks {
		if tok.run {
			if tok.length > MaxRun || tok.length < 1 {
				t.Fatalf("run length %d out of range", tok.length)
			}
			if pos < 5 || pos+tok.length > 20 {
				t.Fatalf("run at %d+%d leaves the unchanged span", pos, tok.length)
			}
			covered += tok.length
		}
		pos += tok.length
	}
	if covered != 15 {
		t.Fatalf("runs cover %d pixels, want 15", covered)
	}
	if pos != 25 {
		t.Fatalf("tokens cover %d pixels, want 25", pos)
	}
}

func TestLongRunsSplitAtFifteen(t *testing.T) {
	f := solid(40, 1, gray(10))
	_, blocks := encodeAll(t, posterize.Low, []frame.Frame{f, f})
	toks := tokens(t, blocks[1], posterize.Low)
	want := []int{15, 15, 10}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, tok := range toks {
		if !tok.run || tok.length != want[i] {
			t.Fatalf("token %d = %+v, want run of %d", i, tok, want[i])
		}
	}
}

func TestFirstFrameHasNoMarkers(t *testing.T) {
	f := solid(3, 2, gray(0))
	_, blocks := encodeAll(t, posterize.None, []frame.Frame{f})
	if len(blocks[0]) != 6*12 {
		t.Fatalf("first block has %d symbols, want %d", len(blocks[0]), 6*12)
	}
	for _, s := range blocks[0] {
		if s != bases.A {
			t.Fatalf("black first frame should be all A, got %q", blocks[0])
		}
	}
}

func syntheticFrames(width, height, count int, seed uint64) []frame.Frame {
	rng := rand.New(rand.NewPCG(seed, seed))
	frames := make([]frame.Frame, 0, count)
	cur := frame.New(width, height)
	for i := range cur.Pixels {
		cur.Pixels[i] = frame.Pixel{B: uint8(rng.IntN(256)), G: uint8(rng.IntN(256)), R: uint8(rng.IntN(256))}
	}
	frames = append(frames, cur)
	for n := 1; n < count; n++ {
		next := cur.Clone()
		for i := range next.Pixels {
			if rng.IntN(5) == 0 {
				next.Pixels[i] = frame.Pixel{B: uint8(rng.IntN(256)), G: uint8(rng.IntN(256)), R: uint8(rng.IntN(256))}
			}
		}
		frames = append(frames, next)
		cur = next
	}
	return frames
}

func TestRoundTripLosslessAfterQuantize(t *testing.T) {
	const width, height = 7, 5
	frames := syntheticFrames(width, height, 6, 11)
	for _, level := range []posterize.Level{posterize.Medium, posterize.Low, posterize.None} {
		t.Run(level.String(), func(t *testing.T) {
			data, _ := encodeAll(t, level, frames)
			got, counts := decodeAll(t, level, width, height, nil, data)
			if len(got) != len(frames) {
				t.Fatalf("decoded %d frames, want %d", len(got), len(frames))
			}
			for i := range frames {
				want := level.QuantizeFrame(frames[i])
				for j := range want.Pixels {
					if got[i].Pixels[j] != want.Pixels[j] {
						t.Fatalf("frame %d pixel %d = %+v, want %+v", i, j, got[i].Pixels[j], want.Pixels[j])
					}
				}
			}
			if counts.Padded != 0 || counts.Mutated != 0 {
				t.Fatalf("unexpected counts %+v", counts)
			}
		})
	}
}

func TestHighRoundTripIsBlackOrWhite(t *testing.T) {
	frames := syntheticFrames(4, 4, 3, 5)
	data, _ := encodeAll(t, posterize.High, frames)
	got, _ := decodeAll(t, posterize.High, 4, 4, nil, data)
	for i, f := range got {
		for j, p := range f.Pixels {
			want := frame.Black
			if frames[i].Pixels[j].B >= 127 {
				want = frame.White
			}
			if p != want {
				t.Fatalf("frame %d pixel %d = %+v, want %+v", i, j, p, want)
			}
		}
	}
}

func TestShortFinalFramePaddedWithBlack(t *testing.T) {
	frames := []frame.Frame{solid(4, 1, gray(255)), solid(4, 1, gray(255))}
	data, _ := encodeAll(t, posterize.None, frames)
	// Drop the last literal pixel of the first frame: the block is plain so
	// cutting 12 symbols removes exactly one pixel. Keep only frame one.
	first := data[:3*12]
	got, counts := decodeAll(t, posterize.None, 4, 1, nil, first)
	if len(got) != 1 {
		t.Fatalf("decoded %d frames, want 1", len(got))
	}
	if got[0].Pixels[3] != frame.Black || got[0].Pixels[2] != gray(255) {
		t.Fatalf("padding wrong: %+v", got[0].Pixels)
	}
	if counts.Padded != 1 {
		t.Fatalf("Padded = %d, want 1", counts.Padded)
	}
}

func TestShortTokenFramePadded(t *testing.T) {
	prev := solid(20, 1, gray(50))
	data, _ := encodeAll(t, posterize.Medium, []frame.Frame{prev})
	// Second frame: one run of 15, then the stream ends 5 pixels short.
	data = append(data, 'G', 'G', 'G')
	got, counts := decodeAll(t, posterize.Medium, 20, 1, nil, data)
	if len(got) != 2 {
		t.Fatalf("decoded %d frames, want 2", len(got))
	}
	for i, p := range got[1].Pixels {
		want := gray(50)
		if i >= 15 {
			want = frame.Black
		}
		if p != want {
			t.Fatalf("pixel %d = %+v, want %+v", i, p, want)
		}
	}
	if counts.Padded != 5 {
		t.Fatalf("Padded = %d, want 5", counts.Padded)
	}
}

func TestDecodeErrors(t *testing.T) {
	base, _ := encodeAll(t, posterize.None, []frame.Frame{solid(2, 1, gray(0))})
	tests := []struct {
		name string
		tail string
		want error
	}{
		{"truncated run", "GA", ErrTruncatedToken},
		{"truncated literal", "CAAAA", ErrTruncatedToken},
		{"bad marker", "AGG", bases.ErrInvalidSymbol},
		{"foreign symbol", "CAAAAAAAAAAAX", bases.ErrInvalidSymbol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := append(append([]byte(nil), base...), tt.tail...)
			dec := NewDecoder(posterize.None, 2, 1, nil)
			err := dec.Decode(bases.NewReader(data), func(frame.Frame) error { return nil })
			if !errors.Is(err, tt.want) {
				t.Fatalf("Decode error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEmitErrorPropagates(t *testing.T) {
	data, _ := encodeAll(t, posterize.None, []frame.Frame{solid(1, 1, gray(1))})
	sentinel := errors.New("sink full")
	dec := NewDecoder(posterize.None, 1, 1, nil)
	if err := dec.Decode(bases.NewReader(data), func(frame.Frame) error { return sentinel }); !errors.Is(err, sentinel) {
		t.Fatalf("expected sink error, got %v", err)
	}
}

func TestRecessiveSkipsSameTokensForSeed(t *testing.T) {
	const width, height = 10, 10
	frames := syntheticFrames(width, height, 5, 21)
	data, _ := encodeAll(t, posterize.None, frames)

	run := func() ([]frame.Frame, DecodeCounts) {
		engine, err := mutation.NewEngine(mutation.Recessive, rand.New(rand.NewPCG(8, 8)))
		if err != nil {
			t.Fatalf("NewEngine: %v", err)
		}
		return decodeAll(t, posterize.None, width, height, engine, data)
	}
	a, countsA := run()
	b, countsB := run()
	if countsA != countsB {
		t.Fatalf("counts differ: %+v vs %+v", countsA, countsB)
	}
	if countsA.Mutated == 0 {
		t.Fatal("expected some literals to keep the previous pixel")
	}
	for i := range a {
		for j := range a[i].Pixels {
			if a[i].Pixels[j] != b[i].Pixels[j] {
				t.Fatalf("frame %d pixel %d differs between seeded runs", i, j)
			}
		}
	}
}

func TestRIPRewritesReplayedPixels(t *testing.T) {
	// 2 is AAAC in four digits and becomes 1 under RIP.
	frames := []frame.Frame{solid(3, 1, gray(2)), solid(3, 1, gray(2)), solid(3, 1, gray(2))}
	data, _ := encodeAll(t, posterize.None, frames)
	engine, _ := mutation.NewEngine(mutation.RIP, nil)
	got, counts := decodeAll(t, posterize.None, 3, 1, engine, data)
	if len(got) != 3 {
		t.Fatalf("decoded %d frames", len(got))
	}
	if got[0].Pixels[0] != gray(2) {
		t.Fatalf("first frame must not be rewritten, got %+v", got[0].Pixels[0])
	}
	if got[1].Pixels[0] != gray(1) || got[2].Pixels[0] != gray(1) {
		t.Fatalf("replayed pixels = %+v, %+v; want gray(1)", got[1].Pixels[0], got[2].Pixels[0])
	}
	if counts.Mutated != 3 {
		t.Fatalf("Mutated = %d, want 3", counts.Mutated)
	}
}

func TestRunSpillsIntoNextFrame(t *testing.T) {
	base, _ := encodeAll(t, posterize.None, []frame.Frame{solid(2, 1, gray(9))})
	data := append(base, 'G', 'A', 'G')
	got, counts := decodeAll(t, posterize.None, 2, 1, nil, data)
	if len(got) != 3 {
		t.Fatalf("decoded %d frames, want 3", len(got))
	}
	if got[1].Pixels[1] != gray(9) || got[2].Pixels[0] != gray(9) || got[2].Pixels[1] != frame.Black {
		t.Fatalf("spilled frames = %+v, %+v", got[1].Pixels, got[2].Pixels)
	}
	if counts.Padded != 1 || counts.RunPixels != 3 {
		t.Fatalf("counts = %+v", counts)
	}
}

func TestSickleLengthensRunOfThree(t *testing.T) {
	prev := solid(10, 1, gray(40))
	cur := prev.Clone()
	cur.Pixels[3] = gray(80)
	data, _ := encodeAll(t, posterize.None, []frame.Frame{prev, cur})

	engine, _ := mutation.NewEngine(mutation.Sickle1, nil)
	got, counts := decodeAll(t, posterize.None, 10, 1, engine, data)

	// The run of 3 became 7, so the literal lands at index 7 and the trailing
	// run of 6 spills four pixels into a third, padded frame.
	if len(got) != 3 {
		t.Fatalf("decoded %d frames, want 3", len(got))
	}
	if got[1].Pixels[3] != gray(40) || got[1].Pixels[7] != gray(80) || got[1].Pixels[9] != gray(40) {
		t.Fatalf("sickle frame = %+v", got[1].Pixels)
	}
	for i, p := range got[2].Pixels {
		want := frame.Black
		if i < 4 {
			want = gray(40)
		}
		if p != want {
			t.Fatalf("spill frame pixel %d = %+v, want %+v", i, p, want)
		}
	}
	if counts.Mutated != 1 || counts.Padded != 6 {
		t.Fatalf("counts = %+v", counts)
	}
}

func TestSickleRewritesLiteral(t *testing.T) {
	// 100 encodes as TC per channel under Medium; the rewrite turns the first
	// channel into AC, which is 0.
	prev := solid(1, 1, gray(0))
	cur := solid(1, 1, gray(100))
	data, _ := encodeAll(t, posterize.Medium, []frame.Frame{prev, cur})

	engine, _ := mutation.NewEngine(mutation.Sickle2, nil)
	got, counts := decodeAll(t, posterize.Medium, 1, 1, engine, data)
	if len(got) != 2 {
		t.Fatalf("decoded %d frames", len(got))
	}
	want := frame.Pixel{B: 0, G: 100, R: 100}
	if got[1].Pixels[0] != want {
		t.Fatalf("mutated pixel = %+v, want %+v", got[1].Pixels[0], want)
	}
	if counts.Mutated != 1 {
		t.Fatalf("Mutated = %d", counts.Mutated)
	}
}
