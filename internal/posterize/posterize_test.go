package posterize

import (
	"errors"
	"math/rand/v2"
	"testing"

	"vidna/internal/bases"
	"vidna/internal/frame"
)

func TestQuantizeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, level := range []Level{Medium, Low, None} {
		t.Run(level.String(), func(t *testing.T) {
			for i := 0; i < 2000; i++ {
				p := frame.Pixel{B: uint8(rng.IntN(256)), G: uint8(rng.IntN(256)), R: uint8(rng.IntN(256))}
				q := level.Quantize(p)
				enc, err := level.Encode(nil, q, rng)
				if err != nil {
					t.Fatalf("Encode(%+v): %v", q, err)
				}
				if len(enc) != level.SymbolsPerPixel() {
					t.Fatalf("encoding %q has %d symbols, want %d", enc, len(enc), level.SymbolsPerPixel())
				}
				got, err := level.Decode(enc)
				if err != nil {
					t.Fatalf("Decode(%q): %v", enc, err)
				}
				if got != q {
					t.Fatalf("decode(encode(%+v)) = %+v, want %+v", p, got, q)
				}
			}
		})
	}
}

func TestHighPreservesBinaryClass(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	seen := map[byte]bool{}
	for v := 0; v < 256; v++ {
		p := frame.Pixel{B: uint8(v), G: uint8(v), R: uint8(v)}
		for i := 0; i < 8; i++ {
			enc, err := High.Encode(nil, High.Quantize(p), rng)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			seen[enc[0]] = true
			got, err := High.Decode(enc)
			if err != nil {
				t.Fatalf("Decode(%q): %v", enc, err)
			}
			want := frame.Black
			if v >= 127 {
				want = frame.White
			}
			if got != want {
				t.Fatalf("value %d decoded to %+v via %q, want %+v", v, got, enc, want)
			}
		}
	}
	for _, s := range []byte("ATCG") {
		if !seen[s] {
			t.Errorf("symbol %q never chosen", s)
		}
	}
}

func TestMediumTableVerbatim(t *testing.T) {
	want := map[uint8]string{0: "AC", 50: "GT", 100: "TC", 150: "GA", 200: "CG", 250: "AT"}
	for v, code := range want {
		enc, err := Medium.Encode(nil, frame.Pixel{B: v, G: v, R: v}, nil)
		if err != nil {
			t.Fatalf("Encode(%d): %v", v, err)
		}
		if string(enc) != code+code+code {
			t.Errorf("Encode(%d) = %q, want %q", v, enc, code+code+code)
		}
	}
}

func TestMediumQuantizeRoundsHalfToEven(t *testing.T) {
	tests := map[uint8]uint8{0: 0, 24: 0, 25: 0, 26: 50, 75: 100, 125: 100, 175: 200, 225: 200, 255: 250}
	for in, want := range tests {
		if got := Medium.Quantize(frame.Pixel{B: in}).B; got != want {
			t.Errorf("Medium.Quantize(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestLowQuantize(t *testing.T) {
	tests := map[uint8]uint8{0: 0, 2: 0, 3: 5, 252: 250, 253: 255, 255: 255}
	for in, want := range tests {
		if got := Low.Quantize(frame.Pixel{G: in}).G; got != want {
			t.Errorf("Low.Quantize(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestMediumLookupMiss(t *testing.T) {
	_, err := Medium.Decode([]byte("AAACAC"))
	if !errors.Is(err, ErrLookupMiss) {
		t.Fatalf("expected ErrLookupMiss, got %v", err)
	}
	_, err = Medium.Decode([]byte("XYACAC"))
	if !errors.Is(err, bases.ErrInvalidSymbol) {
		t.Fatalf("expected ErrInvalidSymbol, got %v", err)
	}
}

func TestDecodeWidthMismatch(t *testing.T) {
	if _, err := None.Decode([]byte("AAAA")); err == nil {
		t.Fatal("expected width error")
	}
}

func TestLowDecodeOutOfRange(t *testing.T) {
	// GGG is 63, which scales past 255.
	if _, err := Low.Decode([]byte("GGGAAAAAA")); err == nil {
		t.Fatal("expected range error")
	}
}

func TestParseLevelAndMarkers(t *testing.T) {
	for _, level := range Levels {
		parsed, err := ParseLevel(level.String())
		if err != nil || parsed != level {
			t.Fatalf("ParseLevel(%q) = %v, %v", level.String(), parsed, err)
		}
		fromMarker, err := LevelFromMarker(level.Marker())
		if err != nil || fromMarker != level {
			t.Fatalf("LevelFromMarker(%q) = %v, %v", level.Marker(), fromMarker, err)
		}
	}
	if got, _ := ParseLevel("med"); got != Medium {
		t.Fatalf("med alias = %v", got)
	}
	if _, err := ParseLevel("ultra"); !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("expected ErrUnknownLevel, got %v", err)
	}
	if Medium.FileTag() != "med" || None.FileTag() != "none" {
		t.Fatal("unexpected file tags")
	}
}
