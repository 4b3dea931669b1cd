package mutation

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"vidna/internal/bases"
	"vidna/internal/frame"
)

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(strings.ToUpper(m.String()))
		if err != nil || got != m {
			t.Fatalf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	for _, name := range []string{"cancer", "albino"} {
		if _, err := ParseMode(name); !errors.Is(err, ErrUnsupportedMutation) {
			t.Errorf("ParseMode(%q) error = %v, want ErrUnsupportedMutation", name, err)
		}
	}
}

func TestNewEngineRequiresRandForRecessive(t *testing.T) {
	if _, err := NewEngine(Recessive, nil); err == nil {
		t.Fatal("expected error without random source")
	}
	if _, err := NewEngine(Mode(42), nil); !errors.Is(err, ErrUnsupportedMutation) {
		t.Fatalf("expected ErrUnsupportedMutation, got %v", err)
	}
}

func TestSickleRunLength(t *testing.T) {
	tests := []struct {
		name      string
		mode      Mode
		requested int
		capacity  int
		want      int
		changed   bool
	}{
		{"sickle lengthens 3", Sickle, 3, 100, 7, true},
		{"sickle1 lengthens 3", Sickle1, 3, 100, 7, true},
		{"capped by capacity", Sickle1, 3, 5, 5, true},
		{"capacity equal to request", Sickle1, 3, 3, 3, false},
		{"other lengths untouched", Sickle, 4, 100, 4, false},
		{"sickle2 ignores runs", Sickle2, 3, 100, 3, false},
		{"none ignores runs", None, 3, 100, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngine(tt.mode, nil)
			if err != nil {
				t.Fatalf("NewEngine: %v", err)
			}
			got, changed := e.RunLength(tt.requested, tt.capacity)
			if got != tt.want || changed != tt.changed {
				t.Fatalf("RunLength(%d, %d) = %d, %v; want %d, %v", tt.requested, tt.capacity, got, changed, tt.want, tt.changed)
			}
		})
	}
}

func TestSickleLiteralRewrite(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		in      string
		next    byte
		hasNext bool
		want    string
		changed bool
	}{
		{"TC prefix", Sickle2, "TCAAAA", 0, false, "ACAAAA", true},
		{"both variants", Sickle, "TCGGGG", 0, false, "ACGGGG", true},
		{"TG prefix untouched", Sickle2, "TGAAAA", 0, false, "TGAAAA", false},
		{"sickle1 ignores literals", Sickle1, "TCAAAA", 0, false, "TCAAAA", false},
		{"single symbol followed by C", Sickle2, "T", 'C', true, "A", true},
		{"single symbol at end", Sickle2, "T", 0, false, "T", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := NewEngine(tt.mode, nil)
			buf := []byte(tt.in)
			changed := e.RewriteLiteral(buf, tt.next, tt.hasNext)
			if string(buf) != tt.want || changed != tt.changed {
				t.Fatalf("RewriteLiteral(%q) = %q, %v; want %q, %v", tt.in, buf, changed, tt.want, tt.changed)
			}
		})
	}
}

func TestRecessiveDeterministicWithSeed(t *testing.T) {
	draw := func() []bool {
		e, err := NewEngine(Recessive, rand.New(rand.NewPCG(99, 1)))
		if err != nil {
			t.Fatalf("NewEngine: %v", err)
		}
		out := make([]bool, 400)
		for i := range out {
			out[i] = e.KeepPrevious()
		}
		return out
	}
	a, b := draw(), draw()
	kept := 0
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("draw %d differs between runs", i)
		}
		if a[i] {
			kept++
		}
	}
	if kept < 60 || kept > 140 {
		t.Fatalf("kept %d of 400, expected roughly a quarter", kept)
	}
}

func TestRIPChannel(t *testing.T) {
	for v := 0; v < 256; v++ {
		digits, _ := bases.ValueToDigits(v, 4)
		rewritten := strings.ReplaceAll(string(digits), "C", "T")
		want, _ := bases.DigitsToValue([]byte(rewritten))
		got := RIPChannel(uint8(v))
		if int(got) != want {
			t.Fatalf("RIPChannel(%d) = %d, want %d", v, got, want)
		}
		if !strings.Contains(string(digits), "C") && int(got) != v {
			t.Fatalf("RIPChannel(%d) changed a value without C digits", v)
		}
	}
	// 2 is "AAAC", which becomes "AAAT".
	if got := RIPChannel(2); got != 1 {
		t.Fatalf("RIPChannel(2) = %d, want 1", got)
	}
}

func TestReplayOnlyUnderRIP(t *testing.T) {
	p := frame.Pixel{B: 2, G: 255, R: 130}
	rip, _ := NewEngine(RIP, nil)
	got, changed := rip.Replay(p)
	if !changed || got != RIPPixel(p) || got.G != 255 {
		t.Fatalf("Replay under RIP = %+v, %v", got, changed)
	}
	var nilEngine *Engine
	if out, changed := nilEngine.Replay(p); changed || out != p {
		t.Fatal("nil engine must not rewrite pixels")
	}
	if nilEngine.KeepPrevious() || nilEngine.Mode() != None {
		t.Fatal("nil engine must behave as None")
	}
}
