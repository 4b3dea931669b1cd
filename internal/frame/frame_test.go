package frame

import (
	"context"
	"errors"
	"io"
	"testing"
)

func TestFrameValidate(t *testing.T) {
	tests := []struct {
		name    string
		frame   Frame
		wantErr bool
	}{
		{"ok", New(3, 2), false},
		{"zero width", Frame{Width: 0, Height: 2}, true},
		{"short pixels", Frame{Width: 2, Height: 2, Pixels: make([]Pixel, 3)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.frame.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFrameAtAndClone(t *testing.T) {
	f := New(2, 2)
	f.Pixels[3] = Pixel{B: 1, G: 2, R: 3}
	if got := f.At(1, 1); got != (Pixel{B: 1, G: 2, R: 3}) {
		t.Fatalf("At(1,1) = %+v", got)
	}
	c := f.Clone()
	c.Pixels[3] = White
	if f.Pixels[3] == White {
		t.Fatal("Clone shares pixel storage")
	}
	if got := FromChannels(f.Pixels[3].Channels()); got != f.Pixels[3] {
		t.Fatalf("channel round trip = %+v", got)
	}
}

func TestMemorySourceAndSink(t *testing.T) {
	info := Info{FPS: 24, Width: 1, Height: 1}
	src := NewMemorySource(info, []Frame{New(1, 1), New(1, 1)})
	sink := &MemorySink{}
	if err := sink.WriteFrame(New(1, 1)); err == nil {
		t.Fatal("expected write before open to fail")
	}
	if err := sink.Open(src.Info()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	for {
		f, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if err := sink.WriteFrame(f); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(sink.Frames) != 2 || !sink.Closed() || sink.Info != info {
		t.Fatalf("sink state = %+v", sink)
	}
}
