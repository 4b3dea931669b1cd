package testsupport

import (
	"math/rand/v2"

	"vidna/internal/frame"
)

// Rand returns a deterministic random source.
func Rand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Solid returns a frame filled with p.
func Solid(width, height int, p frame.Pixel) frame.Frame {
	f := frame.New(width, height)
	for i := range f.Pixels {
		f.Pixels[i] = p
	}
	return f
}

// Gradient returns a frame whose channels vary with position and offset.
func Gradient(width, height, offset int) frame.Frame {
	f := frame.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			f.Pixels[y*width+x] = frame.Pixel{
				B: uint8((x*37 + offset) % 256),
				G: uint8((y*53 + offset*3) % 256),
				R: uint8((x*y + offset*7) % 256),
			}
		}
	}
	return f
}

// MovingSquare returns count frames of a white square sliding across a black
// background, so consecutive frames share long unchanged spans.
func MovingSquare(width, height, size, count int) []frame.Frame {
	frames := make([]frame.Frame, count)
	for i := range frames {
		f := Solid(width, height, frame.Black)
		left := i % max(1, width-size+1)
		for y := 0; y < min(size, height); y++ {
			for x := left; x < min(left+size, width); x++ {
				f.Pixels[y*width+x] = frame.White
			}
		}
		frames[i] = f
	}
	return frames
}

// Noise returns a frame of random pixels.
func Noise(width, height int, rng *rand.Rand) frame.Frame {
	f := frame.New(width, height)
	for i := range f.Pixels {
		f.Pixels[i] = frame.Pixel{B: uint8(rng.IntN(256)), G: uint8(rng.IntN(256)), R: uint8(rng.IntN(256))}
	}
	return f
}
