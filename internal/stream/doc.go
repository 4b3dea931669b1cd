// Package stream assembles complete encodings: the 17-symbol header followed
// by one frame block per frame.
//
// Encode pulls frames from a frame.Source and writes symbols to any
// io.Writer. Decode reads a whole encoding, validates it, and pushes the
// reconstructed frames into a frame.Sink, applying the selected mutation.
// Both check the context between frames and log progress through an injected
// slog logger.
package stream
