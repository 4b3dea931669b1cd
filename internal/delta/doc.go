// Package delta encodes frames relative to their predecessor and replays the
// resulting tokens.
//
// The first frame of a stream is written as plain pixel encodings. Every later
// frame is a sequence of tokens: G followed by a two-digit count copies that
// many pixels from the previous frame, and C followed by a pixel encoding
// writes one changed pixel. The decoder accepts an optional mutation engine
// that alters how tokens are replayed without changing what is read.
package delta
