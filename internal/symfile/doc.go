// Package symfile stores encodings on disk.
//
// Writers stage symbols in a temporary file next to the destination, guard
// the destination with an advisory lock, and rename into place on Commit.
// Paths ending in ".zst" are transparently wrapped in a zstd frame on write
// and unwrapped on read. The package also owns the naming scheme for
// encodings and decoded videos.
package symfile
