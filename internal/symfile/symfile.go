package symfile

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/klauspost/compress/zstd"
)

// CompressedExt marks encodings stored inside a zstd frame.
const CompressedExt = ".zst"

// ErrLocked reports an output path held by another writer.
var ErrLocked = errors.New("output is locked by another writer")

// Compressed reports whether path selects the zstd container.
func Compressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), CompressedExt)
}

// Writer stages an encoding and publishes it on Commit.
type Writer struct {
	path string
	tmp  *os.File
	lock *flock.Flock
	zw   *zstd.Encoder
	dst  io.Writer
	sum  hash.Hash
	n    int64
	done bool
}

// Create locks path and opens a staging file beside it.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(lockPath(path))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		releaseLock(lock)
		return nil, fmt.Errorf("create staging file: %w", err)
	}

	w := &Writer{path: path, tmp: tmp, lock: lock, sum: sha256.New()}
	w.dst = tmp
	if Compressed(path) {
		zw, err := zstd.NewWriter(tmp, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			w.Abort()
			return nil, fmt.Errorf("create zstd writer: %w", err)
		}
		w.zw = zw
		w.dst = zw
	}
	return w, nil
}

// Path returns the final destination.
func (w *Writer) Path() string { return w.path }

// Write appends symbols to the staging file.
func (w *Writer) Write(p []byte) (int, error) {
	if w.done {
		return 0, errors.New("write to finished encoding")
	}
	n, err := w.dst.Write(p)
	w.sum.Write(p[:n])
	w.n += int64(n)
	return n, err
}

// Size returns the number of uncompressed symbols written.
func (w *Writer) Size() int64 { return w.n }

// Sum returns the hex SHA-256 of the uncompressed symbols.
func (w *Writer) Sum() string { return hex.EncodeToString(w.sum.Sum(nil)) }

// Commit flushes the staging file and renames it over the destination.
func (w *Writer) Commit() error {
	if w.done {
		return errors.New("encoding already finished")
	}
	if w.zw != nil {
		if err := w.zw.Close(); err != nil {
			w.Abort()
			return fmt.Errorf("close zstd writer: %w", err)
		}
	}
	if err := w.tmp.Sync(); err != nil {
		w.Abort()
		return fmt.Errorf("sync staging file: %w", err)
	}
	if err := w.tmp.Close(); err != nil {
		w.Abort()
		return fmt.Errorf("close staging file: %w", err)
	}
	if err := os.Rename(w.tmp.Name(), w.path); err != nil {
		w.Abort()
		return fmt.Errorf("publish encoding: %w", err)
	}
	w.done = true
	releaseLock(w.lock)
	return nil
}

// Abort discards the staging file and releases the lock. It is safe to call
// after Commit.
func (w *Writer) Abort() {
	if w.done {
		return
	}
	w.done = true
	if w.zw != nil {
		_ = w.zw.Close()
	}
	_ = w.tmp.Close()
	_ = os.Remove(w.tmp.Name())
	releaseLock(w.lock)
}

// Open returns a reader over the symbols stored at path.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !Compressed(path) {
		return file, nil
	}
	zr, err := zstd.NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("open zstd reader: %w", err)
	}
	return &compressedReader{Decoder: zr, file: file}, nil
}

type compressedReader struct {
	*zstd.Decoder
	file *os.File
}

func (r *compressedReader) Close() error {
	r.Decoder.Close()
	return r.file.Close()
}

func lockPath(path string) string {
	return path + ".lock"
}

func releaseLock(lock *flock.Flock) {
	_ = lock.Unlock()
	_ = os.Remove(lock.Path())
}
