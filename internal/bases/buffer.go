package bases

import (
	"errors"
	"fmt"
	"io"
)

// ErrShortRead reports a read past the end of a symbol slice.
var ErrShortRead = errors.New("read past end of symbols")

// Buffer accumulates symbols. The zero value is ready to use.
type Buffer struct {
	buf []byte
}

// NewBuffer returns a Buffer with room for size symbols.
func NewBuffer(size int) *Buffer {
	return &Buffer{buf: make([]byte, 0, size)}
}

// AppendSymbol adds a single symbol.
func (b *Buffer) AppendSymbol(s Symbol) {
	b.buf = append(b.buf, s)
}

// AppendDigits adds value as a pad-wide numeral.
func (b *Buffer) AppendDigits(value, pad int) error {
	next, err := AppendDigits(b.buf, value, pad)
	if err != nil {
		return err
	}
	b.buf = next
	return nil
}

// Bytes returns the accumulated symbols. The slice aliases the buffer until
// the next write.
func (b *Buffer) Bytes() []byte { return b.buf }

// Len returns the number of accumulated symbols.
func (b *Buffer) Len() int { return len(b.buf) }

// Reset empties the buffer while keeping its capacity.
func (b *Buffer) Reset() { b.buf = b.buf[:0] }

// WriteTo writes the accumulated symbols to w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.buf)
	return int64(n), err
}

// Reader walks a symbol slice front to back.
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a Reader over data. data is not copied.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the offset of the next unread symbol.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread symbols.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Next consumes one symbol.
func (r *Reader) Next() (Symbol, error) {
	if r.pos >= len(r.data) {
		return 0, ErrShortRead
	}
	s := r.data[r.pos]
	r.pos++
	return s, nil
}

// Peek returns the symbol offset positions ahead without consuming it.
func (r *Reader) Peek(offset int) (Symbol, bool) {
	i := r.pos + offset
	if offset < 0 || i >= len(r.data) {
		return 0, false
	}
	return r.data[i], true
}

// Take consumes n symbols. The returned slice aliases the underlying data.
func (r *Reader) Take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, fmt.Errorf("%w: need %d at offset %d, have %d", ErrShortRead, n, r.pos, r.Remaining())
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}
