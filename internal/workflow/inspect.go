package workflow

import (
	"bufio"
	"fmt"
	"io"

	"vidna/internal/stream"
	"vidna/internal/symfile"
)

// Inspection describes a symbol file without decoding it.
type Inspection struct {
	Path       string
	Header     stream.Header
	Compressed bool
	// Symbols counts the whole file, header included, ignoring whitespace.
	Symbols int64
}

// Inspect reads the header of the symbol file at path and counts its symbols.
func Inspect(path string) (*Inspection, error) {
	r, err := symfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	br := bufio.NewReaderSize(r, 64*1024)
	header, err := stream.ReadHeader(br)
	if err != nil {
		return nil, err
	}
	out := &Inspection{Path: path, Header: header, Compressed: symfile.Compressed(path), Symbols: stream.HeaderSize}
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read encoding: %w", err)
		}
		switch b {
		case ' ', '\t', '\r', '\n':
		default:
			out.Symbols++
		}
	}
}
