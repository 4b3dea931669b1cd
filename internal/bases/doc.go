// Package bases implements the four-symbol alphabet that every vidna stream is
// written in.
//
// Each symbol carries one base-4 digit (A=0, T=1, C=2, G=3). The package
// converts integers to fixed-width digit strings and back, and provides the
// append-only Buffer and the read cursor that the delta coder and the stream
// assembler share. Values that do not fit the requested width are rejected
// with ErrOverflow rather than truncated.
package bases
