package bases

import (
	"errors"
	"fmt"
)

// Symbol is one character of the stream alphabet.
type Symbol = byte

// Digit is a base-4 digit in [0,3].
type Digit uint8

const (
	A Symbol = 'A'
	T Symbol = 'T'
	C Symbol = 'C'
	G Symbol = 'G'
)

var (
	// ErrInvalidSymbol reports a byte outside {A,T,C,G}.
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrOverflow reports a value that needs more digits than the requested width.
	ErrOverflow = errors.New("value does not fit digit width")
)

var digitSymbols = [4]Symbol{A, T, C, G}

var symbolDigits = func() [256]int8 {
	var table [256]int8
	for i := range table {
		table[i] = -1
	}
	for d, s := range digitSymbols {
		table[s] = int8(d)
	}
	return table
}()

// SymbolOf returns the symbol for d. It panics when d > 3.
func SymbolOf(d Digit) Symbol {
	return digitSymbols[d]
}

// DigitOf returns the digit carried by s.
func DigitOf(s Symbol) (Digit, error) {
	d := symbolDigits[s]
	if d < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
	}
	return Digit(d), nil
}

// Valid reports whether s belongs to the alphabet.
func Valid(s Symbol) bool {
	return symbolDigits[s] >= 0
}

// DigitsToValue interprets symbols as a big-endian base-4 numeral.
func DigitsToValue(symbols []byte) (int, error) {
	value := 0
	for _, s := range symbols {
		d := symbolDigits[s]
		if d < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
		}
		value = value<<2 | int(d)
	}
	return value, nil
}

// ValueToDigits returns value as exactly pad base-4 symbols, left-padded with A.
func ValueToDigits(value, pad int) ([]byte, error) {
	return AppendDigits(make([]byte, 0, pad), value, pad)
}

// AppendDigits appends the pad-symbol representation of value to dst.
func AppendDigits(dst []byte, value, pad int) ([]byte, error) {
	if value < 0 || pad < 0 || (pad < 31 && value >= 1<<(2*pad)) {
		return dst, fmt.Errorf("%w: %d in %d digits", ErrOverflow, value, pad)
	}
	for shift := 2 * (pad - 1); shift >= 0; shift -= 2 {
		dst = append(dst, digitSymbols[(value>>shift)&3])
	}
	return dst, nil
}

// Width returns the minimal number of digits needed to represent value.
func Width(value int) int {
	if value <= 0 {
		return 1
	}
	n := 0
	for ; value > 0; value >>= 2 {
		n++
	}
	return n
}
