package ecoji

import (
	"fmt"

	"github.com/pkg/errors"
)

// Decoding fails with a *DecodeError wrapping one of these.
var (
	// ErrUnknownSymbol means the input holds a token that is in none of the alphabets.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrMalformedPadding means a tail symbol is not the last symbol, or does not end the
	// stream on a byte boundary.
	ErrMalformedPadding = errors.New("malformed padding")
	// ErrTruncatedStream means the input ended on regular symbols that do not add up to a
	// whole number of bytes.
	ErrTruncatedStream = errors.New("truncated stream")
)

// DecodeError describes where decoding failed.
type DecodeError struct {
	Err    error  // one of the Err* sentinels
	Pos    int    // zero-based symbol index
	Symbol string // offending token, empty for ErrTruncatedStream
}

func (e *DecodeError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("ecoji: %v at symbol %d", e.Err, e.Pos)
	}
	return fmt.Sprintf("ecoji: %v %q at symbol %d", e.Err, e.Symbol, e.Pos)
}

func (e *DecodeError) Unwrap() error { return e.Err }
