// Package ecoji implements a base-1024 encoding whose alphabet is made of emoji.
//
// Every regular symbol carries 10 bits, so 5 bytes become 4 symbols. When the input length
// is not a multiple of 5, the last symbol comes from one of four small tail alphabets, one for
// each possible number of leftover bits, so the decoder always knows how many bytes the stream
// ends with:
//
//	bytes in last block   residual bits   tail alphabet
//	1                     8               alphabet.Pad1
//	2                     6               alphabet.Pad2
//	3                     4               alphabet.Pad3
//	4                     2               alphabet.Pad4
//
// For example,
//
//	s := ecoji.EncodeToString([]byte("hello"))
//	b, err := ecoji.DecodeString(s)
//
// Encoding never fails. Decoding reports a *DecodeError wrapping ErrUnknownSymbol,
// ErrMalformedPadding or ErrTruncatedStream.
package ecoji

import (
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/quackduck/ecoji/alphabet"
)

// size of the buffers used by the streaming encoder and decoder.
const defaultBufSize = 16 * 1024

// Coding encodes and decodes with a particular symbol table. A configured Coding is safe for
// concurrent use; the setters are not.
type Coding struct {
	table   *alphabet.Table
	bufSize int
	wrap    int
}

// NewCoding returns a Coding for the given table. A nil table selects alphabet.Default().
func NewCoding(t *alphabet.Table) *Coding {
	if t == nil {
		t = alphabet.Default()
	}
	return &Coding{table: t, bufSize: defaultBufSize}
}

var std = NewCoding(nil)

// SetBufferSize sets internal buffer sizes used by Encode, Decode, NewEncoder and NewDecoder.
// Sizes below 64 bytes are raised to 64.
func (c *Coding) SetBufferSize(size int) {
	if size < 64 {
		size = 64
	}
	c.bufSize = size
}

// SetWrap makes streaming encoders insert a line break after every n symbols. n <= 0
// disables wrapping. Decoders skip line breaks, so wrapped output decodes unchanged.
func (c *Coding) SetWrap(n int) {
	if n < 0 {
		n = 0
	}
	c.wrap = n
}

// Table returns the symbol table used by c.
func (c *Coding) Table() *alphabet.Table { return c.table }

// EncodedLen returns the number of symbols produced by encoding n bytes.
func EncodedLen(n int) int { return n/5*4 + n%5 }

// DecodedLen returns the maximum number of bytes decoded from n symbols.
func DecodedLen(n int) int { return n/4*5 + n%4 }

// EncodeSymbols encodes src and returns one string per symbol.
func (c *Coding) EncodeSymbols(src []byte) []string {
	out := make([]string, 0, EncodedLen(len(src)))
	c.encode(src, func(sym string) { out = append(out, sym) })
	return out
}

// EncodeToString returns the encoding of src as a single string.
func (c *Coding) EncodeToString(src []byte) string {
	var b strings.Builder
	b.Grow(EncodedLen(len(src)) * 4)
	c.encode(src, func(sym string) { b.WriteString(sym) })
	return b.String()
}

func (c *Coding) encode(src []byte, emit func(string)) {
	var (
		p      BitPacker
		groups = make([]uint16, 0, 4)
	)
	for len(src) > 0 {
		n := min(len(src), 5)
		groups = p.PushBytes(groups[:0], src[:n])
		for _, v := range groups {
			emit(c.table.Symbol(alphabet.Regular, v))
		}
		src = src[n:]
	}
	if g, ok := p.Flush(); ok {
		emit(c.tailSymbol(g))
	}
}

func (c *Coding) tailSymbol(g Group) string {
	k, ok := alphabet.TailKind(g.Bits)
	if !ok {
		panic("ecoji: impossible residual width")
	}
	return c.table.Symbol(k, g.Value)
}

// DecodeSymbols decodes a sequence of symbols.
func (c *Coding) DecodeSymbols(symbols []string) ([]byte, error) {
	d := decoder{table: c.table}
	out := make([]byte, 0, DecodedLen(len(symbols)))
	var err error
	for _, sym := range symbols {
		if out, err = d.symbol(out, sym); err != nil {
			return nil, err
		}
	}
	if err = d.finish(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeString decodes encoded text. Line breaks between symbols are ignored.
func (c *Coding) DecodeString(s string) ([]byte, error) {
	sc := newSymbolScanner(strings.NewReader(s), min(max(len(s), 16), c.bufSize))
	d := decoder{table: c.table}
	out := make([]byte, 0, DecodedLen(len(s)/4))
	for {
		sym, err := sc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if out, err = d.symbol(out, sym); err != nil {
			return nil, err
		}
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return out, nil
}

// Encode reads src until EOF and writes its encoding to dst.
func (c *Coding) Encode(dst io.Writer, src io.Reader) error {
	enc := c.NewEncoder(dst)
	if _, err := io.CopyBuffer(enc, src, make([]byte, c.bufSize)); err != nil {
		return errors.Wrap(err, "encoding")
	}
	return enc.Close()
}

// Decode reads encoded text from src until EOF and writes the decoded bytes to dst.
// Bytes decoded before an error is detected may already have been written to dst.
func (c *Coding) Decode(dst io.Writer, src io.Reader) error {
	_, err := io.CopyBuffer(dst, c.NewDecoder(src), make([]byte, c.bufSize))
	var de *DecodeError
	if errors.As(err, &de) {
		return de
	}
	return errors.Wrap(err, "decoding")
}

// decoder is the symbol-at-a-time decoding state machine shared by all decode paths.
type decoder struct {
	table  *alphabet.Table
	bits   BitUnpacker
	pos    int  // index of the next symbol
	closed bool // a tail symbol has been seen
	tail   int  // position of the tail symbol
	sym    string
}

func (d *decoder) symbol(dst []byte, sym string) ([]byte, error) {
	e, ok := d.table.Lookup(sym)
	if !ok {
		return dst, &DecodeError{Err: ErrUnknownSymbol, Pos: d.pos, Symbol: sym}
	}
	if d.closed {
		return dst, &DecodeError{Err: ErrMalformedPadding, Pos: d.tail, Symbol: d.sym}
	}
	dst = d.bits.Push(dst, e.Value, e.Kind.Bits())
	if e.Kind.IsPadding() {
		if _, n := d.bits.Pending(); n != 0 {
			return dst, &DecodeError{Err: ErrMalformedPadding, Pos: d.pos, Symbol: sym}
		}
		d.closed, d.tail, d.sym = true, d.pos, sym
	}
	d.pos++
	return dst, nil
}

func (d *decoder) finish() error {
	if d.closed {
		return nil
	}
	if _, n := d.bits.Pending(); n != 0 {
		return &DecodeError{Err: ErrTruncatedStream, Pos: d.pos}
	}
	return nil
}

// EncodeSymbols encodes src with the default table.
func EncodeSymbols(src []byte) []string { return std.EncodeSymbols(src) }

// EncodeToString encodes src with the default table.
func EncodeToString(src []byte) string { return std.EncodeToString(src) }

// DecodeSymbols decodes symbols with the default table.
func DecodeSymbols(symbols []string) ([]byte, error) { return std.DecodeSymbols(symbols) }

// DecodeString decodes s with the default table.
func DecodeString(s string) ([]byte, error) { return std.DecodeString(s) }

// NewEncoder returns a streaming encoder writing to w with the default table.
func NewEncoder(w io.Writer) io.WriteCloser { return std.NewEncoder(w) }

// NewDecoder returns a streaming decoder reading from r with the default table.
func NewDecoder(r io.Reader) io.Reader { return std.NewDecoder(r) }
