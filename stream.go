package ecoji

import (
	"io"

	"github.com/pkg/errors"

	"github.com/quackduck/ecoji/alphabet"
)

// NewEncoder returns a stream encoder. Data written to it is encoded and written to w. The
// caller must Close the encoder to flush the tail symbol and any buffered output; Close does
// not close w.
func (c *Coding) NewEncoder(w io.Writer) io.WriteCloser {
	return &encoder{
		c:      c,
		out:    w,
		buf:    make([]byte, 0, c.bufSize+16),
		groups: make([]uint16, 0, 1),
	}
}

type encoder struct {
	c      *Coding
	out    io.Writer
	p      BitPacker
	buf    []byte
	groups []uint16
	col    int // symbols on the current line
	err    error
}

func (e *encoder) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	for _, b := range p {
		e.groups = e.p.Push(e.groups[:0], b)
		for _, v := range e.groups {
			e.emit(e.c.table.Symbol(alphabet.Regular, v))
		}
		if len(e.buf) >= e.c.bufSize {
			if err := e.flush(); err != nil {
				return 0, err
			}
		}
	}
	return len(p), nil
}

func (e *encoder) emit(sym string) {
	if e.c.wrap > 0 && e.col == e.c.wrap {
		e.buf = append(e.buf, '\n')
		e.col = 0
	}
	e.buf = append(e.buf, sym...)
	e.col++
}

func (e *encoder) flush() error {
	if len(e.buf) == 0 {
		return nil
	}
	if _, err := e.out.Write(e.buf); err != nil {
		e.err = errors.Wrap(err, "writing encoded output")
		return e.err
	}
	e.buf = e.buf[:0]
	return nil
}

// Close emits the tail symbol, if any, and flushes buffered output. A wrapping encoder also
// terminates a non-empty last line.
func (e *encoder) Close() error {
	if e.err != nil {
		return e.err
	}
	if g, ok := e.p.Flush(); ok {
		e.emit(e.c.tailSymbol(g))
	}
	if e.c.wrap > 0 && e.col > 0 {
		e.buf = append(e.buf, '\n')
		e.col = 0
	}
	return e.flush()
}

// NewDecoder returns a stream decoder reading encoded text from r. Line breaks in the input
// are skipped. A decoding failure is returned as a *DecodeError after all bytes decoded before
// the failing symbol have been read.
func (c *Coding) NewDecoder(r io.Reader) io.Reader {
	return &streamDecoder{
		sc:  newSymbolScanner(r, c.bufSize),
		d:   decoder{table: c.table},
		out: make([]byte, 0, c.bufSize),
	}
}

type streamDecoder struct {
	sc  *symbolScanner
	d   decoder
	out []byte
	off int
	err error
}

func (s *streamDecoder) Read(p []byte) (int, error) {
	for s.off == len(s.out) && s.err == nil {
		s.fill()
	}
	if s.off < len(s.out) {
		n := copy(p, s.out[s.off:])
		s.off += n
		return n, nil
	}
	return 0, s.err
}

// fill decodes symbols until about a buffer's worth of bytes is ready or the input ends.
func (s *streamDecoder) fill() {
	s.out, s.off = s.out[:0], 0
	for len(s.out) < cap(s.out)-5 {
		sym, err := s.sc.Next()
		if err == io.EOF {
			s.err = s.d.finish()
			if s.err == nil {
				s.err = io.EOF
			}
			return
		}
		if err != nil {
			s.err = errors.Wrap(err, "reading encoded input")
			return
		}
		if s.out, err = s.d.symbol(s.out, sym); err != nil {
			s.err = err
			return
		}
	}
}
