package ecoji

import (
	"bufio"
	"io"
	"unicode/utf8"
)

const (
	textSelector  = '\uFE0E'
	emojiSelector = '\uFE0F'
)

// symbolScanner splits UTF-8 text into symbol tokens. A token is one code point, plus the
// variation selector that follows it if there is one. Line breaks between tokens are skipped.
type symbolScanner struct {
	r   *bufio.Reader
	err error // read error held back until the current token has been returned
	buf [2 * utf8.UTFMax]byte
}

func newSymbolScanner(r io.Reader, size int) *symbolScanner {
	return &symbolScanner{r: bufio.NewReaderSize(r, size)}
}

// Next returns the next token, or io.EOF at end of input.
func (s *symbolScanner) Next() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	for {
		r, size, err := s.r.ReadRune()
		if err != nil {
			return "", err
		}
		if r == '\n' || r == '\r' {
			continue
		}
		if r == utf8.RuneError && size == 1 {
			// not UTF-8: hand the raw byte back as its own token, it matches no symbol
			_ = s.r.UnreadRune()
			b, _ := s.r.ReadByte()
			return string([]byte{b}), nil
		}
		n := utf8.EncodeRune(s.buf[:], r)

		next, _, err := s.r.ReadRune()
		switch {
		case err == io.EOF:
		case err != nil:
			s.err = err
		case next == textSelector || next == emojiSelector:
			n += utf8.EncodeRune(s.buf[n:], next)
		default:
			_ = s.r.UnreadRune()
		}
		return string(s.buf[:n]), nil
	}
}
