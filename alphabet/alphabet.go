// Package alphabet holds the symbol table used by ecoji: the 1024 regular symbols and the four
// tail alphabets that terminate a stream whose length is not a multiple of 5 bytes.
//
// A Table is immutable once built and safe for concurrent use.
package alphabet

import (
	"bufio"
	_ "embed"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"
)

// Kind identifies which alphabet a symbol belongs to.
type Kind uint8

const (
	Regular Kind = iota // full 10-bit group
	Pad1                // stream ends with 1 byte of a block: 8 residual bits
	Pad2                // 2 bytes: 6 residual bits
	Pad3                // 3 bytes: 4 residual bits
	Pad4                // 4 bytes: 2 residual bits

	numKinds = iota
)

var kindNames = [numKinds]string{"regular", "pad1", "pad2", "pad3", "pad4"}

func (k Kind) String() string {
	if int(k) < numKinds {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Bits returns the number of bits a symbol of kind k carries.
func (k Kind) Bits() uint8 {
	if k == Regular {
		return 10
	}
	return 10 - 2*uint8(k)
}

// Size returns the number of symbols in the alphabet of kind k.
func (k Kind) Size() int { return 1 << k.Bits() }

// IsPadding reports whether k is one of the tail alphabets.
func (k Kind) IsPadding() bool { return k != Regular }

// TailKind returns the tail alphabet carrying exactly bits residual bits.
// bits must be one of 2, 4, 6 or 8.
func TailKind(bits uint8) (Kind, bool) {
	switch bits {
	case 8:
		return Pad1, true
	case 6:
		return Pad2, true
	case 4:
		return Pad3, true
	case 2:
		return Pad4, true
	}
	return 0, false
}

// Entry is the result of a reverse lookup.
type Entry struct {
	Value uint16
	Kind  Kind
}

// Table is the bidirectional symbol table.
type Table struct {
	symbols [numKinds][]string
	index   map[string]Entry
}

// New builds a table from the five alphabets. Each alphabet must have exactly Kind.Size()
// symbols, every symbol must be a non-empty NFC-normalized UTF-8 string and no symbol may
// appear twice across all alphabets.
func New(regular, pad1, pad2, pad3, pad4 []string) (*Table, error) {
	t := &Table{}
	for k, set := range [numKinds][]string{regular, pad1, pad2, pad3, pad4} {
		kind := Kind(k)
		if len(set) != kind.Size() {
			return nil, errors.Errorf("%v alphabet has %d symbols, want %d", kind, len(set), kind.Size())
		}
		t.symbols[kind] = append([]string(nil), set...)
	}
	if err := checkSymbols(lo.Flatten(t.symbols[:])); err != nil {
		return nil, err
	}

	t.index = make(map[string]Entry, len(regular)+len(pad1)+len(pad2)+len(pad3)+len(pad4))
	for k, set := range t.symbols {
		for v, sym := range set {
			t.index[sym] = Entry{Value: uint16(v), Kind: Kind(k)}
		}
	}
	return t, nil
}

func checkSymbols(all []string) error {
	for _, s := range all {
		switch {
		case s == "":
			return errors.New("alphabet contains an empty symbol")
		case !utf8.ValidString(s):
			return errors.Errorf("symbol %q is not valid UTF-8", s)
		case !norm.NFC.IsNormalString(s):
			return errors.Errorf("symbol %q is not NFC normalized", s)
		}
	}
	if dups := lo.FindDuplicates(all); len(dups) > 0 {
		return errors.New("alphabets contain duplicates: '" + strings.Join(dups, "', '") + "'")
	}
	return nil
}

// Symbol returns the symbol for value v in the alphabet of kind k. It panics if v is out of
// range for k.
func (t *Table) Symbol(k Kind, v uint16) string {
	return t.symbols[k][v]
}

// Alphabet returns a copy of the symbols of kind k, ordered by value.
func (t *Table) Alphabet(k Kind) []string {
	return append([]string(nil), t.symbols[k]...)
}

// Lookup resolves a symbol to its value and alphabet.
func (t *Table) Lookup(sym string) (Entry, bool) {
	e, ok := t.index[sym]
	return e, ok
}

// Len returns the total number of symbols across all alphabets.
func (t *Table) Len() int { return len(t.index) }

// Parse reads a table in the emojis.txt format: "[kind]" section headers in the order
// regular, pad1, pad2, pad3, pad4, followed by one symbol per line written as space
// separated hexadecimal code points. Blank lines and lines starting with '#' are ignored.
func Parse(r io.Reader) (*Table, error) {
	var (
		sets    [numKinds][]string
		current = -1
		lineNo  int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if line[0] == '[' {
			if !strings.HasSuffix(line, "]") {
				return nil, errors.Errorf("line %d: malformed section header %q", lineNo, line)
			}
			name := line[1 : len(line)-1]
			idx := lo.IndexOf(kindNames[:], name)
			if idx < 0 {
				return nil, errors.Errorf("line %d: unknown section %q", lineNo, name)
			}
			if idx != current+1 {
				return nil, errors.Errorf("line %d: section %q out of order", lineNo, name)
			}
			current = idx
			continue
		}
		if current < 0 {
			return nil, errors.Errorf("line %d: symbol before first section", lineNo)
		}
		sym, err := parseSymbol(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		sets[current] = append(sets[current], sym)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading symbol table")
	}
	return New(sets[Regular], sets[Pad1], sets[Pad2], sets[Pad3], sets[Pad4])
}

func parseSymbol(line string) (string, error) {
	var b strings.Builder
	for _, field := range strings.Fields(line) {
		cp, err := strconv.ParseUint(field, 16, 32)
		if err != nil {
			return "", errors.Wrapf(err, "bad code point %q", field)
		}
		r := rune(cp)
		if !utf8.ValidRune(r) {
			return "", errors.Errorf("code point %s is not a valid rune", field)
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

//go:embed emojis.txt
var emojisTxt string

var defaultTable = mustParse(emojisTxt)

func mustParse(s string) *Table {
	t, err := Parse(strings.NewReader(s))
	if err != nil {
		panic("alphabet: invalid embedded table: " + err.Error())
	}
	return t
}

// Default returns the built-in table.
func Default() *Table { return defaultTable }
