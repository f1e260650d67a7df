package ecoji

// GroupBits is the number of bits carried by one regular symbol.
const GroupBits = 10

const groupMask = 1<<GroupBits - 1

// Group is a bit group cut from a byte stream. Bits is GroupBits for every group except
// possibly the last one of a stream.
type Group struct {
	Value uint16
	Bits  uint8
}

// BitPacker cuts a byte stream into 10-bit groups, most significant bit first.
// The zero value is ready to use. Its state persists between calls to Push, so a stream can
// be fed in arbitrary pieces.
type BitPacker struct {
	acc uint32
	n   uint8 // valid bits in acc, always < GroupBits between calls
}

// Push shifts b into the packer and appends any completed group value to dst.
func (p *BitPacker) Push(dst []uint16, b byte) []uint16 {
	p.acc = p.acc<<8 | uint32(b)
	p.n += 8
	if p.n >= GroupBits {
		p.n -= GroupBits
		dst = append(dst, uint16(p.acc>>p.n)&groupMask)
		p.acc &= 1<<p.n - 1
	}
	return dst
}

// PushBytes is Push for every byte of bs.
func (p *BitPacker) PushBytes(dst []uint16, bs []byte) []uint16 {
	for _, b := range bs {
		dst = p.Push(dst, b)
	}
	return dst
}

// Buffered returns the number of bits waiting for a full group.
func (p *BitPacker) Buffered() int { return int(p.n) }

// Flush returns the residual bits as a short group and resets the packer. ok is false when
// the stream ended on a group boundary. The residual width is always 2, 4, 6 or 8 since the
// input is whole bytes.
func (p *BitPacker) Flush() (g Group, ok bool) {
	if p.n == 0 {
		return Group{}, false
	}
	g = Group{Value: uint16(p.acc), Bits: p.n}
	p.Reset()
	return g, true
}

// Reset discards any buffered bits.
func (p *BitPacker) Reset() { p.acc, p.n = 0, 0 }

// BitUnpacker is the dual of BitPacker: it takes groups of up to 10 bits and reassembles the
// bytes they came from.
type BitUnpacker struct {
	acc uint32
	n   uint8 // valid bits in acc, always < 8 between calls
}

// Push appends the low bits bits of v to the stream and appends every completed byte to dst.
func (u *BitUnpacker) Push(dst []byte, v uint16, bits uint8) []byte {
	u.acc = u.acc<<bits | uint32(v)&(1<<bits-1)
	u.n += bits
	for u.n >= 8 {
		u.n -= 8
		dst = append(dst, byte(u.acc>>u.n))
		u.acc &= 1<<u.n - 1
	}
	return dst
}

// Pending returns the bits that do not yet form a whole byte, right-aligned, and their count.
func (u *BitUnpacker) Pending() (v uint32, n uint8) { return u.acc, u.n }

// Reset discards any pending bits.
func (u *BitUnpacker) Reset() { u.acc, u.n = 0, 0 }
