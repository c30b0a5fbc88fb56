// Package tlv implements the bounds-checked byte cursor and
// tag-length-value codec shared by the wire frame format and the DMRP
// replay container.
package tlv

import (
	"encoding/binary"
	"fmt"
)

// Cursor reads sequentially through a byte slice, tracking position
// and rejecting any read that would run past the end of the buffer.
type Cursor struct {
	b   []byte
	pos int
}

// NewCursor returns a Cursor positioned at the start of b.
func NewCursor(b []byte) *Cursor {
	return &Cursor{b: b}
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.b) - c.pos
}

// Pos returns the current read offset.
func (c *Cursor) Pos() int {
	return c.pos
}

// ReadExact returns the next n bytes without copying, advancing the
// cursor. It returns an error if fewer than n bytes remain.
func (c *Cursor) ReadExact(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, fmt.Errorf("tlv: truncated: need %d, have %d", n, c.Remaining())
	}
	out := c.b[c.pos : c.pos+n]
	c.pos += n
	return out, nil
}

// ReadU8 reads a single byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.ReadExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU32LE reads a little-endian uint32.
func (c *Cursor) ReadU32LE() (uint32, error) {
	b, err := c.ReadExact(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64LE reads a little-endian uint64.
func (c *Cursor) ReadU64LE() (uint64, error) {
	b, err := c.ReadExact(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadI64LE reads a little-endian int64.
func (c *Cursor) ReadI64LE() (int64, error) {
	v, err := c.ReadU64LE()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}
