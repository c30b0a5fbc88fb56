package tlv

import (
	"encoding/binary"
	"fmt"
)

// Entry is one decoded tag-length-value record: a u32 tag, a u32
// length, followed by that many raw bytes.
type Entry struct {
	Tag     uint32
	Payload []byte
}

// AppendEntry appends tag, the length of payload, and payload itself
// to dst, returning the extended slice.
func AppendEntry(dst []byte, tag uint32, payload []byte) []byte {
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], tag)
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(payload)))
	dst = append(dst, hdr[:]...)
	dst = append(dst, payload...)
	return dst
}

// ReadEntry decodes one TLV entry from c.
func ReadEntry(c *Cursor) (Entry, error) {
	tag, err := c.ReadU32LE()
	if err != nil {
		return Entry{}, err
	}
	length, err := c.ReadU32LE()
	if err != nil {
		return Entry{}, err
	}
	payload, err := c.ReadExact(int(length))
	if err != nil {
		return Entry{}, fmt.Errorf("tlv: entry tag %d: %w", tag, err)
	}
	return Entry{Tag: tag, Payload: payload}, nil
}

// ReadAll decodes every TLV entry in b into an ordered slice. It is
// used for blobs whose total length is already known (e.g. a frame
// payload) rather than a stream with trailing non-TLV data.
func ReadAll(b []byte) ([]Entry, error) {
	c := NewCursor(b)
	var out []Entry
	for c.Remaining() > 0 {
		e, err := ReadEntry(c)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Find returns the payload of the first entry with the given tag.
func Find(entries []Entry, tag uint32) ([]byte, bool) {
	for _, e := range entries {
		if e.Tag == tag {
			return e.Payload, true
		}
	}
	return nil, false
}

// FindU32LE finds the entry with tag and decodes it as a u32.
func FindU32LE(entries []Entry, tag uint32) (uint32, bool, error) {
	p, ok := Find(entries, tag)
	if !ok {
		return 0, false, nil
	}
	if len(p) != 4 {
		return 0, false, fmt.Errorf("tlv: tag %d: want 4 bytes, got %d", tag, len(p))
	}
	return binary.LittleEndian.Uint32(p), true, nil
}

// FindU64LE finds the entry with tag and decodes it as a u64.
func FindU64LE(entries []Entry, tag uint32) (uint64, bool, error) {
	p, ok := Find(entries, tag)
	if !ok {
		return 0, false, nil
	}
	if len(p) != 8 {
		return 0, false, fmt.Errorf("tlv: tag %d: want 8 bytes, got %d", tag, len(p))
	}
	return binary.LittleEndian.Uint64(p), true, nil
}

// FindI64LE finds the entry with tag and decodes it as a signed i64,
// the representation used for Q48.16 and Q16.16 TLV payloads.
func FindI64LE(entries []Entry, tag uint32) (int64, bool, error) {
	v, ok, err := FindU64LE(entries, tag)
	return int64(v), ok, err
}

// PutU32LE returns a 4-byte little-endian tag payload.
func PutU32LE(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}

// PutU64LE returns an 8-byte little-endian tag payload.
func PutU64LE(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

// PutI64LE returns a signed 8-byte little-endian tag payload.
func PutI64LE(v int64) []byte {
	return PutU64LE(uint64(v))
}

// FNV1a64 computes the 64-bit FNV-1a hash of b, used to verify DMRP
// content TLV integrity.
func FNV1a64(b []byte) uint64 {
	const (
		offsetBasis uint64 = 14695981039346656037
		prime       uint64 = 1099511628211
	)
	h := offsetBasis
	for _, c := range b {
		h ^= uint64(c)
		h *= prime
	}
	return h
}
