package replay

import (
	"encoding/binary"
	"os"

	"dominium.dev/core/simcmd"
	"dominium.dev/core/tlv"
)

// Record is one decoded per-tick command record.
type Record struct {
	Tick uint64
	Cmd  simcmd.Command
}

// Reader holds a fully parsed DMRP container: its identity, bundle
// blobs, and the ordered list of command records, plus a cursor for
// PlayNextForTick.
type Reader struct {
	UPS          uint32
	Seed         uint64
	FeatureEpoch uint32
	Identity     struct {
		InstanceID string
		RunID      uint64
	}
	Bundles  [int(bundleCount)][]byte
	Content  []byte
	Records  []Record
	LastTick uint64

	cursor int
}

// Open reads and fully validates path as a DMRP container: header,
// endian sentinel, version (exact match, else ErrMigration), content
// hash (recomputed and compared against the stored identity value,
// else ErrFormat), and the ordered per-tick command record log.
func Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse validates and decodes an already-loaded DMRP container.
func Parse(data []byte) (*Reader, error) {
	if len(data) < headerSize {
		return nil, replayErr(ErrFormat, "file shorter than header")
	}
	if string(data[0:4]) != string(magic[:]) {
		return nil, replayErr(ErrFormat, "bad magic")
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	if version != Version {
		return nil, replayErr(ErrMigration, "unsupported container version")
	}
	endian := binary.LittleEndian.Uint32(data[8:12])
	if endian != EndianSentinel {
		return nil, replayErr(ErrFormat, "bad endian sentinel")
	}

	r := &Reader{
		UPS:          binary.LittleEndian.Uint32(data[12:16]),
		Seed:         binary.LittleEndian.Uint64(data[16:24]),
		FeatureEpoch: binary.LittleEndian.Uint32(data[24:28]),
	}

	c := tlv.NewCursor(data[headerSize:])

	content, err := readLenPrefixed(c)
	if err != nil {
		return nil, replayErr(ErrFormat, "truncated content TLV")
	}
	r.Content = content

	identityBytes, err := readLenPrefixed(c)
	if err != nil {
		return nil, replayErr(ErrFormat, "truncated identity TLV")
	}
	id, err := decodeIdentity(identityBytes)
	if err != nil {
		return nil, err
	}
	if id.ContentHash != tlv.FNV1a64(content) {
		return nil, replayErr(ErrFormat, "content hash mismatch")
	}
	r.Identity.InstanceID = id.InstanceID.String()
	r.Identity.RunID = id.RunID

	for i := 0; i < int(bundleCount); i++ {
		blob, err := readBundle(c)
		if err != nil {
			return nil, replayErr(ErrFormat, "truncated bundle blob")
		}
		r.Bundles[i] = blob
	}

	if err := r.readRecords(c); err != nil {
		return nil, err
	}

	return r, nil
}

func readLenPrefixed(c *tlv.Cursor) ([]byte, error) {
	n, err := c.ReadU32LE()
	if err != nil {
		return nil, err
	}
	return c.ReadExact(int(n))
}

func readBundle(c *tlv.Cursor) ([]byte, error) {
	if _, err := c.ReadU32LE(); err != nil { // bundle version, unused by the reader today
		return nil, err
	}
	n, err := c.ReadU32LE()
	if err != nil {
		return nil, err
	}
	return c.ReadExact(int(n))
}

// readRecords walks the remaining per-tick record stream. Each record
// needs at least 16 bytes (tick:u64, kind:u32, size:u32) and a
// non-decreasing tick relative to the previous record; a record whose
// kind is not a command is accepted and skipped (its tick still
// updates LastTick). No count of skipped records is kept.
func (r *Reader) readRecords(c *tlv.Cursor) error {
	var prevTick uint64
	haveTick := false

	for c.Remaining() > 0 {
		if c.Remaining() < 16 {
			return replayErr(ErrFormat, "trailing bytes too short for a record header")
		}
		tick, err := c.ReadU64LE()
		if err != nil {
			return replayErr(ErrFormat, "truncated record tick")
		}
		kind, err := c.ReadU32LE()
		if err != nil {
			return replayErr(ErrFormat, "truncated record kind")
		}
		size, err := c.ReadU32LE()
		if err != nil {
			return replayErr(ErrFormat, "truncated record size")
		}
		if int(size) > c.Remaining() {
			return replayErr(ErrFormat, "record size exceeds remaining bytes")
		}
		if haveTick && tick < prevTick {
			return replayErr(ErrFormat, "record ticks must be non-decreasing")
		}
		payload, err := c.ReadExact(int(size))
		if err != nil {
			return replayErr(ErrFormat, "truncated record payload")
		}

		if RecordKind(kind) == RecordKindCmd {
			cmd, err := simcmd.DecodeCmd(payload)
			if err != nil {
				return replayErr(ErrFormat, "malformed command record")
			}
			r.Records = append(r.Records, Record{Tick: tick, Cmd: cmd})
		}

		prevTick = tick
		haveTick = true
		if tick > r.LastTick {
			r.LastTick = tick
		}
	}
	return nil
}

// PlayNextForTick returns every command record at exactly tick,
// advancing the cursor past them and past any earlier records not yet
// played. Requesting a tick earlier than the
// last tick the cursor has already passed returns ErrFormat, since the
// reader cannot rewind.
func (r *Reader) PlayNextForTick(tick uint64) ([]simcmd.Command, error) {
	if r.cursor > 0 && tick < r.Records[r.cursor-1].Tick {
		return nil, replayErr(ErrFormat, "requested tick precedes reader cursor")
	}
	for r.cursor < len(r.Records) && r.Records[r.cursor].Tick < tick {
		r.cursor++
	}
	var out []simcmd.Command
	for r.cursor < len(r.Records) && r.Records[r.cursor].Tick == tick {
		out = append(out, r.Records[r.cursor].Cmd)
		r.cursor++
	}
	return out, nil
}
