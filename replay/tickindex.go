package replay

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketTickOffsets = []byte("tick_offsets")

// TickIndex is an optional bbolt-backed mapping from tick number to the
// position of that tick's first record, letting a player seek directly
// to a tick instead of scanning from the start of the record stream.
// Put stores whatever offset its caller passes; BuildFromReader stores
// the record's index within Reader.Records, not a file byte offset.
// Neither Writer nor Reader fills the index on its own. It keeps one
// bucket for its one concern, mirroring the store package's
// bucket-per-concern layout.
type TickIndex struct {
	db *bolt.DB
}

// OpenTickIndex opens (creating if absent) a bbolt database at path to
// back a TickIndex.
func OpenTickIndex(path string) (*TickIndex, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("replay: open tick index: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketTickOffsets)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("replay: create tick index bucket: %w", err)
	}
	return &TickIndex{db: db}, nil
}

func (ti *TickIndex) Close() error {
	if ti == nil || ti.db == nil {
		return nil
	}
	return ti.db.Close()
}

// Put records that tick's first record begins at offset. A later Put
// for a tick already present is a no-op: the index only ever needs the
// first offset seen per tick to seek a player there.
func (ti *TickIndex) Put(tick uint64, offset int64) error {
	key := tickKey(tick)
	return ti.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTickOffsets)
		if b.Get(key) != nil {
			return nil
		}
		var val [8]byte
		binary.LittleEndian.PutUint64(val[:], uint64(offset))
		return b.Put(key, val[:])
	})
}

// Get returns the recorded offset for tick, if any.
func (ti *TickIndex) Get(tick uint64) (offset int64, ok bool, err error) {
	key := tickKey(tick)
	err = ti.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketTickOffsets).Get(key)
		if v == nil {
			return nil
		}
		if len(v) != 8 {
			return fmt.Errorf("replay: corrupt tick index entry for tick %d", tick)
		}
		offset = int64(binary.LittleEndian.Uint64(v))
		ok = true
		return nil
	})
	return offset, ok, err
}

// BuildFromReader populates the index from every record offset r
// already parsed. Reader does not track byte offsets of individual
// records today, so this indexes by record position within r.Records
// rather than by file byte offset; a future Reader revision that
// retains byte offsets can swap the argument without changing this
// method's bucket layout.
func (ti *TickIndex) BuildFromReader(r *Reader) error {
	return ti.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTickOffsets)
		for i, rec := range r.Records {
			key := tickKey(rec.Tick)
			if b.Get(key) != nil {
				continue
			}
			var val [8]byte
			binary.LittleEndian.PutUint64(val[:], uint64(i))
			if err := b.Put(key, val[:]); err != nil {
				return err
			}
		}
		return nil
	})
}

func tickKey(tick uint64) []byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], tick)
	return key[:]
}
