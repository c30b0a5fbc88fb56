// Package replay implements the DMRP replay container: a sequential
// file format capturing a deterministic run's identity, a fixed set of
// versioned domain bundle blobs, and a tick-ordered log of applied
// commands, sufficient to reproduce the run bit-for-bit.
package replay

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"dominium.dev/core/cryptoutil"
	"dominium.dev/core/simcmd"
	"dominium.dev/core/tlv"
)

// CreateOptions configures a new DMRP container.
type CreateOptions struct {
	UPS          uint32
	Seed         uint64
	FeatureEpoch uint32
	RunID        uint64
	InstanceID   uuid.UUID // zero value: a random UUID is generated

	// Content is an arbitrary, caller-assembled TLV blob describing
	// the run (scenario parameters, map seed metadata, and similar);
	// its FNV-1a64 hash is stored and re-verified on read.
	Content []byte

	// Bundles holds the 8 fixed-order versioned bundle blobs, indexed
	// by BundleKind. A nil entry is written as a zero-length blob.
	Bundles [int(bundleCount)][]byte

	Provider cryptoutil.Provider // optional; defaults to cryptoutil.StdProvider{}
}

// Writer appends per-tick command records to an open DMRP container.
// It is not safe for concurrent use.
type Writer struct {
	f        *os.File
	lock     *flock.Flock
	path     string
	tmpPath  string
	lastTick uint64
	haveTick bool
}

// Create opens path for writing, acquiring an advisory file lock for
// the duration of the write session and writing the fixed header,
// content/identity TLVs, and the 8 bundle blobs. The file is written
// to a temporary path and is not visible at path until Close commits
// it via the same atomic temp-write-fsync-rename-fsync-dir sequence
// the engine uses for its manifest writes.
func Create(path string, opts CreateOptions) (*Writer, error) {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("replay: acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("replay: %s is locked by another writer", path)
	}

	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("replay: create temp file: %w", err)
	}

	w := &Writer{f: f, lock: lock, path: path, tmpPath: tmpPath}
	if err := w.writeHeader(opts); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		_ = lock.Unlock()
		return nil, err
	}
	return w, nil
}

func (w *Writer) writeHeader(opts CreateOptions) error {
	provider := opts.Provider
	if provider == nil {
		provider = cryptoutil.StdProvider{}
	}
	instanceID := opts.InstanceID
	if instanceID == uuid.Nil {
		instanceID = uuid.New()
	}

	var hdr [headerSize]byte
	copy(hdr[0:4], magic[:])
	binary.LittleEndian.PutUint32(hdr[4:8], Version)
	binary.LittleEndian.PutUint32(hdr[8:12], EndianSentinel)
	binary.LittleEndian.PutUint32(hdr[12:16], opts.UPS)
	binary.LittleEndian.PutUint64(hdr[16:24], opts.Seed)
	binary.LittleEndian.PutUint32(hdr[24:28], opts.FeatureEpoch)
	if _, err := w.f.Write(hdr[:]); err != nil {
		return fmt.Errorf("replay: write header: %w", err)
	}

	contentHash := tlv.FNV1a64(opts.Content)
	manifestHash, err := provider.SHA3_256(append(hdr[:], opts.Content...))
	if err != nil {
		return fmt.Errorf("replay: compute manifest hash: %w", err)
	}

	id := identity{
		SchemaVersion: IdentityVersion,
		InstanceID:    instanceID,
		RunID:         opts.RunID,
		ManifestHash:  manifestHash,
		ContentHash:   contentHash,
	}
	identityBytes := encodeIdentity(id)

	if err := w.writeLenPrefixed(opts.Content); err != nil {
		return err
	}
	if err := w.writeLenPrefixed(identityBytes); err != nil {
		return err
	}

	for _, blob := range opts.Bundles {
		if err := w.writeBundle(blob); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeLenPrefixed(b []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(b)))
	if _, err := w.f.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("replay: write length prefix: %w", err)
	}
	if _, err := w.f.Write(b); err != nil {
		return fmt.Errorf("replay: write blob: %w", err)
	}
	return nil
}

func (w *Writer) writeBundle(blob []byte) error {
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], bundleVersion)
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(blob)))
	if _, err := w.f.Write(hdr[:]); err != nil {
		return fmt.Errorf("replay: write bundle header: %w", err)
	}
	if _, err := w.f.Write(blob); err != nil {
		return fmt.Errorf("replay: write bundle: %w", err)
	}
	return nil
}

// WriteCmd appends a per-tick command record. tick must be
// non-decreasing across the life of the Writer, matching the
// sortedness the reader enforces.
func (w *Writer) WriteCmd(tick uint64, cmd simcmd.Command) error {
	if w.haveTick && tick < w.lastTick {
		return replayErr(ErrFormat, "tick must be non-decreasing")
	}
	payload := simcmd.EncodeCmd(cmd)

	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[0:8], tick)
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(RecordKindCmd))
	binary.LittleEndian.PutUint32(hdr[12:16], uint32(len(payload)))
	if _, err := w.f.Write(hdr[:]); err != nil {
		return fmt.Errorf("replay: write record header: %w", err)
	}
	if _, err := w.f.Write(payload); err != nil {
		return fmt.Errorf("replay: write record payload: %w", err)
	}
	w.lastTick = tick
	w.haveTick = true
	return nil
}

// Close commits the temp file to path atomically (write, fsync,
// close, rename, fsync parent dir) and releases the write lock,
// mirroring node/store/manifest.go's writeManifestAtomic sequence.
func (w *Writer) Close() error {
	defer func() { _ = w.lock.Unlock() }()

	if err := w.f.Sync(); err != nil {
		_ = w.f.Close()
		return fmt.Errorf("replay: fsync temp file: %w", err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("replay: close temp file: %w", err)
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		return fmt.Errorf("replay: rename into place: %w", err)
	}
	dir, err := os.Open(parentDir(w.path))
	if err != nil {
		return fmt.Errorf("replay: open parent dir: %w", err)
	}
	defer func() { _ = dir.Close() }()
	if err := dir.Sync(); err != nil {
		return fmt.Errorf("replay: fsync parent dir: %w", err)
	}
	return nil
}

func parentDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
