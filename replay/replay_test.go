package replay

import (
	"os"
	"path/filepath"
	"testing"

	"dominium.dev/core/simcmd"
)

func testOptions(content []byte) CreateOptions {
	return CreateOptions{
		UPS:          30,
		Seed:         0xC0FFEE,
		FeatureEpoch: 1,
		RunID:        42,
		Content:      content,
	}
}

func writeRoundTrip(t *testing.T, dir string, cmds []simcmd.Command) string {
	t.Helper()
	path := filepath.Join(dir, "run.dmrp")
	w, err := Create(path, testOptions([]byte("scenario=skirmish")))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, cmd := range cmds {
		if err := w.WriteCmd(cmd.Tick, cmd); err != nil {
			t.Fatalf("WriteCmd: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func sampleCmd(tick uint64, id uint64) simcmd.Command {
	return simcmd.Command{
		ID:         id,
		SourcePeer: 1,
		Tick:       tick,
		SchemaID:   0x1005,
		SchemaVer:  1,
		Payload:    []byte{1, 2, 3},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cmds := []simcmd.Command{
		sampleCmd(1, 100),
		sampleCmd(1, 101),
		sampleCmd(3, 102),
	}
	path := writeRoundTrip(t, dir, cmds)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if r.UPS != 30 || r.Seed != 0xC0FFEE || r.FeatureEpoch != 1 {
		t.Fatalf("header mismatch: %+v", r)
	}
	if len(r.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(r.Records))
	}
	if r.LastTick != 3 {
		t.Fatalf("expected last tick 3, got %d", r.LastTick)
	}

	got1, err := r.PlayNextForTick(1)
	if err != nil {
		t.Fatalf("PlayNextForTick(1): %v", err)
	}
	if len(got1) != 2 {
		t.Fatalf("expected 2 commands at tick 1, got %d", len(got1))
	}

	got3, err := r.PlayNextForTick(3)
	if err != nil {
		t.Fatalf("PlayNextForTick(3): %v", err)
	}
	if len(got3) != 1 || got3[0].ID != 102 {
		t.Fatalf("unexpected tick 3 records: %+v", got3)
	}
}

func TestPlayNextForTickRejectsRewind(t *testing.T) {
	dir := t.TempDir()
	path := writeRoundTrip(t, dir, []simcmd.Command{sampleCmd(5, 1), sampleCmd(7, 2)})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := r.PlayNextForTick(7); err != nil {
		t.Fatalf("PlayNextForTick(7): %v", err)
	}
	if _, err := r.PlayNextForTick(5); err == nil {
		t.Fatalf("expected ErrFormat rewinding past the cursor")
	}
}

func TestWriteCmdRejectsDecreasingTick(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.dmrp")
	w, err := Create(path, testOptions(nil))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer w.Close()

	if err := w.WriteCmd(5, sampleCmd(5, 1)); err != nil {
		t.Fatalf("WriteCmd: %v", err)
	}
	if err := w.WriteCmd(4, sampleCmd(4, 2)); err == nil {
		t.Fatalf("expected error writing a decreasing tick")
	}
}

func TestOpenRejectsContentHashTamper(t *testing.T) {
	dir := t.TempDir()
	path := writeRoundTrip(t, dir, []simcmd.Command{sampleCmd(1, 1)})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	// Flip a byte inside the content TLV payload (just past its 4-byte
	// length prefix, which starts immediately after the fixed header).
	tamperAt := headerSize + 4
	data[tamperAt] ^= 0xFF
	tampered := filepath.Join(dir, "tampered.dmrp")
	if err := os.WriteFile(tampered, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err = Open(tampered)
	if err == nil {
		t.Fatalf("expected content hash mismatch error")
	}
	cerr, ok := err.(*ContainerError)
	if !ok || cerr.Code != ErrFormat {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestOpenRejectsBadVersion(t *testing.T) {
	dir := t.TempDir()
	path := writeRoundTrip(t, dir, []simcmd.Command{sampleCmd(1, 1)})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	data[4] = 0xFF
	bad := filepath.Join(dir, "badversion.dmrp")
	if err := os.WriteFile(bad, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err = Open(bad)
	if err == nil {
		t.Fatalf("expected a version mismatch error")
	}
	cerr, ok := err.(*ContainerError)
	if !ok || cerr.Code != ErrMigration {
		t.Fatalf("expected ErrMigration, got %v", err)
	}
}

func TestOpenRejectsBadEndianSentinel(t *testing.T) {
	dir := t.TempDir()
	path := writeRoundTrip(t, dir, []simcmd.Command{sampleCmd(1, 1)})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	data[8] = 0x01
	bad := filepath.Join(dir, "badendian.dmrp")
	if err := os.WriteFile(bad, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err = Open(bad)
	if err == nil {
		t.Fatalf("expected a format error")
	}
	cerr, ok := err.(*ContainerError)
	if !ok || cerr.Code != ErrFormat {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestReadRecordsRejectsDecreasingTick(t *testing.T) {
	// Build a minimal container by hand so we can inject an
	// out-of-order record the Writer itself refuses to produce.
	dir := t.TempDir()
	path := filepath.Join(dir, "run.dmrp")
	w, err := Create(path, testOptions(nil))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := w.WriteCmd(5, sampleCmd(5, 1)); err != nil {
		t.Fatalf("WriteCmd: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	// Append a second record with an earlier tick directly.
	cmd := sampleCmd(2, 2)
	payload := simcmd.EncodeCmd(cmd)
	extra := make([]byte, 0, 16+len(payload))
	extra = appendU64LE(extra, 2)
	extra = appendU32LE(extra, uint32(RecordKindCmd))
	extra = appendU32LE(extra, uint32(len(payload)))
	extra = append(extra, payload...)
	data = append(data, extra...)

	bad := filepath.Join(dir, "outoforder.dmrp")
	if err := os.WriteFile(bad, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err = Open(bad)
	if err == nil {
		t.Fatalf("expected a non-decreasing tick violation")
	}
}

func appendU64LE(b []byte, v uint64) []byte {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	return append(b, buf[:]...)
}

func appendU32LE(b []byte, v uint32) []byte {
	var buf [4]byte
	for i := 0; i < 4; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	return append(b, buf[:]...)
}
