package simcmd

import (
	"testing"

	"dominium.dev/core/wire"
)

func TestEncodeDecodeCmdRoundTrip(t *testing.T) {
	cmd := Command{
		ID:         42,
		SourcePeer: 7,
		Tick:       100,
		SchemaID:   0x1002,
		SchemaVer:  1,
		Payload:    []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}
	data := EncodeCmd(cmd)
	got, err := DecodeCmd(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != cmd.ID || got.SourcePeer != cmd.SourcePeer || got.Tick != cmd.Tick ||
		got.SchemaID != cmd.SchemaID || got.SchemaVer != cmd.SchemaVer {
		t.Fatalf("got %+v, want %+v", got, cmd)
	}
	if string(got.Payload) != string(cmd.Payload) {
		t.Fatalf("payload mismatch: got %x, want %x", got.Payload, cmd.Payload)
	}
}

func TestDecodeCmdMissingTag(t *testing.T) {
	cmd := Command{ID: 1, SourcePeer: 1, Tick: 1, SchemaID: 1, SchemaVer: 1}
	data := EncodeCmd(cmd)
	// Drop the trailing PAYLOAD entry (an 8-byte header with no bytes)
	// and re-frame the rest, so the envelope lacks the PAYLOAD tag.
	_, body, err := wire.DecodeFrame(data)
	if err != nil {
		t.Fatal(err)
	}
	truncated := wire.EncodeFrame(wire.MsgCmd, body[:len(body)-8])
	_, err = DecodeCmd(truncated)
	if err == nil {
		t.Fatal("expected error for truncated command frame")
	}
}
