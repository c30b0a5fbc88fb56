// Package simcmd implements the deterministic command type and the
// bounded per-tick command queue that feeds the command applicator.
package simcmd

// Command is a single deterministic action submitted by a peer for
// application on a specific tick.
type Command struct {
	ID         uint64
	SourcePeer uint32
	Tick       uint64
	SchemaID   uint32
	SchemaVer  uint32
	Payload    []byte
}

// Clone returns a deep copy of c, used on enqueue so the queue never
// aliases caller-owned payload bytes.
func (c Command) Clone() Command {
	out := c
	if c.Payload != nil {
		out.Payload = append([]byte(nil), c.Payload...)
	}
	return out
}

// Less implements the canonical total order the applicator sorts
// commands by before applying them for a tick:
// (source_peer, id, schema_id, schema_ver, payload_len, payload bytes).
func Less(a, b Command) bool {
	if a.SourcePeer != b.SourcePeer {
		return a.SourcePeer < b.SourcePeer
	}
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	if a.SchemaID != b.SchemaID {
		return a.SchemaID < b.SchemaID
	}
	if a.SchemaVer != b.SchemaVer {
		return a.SchemaVer < b.SchemaVer
	}
	if len(a.Payload) != len(b.Payload) {
		return len(a.Payload) < len(b.Payload)
	}
	for i := range a.Payload {
		if a.Payload[i] != b.Payload[i] {
			return a.Payload[i] < b.Payload[i]
		}
	}
	return false
}
