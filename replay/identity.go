package replay

import (
	"github.com/google/uuid"

	"dominium.dev/core/tlv"
)

// identity is the decoded form of a DMRP container's identity TLV.
type identity struct {
	SchemaVersion uint32
	InstanceID    uuid.UUID
	RunID         uint64
	ManifestHash  [32]byte
	ContentHash   uint64
}

func encodeIdentity(id identity) []byte {
	var body []byte
	body = tlv.AppendEntry(body, tagIdentitySchemaVersion, tlv.PutU32LE(id.SchemaVersion))
	instanceBytes, _ := id.InstanceID.MarshalBinary()
	body = tlv.AppendEntry(body, tagIdentityInstanceID, instanceBytes)
	body = tlv.AppendEntry(body, tagIdentityRunID, tlv.PutU64LE(id.RunID))
	body = tlv.AppendEntry(body, tagIdentityManifestHash, id.ManifestHash[:])
	body = tlv.AppendEntry(body, tagIdentityContentHash, tlv.PutU64LE(id.ContentHash))
	return body
}

func decodeIdentity(raw []byte) (identity, error) {
	entries, err := tlv.ReadAll(raw)
	if err != nil {
		return identity{}, replayErr(ErrFormat, "malformed identity TLV")
	}

	var out identity
	schemaVersion, ok, err := tlv.FindU32LE(entries, tagIdentitySchemaVersion)
	if err != nil || !ok {
		return identity{}, replayErr(ErrFormat, "identity missing schema_version")
	}
	out.SchemaVersion = schemaVersion
	if out.SchemaVersion != IdentityVersion {
		return identity{}, replayErr(ErrFormat, "identity schema_version mismatch")
	}

	if instanceBytes, ok := tlv.Find(entries, tagIdentityInstanceID); ok {
		id, err := uuid.FromBytes(instanceBytes)
		if err != nil {
			return identity{}, replayErr(ErrFormat, "malformed instance_id")
		}
		out.InstanceID = id
	}

	runID, _, err := tlv.FindU64LE(entries, tagIdentityRunID)
	if err != nil {
		return identity{}, replayErr(ErrFormat, "malformed run_id")
	}
	out.RunID = runID

	if manifestBytes, ok := tlv.Find(entries, tagIdentityManifestHash); ok {
		if len(manifestBytes) != 32 {
			return identity{}, replayErr(ErrFormat, "malformed manifest_hash")
		}
		copy(out.ManifestHash[:], manifestBytes)
	}

	contentHash, ok, err := tlv.FindU64LE(entries, tagIdentityContentHash)
	if err != nil || !ok {
		return identity{}, replayErr(ErrFormat, "identity missing content_hash")
	}
	out.ContentHash = contentHash

	return out, nil
}
