package replay

import "dominium.dev/core/wire"

// Format identification, matching dom_game_replay.cpp exactly.
const (
	Version        uint32 = 6
	EndianSentinel uint32 = 0x0000FFFE

	IdentityVersion uint32 = 1

	headerSize = 4 + 4 + 4 + 4 + 8 + 4 // magic + version + endian + ups + seed + feature_epoch
)

var magic = [4]byte{'D', 'M', 'R', 'P'}

// Identity TLV tags.
const (
	tagIdentitySchemaVersion uint32 = 1
	tagIdentityInstanceID    uint32 = 2
	tagIdentityRunID         uint32 = 3
	tagIdentityManifestHash  uint32 = 4
	tagIdentityContentHash   uint32 = 5
)

// BundleKind identifies one of the 8 fixed-order versioned bundle
// blobs a DMRP container always carries, in write/read order.
type BundleKind int

const (
	BundleMediaBindings BundleKind = iota
	BundleWeatherBindings
	BundleAeroProps
	BundleAeroState
	BundleMacroEconomy
	BundleMacroEvents
	BundleFactions
	BundleAIScheduler
	bundleCount
)

// bundleVersion is the version every bundle blob currently carries;
// all 8 are version 1 in the original container format.
const bundleVersion uint32 = 1

// RecordKind identifies the payload kind of a per-tick record.
type RecordKind uint32

// RecordKindCmd is the only record kind this reader collects into its
// records slice; other kinds are accepted and skipped without being
// counted.
const RecordKindCmd RecordKind = RecordKind(wire.MsgCmd)
