package wire

// Schema IDs, one per command/control payload shape, matching
// d_net_schema.h exactly.
const (
	SchemaHandshake      uint32 = 0x1101
	SchemaHandshakeReply uint32 = 0x1102
	SchemaSnapshot       uint32 = 0x1201
	SchemaTick           uint32 = 0x1202
	SchemaHash           uint32 = 0x1203

	SchemaCmdInput     uint32 = 0x1001
	SchemaCmdBuildV1   uint32 = 0x1002
	SchemaCmdBlueprint uint32 = 0x1003
	SchemaCmdPolicy    uint32 = 0x1004
	SchemaCmdResearch  uint32 = 0x1005
	SchemaCmdBuildV2   uint32 = 0x1006
)

// ProtoVersion is the protocol version carried in handshake payloads.
const ProtoVersion uint32 = 1

// Command envelope TLV tags (wrap a Command for wire transmission).
const (
	TagCmdID        uint32 = 0x01
	TagCmdSource    uint32 = 0x02
	TagCmdTick      uint32 = 0x03
	TagCmdSchemaID  uint32 = 0x04
	TagCmdSchemaVer uint32 = 0x05
	TagCmdPayload   uint32 = 0x06
)

// BUILD_V1 payload TLV tags.
const (
	TagBuildKind             uint32 = 0x01
	TagBuildStructureProtoID uint32 = 0x02
	TagBuildSplineProfileID  uint32 = 0x03
	TagBuildPosX             uint32 = 0x04
	TagBuildPosY             uint32 = 0x05
	TagBuildPosZ             uint32 = 0x06
	TagBuildPos2X            uint32 = 0x07
	TagBuildPos2Y            uint32 = 0x08
	TagBuildPos2Z            uint32 = 0x09
	TagBuildRotYaw           uint32 = 0x0A
	TagBuildOwnerOrgID       uint32 = 0x0B
	TagBuildFlags            uint32 = 0x0C
	TagBuildSplineNodes      uint32 = 0x0D
)

// MaxSplineNodes bounds the spline node list in a BUILD_V1 payload.
const MaxSplineNodes = 16

// BUILD_V2 payload TLV tags. v2 replaces v1's flat pos/yaw placement
// with an anchor (terrain, corridor, structure/room surface, or
// socket) plus a pose offset on top of it; a v2 command is validated
// but never committed.
const (
	TagBuild2Kind             uint32 = 0x01
	TagBuild2StructureProtoID uint32 = 0x02
	TagBuild2SplineProfileID  uint32 = 0x03
	TagBuild2OwnerOrgID       uint32 = 0x04
	TagBuild2Flags            uint32 = 0x05

	TagBuild2AnchorKind uint32 = 0x06
	TagBuild2HostFrame  uint32 = 0x07

	TagBuild2TerrainU uint32 = 0x08
	TagBuild2TerrainV uint32 = 0x09
	TagBuild2TerrainH uint32 = 0x0A

	TagBuild2CorridorAlignmentID uint32 = 0x0B
	TagBuild2CorridorS           uint32 = 0x0C
	TagBuild2CorridorT           uint32 = 0x0D
	TagBuild2CorridorH           uint32 = 0x0E
	TagBuild2CorridorRoll        uint32 = 0x0F

	TagBuild2StructID        uint32 = 0x10
	TagBuild2StructSurfaceID uint32 = 0x11
	TagBuild2StructU         uint32 = 0x12
	TagBuild2StructV         uint32 = 0x13
	TagBuild2StructOffset    uint32 = 0x14

	TagBuild2RoomID        uint32 = 0x15
	TagBuild2RoomSurfaceID uint32 = 0x16
	TagBuild2RoomU         uint32 = 0x17
	TagBuild2RoomV         uint32 = 0x18
	TagBuild2RoomOffset    uint32 = 0x19

	TagBuild2SocketID    uint32 = 0x1A
	TagBuild2SocketParam uint32 = 0x1B

	TagBuild2OffPosX   uint32 = 0x1C
	TagBuild2OffPosY   uint32 = 0x1D
	TagBuild2OffPosZ   uint32 = 0x1E
	TagBuild2OffRotX   uint32 = 0x1F
	TagBuild2OffRotY   uint32 = 0x20
	TagBuild2OffRotZ   uint32 = 0x21
	TagBuild2OffRotW   uint32 = 0x22
	TagBuild2OffIncline uint32 = 0x23
	TagBuild2OffRoll    uint32 = 0x24
)

// RESEARCH_V1 payload TLV tags.
const (
	TagResearchOrgID    uint32 = 0x01
	TagResearchActiveID uint32 = 0x02
)

// Handshake/snapshot/tick/hash payload TLV tags (control messages,
// not dispatched through the command applicator, but part of the
// wire surface a transport adapter must be able to frame).
const (
	TagHandshakeProtoVersion uint32 = 0x01
	TagHandshakeSessionID    uint32 = 0x02
	TagHandshakeRole         uint32 = 0x03
	TagHandshakeTickRate     uint32 = 0x04
	TagHandshakeInputDelay   uint32 = 0x05

	TagHandshakeReplyAccepted uint32 = 0x01
	TagHandshakeReplyPeerID   uint32 = 0x02
	TagHandshakeReplyTick     uint32 = 0x03
	TagHandshakeReplySession  uint32 = 0x04
	TagHandshakeReplyTickRate uint32 = 0x05
	TagHandshakeReplyReason   uint32 = 0x06

	TagSnapshotTick uint32 = 0x01
	TagSnapshotData uint32 = 0x02

	TagTickTick uint32 = 0x01

	TagHashTick  uint32 = 0x01
	TagHashWorld uint32 = 0x02
)
