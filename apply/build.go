package apply

import (
	"dominium.dev/core/fixedpoint"
	"dominium.dev/core/tlv"
	"dominium.dev/core/wire"
)

// SplineNode is one control point of a build command's spline path.
type SplineNode struct {
	X, Y, Z fixedpoint.Q48
}

// BuildRequest is the parsed, validated form of a BUILD_V1 command
// payload, ready for World.BuildCommit.
type BuildRequest struct {
	Kind                uint32
	StructureProtoID    uint32
	SplineProfileID     uint32
	PosX, PosY, PosZ    fixedpoint.Q48
	Pos2X, Pos2Y, Pos2Z fixedpoint.Q48
	RotYaw              fixedpoint.Q16
	OwnerOrgID          uint32
	Flags               uint32
	SplineNodes         []SplineNode
}

// ParseBuild decodes a BUILD_V1 TLV payload into a BuildRequest.
// Unknown tags are ignored; the spline node list is capped at
// wire.MaxSplineNodes, matching d_net_apply_build's bounds.
func ParseBuild(payload []byte) (BuildRequest, error) {
	entries, err := tlv.ReadAll(payload)
	if err != nil {
		return BuildRequest{}, err
	}

	var req BuildRequest
	if v, ok, err := tlv.FindU32LE(entries, wire.TagBuildKind); err != nil {
		return BuildRequest{}, err
	} else if ok {
		req.Kind = v
	}
	if v, ok, err := tlv.FindU32LE(entries, wire.TagBuildStructureProtoID); err != nil {
		return BuildRequest{}, err
	} else if ok {
		req.StructureProtoID = v
	}
	if v, ok, err := tlv.FindU32LE(entries, wire.TagBuildSplineProfileID); err != nil {
		return BuildRequest{}, err
	} else if ok {
		req.SplineProfileID = v
	}
	if v, ok, err := tlv.FindI64LE(entries, wire.TagBuildPosX); err != nil {
		return BuildRequest{}, err
	} else if ok {
		req.PosX = fixedpoint.Q48(v)
	}
	if v, ok, err := tlv.FindI64LE(entries, wire.TagBuildPosY); err != nil {
		return BuildRequest{}, err
	} else if ok {
		req.PosY = fixedpoint.Q48(v)
	}
	if v, ok, err := tlv.FindI64LE(entries, wire.TagBuildPosZ); err != nil {
		return BuildRequest{}, err
	} else if ok {
		req.PosZ = fixedpoint.Q48(v)
	}
	if v, ok, err := tlv.FindI64LE(entries, wire.TagBuildPos2X); err != nil {
		return BuildRequest{}, err
	} else if ok {
		req.Pos2X = fixedpoint.Q48(v)
	}
	if v, ok, err := tlv.FindI64LE(entries, wire.TagBuildPos2Y); err != nil {
		return BuildRequest{}, err
	} else if ok {
		req.Pos2Y = fixedpoint.Q48(v)
	}
	if v, ok, err := tlv.FindI64LE(entries, wire.TagBuildPos2Z); err != nil {
		return BuildRequest{}, err
	} else if ok {
		req.Pos2Z = fixedpoint.Q48(v)
	}
	if v, ok, err := tlv.FindU32LE(entries, wire.TagBuildRotYaw); err != nil {
		return BuildRequest{}, err
	} else if ok {
		req.RotYaw = fixedpoint.Q16(int32(v))
	}
	if v, ok, err := tlv.FindU32LE(entries, wire.TagBuildOwnerOrgID); err != nil {
		return BuildRequest{}, err
	} else if ok {
		req.OwnerOrgID = v
	}
	if v, ok, err := tlv.FindU32LE(entries, wire.TagBuildFlags); err != nil {
		return BuildRequest{}, err
	} else if ok {
		req.Flags = v
	}

	if raw, ok := tlv.Find(entries, wire.TagBuildSplineNodes); ok {
		nodes, err := parseSplineNodes(raw)
		if err != nil {
			return BuildRequest{}, err
		}
		req.SplineNodes = nodes
	}

	return req, nil
}

// parseSplineNodes decodes a u32 count followed by count 24-byte
// (x,y,z) i64 triples, rejecting anything past MaxSplineNodes.
func parseSplineNodes(raw []byte) ([]SplineNode, error) {
	c := tlv.NewCursor(raw)
	count, err := c.ReadU32LE()
	if err != nil {
		return nil, applyErr(ErrBadPayload, "spline node count truncated")
	}
	if count > wire.MaxSplineNodes {
		return nil, applyErr(ErrTooManySplines, "spline node count exceeds maximum")
	}
	nodes := make([]SplineNode, 0, count)
	for i := uint32(0); i < count; i++ {
		x, err := c.ReadI64LE()
		if err != nil {
			return nil, applyErr(ErrBadPayload, "spline node x truncated")
		}
		y, err := c.ReadI64LE()
		if err != nil {
			return nil, applyErr(ErrBadPayload, "spline node y truncated")
		}
		z, err := c.ReadI64LE()
		if err != nil {
			return nil, applyErr(ErrBadPayload, "spline node z truncated")
		}
		nodes = append(nodes, SplineNode{X: fixedpoint.Q48(x), Y: fixedpoint.Q48(y), Z: fixedpoint.Q48(z)})
	}
	return nodes, nil
}

// Builder is the subset of World a build command needs. BUILD_V1
// validates then commits; BUILD_V2 validates only — d_net_apply_build
// never calls a commit step for it ("No BUILD commit in this prompt.
// Intents are validated but not applied.").
type Builder interface {
	BuildValidate(req BuildRequest) error
	BuildCommit(req BuildRequest) error
	BuildValidateV2(req BuildRequestV2) error
}

// AnchorKind selects which field of a BuildRequestV2's anchor union is
// populated.
type AnchorKind uint32

const (
	AnchorUnset AnchorKind = iota
	AnchorTerrain
	AnchorCorridorTrans
	AnchorStructSurface
	AnchorRoomSurface
	AnchorSocket
)

// Pose is a rigid offset (position, rotation quaternion, incline and
// roll) applied on top of an anchor's base placement.
type Pose struct {
	PosX, PosY, PosZ       fixedpoint.Q48
	RotX, RotY, RotZ, RotW fixedpoint.Q48
	Incline, Roll          fixedpoint.Q48
}

// TerrainAnchor anchors a build to a terrain height sample.
type TerrainAnchor struct {
	U, V, H fixedpoint.Q48
}

// CorridorAnchor anchors a build to a point along a corridor
// alignment.
type CorridorAnchor struct {
	AlignmentID   uint64
	S, T, H, Roll fixedpoint.Q48
}

// SurfaceAnchor anchors a build to a parameterized surface; it is
// reused for both the struct-surface and room-surface anchor kinds.
type SurfaceAnchor struct {
	ID, SurfaceID uint64
	U, V, Offset  fixedpoint.Q48
}

// SocketAnchor anchors a build to a named attachment socket.
type SocketAnchor struct {
	SocketID uint64
	Param    fixedpoint.Q48
}

// BuildRequestV2 is the parsed, validated form of a BUILD_V2 command
// payload. Only the field matching AnchorKind is meaningful; the
// others carry their zero value. A v2 request is validate-only: it is
// never passed to World.BuildCommit.
type BuildRequestV2 struct {
	Kind             uint32
	StructureProtoID uint32
	SplineProfileID  uint32
	OwnerOrgID       uint32
	Flags            uint32

	AnchorKind AnchorKind
	HostFrame  uint64

	Terrain  TerrainAnchor
	Corridor CorridorAnchor
	Struct   SurfaceAnchor
	Room     SurfaceAnchor
	Socket   SocketAnchor

	Offset Pose
}

// ParseBuildV2 decodes a BUILD_V2 TLV payload into a BuildRequestV2,
// matching d_net_apply_build's field-by-field parse followed by an
// anchor-kind-dependent fan-out of the shared u/v/h/s/t/roll scratch
// values into the one anchor field that kind actually uses.
func ParseBuildV2(payload []byte) (BuildRequestV2, error) {
	entries, err := tlv.ReadAll(payload)
	if err != nil {
		return BuildRequestV2{}, err
	}

	var req BuildRequestV2
	var id0, id1 uint64
	var q0, q1, q2, q3 fixedpoint.Q48

	readU32 := func(tag uint32, dst *uint32) error {
		v, ok, err := tlv.FindU32LE(entries, tag)
		if err != nil {
			return err
		}
		if ok {
			*dst = v
		}
		return nil
	}
	readU64 := func(tag uint32, dst *uint64) error {
		v, ok, err := tlv.FindI64LE(entries, tag)
		if err != nil {
			return err
		}
		if ok {
			*dst = uint64(v)
		}
		return nil
	}
	readQ48 := func(tag uint32, dst *fixedpoint.Q48) error {
		v, ok, err := tlv.FindI64LE(entries, tag)
		if err != nil {
			return err
		}
		if ok {
			*dst = fixedpoint.Q48(v)
		}
		return nil
	}

	for _, f := range []struct {
		tag uint32
		dst *uint32
	}{
		{wire.TagBuild2Kind, &req.Kind},
		{wire.TagBuild2StructureProtoID, &req.StructureProtoID},
		{wire.TagBuild2SplineProfileID, &req.SplineProfileID},
		{wire.TagBuild2OwnerOrgID, &req.OwnerOrgID},
		{wire.TagBuild2Flags, &req.Flags},
	} {
		if err := readU32(f.tag, f.dst); err != nil {
			return BuildRequestV2{}, err
		}
	}

	var anchorKind uint32
	if err := readU32(wire.TagBuild2AnchorKind, &anchorKind); err != nil {
		return BuildRequestV2{}, err
	}
	req.AnchorKind = AnchorKind(anchorKind)
	if err := readU64(wire.TagBuild2HostFrame, &req.HostFrame); err != nil {
		return BuildRequestV2{}, err
	}

	for _, f := range []struct {
		tag uint32
		dst *fixedpoint.Q48
	}{
		{wire.TagBuild2TerrainU, &q0},
		{wire.TagBuild2TerrainV, &q1},
		{wire.TagBuild2TerrainH, &q2},
		{wire.TagBuild2CorridorS, &q0},
		{wire.TagBuild2CorridorT, &q1},
		{wire.TagBuild2CorridorH, &q2},
		{wire.TagBuild2CorridorRoll, &q3},
		{wire.TagBuild2StructU, &q0},
		{wire.TagBuild2StructV, &q1},
		{wire.TagBuild2StructOffset, &q2},
		{wire.TagBuild2RoomU, &q0},
		{wire.TagBuild2RoomV, &q1},
		{wire.TagBuild2RoomOffset, &q2},
		{wire.TagBuild2SocketParam, &q0},
	} {
		if err := readQ48(f.tag, f.dst); err != nil {
			return BuildRequestV2{}, err
		}
	}
	if err := readU64(wire.TagBuild2CorridorAlignmentID, &id0); err != nil {
		return BuildRequestV2{}, err
	}
	if err := readU64(wire.TagBuild2StructID, &id0); err != nil {
		return BuildRequestV2{}, err
	}
	if err := readU64(wire.TagBuild2StructSurfaceID, &id1); err != nil {
		return BuildRequestV2{}, err
	}
	if err := readU64(wire.TagBuild2RoomID, &id0); err != nil {
		return BuildRequestV2{}, err
	}
	if err := readU64(wire.TagBuild2RoomSurfaceID, &id1); err != nil {
		return BuildRequestV2{}, err
	}
	if err := readU64(wire.TagBuild2SocketID, &id0); err != nil {
		return BuildRequestV2{}, err
	}

	for _, f := range []struct {
		tag uint32
		dst *fixedpoint.Q48
	}{
		{wire.TagBuild2OffPosX, &req.Offset.PosX},
		{wire.TagBuild2OffPosY, &req.Offset.PosY},
		{wire.TagBuild2OffPosZ, &req.Offset.PosZ},
		{wire.TagBuild2OffRotX, &req.Offset.RotX},
		{wire.TagBuild2OffRotY, &req.Offset.RotY},
		{wire.TagBuild2OffRotZ, &req.Offset.RotZ},
		{wire.TagBuild2OffRotW, &req.Offset.RotW},
		{wire.TagBuild2OffIncline, &req.Offset.Incline},
		{wire.TagBuild2OffRoll, &req.Offset.Roll},
	} {
		if err := readQ48(f.tag, f.dst); err != nil {
			return BuildRequestV2{}, err
		}
	}

	switch req.AnchorKind {
	case AnchorTerrain:
		req.Terrain = TerrainAnchor{U: q0, V: q1, H: q2}
	case AnchorCorridorTrans:
		req.Corridor = CorridorAnchor{AlignmentID: id0, S: q0, T: q1, H: q2, Roll: q3}
	case AnchorStructSurface:
		req.Struct = SurfaceAnchor{ID: id0, SurfaceID: id1, U: q0, V: q1, Offset: q2}
	case AnchorRoomSurface:
		req.Room = SurfaceAnchor{ID: id0, SurfaceID: id1, U: q0, V: q1, Offset: q2}
	case AnchorSocket:
		req.Socket = SocketAnchor{SocketID: id0, Param: q0}
	}

	return req, nil
}
