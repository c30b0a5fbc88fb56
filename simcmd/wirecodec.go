package simcmd

import (
	"dominium.dev/core/tlv"
	"dominium.dev/core/wire"
)

// EncodeCmd frames cmd as a CMD-type wire message: a frame header
// wrapping a TLV envelope of ID/SOURCE/TICK/SCHEMA_ID/SCHEMA_VER/PAYLOAD
// entries, matching d_net_encode_cmd.
func EncodeCmd(cmd Command) []byte {
	var body []byte
	body = tlv.AppendEntry(body, wire.TagCmdID, tlv.PutU64LE(cmd.ID))
	body = tlv.AppendEntry(body, wire.TagCmdSource, tlv.PutU32LE(cmd.SourcePeer))
	body = tlv.AppendEntry(body, wire.TagCmdTick, tlv.PutU64LE(cmd.Tick))
	body = tlv.AppendEntry(body, wire.TagCmdSchemaID, tlv.PutU32LE(cmd.SchemaID))
	body = tlv.AppendEntry(body, wire.TagCmdSchemaVer, tlv.PutU32LE(cmd.SchemaVer))
	body = tlv.AppendEntry(body, wire.TagCmdPayload, cmd.Payload)
	return wire.EncodeFrame(wire.MsgCmd, body)
}

// DecodeCmd parses a CMD-type wire frame back into a Command. All six
// envelope tags must be present, matching d_net_decode_cmd's
// all-or-nothing requirement.
func DecodeCmd(data []byte) (Command, error) {
	typ, payload, err := wire.DecodeFrame(data)
	if err != nil {
		return Command{}, err
	}
	if typ != wire.MsgCmd {
		return Command{}, cmdErr(ErrBadSchema, "frame is not a CMD message")
	}
	entries, err := tlv.ReadAll(payload)
	if err != nil {
		return Command{}, err
	}

	id, haveID, err := tlv.FindU64LE(entries, wire.TagCmdID)
	if err != nil {
		return Command{}, err
	}
	source, haveSource, err := tlv.FindU32LE(entries, wire.TagCmdSource)
	if err != nil {
		return Command{}, err
	}
	tick, haveTick, err := tlv.FindU64LE(entries, wire.TagCmdTick)
	if err != nil {
		return Command{}, err
	}
	schemaID, haveSchemaID, err := tlv.FindU32LE(entries, wire.TagCmdSchemaID)
	if err != nil {
		return Command{}, err
	}
	schemaVer, haveSchemaVer, err := tlv.FindU32LE(entries, wire.TagCmdSchemaVer)
	if err != nil {
		return Command{}, err
	}
	payloadBytes, havePayload := tlv.Find(entries, wire.TagCmdPayload)

	if !haveID || !haveSource || !haveTick || !haveSchemaID || !haveSchemaVer || !havePayload {
		return Command{}, cmdErr(ErrBadPayload, "command envelope missing required tag")
	}

	return Command{
		ID:         id,
		SourcePeer: source,
		Tick:       tick,
		SchemaID:   schemaID,
		SchemaVer:  schemaVer,
		Payload:    append([]byte(nil), payloadBytes...),
	}, nil
}
