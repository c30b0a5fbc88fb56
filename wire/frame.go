package wire

import (
	"encoding/binary"
	"fmt"
)

// Frame magic bytes and header layout, matching d_net_proto.c exactly:
// ['D','N','M', version, type, reserved[3], payload_len:u32].
const (
	FrameMagic0   = 'D'
	FrameMagic1   = 'N'
	FrameMagic2   = 'M'
	FrameVersion1 = 1
	HeaderSize    = 12
)

// MsgType identifies the payload schema carried by a frame.
type MsgType uint8

const (
	MsgNone            MsgType = 0
	MsgHandshake       MsgType = 1
	MsgHandshakeReply  MsgType = 2
	MsgSnapshot        MsgType = 3
	MsgTick            MsgType = 4
	MsgCmd             MsgType = 5
	MsgHash            MsgType = 6
	MsgError           MsgType = 7
	MsgQoS             MsgType = 8
)

// EncodeFrame writes the 12-byte frame header followed by payload.
func EncodeFrame(typ MsgType, payload []byte) []byte {
	out := make([]byte, HeaderSize+len(payload))
	out[0] = FrameMagic0
	out[1] = FrameMagic1
	out[2] = FrameMagic2
	out[3] = FrameVersion1
	out[4] = byte(typ)
	// out[5:8] reserved, left zero.
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(payload)))
	copy(out[HeaderSize:], payload)
	return out
}

// DecodeFrame validates the frame header and returns the message type
// and payload slice (a view into data, not a copy).
func DecodeFrame(data []byte) (MsgType, []byte, error) {
	if len(data) < HeaderSize {
		return 0, nil, wireErr(ErrTruncated, fmt.Sprintf("frame shorter than header: %d bytes", len(data)))
	}
	if data[0] != FrameMagic0 || data[1] != FrameMagic1 || data[2] != FrameMagic2 {
		return 0, nil, wireErr(ErrBadMagic, "bad frame magic")
	}
	if data[3] != FrameVersion1 {
		return 0, nil, wireErr(ErrBadVersion, fmt.Sprintf("unsupported frame version %d", data[3]))
	}
	typ := MsgType(data[4])
	payloadLen := binary.LittleEndian.Uint32(data[8:12])
	if int(payloadLen) > len(data)-HeaderSize {
		return 0, nil, wireErr(ErrBadLength, "payload_len exceeds frame size")
	}
	payload := data[HeaderSize : HeaderSize+int(payloadLen)]
	return typ, payload, nil
}

// tlvLen returns the on-wire length of a TLV entry carrying payload.
func tlvLen(payload []byte) int {
	return 8 + len(payload)
}
