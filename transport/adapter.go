// Package transport implements the abstract transport adapter: a
// set-once send/broadcast handle supplied by the host, a bounded
// control-event ring for inbound control messages, and CMD-frame
// routing into the command queue. It never opens a socket; the host
// owns every byte that crosses a process boundary and hands inbound
// packets to ReceivePacket, and this package hands outbound bytes back
// via the handle's SendToPeer/Broadcast callbacks.
package transport

import (
	"dominium.dev/core/simcmd"
	"dominium.dev/core/wire"
)

// SendFunc delivers data to a single peer.
type SendFunc func(userCtx any, peer uint32, data []byte) error

// BroadcastFunc delivers data to every connected peer.
type BroadcastFunc func(userCtx any, data []byte) error

// Handle is the host-supplied transport implementation. Both fields
// are required; SetTransport rejects a Handle missing either.
type Handle struct {
	UserCtx    any
	SendToPeer SendFunc
	Broadcast  BroadcastFunc
}

// initialEncodeCap and the doubling schedule below match
// d_net_transport.c's D_NET_SEND_TMP_STACK and retry loop exactly,
// even though Go has no stack/heap distinction for a byte slice — the
// point is the capacity schedule, not the allocation site. Retries
// start at 8*initialEncodeCap (16 KiB) and double through 16 MiB,
// which takes 11 attempts.
const (
	initialEncodeCap = 2048
	maxEncodeRetries = 11
	maxEncodeCap     = 16 * 1024 * 1024
)

// Adapter owns the set-once transport handle and the bounded control
// event ring for one simulation session.
type Adapter struct {
	handle Handle
	set    bool
	events eventRing
}

// NewAdapter returns an Adapter with no transport handle set.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// SetTransport installs h as the active transport. Both SendToPeer
// and Broadcast must be non-nil; otherwise the adapter is cleared and
// an error is returned, matching d_net_set_transport.
func (a *Adapter) SetTransport(h Handle) error {
	if h.SendToPeer == nil || h.Broadcast == nil {
		a.handle = Handle{}
		a.set = false
		return transportErr(ErrBadHandle, "send_to_peer and broadcast are both required")
	}
	a.handle = h
	a.set = true
	return nil
}

// Transport returns the active handle, or ok=false if none is set.
func (a *Adapter) Transport() (Handle, bool) {
	if !a.set {
		return Handle{}, false
	}
	return a.handle, true
}

// PollEvent pops the oldest queued control event, or ok=false if the
// ring is empty.
func (a *Adapter) PollEvent() (Event, bool) {
	return a.events.pop()
}

// ReceivePacket decodes an inbound frame. CMD frames are enqueued into
// queue, trusting the source_peer embedded in the command; the
// transport-level source argument is advisory only and not used for
// routing, matching d_net_receive_packet. Control frames are decoded
// into an Event and pushed onto the bounded event ring; an unknown
// message type is accepted and silently dropped.
func (a *Adapter) ReceivePacket(session uint64, source uint32, data []byte, queue *simcmd.Queue) error {
	if len(data) == 0 {
		return transportErr(ErrBadHandle, "empty packet")
	}
	typ, payload, err := wire.DecodeFrame(data)
	if err != nil {
		return err
	}

	if typ == wire.MsgCmd {
		cmd, err := simcmd.DecodeCmd(data)
		if err != nil {
			return err
		}
		return queue.Enqueue(cmd)
	}

	evType, ok := controlEventType(typ)
	if !ok {
		return nil
	}
	ev := Event{
		Type:       evType,
		Session:    session,
		SourcePeer: source,
		Payload:    append([]byte(nil), payload...),
	}
	return a.events.push(ev)
}

func controlEventType(typ wire.MsgType) (EventType, bool) {
	switch typ {
	case wire.MsgHandshake:
		return EventHandshake, true
	case wire.MsgHandshakeReply:
		return EventHandshakeReply, true
	case wire.MsgSnapshot:
		return EventSnapshot, true
	case wire.MsgTick:
		return EventTick, true
	case wire.MsgHash:
		return EventHash, true
	case wire.MsgError:
		return EventError, true
	default:
		return EventNone, false
	}
}

// Encoder produces the wire bytes for a single outbound message. It
// returns ErrBufferTooSmall when buf cannot hold the encoded form, so
// sendWithEncoder can retry with a larger buffer.
type Encoder func(buf []byte) (n int, err error)

// SendWithEncoder encodes via enc into a growing buffer and delivers
// the result to peer, retrying with a doubling buffer on
// ErrBufferTooSmall up to a 16 MiB hard cap, matching
// d_net_send_with_encoder.
func (a *Adapter) SendWithEncoder(peer uint32, enc Encoder) error {
	if !a.set {
		return transportErr(ErrNoTransport, "no transport set")
	}
	data, err := encodeWithRetry(enc)
	if err != nil {
		return err
	}
	return a.handle.SendToPeer(a.handle.UserCtx, peer, data)
}

// BroadcastWithEncoder is SendWithEncoder's broadcast counterpart.
func (a *Adapter) BroadcastWithEncoder(enc Encoder) error {
	if !a.set {
		return transportErr(ErrNoTransport, "no transport set")
	}
	data, err := encodeWithRetry(enc)
	if err != nil {
		return err
	}
	return a.handle.Broadcast(a.handle.UserCtx, data)
}

func encodeWithRetry(enc Encoder) ([]byte, error) {
	if enc == nil {
		return nil, transportErr(ErrNoEncoder, "encoder is nil")
	}
	buf := make([]byte, initialEncodeCap)
	n, err := enc(buf)
	if err == nil {
		return buf[:n], nil
	}
	if !isBufferTooSmall(err) {
		return nil, err
	}

	bufCap := initialEncodeCap * 8
	for attempt := 0; attempt < maxEncodeRetries; attempt++ {
		buf = make([]byte, bufCap)
		n, err = enc(buf)
		if err == nil {
			return buf[:n], nil
		}
		if !isBufferTooSmall(err) {
			return nil, err
		}
		bufCap *= 2
		if bufCap > maxEncodeCap {
			break
		}
	}
	return nil, transportErr(ErrPayloadTooLarge, "encoded message exceeds 16 MiB hard cap")
}

func isBufferTooSmall(err error) bool {
	te, ok := err.(*TransportError)
	return ok && te.Code == ErrBufferTooSmall
}
