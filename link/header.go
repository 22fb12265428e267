package link

import "encoding/binary"

// PacketType identifies the content of a single-packet (non-fragmented)
// protocol message.
type PacketType byte

const (
	PacketIdentityExchange PacketType = 0x01
	PacketHandshakeBlob    PacketType = 0x02
	PacketUserMessage      PacketType = 0x03
	PacketRelayAck         PacketType = 0x04
	PacketQueueSync        PacketType = 0x05
	PacketPing             PacketType = 0x06
)

const headerSize = 3

// EncodeHeader wraps payload in the per-packet protocol header:
// type(1) | payload_len(2, big-endian) | payload.
func EncodeHeader(t PacketType, payload []byte) ([]byte, error) {
	if len(payload) > 0xFFFF {
		return nil, ErrPayloadTooLarge
	}
	out := make([]byte, headerSize+len(payload))
	out[0] = byte(t)
	binary.BigEndian.PutUint16(out[1:3], uint16(len(payload)))
	copy(out[3:], payload)
	return out, nil
}

// DecodeHeader parses a single-packet protocol message, returning its
// type and payload.
func DecodeHeader(data []byte) (PacketType, []byte, error) {
	if len(data) < headerSize {
		return 0, nil, ErrMalformedHeader
	}
	t := PacketType(data[0])
	length := binary.BigEndian.Uint16(data[1:3])
	if len(data) != headerSize+int(length) {
		return 0, nil, ErrMalformedHeader
	}
	return t, data[3:], nil
}
