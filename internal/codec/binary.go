package codec

import (
	"encoding/binary"
	"math"

	"mcastprobe/internal/message"
)

// BinaryLen is the exact size of a binary-format datagram.
const BinaryLen = 21

// BinaryCodec implements the fixed-layout binary format, big-endian:
//
//	offset 0  u64 send_time (Unix nanoseconds)
//	offset 8  u32 counter
//	offset 12 f32 temperature
//	offset 16 f32 humidity
//	offset 20 u8  status (1 = active, anything else = inactive)
type BinaryCodec struct{}

func (BinaryCodec) Encode(m *message.Message) ([]byte, error) {
	buf := make([]byte, BinaryLen)
	binary.BigEndian.PutUint64(buf[0:8], uint64(m.SendTime))
	binary.BigEndian.PutUint32(buf[8:12], m.Counter)
	binary.BigEndian.PutUint32(buf[12:16], math.Float32bits(float32(m.Data.Temperature)))
	binary.BigEndian.PutUint32(buf[16:20], math.Float32bits(float32(m.Data.Humidity)))
	if m.Data.Status == message.StatusActive {
		buf[20] = 1
	}
	return buf, nil
}

// Decode rejects anything that is not exactly BinaryLen bytes; a fixed
// layout has no other structural failure mode. A status byte other than
// 1 decodes to inactive, not to an error.
func (BinaryCodec) Decode(data []byte) (*message.Message, error) {
	if len(data) != BinaryLen {
		return nil, decodeErrorf(nil, "binary datagram is %d bytes, want %d", len(data), BinaryLen)
	}
	status := message.StatusInactive
	if data[20] == 1 {
		status = message.StatusActive
	}
	return &message.Message{
		SendTime:    int64(binary.BigEndian.Uint64(data[0:8])),
		HasSendTime: true,
		Counter:     binary.BigEndian.Uint32(data[8:12]),
		Data: message.Payload{
			Temperature: float64(math.Float32frombits(binary.BigEndian.Uint32(data[12:16]))),
			Humidity:    float64(math.Float32frombits(binary.BigEndian.Uint32(data[16:20]))),
			Status:      status,
		},
	}, nil
}
