package codec

import (
	"encoding/json"
	"math"
	"strconv"
	"unicode/utf8"

	"mcastprobe/internal/message"
)

// JSONCodec implements the self-describing text format: a UTF-8 JSON
// object with timestamp, send_time, counter and data keys.
type JSONCodec struct{}

// jsonMessage is the wire shape. SendTime is kept as a raw number so
// decode can accept both integer nanoseconds and fractional seconds,
// and detect absence.
type jsonMessage struct {
	Timestamp string          `json:"timestamp,omitempty"`
	SendTime  *json.Number    `json:"send_time,omitempty"`
	Counter   uint32          `json:"counter"`
	Data      message.Payload `json:"data"`
}

func (JSONCodec) Encode(m *message.Message) ([]byte, error) {
	wire := jsonMessage{
		Timestamp: m.Timestamp,
		Counter:   m.Counter,
		Data:      m.Data,
	}
	if m.HasSendTime {
		n := json.Number(strconv.FormatInt(m.SendTime, 10))
		wire.SendTime = &n
	}
	return json.Marshal(wire)
}

// Decode parses a UTF-8 JSON datagram. A missing send_time field is not
// an error: the message is structurally valid, latency is just not
// computable for it (HasSendTime stays false).
func (JSONCodec) Decode(data []byte) (*message.Message, error) {
	if !utf8.Valid(data) {
		return nil, decodeErrorf(nil, "datagram is not valid UTF-8")
	}
	var wire jsonMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, decodeErrorf(err, "malformed JSON")
	}
	m := &message.Message{
		Timestamp: wire.Timestamp,
		Counter:   wire.Counter,
		Data:      wire.Data,
	}
	if wire.SendTime != nil {
		ns, err := normalizeSendTime(*wire.SendTime)
		if err != nil {
			return nil, decodeErrorf(err, "bad send_time %q", wire.SendTime.String())
		}
		m.SendTime = ns
		m.HasSendTime = true
	}
	return m, nil
}

// normalizeSendTime maps the two accepted send_time encodings to Unix
// nanoseconds: an integer is already nanoseconds, a fractional number is
// seconds and is scaled by 1e9 (rounded to nearest).
func normalizeSendTime(n json.Number) (int64, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f * 1e9)), nil
}
