package message

import "time"

// Status is the on/off state carried in each telemetry message.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Payload holds the sensor readings of a message.
type Payload struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Status      Status  `json:"status"`
}

// Message is one telemetry sample as sent over the wire. SendTime is the
// producer's clock in Unix nanoseconds and is what latency is computed
// against; Timestamp is a human-readable copy for display only.
//
// HasSendTime is false when a text-format message arrived without a
// send_time field. The binary format always carries one.
type Message struct {
	Timestamp   string  `json:"timestamp,omitempty"`
	SendTime    int64   `json:"send_time"`
	HasSendTime bool    `json:"-"`
	Counter     uint32  `json:"counter"`
	Data        Payload `json:"data"`
}

// New builds the message for the given tick. The payload follows the
// probe's synthetic pattern: temperature and humidity cycle with the
// counter so consecutive messages are distinguishable on the wire.
func New(counter uint32, now time.Time) *Message {
	return &Message{
		Timestamp:   now.Format(time.RFC3339Nano),
		SendTime:    now.UnixNano(),
		HasSendTime: true,
		Counter:     counter,
		Data: Payload{
			Temperature: 25.5 + float64(counter%10),
			Humidity:    60 + float64(counter%20),
			Status:      StatusActive,
		},
	}
}
