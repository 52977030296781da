package codec

import (
	"bytes"
	"errors"
	"testing"

	"mcastprobe/internal/message"
)

func TestBinaryRoundTrip(t *testing.T) {
	in := &message.Message{
		SendTime:    1700000000123456789,
		HasSendTime: true,
		Counter:     42,
		Data: message.Payload{
			Temperature: 27.5, // exactly representable in float32
			Humidity:    64,
			Status:      message.StatusActive,
		},
	}

	data, err := BinaryCodec{}.Encode(in)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(data) != BinaryLen {
		t.Fatalf("Encode produced %d bytes, want %d", len(data), BinaryLen)
	}

	out, err := BinaryCodec{}.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if out.SendTime != in.SendTime {
		t.Errorf("SendTime: got %d, want %d", out.SendTime, in.SendTime)
	}
	if !out.HasSendTime {
		t.Error("HasSendTime: binary decode must always set it")
	}
	if out.Counter != in.Counter {
		t.Errorf("Counter: got %d, want %d", out.Counter, in.Counter)
	}
	if out.Data != in.Data {
		t.Errorf("Payload: got %+v, want %+v", out.Data, in.Data)
	}
}

func TestBinaryLayout(t *testing.T) {
	m := &message.Message{
		SendTime:    0x0102030405060708,
		HasSendTime: true,
		Counter:     0x0A0B0C0D,
		Data: message.Payload{
			Temperature: 1.0, // 0x3f800000
			Humidity:    2.0, // 0x40000000
			Status:      message.StatusActive,
		},
	}

	data, err := BinaryCodec{}.Encode(m)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, // send_time
		0x0A, 0x0B, 0x0C, 0x0D, // counter
		0x3F, 0x80, 0x00, 0x00, // temperature 1.0
		0x40, 0x00, 0x00, 0x00, // humidity 2.0
		0x01, // status active
	}
	if !bytes.Equal(data, want) {
		t.Errorf("layout mismatch:\n got %x\nwant %x", data, want)
	}
}

func TestBinaryFloat32Truncation(t *testing.T) {
	in := &message.Message{
		HasSendTime: true,
		Data:        message.Payload{Temperature: 25.500001, Humidity: 60.3, Status: message.StatusActive},
	}
	data, _ := BinaryCodec{}.Encode(in)
	out, err := BinaryCodec{}.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	// decoded values carry float32 precision, no more
	if out.Data.Temperature != float64(float32(in.Data.Temperature)) {
		t.Errorf("Temperature: got %v, want float32 truncation %v",
			out.Data.Temperature, float64(float32(in.Data.Temperature)))
	}
	if out.Data.Humidity != float64(float32(in.Data.Humidity)) {
		t.Errorf("Humidity: got %v, want float32 truncation %v",
			out.Data.Humidity, float64(float32(in.Data.Humidity)))
	}
}

func TestBinaryDecodeWrongLength(t *testing.T) {
	for _, n := range []int{0, 1, 20, 22, 100} {
		_, err := BinaryCodec{}.Decode(make([]byte, n))
		if err == nil {
			t.Errorf("Decode of %d bytes succeeded, want error", n)
			continue
		}
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Errorf("Decode of %d bytes: error %v is not a DecodeError", n, err)
		}
	}
}

func TestBinaryDecodeStatusByte(t *testing.T) {
	tests := []struct {
		b    byte
		want message.Status
	}{
		{0, message.StatusInactive},
		{1, message.StatusActive},
		{2, message.StatusInactive},
		{255, message.StatusInactive},
	}

	for _, tt := range tests {
		data := make([]byte, BinaryLen)
		data[20] = tt.b
		out, err := BinaryCodec{}.Decode(data)
		if err != nil {
			t.Fatalf("status byte %d: Decode failed: %v", tt.b, err)
		}
		if out.Data.Status != tt.want {
			t.Errorf("status byte %d: got %q, want %q", tt.b, out.Data.Status, tt.want)
		}
	}
}
