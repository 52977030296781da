package producer

import (
	"context"
	"errors"
	"testing"
	"time"

	"mcastprobe/internal/codec"
	"mcastprobe/internal/message"
)

// captureTransport records every datagram handed to it.
type captureTransport struct {
	sent [][]byte
	err  error
}

func (c *captureTransport) Send(b []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.sent = append(c.sent, append([]byte(nil), b...))
	return len(b), nil
}

type countingReporter struct {
	events []Timings
	sizes  []int
}

func (r *countingReporter) Sent(m *message.Message, size int, digest uint64, t Timings) {
	r.events = append(r.events, t)
	r.sizes = append(r.sizes, size)
}

func newTestProducer(cfg Config, c codec.Codec, tr Transport, rep Reporter) *Producer {
	p := New(cfg, c, tr, rep)
	p.now = func() time.Time { return time.Unix(1700000000, 0) }
	return p
}

func TestProducerCounterAndPayload(t *testing.T) {
	tr := &captureTransport{}
	rep := &countingReporter{}
	p := newTestProducer(Config{Format: codec.FormatBinary, Interval: time.Millisecond}, codec.BinaryCodec{}, tr, rep)

	for i := 0; i < 3; i++ {
		if err := p.sendOne(); err != nil {
			t.Fatalf("send %d failed: %v", i, err)
		}
	}

	if p.Counter() != 3 {
		t.Fatalf("Counter: got %d, want 3", p.Counter())
	}
	if len(tr.sent) != 3 {
		t.Fatalf("transport saw %d datagrams, want 3", len(tr.sent))
	}

	for i, d := range tr.sent {
		m, err := (codec.BinaryCodec{}).Decode(d)
		if err != nil {
			t.Fatalf("datagram %d does not decode: %v", i, err)
		}
		if m.Counter != uint32(i) {
			t.Errorf("datagram %d: Counter = %d, want %d (strictly increasing from 0)", i, m.Counter, i)
		}
		wantTemp := 25.5 + float64(i%10)
		wantHum := 60 + float64(i%20)
		if m.Data.Temperature != wantTemp || m.Data.Humidity != wantHum {
			t.Errorf("datagram %d: payload %+v, want temp %v hum %v", i, m.Data, wantTemp, wantHum)
		}
		if m.Data.Status != message.StatusActive {
			t.Errorf("datagram %d: Status = %q, want active", i, m.Data.Status)
		}
		if !m.HasSendTime || m.SendTime != time.Unix(1700000000, 0).UnixNano() {
			t.Errorf("datagram %d: SendTime = %d (has=%v)", i, m.SendTime, m.HasSendTime)
		}
	}

	if len(rep.events) != 3 {
		t.Errorf("reporter saw %d events, want 3", len(rep.events))
	}
	for i, size := range rep.sizes {
		if size != codec.BinaryLen {
			t.Errorf("event %d: size %d, want %d", i, size, codec.BinaryLen)
		}
	}
}

func TestProducerRunStopsOnCancel(t *testing.T) {
	tr := &captureTransport{}
	rep := &countingReporter{}
	p := newTestProducer(Config{Format: codec.FormatJSON, Interval: time.Hour}, codec.JSONCodec{}, tr, rep)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// the first send happens before the cancelled context is observed
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(tr.sent) != 1 {
		t.Fatalf("transport saw %d datagrams, want exactly 1", len(tr.sent))
	}
	if _, err := (codec.JSONCodec{}).Decode(tr.sent[0]); err != nil {
		t.Errorf("sent datagram does not decode: %v", err)
	}
}

func TestProducerSendErrorIsFatal(t *testing.T) {
	wantErr := errors.New("network unreachable")
	tr := &captureTransport{err: wantErr}
	p := newTestProducer(Config{Format: codec.FormatBinary, Interval: time.Millisecond}, codec.BinaryCodec{}, tr, &countingReporter{})

	err := p.Run(context.Background())
	if err == nil {
		t.Fatal("Run succeeded, want send error to propagate")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("Run error %v does not wrap %v", err, wantErr)
	}
}

func TestProducerCompressedDatagramDecodes(t *testing.T) {
	tr := &captureTransport{}
	p := newTestProducer(Config{Format: codec.FormatJSON, Interval: time.Millisecond, Compress: true}, codec.JSONCodec{}, tr, &countingReporter{})

	if err := p.sendOne(); err != nil {
		t.Fatalf("sendOne failed: %v", err)
	}

	unpacked, err := codec.Decompress(tr.sent[0])
	if err != nil {
		t.Fatalf("datagram is not an LZ4 frame: %v", err)
	}
	m, err := (codec.JSONCodec{}).Decode(unpacked)
	if err != nil {
		t.Fatalf("decompressed datagram does not decode: %v", err)
	}
	if m.Counter != 0 {
		t.Errorf("Counter: got %d, want 0", m.Counter)
	}
}
