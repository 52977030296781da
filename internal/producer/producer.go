// Package producer drives the send side: one message per tick, encoded
// in the configured format and handed to the transport, with each stage
// timed.
package producer

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash"

	"mcastprobe/internal/codec"
	"mcastprobe/internal/message"
	"mcastprobe/internal/metrics"
)

// Transport is the producer's view of the network: send one datagram
// to the group. Setup (group, port, TTL, interface) happened before the
// producer sees it.
type Transport interface {
	Send(b []byte) (int, error)
}

// Timings holds the per-stage durations of one send.
type Timings struct {
	Encode   time.Duration
	Compress time.Duration // zero when compression is off
	Send     time.Duration
}

// Total is the full processing time for the message.
func (t Timings) Total() time.Duration {
	return t.Encode + t.Compress + t.Send
}

// Reporter receives one event per sent message. Implementations decide
// how to present it; the loop itself never writes to the console.
type Reporter interface {
	Sent(m *message.Message, size int, digest uint64, t Timings)
}

type Config struct {
	Format   codec.Format
	Interval time.Duration
	Compress bool
}

type Producer struct {
	cfg     Config
	codec   codec.Codec
	tr      Transport
	rep     Reporter
	counter uint32
	now     func() time.Time
}

func New(cfg Config, c codec.Codec, tr Transport, rep Reporter) *Producer {
	return &Producer{
		cfg:   cfg,
		codec: c,
		tr:    tr,
		rep:   rep,
		now:   time.Now,
	}
}

// Counter returns the number of messages sent so far.
func (p *Producer) Counter() uint32 {
	return p.counter
}

// Run sends one message immediately, then one per interval, until the
// context is cancelled. A transport error aborts the run; per the
// probe's design there is no retry or backoff.
func (p *Producer) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		if err := p.sendOne(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (p *Producer) sendOne() error {
	m := message.New(p.counter, p.now())

	var t Timings
	encStart := time.Now()
	data, err := p.codec.Encode(m)
	t.Encode = time.Since(encStart)
	if err != nil {
		return fmt.Errorf("encode message %d: %w", m.Counter, err)
	}

	if p.cfg.Compress {
		compStart := time.Now()
		data, err = codec.Compress(data)
		t.Compress = time.Since(compStart)
		if err != nil {
			return fmt.Errorf("compress message %d: %w", m.Counter, err)
		}
	}

	sendStart := time.Now()
	n, err := p.tr.Send(data)
	t.Send = time.Since(sendStart)
	if err != nil {
		return fmt.Errorf("send message %d: %w", m.Counter, err)
	}

	metrics.MessagesSent.WithLabelValues(string(p.cfg.Format)).Inc()
	metrics.BytesSent.WithLabelValues(string(p.cfg.Format)).Add(float64(n))

	p.rep.Sent(m, n, xxhash.Sum64(data), t)
	p.counter++
	return nil
}
