// Package listener drives the receive side: block on the transport,
// decode each datagram, track end-to-end latency and report. A bad
// datagram is reported and skipped; the loop only stops on transport
// failure or shutdown.
package listener

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/cespare/xxhash"

	"mcastprobe/internal/codec"
	"mcastprobe/internal/mcast"
	"mcastprobe/internal/message"
	"mcastprobe/internal/metrics"
	"mcastprobe/internal/stats"
)

// Transport is the listener's view of the network: block until the
// next datagram. No deadline is used; shutdown closes the transport
// underneath the pending read.
type Transport interface {
	Receive(buf []byte) (int, *net.UDPAddr, error)
}

// Timings holds the per-stage durations of one received datagram.
type Timings struct {
	Receive    time.Duration
	Decompress time.Duration // zero when compression is off
	Decode     time.Duration
}

func (t Timings) Total() time.Duration {
	return t.Receive + t.Decompress + t.Decode
}

// Report is one successfully decoded message. Latency and Stats are
// only meaningful when the message carried a send_time (HasLatency).
type Report struct {
	Src        *net.UDPAddr
	Msg        *message.Message
	Digest     uint64 // xxhash of the raw datagram
	Timings    Timings
	Latency    time.Duration
	HasLatency bool
	Stats      stats.Summary
	HasStats   bool
}

// Reporter receives one event per datagram. The raw slice passed to
// DecodeFailure is only valid for the duration of the call.
type Reporter interface {
	Message(r Report)
	DecodeFailure(src *net.UDPAddr, raw []byte, err error, t Timings)
}

type Config struct {
	Format   codec.Format
	Compress bool
	Window   int // latency window capacity, 0 means stats.DefaultWindow
}

type Listener struct {
	cfg     Config
	codec   codec.Codec
	tr      Transport
	tracker *stats.Tracker
	rep     Reporter
	now     func() time.Time
}

func New(cfg Config, c codec.Codec, tr Transport, rep Reporter) *Listener {
	return &Listener{
		cfg:     cfg,
		codec:   c,
		tr:      tr,
		tracker: stats.NewTracker(cfg.Window),
		rep:     rep,
		now:     time.Now,
	}
}

// Tracker exposes the rolling latency window, mainly for shutdown
// summaries.
func (l *Listener) Tracker() *stats.Tracker {
	return l.tracker
}

// Run receives until the context is cancelled or the transport fails.
// Decode failures never terminate the loop.
func (l *Listener) Run(ctx context.Context) error {
	buf := make([]byte, mcast.MaxDatagramSize)

	for {
		recvStart := time.Now()
		n, src, err := l.tr.Receive(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("receive: %w", err)
		}

		t := Timings{Receive: time.Since(recvStart)}
		raw := buf[:n]
		digest := xxhash.Sum64(raw)

		data := raw
		if l.cfg.Compress {
			decompStart := time.Now()
			data, err = codec.Decompress(raw)
			t.Decompress = time.Since(decompStart)
			if err != nil {
				metrics.DecodeErrors.WithLabelValues(string(l.cfg.Format)).Inc()
				l.rep.DecodeFailure(src, raw, err, t)
				continue
			}
		}

		decodeStart := time.Now()
		m, err := l.codec.Decode(data)
		t.Decode = time.Since(decodeStart)
		if err != nil {
			metrics.DecodeErrors.WithLabelValues(string(l.cfg.Format)).Inc()
			l.rep.DecodeFailure(src, raw, err, t)
			continue
		}

		metrics.MessagesReceived.WithLabelValues(string(l.cfg.Format)).Inc()

		r := Report{Src: src, Msg: m, Digest: digest, Timings: t}
		if m.HasSendTime {
			latency := l.now().UnixNano() - m.SendTime
			l.tracker.Add(latency)
			metrics.E2ELatency.WithLabelValues(string(l.cfg.Format)).Observe(float64(latency) / 1e9)
			r.Latency = time.Duration(latency)
			r.HasLatency = true
			if s, ok := l.tracker.Summary(); ok {
				r.Stats = s
				r.HasStats = true
			}
		}
		l.rep.Message(r)
	}
}
