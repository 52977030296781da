package producer

import (
	"fmt"
	"io"

	"mcastprobe/internal/codec"
	"mcastprobe/internal/message"
)

// ConsoleReporter prints one timing block per sent message, matching
// the listener's report style.
type ConsoleReporter struct {
	W        io.Writer
	Format   codec.Format
	Compress bool
}

func (r *ConsoleReporter) Sent(m *message.Message, size int, digest uint64, t Timings) {
	fmt.Fprintf(r.W, "Sent message #%d\n", m.Counter)
	fmt.Fprintf(r.W, "Timing (ns):\n")
	if r.Format == codec.FormatJSON {
		fmt.Fprintf(r.W, "  JSON serialization: %d\n", t.Encode.Nanoseconds())
	} else {
		fmt.Fprintf(r.W, "  Binary encoding: %d\n", t.Encode.Nanoseconds())
	}
	if r.Compress {
		fmt.Fprintf(r.W, "  LZ4 compression: %d\n", t.Compress.Nanoseconds())
	}
	fmt.Fprintf(r.W, "  Network send: %d\n", t.Send.Nanoseconds())
	fmt.Fprintf(r.W, "  Total processing: %d\n", t.Total().Nanoseconds())
	fmt.Fprintf(r.W, "Message length: %d bytes (digest %016x)\n", size, digest)
	fmt.Fprintln(r.W, "--------------------------------------------------")
}
