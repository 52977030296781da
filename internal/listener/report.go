package listener

import (
	"encoding/json"
	"fmt"
	"io"
	"net"

	"github.com/cespare/xxhash"

	"mcastprobe/internal/codec"
)

const separator = "--------------------------------------------------"

// ConsoleReporter prints each received message with its timing
// breakdown and the rolling latency line, and a hex dump for datagrams
// that failed to decode.
type ConsoleReporter struct {
	W      io.Writer
	Format codec.Format
}

func (r *ConsoleReporter) Message(rep Report) {
	fmt.Fprintf(r.W, "\nReceived from %s\n", rep.Src)

	body, err := json.MarshalIndent(rep.Msg, "", "  ")
	if err != nil {
		fmt.Fprintf(r.W, "Message: %+v\n", rep.Msg)
	} else {
		fmt.Fprintf(r.W, "Message: %s\n", body)
	}

	fmt.Fprintf(r.W, "Timing (ns):\n")
	fmt.Fprintf(r.W, "  Network receive: %d\n", rep.Timings.Receive.Nanoseconds())
	if rep.Timings.Decompress > 0 {
		fmt.Fprintf(r.W, "  LZ4 decompression: %d\n", rep.Timings.Decompress.Nanoseconds())
	}
	if r.Format == codec.FormatJSON {
		fmt.Fprintf(r.W, "  JSON parsing: %d\n", rep.Timings.Decode.Nanoseconds())
	} else {
		fmt.Fprintf(r.W, "  Binary decoding: %d\n", rep.Timings.Decode.Nanoseconds())
	}
	fmt.Fprintf(r.W, "  Total processing: %d\n", rep.Timings.Total().Nanoseconds())

	if rep.HasLatency {
		fmt.Fprintf(r.W, "  End-to-end latency: %d\n", rep.Latency.Nanoseconds())
	} else {
		fmt.Fprintf(r.W, "  End-to-end latency: n/a (no send_time in message)\n")
	}

	if rep.HasStats {
		fmt.Fprintf(r.W, "Stats: %s\n", rep.Stats)
	}
	fmt.Fprintln(r.W, separator)
}

func (r *ConsoleReporter) DecodeFailure(src *net.UDPAddr, raw []byte, err error, t Timings) {
	fmt.Fprintf(r.W, "\nReceived from %s\n", src)
	fmt.Fprintf(r.W, "Error decoding message: %v\n", err)
	fmt.Fprintf(r.W, "Raw data: %s\n", hexDump(raw))
	fmt.Fprintf(r.W, "Length: %d bytes (digest %016x)\n", len(raw), xxhash.Sum64(raw))
	fmt.Fprintf(r.W, "Timing (ns):\n")
	fmt.Fprintf(r.W, "  Network receive: %d\n", t.Receive.Nanoseconds())
	fmt.Fprintln(r.W, separator)
}

func hexDump(b []byte) string {
	return fmt.Sprintf("% x", b)
}
