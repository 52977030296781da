package codec

import (
	"fmt"

	"mcastprobe/internal/message"
)

// Format selects the wire encoding for a run. Producer and listener must
// agree on it; a run never mixes formats.
type Format string

const (
	FormatJSON   Format = "json"
	FormatBinary Format = "binary"
)

// ParseFormat validates a format selector from the command line.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatBinary:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format: %q (valid: json, binary)", s)
	}
}

// Codec encodes a message to a datagram body and decodes one back.
// Decode is all-or-nothing per datagram; there is no streaming.
type Codec interface {
	Encode(m *message.Message) ([]byte, error)
	Decode(data []byte) (*message.Message, error)
}

// ForFormat returns the codec implementing the given format.
func ForFormat(f Format) (Codec, error) {
	switch f {
	case FormatJSON:
		return JSONCodec{}, nil
	case FormatBinary:
		return BinaryCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %q", f)
	}
}

// DecodeError marks a datagram that could not be decoded. The listener
// loop treats it as recoverable: report and keep receiving.
type DecodeError struct {
	Reason string
	Cause  error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("decode: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

func decodeErrorf(cause error, format string, args ...any) error {
	return &DecodeError{Reason: fmt.Sprintf(format, args...), Cause: cause}
}
