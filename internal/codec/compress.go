package codec

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Compress wraps an encoded datagram body in an LZ4 frame. Used with
// the JSON format only; the binary format is already minimal.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress unwraps an LZ4 frame. A corrupt frame is a DecodeError so
// the listener loop treats it like any other undecodable datagram.
func Decompress(data []byte) ([]byte, error) {
	zr := lz4.NewReader(bytes.NewReader(data))
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, decodeErrorf(err, "bad LZ4 frame")
	}
	return out, nil
}
