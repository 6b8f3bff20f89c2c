package hwp

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// Function variables for testing injection.
var (
	newFlateReader = func(r io.Reader) io.ReadCloser { return flate.NewReader(r) }
	readAll        = io.ReadAll
)

// Inflate decompresses a raw deflate stream (no zlib header or checksum), the
// encoding HWP uses for DocInfo, BodyText and BinData streams.
func Inflate(data []byte) ([]byte, error) {
	return inflateRaw(data, defaultLimits().MaxDecompressedStream)
}

// inflateRaw decompresses data and rejects output larger than max.
func inflateRaw(data []byte, max uint64) ([]byte, error) {
	fr := newFlateReader(bytes.NewReader(data))
	defer fr.Close()
	out, err := readAll(io.LimitReader(fr, int64(max)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	if uint64(len(out)) > max {
		return nil, fmt.Errorf("%w: inflated stream exceeds %d bytes", ErrLimitExceeded, max)
	}
	return out, nil
}
