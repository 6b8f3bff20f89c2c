package hwp

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	SnapshotVersionV1 uint16 = 1

	snapshotHeaderSize = 32
)

// SnapshotMagic is the 8-byte signature of a snapshot file.
var SnapshotMagic = [8]byte{'H', 'W', 'P', 'S', 'N', 'A', 'P', 0x1A}

type snapshotHeaderV1 struct {
	Magic           [8]byte
	Version         uint16
	Compression     uint16
	PayloadLen      uint64
	UncompressedLen uint64
	Reserved        uint32
}

func readSnapshotHeader(r io.Reader) (snapshotHeaderV1, error) {
	var buf [snapshotHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return snapshotHeaderV1{}, err
	}
	var h snapshotHeaderV1
	copy(h.Magic[:], buf[0:8])
	h.Version = binary.LittleEndian.Uint16(buf[8:10])
	h.Compression = binary.LittleEndian.Uint16(buf[10:12])
	h.PayloadLen = binary.LittleEndian.Uint64(buf[12:20])
	h.UncompressedLen = binary.LittleEndian.Uint64(buf[20:28])
	h.Reserved = binary.LittleEndian.Uint32(buf[28:32])
	return h, nil
}

func writeSnapshotHeader(w io.Writer, h snapshotHeaderV1) error {
	var buf [snapshotHeaderSize]byte
	copy(buf[0:8], h.Magic[:])
	binary.LittleEndian.PutUint16(buf[8:10], h.Version)
	binary.LittleEndian.PutUint16(buf[10:12], h.Compression)
	binary.LittleEndian.PutUint64(buf[12:20], h.PayloadLen)
	binary.LittleEndian.PutUint64(buf[20:28], h.UncompressedLen)
	binary.LittleEndian.PutUint32(buf[28:32], h.Reserved)
	_, err := w.Write(buf[:])
	return err
}

func (h snapshotHeaderV1) compression() Compression {
	return Compression(h.Compression)
}

func validateSnapshotHeader(h snapshotHeaderV1, limits Limits) error {
	if h.Magic != SnapshotMagic {
		return fmt.Errorf("%w: bad magic", ErrInvalidSnapshot)
	}
	if h.Version != SnapshotVersionV1 {
		return fmt.Errorf("%w: version %d", ErrInvalidSnapshot, h.Version)
	}
	if h.Reserved != 0 {
		return fmt.Errorf("%w: reserved must be 0", ErrInvalidSnapshot)
	}
	switch h.compression() {
	case CompNone:
		if h.UncompressedLen != h.PayloadLen {
			return fmt.Errorf("%w: uncompressed payload length %d != %d", ErrInvalidSnapshot, h.PayloadLen, h.UncompressedLen)
		}
	case CompZIP, CompZSTD, CompLZ4, CompBR:
	default:
		return fmt.Errorf("%w: unknown compression %d", ErrInvalidSnapshot, h.Compression)
	}
	if h.UncompressedLen > limits.MaxSnapshotSize {
		return fmt.Errorf("%w: snapshot of %d bytes", ErrLimitExceeded, h.UncompressedLen)
	}
	return nil
}
