package hwp

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the codec applied to a snapshot payload.
type Compression uint16

const (
	CompNone Compression = 0x0
	CompZIP  Compression = 0x1
	CompZSTD Compression = 0x2
	CompLZ4  Compression = 0x3
	CompBR   Compression = 0x4
)

func (c Compression) String() string {
	switch c {
	case CompNone:
		return "none"
	case CompZIP:
		return "zip"
	case CompZSTD:
		return "zstd"
	case CompLZ4:
		return "lz4"
	case CompBR:
		return "brotli"
	default:
		return fmt.Sprintf("Compression(%d)", uint16(c))
	}
}

// ParseCompression maps a codec name as printed by String back to its value.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "zstd":
		return CompZSTD, nil
	case "none":
		return CompNone, nil
	case "zip":
		return CompZIP, nil
	case "lz4":
		return CompLZ4, nil
	case "brotli", "br":
		return CompBR, nil
	default:
		return 0, fmt.Errorf("hwp: unknown compression %q", s)
	}
}

const zipEntryName = "document.gob"

// Function variables for testing injection.
var (
	newZstdWriter = func() (*zstd.Encoder, error) { return zstd.NewWriter(nil) }
	newZstdReader = func() (*zstd.Decoder, error) { return zstd.NewReader(nil) }
	zipCreate     = func(zw *zip.Writer, name string) (io.Writer, error) { return zw.Create(name) }
	zipClose      = func(zw *zip.Writer) error { return zw.Close() }
	zipOpen       = func(zf *zip.File) (io.ReadCloser, error) { return zf.Open() }
	lz4Close      = func(w *lz4.Writer) error { return w.Close() }
	brotliClose   = func(w *brotli.Writer) error { return w.Close() }
	brotliWrite   = func(w *brotli.Writer, p []byte) (int, error) { return w.Write(p) }
)

func compressSnapshot(comp Compression, in []byte) ([]byte, error) {
	switch comp {
	case CompNone:
		return in, nil
	case CompZIP:
		var buf bytes.Buffer
		if err := zipCompressTo(&buf, in); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompZSTD:
		enc, err := newZstdWriter()
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(in, nil), nil
	case CompLZ4:
		var buf bytes.Buffer
		if err := lz4CompressTo(&buf, in); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompBR:
		var buf bytes.Buffer
		if err := brotliCompressTo(&buf, in); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidSnapshot, comp)
	}
}

// decompressSnapshot restores a payload and checks it is exactly expected
// bytes long.
func decompressSnapshot(comp Compression, in []byte, expected uint64) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch comp {
	case CompNone:
		out = in
	case CompZIP:
		out, err = zipDecompress(in, expected)
	case CompZSTD:
		out, err = zstdDecompress(in)
	case CompLZ4:
		out, err = limitedRead(lz4.NewReader(bytes.NewReader(in)), expected)
	case CompBR:
		out, err = limitedRead(brotli.NewReader(bytes.NewReader(in)), expected)
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidSnapshot, comp)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, comp, err)
	}
	if uint64(len(out)) != expected {
		return nil, fmt.Errorf("%w: %s payload is %d bytes, header says %d", ErrInvalidSnapshot, comp, len(out), expected)
	}
	return out, nil
}

func limitedRead(r io.Reader, expected uint64) ([]byte, error) {
	return readAll(io.LimitReader(r, int64(expected)+1))
}

func zipCompressTo(w io.Writer, in []byte) error {
	zw := zip.NewWriter(w)
	entry, err := zipCreate(zw, zipEntryName)
	if err != nil {
		_ = zipClose(zw)
		return err
	}
	if _, err := entry.Write(in); err != nil {
		_ = zipClose(zw)
		return err
	}
	return zipClose(zw)
}

// zipDecompress extracts the single document entry of a ZIP archive.
func zipDecompress(in []byte, expected uint64) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(in), int64(len(in)))
	if err != nil {
		return nil, err
	}
	if len(zr.File) != 1 || zr.File[0].Name != zipEntryName {
		return nil, fmt.Errorf("zip must contain exactly one %s entry", zipEntryName)
	}
	zf := zr.File[0]
	if zf.UncompressedSize64 != expected {
		return nil, fmt.Errorf("zip entry is %d bytes, want %d", zf.UncompressedSize64, expected)
	}
	rc, err := zipOpen(zf)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return limitedRead(rc, expected)
}

func zstdDecompress(in []byte) ([]byte, error) {
	dec, err := newZstdReader()
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(in, nil)
}

func lz4CompressTo(w io.Writer, in []byte) error {
	zw := lz4.NewWriter(w)
	if _, err := zw.Write(in); err != nil {
		_ = lz4Close(zw)
		return err
	}
	return lz4Close(zw)
}

func brotliCompressTo(w io.Writer, in []byte) error {
	bw := brotli.NewWriter(w)
	if _, err := brotliWrite(bw, in); err != nil {
		_ = brotliClose(bw)
		return err
	}
	return brotliClose(bw)
}
