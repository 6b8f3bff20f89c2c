package hwptest

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"

	"github.com/klauspost/compress/flate"
)

// Record tag values, mirrored here so the package does not depend on the
// code it helps test.
const (
	TagDocumentProperties    uint16 = 0x10
	TagIDMappings            uint16 = 0x11
	TagBinData               uint16 = 0x12
	TagFaceName              uint16 = 0x13
	TagCharShape             uint16 = 0x15
	TagParaShape             uint16 = 0x19
	TagStyle                 uint16 = 0x1A
	TagParaHeader            uint16 = 0x42
	TagParaText              uint16 = 0x43
	TagParaCharShape         uint16 = 0x44
	TagParaLineSeg           uint16 = 0x45
	TagCtrlHeader            uint16 = 0x47
	TagListHeader            uint16 = 0x48
	TagPageDef               uint16 = 0x49
	TagTable                 uint16 = 0x4D
	TagShapeComponentPicture uint16 = 0x55
)

// Record encodes one record: a packed header (tag, level, size) followed by
// payload. Payloads of 4095 bytes or more use the extended size word.
func Record(tag, level uint16, payload []byte) []byte {
	size := uint32(len(payload))
	ext := size >= 0xFFF
	if ext {
		size = 0xFFF
	}
	h := uint32(tag)&0x3FF | (uint32(level)&0x3FF)<<10 | size<<20
	out := binary.LittleEndian.AppendUint32(nil, h)
	if ext {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
	}
	return append(out, payload...)
}

// Concat joins encoded records into one stream.
func Concat(recs ...[]byte) []byte {
	return bytes.Join(recs, nil)
}

// Deflate compresses data as a raw deflate stream without zlib framing.
func Deflate(data []byte) []byte {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		panic(err)
	}
	if _, err := w.Write(data); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// UTF16 encodes s as UTF-16LE without a length prefix.
func UTF16(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = binary.LittleEndian.AppendUint16(out, u)
	}
	return out
}

// WString encodes s the way HWP stores strings: a u16 unit count followed by
// UTF-16LE units.
func WString(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := binary.LittleEndian.AppendUint16(nil, uint16(len(units)))
	for _, u := range units {
		out = binary.LittleEndian.AppendUint16(out, u)
	}
	return out
}

// Fields appends little-endian values; ints are written as int32 and strings
// as WString.
func Fields(vals ...any) []byte {
	var out []byte
	for _, v := range vals {
		switch v := v.(type) {
		case string:
			out = append(out, WString(v)...)
		case []byte:
			out = append(out, v...)
		case int:
			out = binary.LittleEndian.AppendUint32(out, uint32(int32(v)))
		default:
			var err error
			out, err = binary.Append(out, binary.LittleEndian, v)
			if err != nil {
				panic(err)
			}
		}
	}
	return out
}
