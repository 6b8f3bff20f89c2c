package hwp

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// payloadReader reads little-endian fields from a record payload. The first
// short read is remembered in err and every later read returns zero values.
type payloadReader struct {
	rec Record
	off int
	err error
}

func newPayloadReader(rec Record) *payloadReader {
	return &payloadReader{rec: rec}
}

func (p *payloadReader) take(n int) []byte {
	if p.err != nil {
		return nil
	}
	if n < 0 || len(p.rec.Payload)-p.off < n {
		p.err = fmt.Errorf("%w: %s at offset %d: need %d bytes at %d, payload is %d",
			ErrMalformedRecord, p.rec.Tag, p.rec.Offset, n, p.off, len(p.rec.Payload))
		return nil
	}
	b := p.rec.Payload[p.off : p.off+n]
	p.off += n
	return b
}

func (p *payloadReader) remaining() int { return len(p.rec.Payload) - p.off }

func (p *payloadReader) u8() uint8 {
	b := p.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (p *payloadReader) i8() int8 { return int8(p.u8()) }

func (p *payloadReader) u16() uint16 {
	b := p.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (p *payloadReader) i16() int16 { return int16(p.u16()) }

func (p *payloadReader) u32() uint32 {
	b := p.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (p *payloadReader) i32() int32 { return int32(p.u32()) }

func (p *payloadReader) skip(n int) { p.take(n) }

// bytes returns a copy so the result does not pin the stream buffer.
func (p *payloadReader) bytes(n int) []byte {
	b := p.take(n)
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

// wstring reads a u16 character count followed by that many UTF-16LE units.
func (p *payloadReader) wstring() string {
	n := int(p.u16())
	b := p.take(n * 2)
	if b == nil {
		return ""
	}
	s, err := decodeUTF16(b)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%w: %s at offset %d: %v", ErrMalformedRecord, p.rec.Tag, p.rec.Offset, err)
	}
	return s
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// decodeUTF16 decodes little-endian UTF-16. Unpaired surrogates become
// U+FFFD.
func decodeUTF16(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	out, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func u16le(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func u32le(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
