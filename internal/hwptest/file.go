package hwptest

import (
	"encoding/binary"
	"fmt"
	"maps"
	"slices"
)

// Header flag bits used by File.
const (
	FlagCompressed  uint32 = 0x1
	FlagEncrypted   uint32 = 0x2
	FlagDistributed uint32 = 0x4
)

// FileHeader returns a 256-byte FileHeader stream for version
// major.minor.build.revision.
func FileHeader(major, minor, build, revision uint8, flags uint32) []byte {
	b := make([]byte, 256)
	copy(b, "HWP Document File")
	b[32], b[33], b[34], b[35] = revision, build, minor, major
	binary.LittleEndian.PutUint32(b[36:], flags)
	return b
}

// DocumentProperties returns a DOCUMENT_PROPERTIES record declaring
// sections sections.
func DocumentProperties(sections uint16) []byte {
	p := Fields(sections, uint16(1), uint16(1), uint16(1), uint16(1), uint16(1), uint16(1),
		uint32(0), uint32(0), uint32(0))
	return Record(TagDocumentProperties, 0, p)
}

// ParaHeader returns a PARA_HEADER record at level for a paragraph of
// chars UTF-16 units.
func ParaHeader(level uint16, chars uint32) []byte {
	p := Fields(chars|0x80000000, uint32(0), uint16(0), uint8(0), uint8(0),
		uint16(1), uint16(0), uint16(1), uint32(0))
	return Record(TagParaHeader, level, p)
}

// ParaText returns a PARA_TEXT record holding s and a paragraph break.
func ParaText(level uint16, s string) []byte {
	p := append(UTF16(s), 13, 0)
	return Record(TagParaText, level, p)
}

// Paragraph returns the PARA_HEADER and PARA_TEXT records of a plain text
// paragraph whose header sits at level.
func Paragraph(level uint16, s string) []byte {
	text := UTF16(s)
	return Concat(
		ParaHeader(level, uint32(len(text)/2+1)),
		ParaText(level+1, s),
	)
}

// CtrlHeader returns a CTRL_HEADER record for the four character id followed
// by data.
func CtrlHeader(level uint16, id string, data []byte) []byte {
	if len(id) != 4 {
		panic(fmt.Sprintf("hwptest: control id %q is not 4 characters", id))
	}
	v := uint32(id[0])<<24 | uint32(id[1])<<16 | uint32(id[2])<<8 | uint32(id[3])
	return Record(TagCtrlHeader, level, append(binary.LittleEndian.AppendUint32(nil, v), data...))
}

// ObjectCommon returns the common object attributes of a table or drawing
// object control of the given size.
func ObjectCommon(width, height uint32) []byte {
	return Fields(uint32(0), int32(0), int32(0), width, height, int32(0),
		[4]int16{}, uint32(7), uint32(0), "")
}

// ListHeader returns a plain LIST_HEADER record with paras paragraphs.
func ListHeader(level uint16, paras uint16, rest []byte) []byte {
	return Record(TagListHeader, level, Concat(Fields(paras, uint16(0), uint32(0)), rest))
}

// CellProps returns the cell part of a table cell LIST_HEADER.
func CellProps(col, row uint16, width, height uint32) []byte {
	return Fields(col, row, uint16(1), uint16(1), width, height, [4]uint16{}, uint16(1))
}

// Table returns a TABLE record for a rows by cols table.
func Table(level uint16, rows, cols uint16) []byte {
	p := Fields(uint32(0), rows, cols, int16(0), [4]uint16{})
	for range rows {
		p = append(p, Fields(cols)...)
	}
	p = append(p, Fields(uint16(1))...)
	return Record(TagTable, level, p)
}

// PageDef returns a PAGE_DEF record for an A4 portrait page.
func PageDef(level uint16) []byte {
	return Record(TagPageDef, level, Fields(uint32(59528), uint32(84188),
		uint32(8504), uint32(8504), uint32(5668), uint32(4252),
		uint32(4252), uint32(4252), uint32(0), uint32(0)))
}

// SectionDef returns the CTRL_HEADER and PAGE_DEF records of a 'secd'
// control whose header sits at level.
func SectionDef(level uint16) []byte {
	data := Fields(uint32(0), int16(1134), uint16(0), uint16(0), uint32(8000), uint16(0), uint16(1))
	return Concat(CtrlHeader(level, "secd", data), PageDef(level+1))
}

// EmbeddedBinData returns a BIN_DATA record for an embedded item.
func EmbeddedBinData(id uint16, ext string) []byte {
	return Record(TagBinData, 0, Fields(uint16(1), id, ext))
}

// File describes an HWP document to generate. DocInfo and Sections hold
// plain record streams; Bytes deflates them.
type File struct {
	Header   []byte
	DocInfo  []byte
	Sections [][]byte
	// BinData maps stream names such as BIN0001.png to stored bytes.
	BinData map[string][]byte
	// Raw stores DocInfo and sections without deflating them.
	Raw bool
}

// Simple returns a File at version 5.1.0.0 with one section per text.
func Simple(texts ...string) File {
	f := File{
		Header:  FileHeader(5, 1, 0, 0, FlagCompressed),
		DocInfo: DocumentProperties(uint16(len(texts))),
	}
	for _, t := range texts {
		f.Sections = append(f.Sections, Paragraph(0, t))
	}
	return f
}

// Nodes returns the top-level entries of the compound file.
func (f File) Nodes() []*Node {
	enc := Deflate
	if f.Raw {
		enc = func(b []byte) []byte { return b }
	}
	var nodes []*Node
	if f.Header != nil {
		nodes = append(nodes, Stream("FileHeader", f.Header))
	}
	if f.DocInfo != nil {
		nodes = append(nodes, Stream("DocInfo", enc(f.DocInfo)))
	}
	if len(f.Sections) > 0 {
		var secs []*Node
		for i, s := range f.Sections {
			secs = append(secs, Stream(fmt.Sprintf("Section%d", i), enc(s)))
		}
		nodes = append(nodes, Storage("BodyText", secs...))
	}
	if len(f.BinData) > 0 {
		var items []*Node
		for _, name := range slices.Sorted(maps.Keys(f.BinData)) {
			items = append(items, Stream(name, f.BinData[name]))
		}
		nodes = append(nodes, Storage("BinData", items...))
	}
	return nodes
}

// Bytes returns the document as a compound file.
func (f File) Bytes() []byte {
	return CompoundFile(f.Nodes()...)
}
