package hwp

import "fmt"

// docInfoRecord is the closed set of record kinds the DocInfo decoder
// understands. Anything else decodes to unknownRecord.
type docInfoRecord interface {
	isDocInfoRecord()
}

type (
	documentPropertiesRecord struct{ DocumentProperties }
	idMappingsRecord         struct{ IDMappings }
	binDataRecord            struct{ BinDataInfo }
	faceNameRecord           struct{ FaceName }
	borderFillRecord         struct{ BorderFill }
	charShapeRecord          struct{ CharShape }
	tabDefRecord             struct{ TabDef }
	numberingRecord          struct{}
	bulletRecord             struct{}
	paraShapeRecord          struct{ ParaShape }
	styleRecord              struct{ Style }
	compatibleDocumentRecord struct{ TargetProgram uint32 }
)

// unknownRecord stands for a record whose tag is not decoded in the current
// context. Its payload is skipped.
type unknownRecord struct {
	Tag  Tag
	Size uint32
}

func (documentPropertiesRecord) isDocInfoRecord() {}
func (idMappingsRecord) isDocInfoRecord()         {}
func (binDataRecord) isDocInfoRecord()            {}
func (faceNameRecord) isDocInfoRecord()           {}
func (borderFillRecord) isDocInfoRecord()         {}
func (charShapeRecord) isDocInfoRecord()          {}
func (tabDefRecord) isDocInfoRecord()             {}
func (numberingRecord) isDocInfoRecord()          {}
func (bulletRecord) isDocInfoRecord()             {}
func (paraShapeRecord) isDocInfoRecord()          {}
func (styleRecord) isDocInfoRecord()              {}
func (compatibleDocumentRecord) isDocInfoRecord() {}
func (unknownRecord) isDocInfoRecord()            {}

func decodeDocInfoRecord(rec Record) (docInfoRecord, error) {
	p := newPayloadReader(rec)
	var out docInfoRecord
	switch rec.Tag {
	case TagDocumentProperties:
		out = documentPropertiesRecord{readDocumentProperties(p)}
	case TagIDMappings:
		out = idMappingsRecord{readIDMappings(p)}
	case TagBinData:
		out = binDataRecord{readBinDataInfo(p)}
	case TagFaceName:
		out = faceNameRecord{readFaceName(p)}
	case TagBorderFill:
		out = borderFillRecord{readBorderFill(p)}
	case TagCharShape:
		out = charShapeRecord{readCharShape(p)}
	case TagTabDef:
		td, err := readTabDef(p)
		if err != nil {
			return nil, err
		}
		out = tabDefRecord{td}
	case TagNumbering:
		out = numberingRecord{}
	case TagBullet:
		out = bulletRecord{}
	case TagParaShape:
		out = paraShapeRecord{readParaShape(p)}
	case TagStyle:
		out = styleRecord{readStyle(p)}
	case TagCompatibleDocument:
		out = compatibleDocumentRecord{TargetProgram: p.u32()}
	default:
		return unknownRecord{Tag: rec.Tag, Size: rec.Size}, nil
	}
	if p.err != nil {
		return nil, p.err
	}
	return out, nil
}

func readDocumentProperties(p *payloadReader) DocumentProperties {
	return DocumentProperties{
		SectionSize:         p.u16(),
		PageStartNumber:     p.u16(),
		FootnoteStartNumber: p.u16(),
		EndnoteStartNumber:  p.u16(),
		PictureStartNumber:  p.u16(),
		TableStartNumber:    p.u16(),
		EquationStartNumber: p.u16(),
		CaretListID:         p.u32(),
		CaretParagraphID:    p.u32(),
		CaretCharPos:        p.u32(),
	}
}

// readIDMappings reads as many counts as the record holds; older documents
// store fewer of them.
func readIDMappings(p *payloadReader) IDMappings {
	var counts [18]int32
	for i := range counts {
		if p.remaining() < 4 {
			break
		}
		counts[i] = p.i32()
	}
	m := IDMappings{
		BinData:      counts[0],
		BorderFills:  counts[8],
		CharShapes:   counts[9],
		TabDefs:      counts[10],
		Numberings:   counts[11],
		Bullets:      counts[12],
		ParaShapes:   counts[13],
		Styles:       counts[14],
		MemoShapes:   counts[15],
		TrackChanges: counts[16],
		ChangeAuthor: counts[17],
	}
	copy(m.Fonts[:], counts[1:1+LangCount])
	return m
}

func readBinDataInfo(p *payloadReader) BinDataInfo {
	attr := p.u16()
	b := BinDataInfo{
		Attr:        attr,
		Type:        BinDataType(attr & 0xF),
		Compression: BinDataCompression((attr >> 4) & 0x3),
	}
	switch b.Type {
	case BinDataLink:
		b.AbsolutePath = p.wstring()
		b.RelativePath = p.wstring()
	case BinDataEmbedding:
		b.ID = p.u16()
		b.Extension = p.wstring()
	case BinDataStorage:
		b.ID = p.u16()
	}
	return b
}

func readFaceName(p *payloadReader) FaceName {
	f := FaceName{Attr: p.u8()}
	f.Name = p.wstring()
	if f.Attr&0x80 != 0 {
		f.SubstituteTyp = p.u8()
		f.Substitute = p.wstring()
	}
	if f.Attr&0x40 != 0 {
		f.TypeInfo = p.bytes(10)
	}
	if f.Attr&0x20 != 0 {
		f.Default = p.wstring()
	}
	return f
}

func readBorder(p *payloadReader) Border {
	return Border{Type: p.u8(), Width: p.u8(), Color: p.u32()}
}

func readBorderFill(p *payloadReader) BorderFill {
	bf := BorderFill{Attr: p.u16()}
	for i := range bf.Borders {
		bf.Borders[i] = readBorder(p)
	}
	bf.Diagonal = readBorder(p)
	if p.remaining() < 4 {
		return bf
	}
	bf.FillType = p.u32()
	if bf.FillType&0x1 != 0 {
		bf.FillColor = p.u32()
		bf.PatternColor = p.u32()
		bf.PatternType = p.i32()
	}
	// Gradient and image fills follow; they are not decoded.
	return bf
}

func readCharShape(p *payloadReader) CharShape {
	var c CharShape
	for i := range c.FaceIDs {
		c.FaceIDs[i] = p.u16()
	}
	for i := range c.Ratios {
		c.Ratios[i] = p.u8()
	}
	for i := range c.Spacings {
		c.Spacings[i] = p.i8()
	}
	for i := range c.RelativeSizes {
		c.RelativeSizes[i] = p.u8()
	}
	for i := range c.Positions {
		c.Positions[i] = p.i8()
	}
	c.BaseSize = p.i32()
	c.Attr = p.u32()
	c.ShadowX = p.i8()
	c.ShadowY = p.i8()
	c.TextColor = p.u32()
	c.UnderlineColor = p.u32()
	c.ShadeColor = p.u32()
	c.ShadowColor = p.u32()
	if p.remaining() >= 2 {
		c.BorderFillID = p.u16()
	}
	if p.remaining() >= 4 {
		c.StrikeColor = p.u32()
	}
	return c
}

const tabStopSize = 8

// readTabDef accepts both the 32-bit tab count written by current HWP
// versions and the 16-bit count of the published layout.
func readTabDef(p *payloadReader) (TabDef, error) {
	td := TabDef{Attr: p.u32()}
	if p.err != nil {
		return td, p.err
	}
	rest := p.rec.Payload[p.off:]
	var n int
	switch {
	case len(rest) >= 4 && int64(len(rest)-4) == int64(u32le(rest))*tabStopSize:
		n = int(p.u32())
	case len(rest) >= 2 && int64(len(rest)-2) == int64(int16(u16le(rest)))*tabStopSize:
		n = int(p.i16())
	default:
		return td, fmt.Errorf("%w: TAB_DEF at offset %d: %d bytes do not match a tab count", ErrMalformedRecord, p.rec.Offset, len(rest))
	}
	td.Tabs = make([]TabStop, n)
	for i := range td.Tabs {
		td.Tabs[i] = TabStop{Position: p.i32(), Kind: p.u8(), Fill: p.u8()}
		p.skip(2)
	}
	return td, p.err
}

func readParaShape(p *payloadReader) ParaShape {
	s := ParaShape{
		Attr1:       p.u32(),
		LeftMargin:  p.i32(),
		RightMargin: p.i32(),
		Indent:      p.i32(),
		PrevSpacing: p.i32(),
		NextSpacing: p.i32(),
		LineSpacing: p.i32(),
	}
	s.TabDefID = p.u16()
	s.NumberingID = p.u16()
	s.BorderFillID = p.u16()
	for i := range s.BorderOffsets {
		s.BorderOffsets[i] = p.i16()
	}
	if p.remaining() >= 4 {
		s.Attr2 = p.u32()
	}
	if p.remaining() >= 8 {
		s.Attr3 = p.u32()
		s.LineSpacing2 = p.u32()
	}
	return s
}

func readStyle(p *payloadReader) Style {
	return Style{
		Name:        p.wstring(),
		EnglishName: p.wstring(),
		Attr:        p.u8(),
		NextStyleID: p.u8(),
		LangID:      p.i16(),
		ParaShapeID: p.u16(),
		CharShapeID: p.u16(),
	}
}
