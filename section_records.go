package hwp

// sectionRecord is the closed set of record kinds the section decoder
// understands. Anything else decodes to unknownRecord.
type sectionRecord interface {
	isSectionRecord()
}

type (
	paraHeaderRecord    struct{ ParaHeader }
	paraTextRecord      struct{ Text string }
	paraCharShapeRecord struct{ Refs []CharShapeRef }
	paraLineSegRecord   struct{ Segs []LineSeg }
	paraRangeTagRecord  struct{ Tags []RangeTag }
	ctrlHeaderRecord    struct {
		ID   CtrlID
		Data []byte
	}
	listHeaderRecord struct {
		ParaCount uint16
		Attr      uint32
		// Rest is the list-type specific part, such as cell properties.
		Rest []byte
	}
	pageDefRecord struct{ PageDef }
	tableRecord   struct{ Table }
	pictureRecord struct{ Picture }
)

func (paraHeaderRecord) isSectionRecord()    {}
func (paraTextRecord) isSectionRecord()      {}
func (paraCharShapeRecord) isSectionRecord() {}
func (paraLineSegRecord) isSectionRecord()   {}
func (paraRangeTagRecord) isSectionRecord()  {}
func (ctrlHeaderRecord) isSectionRecord()    {}
func (listHeaderRecord) isSectionRecord()    {}
func (pageDefRecord) isSectionRecord()       {}
func (tableRecord) isSectionRecord()         {}
func (pictureRecord) isSectionRecord()       {}
func (unknownRecord) isSectionRecord()       {}

const (
	charShapeRefSize = 8
	lineSegSize      = 36
	rangeTagSize     = 12
)

func decodeSectionRecord(rec Record) (sectionRecord, error) {
	p := newPayloadReader(rec)
	var out sectionRecord
	switch rec.Tag {
	case TagParaHeader:
		out = paraHeaderRecord{readParaHeader(p)}
	case TagParaText:
		s, err := decodeParaText(rec)
		if err != nil {
			return nil, err
		}
		out = paraTextRecord{Text: s}
	case TagParaCharShape:
		refs := make([]CharShapeRef, len(rec.Payload)/charShapeRefSize)
		for i := range refs {
			refs[i] = CharShapeRef{Pos: p.u32(), CharShapeID: p.u32()}
		}
		out = paraCharShapeRecord{Refs: refs}
	case TagParaLineSeg:
		segs := make([]LineSeg, len(rec.Payload)/lineSegSize)
		for i := range segs {
			segs[i] = LineSeg{
				TextStart:   p.u32(),
				VertPos:     p.i32(),
				LineHeight:  p.i32(),
				TextHeight:  p.i32(),
				BaseLineGap: p.i32(),
				LineSpacing: p.i32(),
				ColumnStart: p.i32(),
				SegWidth:    p.i32(),
				Tag:         p.u32(),
			}
		}
		out = paraLineSegRecord{Segs: segs}
	case TagParaRangeTag:
		tags := make([]RangeTag, len(rec.Payload)/rangeTagSize)
		for i := range tags {
			tags[i] = RangeTag{Start: p.u32(), End: p.u32(), Tag: p.u32()}
		}
		out = paraRangeTagRecord{Tags: tags}
	case TagCtrlHeader:
		id := CtrlID(p.u32())
		out = ctrlHeaderRecord{ID: id, Data: p.bytes(p.remaining())}
	case TagListHeader:
		lh := listHeaderRecord{ParaCount: p.u16()}
		p.skip(2)
		lh.Attr = p.u32()
		lh.Rest = p.bytes(p.remaining())
		out = lh
	case TagPageDef:
		out = pageDefRecord{readPageDef(p)}
	case TagTable:
		out = tableRecord{readTable(p)}
	case TagShapeComponentPicture:
		out = pictureRecord{readPicture(p)}
	default:
		return unknownRecord{Tag: rec.Tag, Size: rec.Size}, nil
	}
	if p.err != nil {
		return nil, p.err
	}
	return out, nil
}

func readParaHeader(p *payloadReader) ParaHeader {
	h := ParaHeader{
		CharCount:      p.u32() & 0x7FFFFFFF,
		ControlMask:    p.u32(),
		ParaShapeID:    p.u16(),
		StyleID:        p.u8(),
		BreakType:      p.u8(),
		CharShapeCount: p.u16(),
		RangeTagCount:  p.u16(),
		LineAlignCount: p.u16(),
	}
	if p.remaining() >= 4 {
		h.InstanceID = p.u32()
	}
	return h
}

func readPageDef(p *payloadReader) PageDef {
	return PageDef{
		Width:         p.u32(),
		Height:        p.u32(),
		PaddingLeft:   p.u32(),
		PaddingRight:  p.u32(),
		PaddingTop:    p.u32(),
		PaddingBottom: p.u32(),
		HeaderPadding: p.u32(),
		FooterPadding: p.u32(),
		GutterPadding: p.u32(),
		Attr:          p.u32(),
	}
}

func readTable(p *payloadReader) Table {
	t := Table{
		Attr:        p.u32(),
		Rows:        p.u16(),
		Cols:        p.u16(),
		CellSpacing: p.i16(),
	}
	for i := range t.Padding {
		t.Padding[i] = p.u16()
	}
	if p.err != nil {
		return t
	}
	t.RowSizes = make([]uint16, t.Rows)
	for i := range t.RowSizes {
		t.RowSizes[i] = p.u16()
	}
	t.BorderFillID = p.u16()
	// Valid zone info follows in 5.0.1.0 and later; it is not decoded.
	return t
}

func readPicture(p *payloadReader) Picture {
	pic := Picture{
		BorderColor:     p.u32(),
		BorderThickness: p.i32(),
		BorderAttr:      p.u32(),
	}
	p.skip(32) // image rectangle corners
	for i := range pic.Crop {
		pic.Crop[i] = p.i32()
	}
	for i := range pic.Padding {
		pic.Padding[i] = p.u16()
	}
	pic.Brightness = p.i8()
	pic.Contrast = p.i8()
	pic.Effect = p.u8()
	pic.BinDataID = p.u16()
	return pic
}

// readObjectCommon decodes the common object attributes that follow the
// control id of table and drawing object CTRL_HEADER records.
func readObjectCommon(rec Record, data []byte) (*ObjectCommon, error) {
	p := newPayloadReader(Record{Tag: rec.Tag, Offset: rec.Offset, Payload: data})
	o := &ObjectCommon{
		Attr:       p.u32(),
		VertOffset: p.i32(),
		HorzOffset: p.i32(),
		Width:      p.u32(),
		Height:     p.u32(),
		ZOrder:     p.i32(),
	}
	for i := range o.Margins {
		o.Margins[i] = p.i16()
	}
	o.InstanceID = p.u32()
	if p.err != nil {
		return nil, p.err
	}
	if p.remaining() >= 4 {
		p.skip(4) // prevent page break
		if p.remaining() >= 2 {
			o.Description = p.wstring()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return o, nil
}

func readSectionDef(rec Record, data []byte) (*SectionDef, error) {
	p := newPayloadReader(Record{Tag: rec.Tag, Offset: rec.Offset, Payload: data})
	sd := &SectionDef{
		Attr:            p.u32(),
		ColumnGap:       p.i16(),
		VertGrid:        p.u16(),
		HorzGrid:        p.u16(),
		DefaultTabStop:  p.u32(),
		NumberingShape:  p.u16(),
		PageStartNumber: p.u16(),
	}
	if p.err != nil {
		return nil, p.err
	}
	return sd, nil
}

func readCellProps(rec Record, lh listHeaderRecord) (Cell, error) {
	p := newPayloadReader(Record{Tag: rec.Tag, Offset: rec.Offset, Payload: lh.Rest})
	c := Cell{
		ParaCount: lh.ParaCount,
		Attr:      lh.Attr,
		Col:       p.u16(),
		Row:       p.u16(),
		ColSpan:   p.u16(),
		RowSpan:   p.u16(),
		Width:     p.u32(),
		Height:    p.u32(),
	}
	for i := range c.Padding {
		c.Padding[i] = p.u16()
	}
	c.BorderFillID = p.u16()
	return c, p.err
}
