package hwp

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"iter"
)

// Tag identifies the kind of a record.
type Tag uint16

// tagBegin is the first tag value assigned to HWP records.
const tagBegin Tag = 0x10

// DocInfo record tags.
const (
	TagDocumentProperties  Tag = tagBegin + 0
	TagIDMappings          Tag = tagBegin + 1
	TagBinData             Tag = tagBegin + 2
	TagFaceName            Tag = tagBegin + 3
	TagBorderFill          Tag = tagBegin + 4
	TagCharShape           Tag = tagBegin + 5
	TagTabDef              Tag = tagBegin + 6
	TagNumbering           Tag = tagBegin + 7
	TagBullet              Tag = tagBegin + 8
	TagParaShape           Tag = tagBegin + 9
	TagStyle               Tag = tagBegin + 10
	TagDocData             Tag = tagBegin + 11
	TagDistributeDocData   Tag = tagBegin + 12
	TagCompatibleDocument  Tag = tagBegin + 14
	TagLayoutCompatibility Tag = tagBegin + 15
	TagTrackChange         Tag = tagBegin + 16
	TagMemoShape           Tag = tagBegin + 76
	TagForbiddenChar       Tag = tagBegin + 78
	TagTrackChangeContent  Tag = tagBegin + 80
	TagTrackChangeAuthor   Tag = tagBegin + 81
)

// Section record tags.
const (
	TagParaHeader            Tag = tagBegin + 50
	TagParaText              Tag = tagBegin + 51
	TagParaCharShape         Tag = tagBegin + 52
	TagParaLineSeg           Tag = tagBegin + 53
	TagParaRangeTag          Tag = tagBegin + 54
	TagCtrlHeader            Tag = tagBegin + 55
	TagListHeader            Tag = tagBegin + 56
	TagPageDef               Tag = tagBegin + 57
	TagFootnoteShape         Tag = tagBegin + 58
	TagPageBorderFill        Tag = tagBegin + 59
	TagShapeComponent        Tag = tagBegin + 60
	TagTable                 Tag = tagBegin + 61
	TagShapeComponentLine    Tag = tagBegin + 62
	TagShapeComponentRect    Tag = tagBegin + 63
	TagShapeComponentEllipse Tag = tagBegin + 64
	TagShapeComponentArc     Tag = tagBegin + 65
	TagShapeComponentPolygon Tag = tagBegin + 66
	TagShapeComponentCurve   Tag = tagBegin + 67
	TagShapeComponentOLE     Tag = tagBegin + 68
	TagShapeComponentPicture Tag = tagBegin + 69
	TagShapeComponentGroup   Tag = tagBegin + 70
	TagCtrlData              Tag = tagBegin + 71
	TagEqEdit                Tag = tagBegin + 72
	TagMemoList              Tag = tagBegin + 77
	TagChartData             Tag = tagBegin + 79
	TagVideoData             Tag = tagBegin + 82
)

var tagNames = map[Tag]string{
	TagDocumentProperties:    "DOCUMENT_PROPERTIES",
	TagIDMappings:            "ID_MAPPINGS",
	TagBinData:               "BIN_DATA",
	TagFaceName:              "FACE_NAME",
	TagBorderFill:            "BORDER_FILL",
	TagCharShape:             "CHAR_SHAPE",
	TagTabDef:                "TAB_DEF",
	TagNumbering:             "NUMBERING",
	TagBullet:                "BULLET",
	TagParaShape:             "PARA_SHAPE",
	TagStyle:                 "STYLE",
	TagDocData:               "DOC_DATA",
	TagDistributeDocData:     "DISTRIBUTE_DOC_DATA",
	TagCompatibleDocument:    "COMPATIBLE_DOCUMENT",
	TagLayoutCompatibility:   "LAYOUT_COMPATIBILITY",
	TagTrackChange:           "TRACKCHANGE",
	TagMemoShape:             "MEMO_SHAPE",
	TagForbiddenChar:         "FORBIDDEN_CHAR",
	TagTrackChangeContent:    "TRACK_CHANGE",
	TagTrackChangeAuthor:     "TRACK_CHANGE_AUTHOR",
	TagParaHeader:            "PARA_HEADER",
	TagParaText:              "PARA_TEXT",
	TagParaCharShape:         "PARA_CHAR_SHAPE",
	TagParaLineSeg:           "PARA_LINE_SEG",
	TagParaRangeTag:          "PARA_RANGE_TAG",
	TagCtrlHeader:            "CTRL_HEADER",
	TagListHeader:            "LIST_HEADER",
	TagPageDef:               "PAGE_DEF",
	TagFootnoteShape:         "FOOTNOTE_SHAPE",
	TagPageBorderFill:        "PAGE_BORDER_FILL",
	TagShapeComponent:        "SHAPE_COMPONENT",
	TagTable:                 "TABLE",
	TagShapeComponentLine:    "SHAPE_COMPONENT_LINE",
	TagShapeComponentRect:    "SHAPE_COMPONENT_RECTANGLE",
	TagShapeComponentEllipse: "SHAPE_COMPONENT_ELLIPSE",
	TagShapeComponentArc:     "SHAPE_COMPONENT_ARC",
	TagShapeComponentPolygon: "SHAPE_COMPONENT_POLYGON",
	TagShapeComponentCurve:   "SHAPE_COMPONENT_CURVE",
	TagShapeComponentOLE:     "SHAPE_COMPONENT_OLE",
	TagShapeComponentPicture: "SHAPE_COMPONENT_PICTURE",
	TagShapeComponentGroup:   "SHAPE_COMPONENT_CONTAINER",
	TagCtrlData:              "CTRL_DATA",
	TagEqEdit:                "EQEDIT",
	TagMemoList:              "MEMO_LIST",
	TagChartData:             "CHART_DATA",
	TagVideoData:             "VIDEO_DATA",
}

func (t Tag) String() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return fmt.Sprintf("TAG(%d)", uint16(t))
}

const (
	recordHeaderSize = 4
	extendedSizeMark = 0xFFF
)

// Record is one tag/level/size framed unit of a decompressed stream. Payload
// aliases the stream buffer.
type Record struct {
	Tag     Tag
	Level   uint16
	Size    uint32
	Payload []byte
	// Offset is the position of the record header in the stream.
	Offset int
}

// recordCursor walks a decompressed stream one record at a time.
type recordCursor struct {
	buf     []byte
	off     int
	maxSize uint32 // 0 means unlimited
}

func newRecordCursor(buf []byte) *recordCursor {
	return &recordCursor{buf: buf}
}

// next decodes the record at the cursor and advances past it. It returns
// io.EOF exactly at the end of the buffer.
func (c *recordCursor) next() (Record, error) {
	rem := len(c.buf) - c.off
	if rem == 0 {
		return Record{}, io.EOF
	}
	if rem < recordHeaderSize {
		return Record{}, fmt.Errorf("%w: %d trailing bytes at offset %d", ErrMalformedRecord, rem, c.off)
	}
	start := c.off
	h := binary.LittleEndian.Uint32(c.buf[start:])
	tag := Tag(h & 0x3FF)
	level := uint16((h >> 10) & 0x3FF)
	size := h >> 20
	hdr := recordHeaderSize
	if size == extendedSizeMark {
		if rem < recordHeaderSize+4 {
			return Record{}, fmt.Errorf("%w: %s at offset %d: truncated extended size", ErrMalformedRecord, tag, start)
		}
		size = binary.LittleEndian.Uint32(c.buf[start+recordHeaderSize:])
		hdr += 4
	}
	if c.maxSize > 0 && size > c.maxSize {
		return Record{}, fmt.Errorf("%w: %s at offset %d declares %d bytes", ErrLimitExceeded, tag, start, size)
	}
	if uint64(size) > uint64(rem-hdr) {
		return Record{}, fmt.Errorf("%w: %s at offset %d declares %d bytes, %d remain", ErrMalformedRecord, tag, start, size, rem-hdr)
	}
	payloadStart := start + hdr
	end := payloadStart + int(size)
	c.off = end
	return Record{
		Tag:     tag,
		Level:   level,
		Size:    size,
		Payload: c.buf[payloadStart:end:end],
		Offset:  start,
	}, nil
}

// Records returns a forward-only sequence over the records of buf. The
// sequence stops after yielding the first error. Ranging over it again
// starts from the beginning of buf.
func Records(buf []byte) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		c := newRecordCursor(buf)
		for {
			rec, err := c.next()
			if err == io.EOF {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// readRecords decodes every record of buf, checking ctx between records.
func readRecords(ctx context.Context, buf []byte, maxSize uint32) ([]Record, error) {
	c := newRecordCursor(buf)
	c.maxSize = maxSize
	var out []Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := c.next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// recordNode is a record together with the records nested below it.
type recordNode struct {
	Record
	children []*recordNode
}

// buildTree nests records by level. The first record must be at the lowest
// level of the stream and no record may be more than one level deeper than
// the record before it.
func buildTree(recs []Record) ([]*recordNode, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	base := recs[0].Level
	var roots []*recordNode
	var stack []*recordNode
	for _, rec := range recs {
		if rec.Level < base {
			return nil, fmt.Errorf("%w: %s at offset %d has level %d below stream level %d", ErrMalformedRecord, rec.Tag, rec.Offset, rec.Level, base)
		}
		depth := int(rec.Level - base)
		if depth > len(stack) {
			return nil, fmt.Errorf("%w: %s at offset %d jumps to level %d", ErrMalformedRecord, rec.Tag, rec.Offset, rec.Level)
		}
		stack = stack[:depth]
		n := &recordNode{Record: rec}
		if depth == 0 {
			roots = append(roots, n)
		} else {
			parent := stack[depth-1]
			parent.children = append(parent.children, n)
		}
		stack = append(stack, n)
	}
	return roots, nil
}
