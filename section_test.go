package hwp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/logicossoftware/go-hwp/internal/hwptest"
)

func sectionRec(tag Tag, level uint16, vals ...any) []byte {
	return hwptest.Record(uint16(tag), level, hwptest.Fields(vals...))
}

func sampleSectionStream() []byte {
	return hwptest.Concat(
		// Paragraph 0 carries the section and column definitions.
		hwptest.ParaHeader(0, 17),
		sectionRec(TagParaText, 1, inline(2), inline(2), hwptest.UTF16("첫"), units(13)),
		hwptest.SectionDef(1),
		hwptest.CtrlHeader(1, "cold", hwptest.Fields(uint16(0x1004), int16(0))),

		// Paragraph 1 holds a one row, two column table.
		hwptest.ParaHeader(0, 9),
		sectionRec(TagParaText, 1, inline(11), units(13)),
		sectionRec(TagParaCharShape, 1, uint32(0), uint32(3)),
		sectionRec(TagParaLineSeg, 1, uint32(0), int32(0), int32(1000), int32(1000), int32(850), int32(600), int32(0), int32(42520), uint32(0x60000)),
		hwptest.CtrlHeader(1, "tbl ", hwptest.ObjectCommon(42520, 2000)),
		hwptest.Table(2, 1, 2),
		hwptest.ListHeader(2, 1, hwptest.CellProps(0, 0, 21260, 1000)),
		hwptest.Paragraph(2, "A"),
		hwptest.ListHeader(2, 1, hwptest.CellProps(1, 0, 21260, 1000)),
		hwptest.Paragraph(2, "B"),

		// Paragraph 2 has a header control with its own paragraph list.
		hwptest.ParaHeader(0, 9),
		sectionRec(TagParaText, 1, inline(16), units(13)),
		hwptest.CtrlHeader(1, "head", hwptest.Fields(uint32(0))),
		hwptest.ListHeader(2, 1, hwptest.Fields(uint32(59528), uint32(4252))),
		hwptest.Paragraph(2, "머리말"),

		// Paragraph 3 has a picture below a shape component.
		hwptest.ParaHeader(0, 9),
		sectionRec(TagParaText, 1, inline(11), units(13)),
		hwptest.CtrlHeader(1, "gso ", hwptest.ObjectCommon(1000, 800)),
		sectionRec(TagShapeComponent, 2, make([]byte, 16)),
		sectionRec(TagShapeComponentPicture, 3,
			uint32(0), int32(0), uint32(0), make([]byte, 32),
			[4]int32{0, 0, 1000, 800}, [4]uint16{}, int8(-5), int8(10), uint8(0), uint16(7)),

		// Paragraph 4 is plain text after an unknown record.
		hwptest.ParaHeader(0, 4),
		sectionRec(TagMemoList, 1, uint32(0)),
		hwptest.ParaText(1, "끝."),
	)
}

func TestDecodeSection(t *testing.T) {
	s, err := DecodeSection(sampleSectionStream())
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Paragraphs) != 5 {
		t.Fatalf("got %d paragraphs", len(s.Paragraphs))
	}

	p0 := s.Paragraphs[0]
	if p0.Text != "첫" || len(p0.Controls) != 2 {
		t.Fatalf("paragraph 0: %q with %d controls", p0.Text, len(p0.Controls))
	}
	if s.Definition == nil || s.Definition.DefaultTabStop != 8000 || s.Definition.PageDef == nil {
		t.Fatalf("section definition %+v", s.Definition)
	}
	if s.Definition.PageDef.Width != 59528 || s.Definition.PageDef.Landscape() {
		t.Fatalf("page def %+v", s.Definition.PageDef)
	}
	if p0.Controls[1].ID != CtrlColumnDef || p0.Controls[1].ID.String() != "cold" {
		t.Fatalf("second control %s", p0.Controls[1].ID)
	}

	p1 := s.Paragraphs[1]
	if diff := cmp.Diff([]CharShapeRef{{Pos: 0, CharShapeID: 3}}, p1.CharShapes); diff != "" {
		t.Fatalf("char shapes (-want +got):\n%s", diff)
	}
	if len(p1.LineSegs) != 1 || p1.LineSegs[0].SegWidth != 42520 {
		t.Fatalf("line segs %+v", p1.LineSegs)
	}
	tbl := p1.Controls[0]
	if tbl.ID != CtrlTable || tbl.Table == nil || tbl.Object == nil {
		t.Fatalf("table control %+v", tbl)
	}
	if tbl.Object.Width != 42520 || tbl.Table.Rows != 1 || tbl.Table.Cols != 2 {
		t.Fatalf("table %+v / %+v", tbl.Object, tbl.Table)
	}
	wantCells := []Cell{
		{ParaCount: 1, Col: 0, ColSpan: 1, RowSpan: 1, Width: 21260, Height: 1000, BorderFillID: 1},
		{ParaCount: 1, Col: 1, ColSpan: 1, RowSpan: 1, Width: 21260, Height: 1000, BorderFillID: 1},
	}
	if diff := cmp.Diff(wantCells, tbl.Table.Cells, cmpopts.IgnoreFields(Cell{}, "Paragraphs")); diff != "" {
		t.Fatalf("cells (-want +got):\n%s", diff)
	}
	if tbl.Table.Cells[0].Paragraphs[0].Text != "A" || tbl.Table.Cells[1].Paragraphs[0].Text != "B" {
		t.Fatal("cell text not attached to its cell")
	}

	head := s.Paragraphs[2].Controls[0]
	if head.ID != CtrlHeader || len(head.Lists) != 1 || head.Lists[0][0].Text != "머리말" {
		t.Fatalf("header control %+v", head)
	}

	gso := s.Paragraphs[3].Controls[0]
	if gso.Picture == nil || gso.Picture.BinDataID != 7 || gso.Picture.Brightness != -5 {
		t.Fatalf("picture %+v", gso.Picture)
	}

	if s.Paragraphs[4].Text != "끝." {
		t.Fatalf("last paragraph %q", s.Paragraphs[4].Text)
	}

	want := "첫\n\nA\nB\n\n머리말\n\n끝.\n"
	if got := s.Text(); got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
}

func TestDecodeSection_SkipsUnknownTopLevelRecords(t *testing.T) {
	stream := hwptest.Concat(
		hwptest.Record(0x3F0, 0, []byte{1, 2, 3, 4}),
		hwptest.Record(0x3F1, 1, []byte{5}),
		hwptest.Paragraph(0, "after"),
		hwptest.Record(0x3F0, 0, nil),
	)
	s, err := DecodeSection(stream)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Paragraphs) != 1 || s.Paragraphs[0].Text != "after" {
		t.Fatalf("got %+v", s.Paragraphs)
	}
}

func TestDecodeSection_KnownRecordOutsideParagraph(t *testing.T) {
	stream := hwptest.Concat(
		hwptest.ParaText(0, "orphan"),
	)
	if _, err := DecodeSection(stream); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("got %v", err)
	}
}

func TestDecodeSection_Empty(t *testing.T) {
	s, err := DecodeSection(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Paragraphs) != 0 || s.Definition != nil {
		t.Fatalf("got %+v", s)
	}
}

func TestDecodeSection_TruncatedTable(t *testing.T) {
	stream := hwptest.Concat(
		hwptest.ParaHeader(0, 1),
		hwptest.CtrlHeader(1, "tbl ", hwptest.ObjectCommon(10, 10)),
		sectionRec(TagTable, 2, uint32(0), uint16(3)),
	)
	if _, err := DecodeSection(stream); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("got %v", err)
	}
}

func TestCtrlID(t *testing.T) {
	if MakeCtrlID("tbl ") != CtrlID(0x74626C20) {
		t.Fatalf("got %#x", uint32(MakeCtrlID("tbl ")))
	}
	if CtrlSectionDef.String() != "secd" {
		t.Fatalf("got %q", CtrlSectionDef.String())
	}
}
