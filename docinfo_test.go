package hwp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/logicossoftware/go-hwp/internal/hwptest"
)

func docInfoRec(tag Tag, vals ...any) []byte {
	return hwptest.Record(uint16(tag), 0, hwptest.Fields(vals...))
}

func sampleDocInfoStream() []byte {
	idMappings := []any{int32(1), [LangCount]int32{2, 1}, int32(1), int32(1), int32(1), int32(0), int32(0), int32(1), int32(1)}
	return hwptest.Concat(
		hwptest.DocumentProperties(2),
		docInfoRec(TagIDMappings, idMappings...),
		hwptest.EmbeddedBinData(1, "png"),
		docInfoRec(TagFaceName, uint8(0), "함초롬바탕"),
		docInfoRec(TagFaceName, uint8(0x80), "굴림", uint8(1), "돋움"),
		docInfoRec(TagFaceName, uint8(0x20), "Arial", "Helvetica"),
		docInfoRec(TagCharShape,
			[LangCount]uint16{0, 1}, [LangCount]uint8{100, 100, 100, 100, 100, 100, 100},
			[LangCount]int8{}, [LangCount]uint8{100, 100, 100, 100, 100, 100, 100}, [LangCount]int8{},
			int32(1000), uint32(0x3), int8(10), int8(10),
			uint32(0x000000FF), uint32(0), uint32(0xFFFFFF), uint32(0xB2B2B2), uint16(2)),
		docInfoRec(TagTabDef, uint32(0), uint32(1), int32(8000), uint8(1), uint8(0), uint16(0)),
		docInfoRec(TagNumbering, make([]byte, 12)),
		docInfoRec(TagParaShape, uint32(3<<2), int32(0), int32(0), int32(0), int32(0), int32(0), int32(160),
			uint16(0), uint16(0), uint16(2), [4]int16{}, uint32(0)),
		docInfoRec(TagStyle, "바탕글", "Normal", uint8(0), uint8(0), int16(1042), uint16(0), uint16(0)),
		docInfoRec(TagDocData, make([]byte, 8)),
		docInfoRec(TagCompatibleDocument, uint32(1)),
		docInfoRec(TagLayoutCompatibility, make([]byte, 20)),
	)
}

func TestDecodeDocInfo(t *testing.T) {
	di, err := DecodeDocInfo(sampleDocInfoStream())
	if err != nil {
		t.Fatal(err)
	}
	want := DocInfo{
		SectionSize: 2,
		Properties: DocumentProperties{
			SectionSize: 2, PageStartNumber: 1, FootnoteStartNumber: 1, EndnoteStartNumber: 1,
			PictureStartNumber: 1, TableStartNumber: 1, EquationStartNumber: 1,
		},
		IDMappings: IDMappings{
			BinData: 1, Fonts: [LangCount]int32{2, 1},
			BorderFills: 1, CharShapes: 1, TabDefs: 1, ParaShapes: 1, Styles: 1,
		},
		BinData: []BinDataInfo{{Attr: 1, Type: BinDataEmbedding, ID: 1, Extension: "png"}},
		FontFaces: [LangCount][]FaceName{
			LangHangul: {
				{Name: "함초롬바탕"},
				{Attr: 0x80, Name: "굴림", SubstituteTyp: 1, Substitute: "돋움"},
			},
			LangLatin: {{Attr: 0x20, Name: "Arial", Default: "Helvetica"}},
		},
		CharShapes: []CharShape{{
			FaceIDs:       [LangCount]uint16{0, 1},
			Ratios:        [LangCount]uint8{100, 100, 100, 100, 100, 100, 100},
			RelativeSizes: [LangCount]uint8{100, 100, 100, 100, 100, 100, 100},
			BaseSize:      1000, Attr: 0x3, ShadowX: 10, ShadowY: 10,
			TextColor: 0xFF, ShadeColor: 0xFFFFFF, ShadowColor: 0xB2B2B2, BorderFillID: 2,
		}},
		TabDefs:        []TabDef{{Tabs: []TabStop{{Position: 8000, Kind: 1}}}},
		Numberings:     1,
		ParaShapes:     []ParaShape{{Attr1: 3 << 2, LineSpacing: 160, BorderFillID: 2}},
		Styles:         []Style{{Name: "바탕글", EnglishName: "Normal", LangID: 1042}},
		TargetProgram:  1,
		SkippedRecords: 2,
	}
	if diff := cmp.Diff(want, di, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("DocInfo mismatch (-want +got):\n%s", diff)
	}
	if !di.CharShapes[0].Bold() || !di.CharShapes[0].Italic() {
		t.Fatal("char shape attributes not decoded")
	}
	if di.ParaShapes[0].Align() != 3 {
		t.Fatalf("align %d", di.ParaShapes[0].Align())
	}
}

func TestDecodeDocInfo_MissingProperties(t *testing.T) {
	_, err := DecodeDocInfo(docInfoRec(TagIDMappings, make([]byte, 72)))
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("got %v", err)
	}
}

func TestDecodeDocInfo_ShortRecord(t *testing.T) {
	stream := hwptest.Concat(hwptest.DocumentProperties(1), docInfoRec(TagStyle, uint16(5), uint16('a')))
	if _, err := DecodeDocInfo(stream); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("got %v", err)
	}
}

func TestReadTabDef_ShortCount(t *testing.T) {
	rec := Record{Tag: TagTabDef, Payload: hwptest.Fields(uint32(1), int16(2),
		int32(100), uint8(0), uint8(0), uint16(0),
		int32(200), uint8(2), uint8(3), uint16(0))}
	td, err := readTabDef(newPayloadReader(rec))
	if err != nil {
		t.Fatal(err)
	}
	want := TabDef{Attr: 1, Tabs: []TabStop{{Position: 100}, {Position: 200, Kind: 2, Fill: 3}}}
	if diff := cmp.Diff(want, td); diff != "" {
		t.Fatalf("TabDef mismatch (-want +got):\n%s", diff)
	}

	rec.Payload = hwptest.Fields(uint32(0), uint32(3), int32(1))
	if _, err := readTabDef(newPayloadReader(rec)); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("got %v", err)
	}
}

func TestAssignFontFaces(t *testing.T) {
	faces := []FaceName{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	got := assignFontFaces(faces, [LangCount]int32{})
	if len(got[LangHangul]) != 3 {
		t.Fatalf("without counts all faces go to Hangul, got %v", got)
	}
	got = assignFontFaces(faces, [LangCount]int32{1, 1})
	if got[LangHangul][0].Name != "a" || got[LangLatin][0].Name != "b" || got[LangUser][0].Name != "c" {
		t.Fatalf("unexpected assignment %v", got)
	}
}
