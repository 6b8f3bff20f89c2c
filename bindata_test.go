package hwp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/logicossoftware/go-hwp/internal/hwptest"
)

func binDataFile() hwptest.File {
	f := hwptest.Simple("그림")
	f.DocInfo = hwptest.Concat(
		hwptest.DocumentProperties(1),
		hwptest.EmbeddedBinData(1, "png"),
		hwptest.Record(hwptest.TagBinData, 0, hwptest.Fields(uint16(0x21), uint16(2), "jpg")),
		hwptest.Record(hwptest.TagBinData, 0, hwptest.Fields(uint16(0), `C:\img\a.bmp`, "a.bmp")),
	)
	f.BinData = map[string][]byte{
		"BIN0001.png": hwptest.Deflate([]byte("\x89PNG fake")),
		"BIN0002.jpg": []byte("\xFF\xD8 stored"),
	}
	return f
}

func TestParse_BinData(t *testing.T) {
	doc, err := Parse(binDataFile().Bytes(), WithBinData(true))
	if err != nil {
		t.Fatal(err)
	}
	want := []BinData{
		{ID: 1, Name: "BIN0001.png", Extension: "png", Data: []byte("\x89PNG fake")},
		{ID: 2, Name: "BIN0002.jpg", Extension: "jpg", Data: []byte("\xFF\xD8 stored")},
	}
	if diff := cmp.Diff(want, doc.BinData); diff != "" {
		t.Fatalf("bindata (-want +got):\n%s", diff)
	}
	link := doc.DocInfo.BinData[2]
	if link.Type != BinDataLink || link.AbsolutePath != `C:\img\a.bmp` || link.RelativePath != "a.bmp" {
		t.Fatalf("link item %+v", link)
	}
	if err := Validate(doc, Limits{}); err != nil {
		t.Fatal(err)
	}
}

func TestParse_BinDataNotLoadedByDefault(t *testing.T) {
	doc, err := Parse(binDataFile().Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if doc.BinData != nil {
		t.Fatalf("got %d items", len(doc.BinData))
	}
}

func TestParse_BinDataErrors(t *testing.T) {
	f := binDataFile()
	delete(f.BinData, "BIN0002.jpg")
	_, err := Parse(f.Bytes(), WithBinData(true))
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Stage != StageBinData || pe.Entry != "BinData/BIN0002.jpg" || !errors.Is(err, ErrMissingEntry) {
		t.Fatalf("missing item: got %v", err)
	}

	_, err = Parse(binDataFile().Bytes(), WithBinData(true), WithReadLimits(Limits{MaxBinDataItems: 1}))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("item limit: got %v", err)
	}
}

func TestParse_BinDataDuplicateIDKeepsFirst(t *testing.T) {
	f := binDataFile()
	f.DocInfo = hwptest.Concat(f.DocInfo, hwptest.EmbeddedBinData(1, "gif"))
	f.BinData["BIN0001.gif"] = hwptest.Deflate([]byte("GIF89a"))
	doc, err := Parse(f.Bytes(), WithBinData(true))
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, b := range doc.BinData {
		names = append(names, b.Name)
	}
	if diff := cmp.Diff([]string{"BIN0001.png", "BIN0002.jpg"}, names); diff != "" {
		t.Fatalf("items (-want +got):\n%s", diff)
	}
	if err := Validate(doc, Limits{}); err != nil {
		t.Fatal(err)
	}
}

func TestBinDataInfo(t *testing.T) {
	b := BinDataInfo{ID: 0x1A, Extension: "gif"}
	if b.StreamName() != "BIN001A.gif" {
		t.Fatalf("got %q", b.StreamName())
	}
	if !b.compressed(FlagCompressed) || b.compressed(0) {
		t.Fatal("default compression should follow the header flag")
	}
	b.Compression = BinDataCompressNever
	if b.compressed(FlagCompressed) {
		t.Fatal("never-compressed item reported compressed")
	}
	b.Compression = BinDataCompressAlways
	if !b.compressed(0) {
		t.Fatal("always-compressed item reported uncompressed")
	}
}
