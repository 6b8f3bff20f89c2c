package hwp

import "fmt"

// Document is a parsed HWP file. Sections has exactly DocInfo.SectionSize
// elements, in section index order.
type Document struct {
	Header   Header
	DocInfo  DocInfo
	Sections []Section
	// BinData holds embedded items when parsed with WithBinData(true).
	BinData []BinData
}

// Language slots used by font faces and character shapes.
const (
	LangHangul = iota
	LangLatin
	LangHanja
	LangJapanese
	LangOther
	LangSymbol
	LangUser
	LangCount
)

// DocInfo is the document-wide metadata decoded from the DocInfo stream.
type DocInfo struct {
	// SectionSize is the number of BodyText/Section{N} streams.
	SectionSize int
	Properties  DocumentProperties
	IDMappings  IDMappings
	BinData     []BinDataInfo
	FontFaces   [LangCount][]FaceName
	BorderFills []BorderFill
	CharShapes  []CharShape
	TabDefs     []TabDef
	Numberings  int
	Bullets     int
	ParaShapes  []ParaShape
	Styles      []Style
	// TargetProgram is the COMPATIBLE_DOCUMENT target (0 current, 1 HWP 2007, 2 MS Word).
	TargetProgram uint32
	// SkippedRecords counts records with tags this package does not decode.
	SkippedRecords int
}

type DocumentProperties struct {
	SectionSize         uint16
	PageStartNumber     uint16
	FootnoteStartNumber uint16
	EndnoteStartNumber  uint16
	PictureStartNumber  uint16
	TableStartNumber    uint16
	EquationStartNumber uint16
	CaretListID         uint32
	CaretParagraphID    uint32
	CaretCharPos        uint32
}

// IDMappings holds the declared element counts of the DocInfo tables.
type IDMappings struct {
	BinData      int32
	Fonts        [LangCount]int32
	BorderFills  int32
	CharShapes   int32
	TabDefs      int32
	Numberings   int32
	Bullets      int32
	ParaShapes   int32
	Styles       int32
	MemoShapes   int32
	TrackChanges int32
	ChangeAuthor int32
}

// BinDataType says where the bytes of a BIN_DATA entry live.
type BinDataType uint8

const (
	BinDataLink BinDataType = iota
	BinDataEmbedding
	BinDataStorage
)

func (t BinDataType) String() string {
	switch t {
	case BinDataLink:
		return "link"
	case BinDataEmbedding:
		return "embedding"
	case BinDataStorage:
		return "storage"
	default:
		return fmt.Sprintf("bindata(%d)", uint8(t))
	}
}

// BinDataCompression overrides the document compression flag per item.
type BinDataCompression uint8

const (
	BinDataCompressDefault BinDataCompression = iota
	BinDataCompressAlways
	BinDataCompressNever
)

type BinDataInfo struct {
	Attr         uint16
	Type         BinDataType
	Compression  BinDataCompression
	AbsolutePath string // link only
	RelativePath string // link only
	ID           uint16 // embedding and storage
	Extension    string // embedding only
}

// StreamName is the BinData storage stream name for embedded items.
func (b BinDataInfo) StreamName() string {
	return fmt.Sprintf("BIN%04X.%s", b.ID, b.Extension)
}

// BinData is an embedded item read from the BinData storage.
type BinData struct {
	ID        uint16
	Name      string
	Extension string
	Data      []byte
}

type FaceName struct {
	Attr          uint8
	Name          string
	Substitute    string
	SubstituteTyp uint8
	TypeInfo      []byte // 10 bytes of PANOSE-like classification when present
	Default       string
}

type Border struct {
	Type  uint8
	Width uint8
	Color uint32 // COLORREF, 0x00BBGGRR
}

type BorderFill struct {
	Attr     uint16
	Borders  [4]Border // left, right, top, bottom
	Diagonal Border
	FillType uint32
	// FillColor and PatternColor are set for solid fills.
	FillColor    uint32
	PatternColor uint32
	PatternType  int32
}

type CharShape struct {
	FaceIDs        [LangCount]uint16
	Ratios         [LangCount]uint8
	Spacings       [LangCount]int8
	RelativeSizes  [LangCount]uint8
	Positions      [LangCount]int8
	BaseSize       int32
	Attr           uint32
	ShadowX        int8
	ShadowY        int8
	TextColor      uint32
	UnderlineColor uint32
	ShadeColor     uint32
	ShadowColor    uint32
	BorderFillID   uint16
	StrikeColor    uint32
}

// Italic and Bold read the attribute bits of the shape.
func (c CharShape) Italic() bool { return c.Attr&0x1 != 0 }
func (c CharShape) Bold() bool   { return c.Attr&0x2 != 0 }

type TabStop struct {
	Position int32
	Kind     uint8
	Fill     uint8
}

type TabDef struct {
	Attr uint32
	Tabs []TabStop
}

type ParaShape struct {
	Attr1         uint32
	LeftMargin    int32
	RightMargin   int32
	Indent        int32
	PrevSpacing   int32
	NextSpacing   int32
	LineSpacing   int32
	TabDefID      uint16
	NumberingID   uint16
	BorderFillID  uint16
	BorderOffsets [4]int16
	Attr2         uint32
	Attr3         uint32
	LineSpacing2  uint32
}

// Align returns the horizontal alignment bits (0 justify, 1 left, 2 right,
// 3 center, 4 distribute, 5 split).
func (p ParaShape) Align() uint8 { return uint8((p.Attr1 >> 2) & 0x7) }

type Style struct {
	Name        string
	EnglishName string
	Attr        uint8
	NextStyleID uint8
	LangID      int16
	ParaShapeID uint16
	CharShapeID uint16
}

// Kind is 0 for paragraph styles and 1 for character styles.
func (s Style) Kind() uint8 { return s.Attr & 0x7 }

// Section is one decoded BodyText/Section{N} stream.
type Section struct {
	Index int
	// Definition comes from the secd control of the first paragraph.
	Definition *SectionDef
	Paragraphs []Paragraph
}

type ParaHeader struct {
	// CharCount is the number of UTF-16 units in the paragraph text,
	// controls included.
	CharCount      uint32
	ControlMask    uint32
	ParaShapeID    uint16
	StyleID        uint8
	BreakType      uint8
	CharShapeCount uint16
	RangeTagCount  uint16
	LineAlignCount uint16
	InstanceID     uint32
}

type CharShapeRef struct {
	Pos         uint32
	CharShapeID uint32
}

type LineSeg struct {
	TextStart   uint32
	VertPos     int32
	LineHeight  int32
	TextHeight  int32
	BaseLineGap int32
	LineSpacing int32
	ColumnStart int32
	SegWidth    int32
	Tag         uint32
}

type RangeTag struct {
	Start uint32
	End   uint32
	Tag   uint32
}

type Paragraph struct {
	Header     ParaHeader
	Text       string
	CharShapes []CharShapeRef
	LineSegs   []LineSeg
	RangeTags  []RangeTag
	Controls   []Control
}

// CtrlID is a four character control identifier stored as a big-endian
// packed uint32, for example 'secd' or 'tbl '.
type CtrlID uint32

func MakeCtrlID(s string) CtrlID {
	var b [4]byte
	copy(b[:], s)
	return CtrlID(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

func (c CtrlID) String() string {
	return string([]byte{byte(c >> 24), byte(c >> 16), byte(c >> 8), byte(c)})
}

var (
	CtrlSectionDef = MakeCtrlID("secd")
	CtrlColumnDef  = MakeCtrlID("cold")
	CtrlTable      = MakeCtrlID("tbl ")
	CtrlShape      = MakeCtrlID("gso ")
	CtrlEquation   = MakeCtrlID("eqed")
	CtrlHeader     = MakeCtrlID("head")
	CtrlFooter     = MakeCtrlID("foot")
	CtrlFootnote   = MakeCtrlID("fn  ")
	CtrlEndnote    = MakeCtrlID("en  ")
	CtrlAutoNumber = MakeCtrlID("atno")
	CtrlNewNumber  = MakeCtrlID("nwno")
	CtrlPageHide   = MakeCtrlID("pghd")
	CtrlBookmark   = MakeCtrlID("bokm")
)

// ObjectCommon is the common object header of tables and drawing objects.
type ObjectCommon struct {
	Attr        uint32
	VertOffset  int32
	HorzOffset  int32
	Width       uint32
	Height      uint32
	ZOrder      int32
	Margins     [4]int16
	InstanceID  uint32
	Description string
}

type Control struct {
	ID CtrlID
	// Object is set for tables and drawing objects.
	Object     *ObjectCommon
	Table      *Table
	SectionDef *SectionDef
	Picture    *Picture
	// Lists holds paragraph lists such as header, footer and note bodies.
	Lists [][]Paragraph
	// Data is the raw CTRL_HEADER payload following the control id.
	Data []byte
}

type SectionDef struct {
	Attr            uint32
	ColumnGap       int16
	VertGrid        uint16
	HorzGrid        uint16
	DefaultTabStop  uint32
	NumberingShape  uint16
	PageStartNumber uint16
	PageDef         *PageDef
}

type PageDef struct {
	Width         uint32
	Height        uint32
	PaddingLeft   uint32
	PaddingRight  uint32
	PaddingTop    uint32
	PaddingBottom uint32
	HeaderPadding uint32
	FooterPadding uint32
	GutterPadding uint32
	Attr          uint32
}

// Landscape reports the orientation bit of the page attributes.
func (p PageDef) Landscape() bool { return p.Attr&0x1 != 0 }

type Table struct {
	Attr         uint32
	Rows         uint16
	Cols         uint16
	CellSpacing  int16
	Padding      [4]uint16
	RowSizes     []uint16
	BorderFillID uint16
	Cells        []Cell
}

type Cell struct {
	ParaCount    uint16
	Attr         uint32
	Col          uint16
	Row          uint16
	ColSpan      uint16
	RowSpan      uint16
	Width        uint32
	Height       uint32
	Padding      [4]uint16
	BorderFillID uint16
	Paragraphs   []Paragraph
}

type Picture struct {
	BorderColor     uint32
	BorderThickness int32
	BorderAttr      uint32
	Crop            [4]int32
	Padding         [4]uint16
	Brightness      int8
	Contrast        int8
	Effect          uint8
	BinDataID       uint16
}
