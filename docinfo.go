package hwp

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// DecodeDocInfo decodes an already inflated DocInfo stream.
func DecodeDocInfo(data []byte) (DocInfo, error) {
	return decodeDocInfo(context.Background(), data, 0, zerolog.Nop())
}

func decodeDocInfo(ctx context.Context, data []byte, maxRecord uint32, log zerolog.Logger) (DocInfo, error) {
	var (
		di       DocInfo
		faces    []FaceName
		sawProps bool
	)
	c := newRecordCursor(data)
	c.maxSize = maxRecord
	for {
		if err := ctx.Err(); err != nil {
			return DocInfo{}, err
		}
		rec, err := c.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return DocInfo{}, err
		}
		v, err := decodeDocInfoRecord(rec)
		if err != nil {
			return DocInfo{}, err
		}
		switch r := v.(type) {
		case documentPropertiesRecord:
			di.Properties = r.DocumentProperties
			di.SectionSize = int(r.SectionSize)
			sawProps = true
		case idMappingsRecord:
			di.IDMappings = r.IDMappings
		case binDataRecord:
			di.BinData = append(di.BinData, r.BinDataInfo)
		case faceNameRecord:
			faces = append(faces, r.FaceName)
		case borderFillRecord:
			di.BorderFills = append(di.BorderFills, r.BorderFill)
		case charShapeRecord:
			di.CharShapes = append(di.CharShapes, r.CharShape)
		case tabDefRecord:
			di.TabDefs = append(di.TabDefs, r.TabDef)
		case numberingRecord:
			di.Numberings++
		case bulletRecord:
			di.Bullets++
		case paraShapeRecord:
			di.ParaShapes = append(di.ParaShapes, r.ParaShape)
		case styleRecord:
			di.Styles = append(di.Styles, r.Style)
		case compatibleDocumentRecord:
			di.TargetProgram = r.TargetProgram
		case unknownRecord:
			di.SkippedRecords++
			log.Trace().Stringer("tag", r.Tag).Uint32("size", r.Size).Msg("skipping docinfo record")
		}
	}
	if !sawProps {
		return DocInfo{}, fmt.Errorf("%w: DocInfo has no %s record", ErrMalformedRecord, TagDocumentProperties)
	}
	di.FontFaces = assignFontFaces(faces, di.IDMappings.Fonts)
	return di, nil
}

// assignFontFaces splits the FACE_NAME records, which are stored language by
// language, into per-language slots using the ID_MAPPINGS counts. Faces
// beyond the declared counts go to the user slot; without counts all faces
// go to the Hangul slot.
func assignFontFaces(faces []FaceName, counts [LangCount]int32) [LangCount][]FaceName {
	var out [LangCount][]FaceName
	var total int
	for _, n := range counts {
		if n > 0 {
			total += int(n)
		}
	}
	if total == 0 {
		if len(faces) > 0 {
			out[LangHangul] = faces
		}
		return out
	}
	rest := faces
	for lang, n := range counts {
		if n <= 0 || len(rest) == 0 {
			continue
		}
		k := min(int(n), len(rest))
		out[lang] = rest[:k:k]
		rest = rest[k:]
	}
	if len(rest) > 0 {
		out[LangUser] = append(out[LangUser], rest...)
	}
	return out
}
