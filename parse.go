package hwp

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Parse decodes a complete HWP file held in memory.
//
// The parse runs in stages, each of which must succeed before the next one
// starts:
//  1. Opens the OLE compound file
//  2. Reads FileHeader, checks the signature and the version policy
//  3. Inflates and decodes DocInfo, which declares the section count
//  4. Inflates and decodes BodyText/Section0 .. Section{n-1} in order
//  5. Optionally loads embedded BinData items (see [WithBinData])
//
// On failure Parse returns a nil Document and a *ParseError that unwraps to
// one of ErrInvalidContainer, ErrMissingEntry, ErrInvalidSignature,
// ErrInvalidHeader, ErrUnsupportedVersion, ErrDecompression,
// ErrMalformedRecord or ErrLimitExceeded.
func Parse(data []byte, opts ...ReadOption) (*Document, error) {
	return ParseContext(context.Background(), data, opts...)
}

// ParseContext is Parse with a context that is checked between records and
// between sections.
func ParseContext(ctx context.Context, data []byte, opts ...ReadOption) (*Document, error) {
	root, err := OpenCompoundFile(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Stage: StageContainer, Section: -1, Err: err}
	}
	return ParseStorage(ctx, root, opts...)
}

// Decode reads r to the end and parses the result.
func Decode(r io.Reader, opts ...ReadOption) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data, opts...)
}

// ParseStorage parses a document from an already opened container.
func ParseStorage(ctx context.Context, root Storage, opts ...ReadOption) (*Document, error) {
	cfg := newReadConfig(opts)
	a := &assembler{ctx: ctx, root: root, cfg: cfg, log: cfg.logger}
	return a.run()
}

type assembler struct {
	ctx  context.Context
	root Storage
	cfg  readConfig
	log  zerolog.Logger
}

func fail(stage Stage, entry string, section int, err error) error {
	return &ParseError{Stage: stage, Entry: entry, Section: section, Err: err}
}

func (a *assembler) run() (*Document, error) {
	header, err := a.parseHeader()
	if err != nil {
		return nil, err
	}
	a.log.Debug().Stringer("version", header.Version).Uint32("flags", uint32(header.Flags)).Msg("header parsed")

	docInfo, err := a.parseDocInfo()
	if err != nil {
		return nil, err
	}
	a.log.Debug().Int("sections", docInfo.SectionSize).Int("skipped", docInfo.SkippedRecords).Msg("docinfo parsed")

	sections, err := a.parseSections(docInfo.SectionSize)
	if err != nil {
		return nil, err
	}
	a.log.Debug().Int("sections", len(sections)).Msg("sections parsed")

	doc := &Document{Header: header, DocInfo: docInfo, Sections: sections}
	if a.cfg.loadBinData {
		doc.BinData, err = a.loadBinData(header, docInfo)
		if err != nil {
			return nil, err
		}
		a.log.Debug().Int("items", len(doc.BinData)).Msg("bindata loaded")
	}
	return doc, nil
}

func (a *assembler) parseHeader() (Header, error) {
	raw, err := streamAt(a.root, EntryFileHeader, a.cfg.limits.MaxStreamSize)
	if err != nil {
		return Header{}, fail(StageHeader, EntryFileHeader, -1, err)
	}
	h, err := ParseFileHeader(raw)
	if err != nil {
		return Header{}, fail(StageHeader, EntryFileHeader, -1, err)
	}
	if err := checkVersion(h, a.cfg.policy); err != nil {
		return Header{}, fail(StageHeader, EntryFileHeader, -1, err)
	}
	return h, nil
}

func (a *assembler) parseDocInfo() (DocInfo, error) {
	data, err := a.inflateEntry(EntryDocInfo)
	if err != nil {
		return DocInfo{}, fail(StageDocInfo, EntryDocInfo, -1, err)
	}
	di, err := decodeDocInfo(a.ctx, data, a.cfg.limits.MaxRecordSize, a.log)
	if err != nil {
		return DocInfo{}, fail(StageDocInfo, EntryDocInfo, -1, err)
	}
	if di.SectionSize > a.cfg.limits.MaxSections {
		return DocInfo{}, fail(StageDocInfo, EntryDocInfo, -1,
			fmt.Errorf("%w: %d sections", ErrLimitExceeded, di.SectionSize))
	}
	return di, nil
}

func (a *assembler) inflateEntry(path string) ([]byte, error) {
	raw, err := streamAt(a.root, path, a.cfg.limits.MaxStreamSize)
	if err != nil {
		return nil, err
	}
	return inflateRaw(raw, a.cfg.limits.MaxDecompressedStream)
}

func sectionPath(i int) string { return EntryBodyText + "/" + SectionEntryName(i) }

func (a *assembler) decodeSectionBytes(i int, raw []byte) (Section, error) {
	data, err := inflateRaw(raw, a.cfg.limits.MaxDecompressedStream)
	if err != nil {
		return Section{}, err
	}
	s, err := decodeSection(a.ctx, data, a.cfg.limits.MaxRecordSize, a.log.With().Int("section", i).Logger())
	if err != nil {
		return Section{}, err
	}
	s.Index = i
	return s, nil
}

// parseSections decodes sections 0..n-1. With a concurrency of one each
// section is located and decoded before the next is looked up. Otherwise the
// section streams are read in order first and then decoded in parallel; the
// error returned is the same in both modes.
func (a *assembler) parseSections(n int) ([]Section, error) {
	sections := make([]Section, n)
	if a.cfg.concurrency <= 1 {
		for i := range n {
			if err := a.ctx.Err(); err != nil {
				return nil, fail(StageSection, sectionPath(i), i, err)
			}
			raw, err := streamAt(a.root, sectionPath(i), a.cfg.limits.MaxStreamSize)
			if err != nil {
				return nil, fail(StageSection, sectionPath(i), i, err)
			}
			s, err := a.decodeSectionBytes(i, raw)
			if err != nil {
				return nil, fail(StageSection, sectionPath(i), i, err)
			}
			sections[i] = s
		}
		return sections, nil
	}

	// Fetching stops at the first missing stream. Only the sections before it
	// are decoded, so the reported failure is the one a sequential parse hits.
	raws := make([][]byte, 0, n)
	var fetchErr error
	for i := range n {
		raw, err := streamAt(a.root, sectionPath(i), a.cfg.limits.MaxStreamSize)
		if err != nil {
			fetchErr = err
			break
		}
		raws = append(raws, raw)
	}
	errs := make([]error, len(raws))
	var g errgroup.Group
	g.SetLimit(a.cfg.concurrency)
	for i := range raws {
		g.Go(func() error {
			s, err := a.decodeSectionBytes(i, raws[i])
			if err != nil {
				errs[i] = err
				return err
			}
			sections[i] = s
			return nil
		})
	}
	_ = g.Wait()
	for i, err := range errs {
		if err != nil {
			return nil, fail(StageSection, sectionPath(i), i, err)
		}
	}
	if fetchErr != nil {
		i := len(raws)
		return nil, fail(StageSection, sectionPath(i), i, fetchErr)
	}
	return sections, nil
}
