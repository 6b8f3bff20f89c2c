package hwp

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// Validate checks the structural invariants a parsed Document holds: a
// supported header, one section per declared section in index order, and
// uniquely named BinData items. Parse output always validates; snapshots are
// checked with it on both encode and decode.
func Validate(doc *Document, limits Limits) error {
	return validateDocument(doc, limits.withDefaults())
}

func validateDocument(doc *Document, limits Limits) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrValidation)
	}
	if doc.Header.Signature != Signature {
		return fmt.Errorf("%w: header signature %q", ErrValidation, doc.Header.Signature)
	}
	if doc.Header.Version.Major != SupportedVersion.Major {
		return fmt.Errorf("%w: version %s", ErrUnsupportedVersion, doc.Header.Version)
	}
	if len(doc.Sections) > limits.MaxSections {
		return fmt.Errorf("%w: %d sections", ErrLimitExceeded, len(doc.Sections))
	}
	if len(doc.Sections) != doc.DocInfo.SectionSize {
		return fmt.Errorf("%w: %d sections, DocInfo declares %d", ErrValidation, len(doc.Sections), doc.DocInfo.SectionSize)
	}
	for i, s := range doc.Sections {
		if s.Index != i {
			return fmt.Errorf("%w: section %d has index %d", ErrValidation, i, s.Index)
		}
	}
	if len(doc.BinData) > limits.MaxBinDataItems {
		return fmt.Errorf("%w: %d bindata items", ErrLimitExceeded, len(doc.BinData))
	}
	seenIDs := make(map[uint16]struct{}, len(doc.BinData))
	seenNames := make(map[string]struct{}, len(doc.BinData))
	for i, b := range doc.BinData {
		if err := validateEntryName(b.Name); err != nil {
			return fmt.Errorf("%w: bindata item %d name: %v", ErrValidation, i, err)
		}
		if _, ok := seenIDs[b.ID]; ok {
			return fmt.Errorf("%w: duplicate bindata id %d", ErrValidation, b.ID)
		}
		seenIDs[b.ID] = struct{}{}
		if _, ok := seenNames[b.Name]; ok {
			return fmt.Errorf("%w: duplicate bindata name %q", ErrValidation, b.Name)
		}
		seenNames[b.Name] = struct{}{}
		if uint64(len(b.Data)) > limits.MaxDecompressedStream {
			return fmt.Errorf("%w: bindata item %q too large", ErrLimitExceeded, b.Name)
		}
	}
	return nil
}

// validateEntryName accepts a single compound file entry name. Names are
// later used as file names by tools that extract BinData, so path
// separators and dot names are rejected.
func validateEntryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("name must not contain path separators")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("name must not be a dot entry")
	}
	// Compound file directory entries hold at most 31 UTF-16 units.
	if n := len(utf16.Encode([]rune(name))); n > 31 {
		return fmt.Errorf("name is %d UTF-16 units long", n)
	}
	return nil
}
