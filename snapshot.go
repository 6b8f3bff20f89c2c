package hwp

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
)

// Function variables for testing injection.
var (
	gobEncodeDocument = func(doc *Document) ([]byte, error) { return gobEncode(doc) }
)

// EncodeSnapshot writes doc to w as a snapshot: a 32-byte header followed by
// the gob encoding of the Document, optionally compressed. Snapshots let a
// parsed document be cached or shipped without re-parsing the HWP file.
//
// The document is validated first (see [Validate]). The payload uses
// Zstandard (CompZSTD) unless WithSnapshotCompression says otherwise.
func EncodeSnapshot(w io.Writer, doc *Document, opts ...WriteOption) error {
	cfg := writeConfig{limits: defaultLimits(), compression: CompZSTD}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()

	if err := validateDocument(doc, cfg.limits); err != nil {
		return err
	}
	raw, err := gobEncodeDocument(doc)
	if err != nil {
		return err
	}
	if uint64(len(raw)) > cfg.limits.MaxSnapshotSize {
		return fmt.Errorf("%w: snapshot of %d bytes", ErrLimitExceeded, len(raw))
	}
	payload, err := compressSnapshot(cfg.compression, raw)
	if err != nil {
		return err
	}
	h := snapshotHeaderV1{
		Magic:           SnapshotMagic,
		Version:         SnapshotVersionV1,
		Compression:     uint16(cfg.compression),
		PayloadLen:      uint64(len(payload)),
		UncompressedLen: uint64(len(raw)),
	}
	if err := writeSnapshotHeader(w, h); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// DecodeSnapshot reads a snapshot written by EncodeSnapshot.
//
// It returns ErrInvalidSnapshot for a bad header or payload, ErrLimitExceeded
// when the payload is larger than Limits.MaxSnapshotSize, and the errors of
// [Validate] when the decoded document is inconsistent.
func DecodeSnapshot(r io.Reader, opts ...ReadOption) (*Document, error) {
	cfg := newReadConfig(opts)

	h, err := readSnapshotHeader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidSnapshot, err)
	}
	if err := validateSnapshotHeader(h, cfg.limits); err != nil {
		return nil, err
	}
	if h.PayloadLen > cfg.limits.MaxSnapshotSize {
		return nil, fmt.Errorf("%w: payload of %d bytes", ErrLimitExceeded, h.PayloadLen)
	}
	payload := make([]byte, h.PayloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrInvalidSnapshot, err)
	}
	raw, err := decompressSnapshot(h.compression(), payload, h.UncompressedLen)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := gobDecode(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: gob: %v", ErrInvalidSnapshot, err)
	}
	if err := validateDocument(&doc, cfg.limits); err != nil {
		return nil, err
	}
	cfg.logger.Debug().Stringer("compression", h.compression()).Uint64("bytes", h.UncompressedLen).Int("sections", len(doc.Sections)).Msg("snapshot decoded")
	return &doc, nil
}

func gobEncode[T any](v T) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gobDecode(data []byte, out any) error {
	dec := gob.NewDecoder(bytes.NewReader(data))
	return dec.Decode(out)
}
