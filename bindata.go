package hwp

import "fmt"

// compressed reports whether the stored item is deflated, given the document
// header flags.
func (b BinDataInfo) compressed(flags HeaderFlags) bool {
	switch b.Compression {
	case BinDataCompressAlways:
		return true
	case BinDataCompressNever:
		return false
	default:
		return flags.Compressed()
	}
}

// loadBinData reads the embedded items declared in DocInfo. Linked items
// live outside the file and storage items are OLE objects; both are skipped.
// Repeated IDs keep their first entry.
func (a *assembler) loadBinData(h Header, di DocInfo) ([]BinData, error) {
	var out []BinData
	seen := make(map[uint16]struct{})
	for _, info := range di.BinData {
		if info.Type != BinDataEmbedding {
			continue
		}
		// Controls refer to items by ID, so only the first entry of an ID is
		// reachable.
		if _, dup := seen[info.ID]; dup {
			a.log.Debug().Uint16("id", info.ID).Msg("skipping duplicate bindata id")
			continue
		}
		seen[info.ID] = struct{}{}
		name := info.StreamName()
		path := EntryBinData + "/" + name
		if len(out) >= a.cfg.limits.MaxBinDataItems {
			return nil, fail(StageBinData, path, -1, fmt.Errorf("%w: more than %d bindata items", ErrLimitExceeded, a.cfg.limits.MaxBinDataItems))
		}
		data, err := streamAt(a.root, path, a.cfg.limits.MaxStreamSize)
		if err != nil {
			return nil, fail(StageBinData, path, -1, err)
		}
		if info.compressed(h.Flags) {
			data, err = inflateRaw(data, a.cfg.limits.MaxDecompressedStream)
			if err != nil {
				return nil, fail(StageBinData, path, -1, err)
			}
		}
		out = append(out, BinData{ID: info.ID, Name: name, Extension: info.Extension, Data: data})
	}
	return out, nil
}
