package hwp

// Limits bounds the resources a single parse may use. Zero fields take the
// defaults below.
type Limits struct {
	MaxStreamSize         uint64 // raw bytes of one container stream
	MaxDecompressedStream uint64 // bytes after inflating one stream
	MaxSections           int
	MaxRecordSize         uint32
	MaxBinDataItems       int
	MaxSnapshotSize       uint64 // gob bytes of a snapshot after decompression
}

func defaultLimits() Limits {
	return Limits{
		MaxStreamSize:         512 << 20, // 512 MiB
		MaxDecompressedStream: 256 << 20, // 256 MiB
		MaxSections:           4096,
		MaxRecordSize:         64 << 20,
		MaxBinDataItems:       65535,
		MaxSnapshotSize:       1 << 30, // 1 GiB
	}
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits { return defaultLimits() }

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxStreamSize == 0 {
		l.MaxStreamSize = d.MaxStreamSize
	}
	if l.MaxDecompressedStream == 0 {
		l.MaxDecompressedStream = d.MaxDecompressedStream
	}
	if l.MaxSections == 0 {
		l.MaxSections = d.MaxSections
	}
	if l.MaxRecordSize == 0 {
		l.MaxRecordSize = d.MaxRecordSize
	}
	if l.MaxBinDataItems == 0 {
		l.MaxBinDataItems = d.MaxBinDataItems
	}
	if l.MaxSnapshotSize == 0 {
		l.MaxSnapshotSize = d.MaxSnapshotSize
	}
	return l
}
