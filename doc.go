// Package hwp reads HWP 5 documents, the binary word processor format of
// Hancom Office.
//
// An HWP 5 file is an OLE compound file. The streams this package reads are:
//   - FileHeader: a 256-byte header with the signature, version and flags
//   - DocInfo: deflated records describing fonts, shapes, styles and the
//     number of sections
//   - BodyText/Section0 .. Section{n-1}: deflated records holding the
//     paragraphs and controls of each section
//   - BinData/BIN0001.png ...: embedded images and other binary items
//
// Every DocInfo and section stream is a flat list of tagged records. A
// record's level nests it below the closest preceding record with a lower
// level, which is how paragraphs own their text and how tables own cells.
//
// # Basic Usage
//
//	data, _ := os.ReadFile("report.hwp")
//	doc, err := hwp.Parse(data)
//	if err != nil {
//		var pe *hwp.ParseError
//		if errors.As(err, &pe) {
//			log.Printf("failed at %s (%s)", pe.Stage, pe.Entry)
//		}
//		return err
//	}
//	fmt.Println(doc.Text())
//
// Sections may be decoded in parallel with [WithConcurrency], and embedded
// items loaded with [WithBinData]. A parsed Document can be stored with
// [EncodeSnapshot] and restored with [DecodeSnapshot] without touching the
// HWP file again; [Cache] keeps recently parsed documents in memory.
//
// # Security Considerations
//
// Every stream size, inflated size, record size and item count is bounded by
// [Limits]. Exceeding a bound fails the parse with ErrLimitExceeded instead of
// allocating. Encrypted and distribution documents are not decrypted; their
// sections fail to inflate.
package hwp
