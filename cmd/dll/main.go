// Package main provides C-compatible exports for the hwp library.
// Build with: go build -buildmode=c-shared -o hwp.dll
package main

/*
#include <stdlib.h>
#include <stdint.h>

// Result structure for operations that return data
typedef struct {
    char* data;
    int   data_len;
    char* error;
} HwpResult;
*/
import "C"

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unsafe"

	"github.com/logicossoftware/go-hwp"
)

func main() {}

// HwpVersion returns the supported HWP format version packed as
// 0xMMmmBBRR (major, minor, build, revision).
//
//export HwpVersion
func HwpVersion() C.uint32_t {
	v := hwp.SupportedVersion
	return C.uint32_t(uint32(v.Major)<<24 | uint32(v.Minor)<<16 | uint32(v.Build)<<8 | uint32(v.Revision))
}

// HwpFreeResult frees memory allocated by other Hwp functions.
// Must be called to avoid memory leaks.
//
//export HwpFreeResult
func HwpFreeResult(result C.HwpResult) {
	if result.data != nil {
		C.free(unsafe.Pointer(result.data))
	}
	if result.error != nil {
		C.free(unsafe.Pointer(result.error))
	}
}

// HwpFreeString frees a C string allocated by Go.
//
//export HwpFreeString
func HwpFreeString(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

// makeResult creates a result with data.
func makeResult(data []byte) C.HwpResult {
	var result C.HwpResult
	if len(data) > 0 {
		result.data = (*C.char)(C.CBytes(data))
		result.data_len = C.int(len(data))
	}
	return result
}

// makeError creates a result with an error message.
func makeError(err error) C.HwpResult {
	var result C.HwpResult
	result.error = C.CString(err.Error())
	return result
}

func parse(data *C.char, dataLen C.int, opts ...hwp.ReadOption) (*hwp.Document, error) {
	return hwp.Parse(C.GoBytes(unsafe.Pointer(data), dataLen), opts...)
}

// HwpParse parses an HWP file and returns a JSON representation of the
// document. BinData items are not loaded; use HwpGetBinData.
// Parameters:
//   - data: pointer to HWP file bytes
//   - dataLen: length of the data
//
// Returns HwpResult with JSON or error. Call HwpFreeResult when done.
//
//export HwpParse
func HwpParse(data *C.char, dataLen C.int) C.HwpResult {
	doc, err := parse(data, dataLen)
	if err != nil {
		return makeError(err)
	}
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return makeError(err)
	}
	return makeResult(jsonBytes)
}

// HwpText returns the UTF-8 text of every section of an HWP file.
//
// Returns HwpResult with text or error. Call HwpFreeResult when done.
//
//export HwpText
func HwpText(data *C.char, dataLen C.int) C.HwpResult {
	doc, err := parse(data, dataLen)
	if err != nil {
		return makeError(err)
	}
	return makeResult([]byte(doc.Text()))
}

// HwpGetBinData retrieves the bytes of an embedded BinData item by ID.
//
// Returns HwpResult with item data or error. Call HwpFreeResult when done.
//
//export HwpGetBinData
func HwpGetBinData(data *C.char, dataLen C.int, id C.uint16_t) C.HwpResult {
	doc, err := parse(data, dataLen, hwp.WithBinData(true))
	if err != nil {
		return makeError(err)
	}
	for _, item := range doc.BinData {
		if item.ID == uint16(id) {
			return makeResult(item.Data)
		}
	}
	return makeError(fmt.Errorf("bindata item not found: %d", uint16(id)))
}

// HwpValidate parses an HWP file and checks the result.
// Returns NULL on success, or an error message string on failure.
// Call HwpFreeString on the result if non-NULL.
//
//export HwpValidate
func HwpValidate(data *C.char, dataLen C.int) *C.char {
	doc, err := parse(data, dataLen)
	if err == nil {
		err = hwp.Validate(doc, hwp.Limits{})
	}
	if err != nil {
		return C.CString(err.Error())
	}
	return nil
}

// HwpGetSectionCount returns the number of sections in an HWP file.
// Returns -1 on error.
//
//export HwpGetSectionCount
func HwpGetSectionCount(data *C.char, dataLen C.int) C.int {
	doc, err := parse(data, dataLen)
	if err != nil {
		return -1
	}
	return C.int(len(doc.Sections))
}

// HwpSnapshot parses an HWP file and encodes the document as a snapshot.
// Parameters:
//   - compression: snapshot compression (0=None, 1=ZIP, 2=ZSTD, 3=LZ4, 4=Brotli)
//
// Returns HwpResult with snapshot bytes or error. Call HwpFreeResult when done.
//
//export HwpSnapshot
func HwpSnapshot(data *C.char, dataLen C.int, compression C.uint16_t) C.HwpResult {
	doc, err := parse(data, dataLen, hwp.WithBinData(true))
	if err != nil {
		return makeError(err)
	}
	var buf bytes.Buffer
	if err := hwp.EncodeSnapshot(&buf, doc, hwp.WithSnapshotCompression(hwp.Compression(compression))); err != nil {
		return makeError(err)
	}
	return makeResult(buf.Bytes())
}

// HwpSnapshotText decodes a snapshot and returns the document text.
//
// Returns HwpResult with text or error. Call HwpFreeResult when done.
//
//export HwpSnapshotText
func HwpSnapshotText(data *C.char, dataLen C.int) C.HwpResult {
	goData := C.GoBytes(unsafe.Pointer(data), dataLen)
	doc, err := hwp.DecodeSnapshot(bytes.NewReader(goData))
	if err != nil {
		return makeError(err)
	}
	return makeResult([]byte(doc.Text()))
}
