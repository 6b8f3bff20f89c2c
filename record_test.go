package hwp

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/logicossoftware/go-hwp/internal/hwptest"
)

func TestRecordCursor(t *testing.T) {
	buf := hwptest.Concat(
		hwptest.Record(uint16(TagParaHeader), 0, []byte{1, 2, 3}),
		hwptest.Record(uint16(TagParaText), 1, nil),
		hwptest.Record(uint16(TagCtrlHeader), 1, bytes.Repeat([]byte{7}, 5000)),
	)
	c := newRecordCursor(buf)
	want := []Record{
		{Tag: TagParaHeader, Level: 0, Size: 3, Payload: []byte{1, 2, 3}, Offset: 0},
		{Tag: TagParaText, Level: 1, Size: 0, Payload: []byte{}, Offset: 7},
		{Tag: TagCtrlHeader, Level: 1, Size: 5000, Payload: bytes.Repeat([]byte{7}, 5000), Offset: 11},
	}
	for i, w := range want {
		got, err := c.next()
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if diff := cmp.Diff(w, got, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("record %d mismatch (-want +got):\n%s", i, diff)
		}
	}
	if _, err := c.next(); err != io.EOF {
		t.Fatalf("expected io.EOF at end, got %v", err)
	}
}

func TestRecordCursor_Truncated(t *testing.T) {
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(TagParaText)|1000<<20)
	buf := append(hdr[:], make([]byte, 10)...)
	if _, err := newRecordCursor(buf).next(); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("got %v, want ErrMalformedRecord", err)
	}

	// Header cut in half.
	if _, err := newRecordCursor([]byte{0x42, 0x00}).next(); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("got %v, want ErrMalformedRecord", err)
	}

	// Extended size marker without the size word.
	binary.LittleEndian.PutUint32(hdr[:], uint32(TagParaText)|0xFFF<<20)
	if _, err := newRecordCursor(hdr[:]).next(); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("got %v, want ErrMalformedRecord", err)
	}
}

func TestRecordCursor_MaxSize(t *testing.T) {
	c := newRecordCursor(hwptest.Record(uint16(TagParaText), 0, make([]byte, 64)))
	c.maxSize = 32
	if _, err := c.next(); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("got %v, want ErrLimitExceeded", err)
	}
}

func TestRecordsSeq(t *testing.T) {
	buf := hwptest.Concat(
		hwptest.Record(uint16(TagDocumentProperties), 0, make([]byte, 26)),
		hwptest.Record(uint16(TagIDMappings), 0, make([]byte, 72)),
	)
	var tags []Tag
	for rec, err := range Records(buf) {
		if err != nil {
			t.Fatal(err)
		}
		tags = append(tags, rec.Tag)
	}
	if diff := cmp.Diff([]Tag{TagDocumentProperties, TagIDMappings}, tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}

	// Restartable and stops after the first error.
	bad := append(buf, 0x01)
	var n, errs int
	for _, err := range Records(bad) {
		n++
		if err != nil {
			errs++
		}
	}
	if n != 3 || errs != 1 {
		t.Fatalf("got %d items with %d errors", n, errs)
	}
}

func TestReadRecords_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := readRecords(ctx, hwptest.Record(uint16(TagParaText), 0, nil), 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestBuildTree(t *testing.T) {
	recs := []Record{
		{Tag: TagParaHeader, Level: 0},
		{Tag: TagParaText, Level: 1},
		{Tag: TagCtrlHeader, Level: 1},
		{Tag: TagListHeader, Level: 2},
		{Tag: TagParaHeader, Level: 2},
		{Tag: TagParaText, Level: 3},
		{Tag: TagParaHeader, Level: 0},
	}
	roots, err := buildTree(recs)
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 2 {
		t.Fatalf("got %d roots", len(roots))
	}
	first := roots[0]
	if len(first.children) != 2 || first.children[1].Tag != TagCtrlHeader {
		t.Fatalf("unexpected children of first paragraph")
	}
	ctrl := first.children[1]
	if len(ctrl.children) != 2 || len(ctrl.children[1].children) != 1 {
		t.Fatalf("control children not nested")
	}
	if len(roots[1].children) != 0 {
		t.Fatalf("second paragraph should be a leaf")
	}
}

func TestBuildTree_Malformed(t *testing.T) {
	cases := map[string][]Record{
		"level jump": {
			{Tag: TagParaHeader, Level: 0},
			{Tag: TagParaText, Level: 2},
		},
		"below base": {
			{Tag: TagParaHeader, Level: 1},
			{Tag: TagParaHeader, Level: 0},
		},
	}
	for name, recs := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := buildTree(recs); !errors.Is(err, ErrMalformedRecord) {
				t.Fatalf("got %v", err)
			}
		})
	}
}

func TestTagString(t *testing.T) {
	if TagParaText.String() != "PARA_TEXT" {
		t.Fatalf("got %q", TagParaText.String())
	}
	if Tag(999).String() != "TAG(999)" {
		t.Fatalf("got %q", Tag(999).String())
	}
}
