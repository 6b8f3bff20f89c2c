package hwp

import (
	"errors"
	"testing"

	"github.com/logicossoftware/go-hwp/internal/hwptest"
)

func TestParseFileHeader(t *testing.T) {
	raw := hwptest.FileHeader(5, 1, 2, 3, hwptest.FlagCompressed|hwptest.FlagDistributed)
	raw[48] = 6
	h, err := ParseFileHeader(raw)
	if err != nil {
		t.Fatal(err)
	}
	if h.Signature != Signature {
		t.Fatalf("signature %q", h.Signature)
	}
	if want := (Version{5, 1, 2, 3}); h.Version != want {
		t.Fatalf("version %s, want %s", h.Version, want)
	}
	if !h.Flags.Compressed() || h.Flags.Encrypted() || !h.Flags.Distribution() {
		t.Fatalf("flags %#x", uint32(h.Flags))
	}
	if h.KOGLCountry != 6 {
		t.Fatalf("kogl %d", h.KOGLCountry)
	}
}

func TestParseFileHeader_Errors(t *testing.T) {
	good := hwptest.FileHeader(5, 1, 0, 0, 0)
	bad := append([]byte(nil), good...)
	copy(bad, "HWP Document Fil_")

	cases := []struct {
		name string
		in   []byte
		want error
	}{
		{"empty", nil, ErrInvalidSignature},
		{"shorter than signature", good[:10], ErrInvalidSignature},
		{"wrong signature", bad, ErrInvalidSignature},
		{"no version", good[:32], ErrInvalidHeader},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseFileHeader(tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseFileHeader_MinimalLength(t *testing.T) {
	h, err := ParseFileHeader(hwptest.FileHeader(5, 0, 3, 0, 0)[:36])
	if err != nil {
		t.Fatal(err)
	}
	if h.Version != (Version{5, 0, 3, 0}) || h.Flags != 0 {
		t.Fatalf("got %+v", h)
	}
}

func TestVersionCompatibility(t *testing.T) {
	base := SupportedVersion
	cases := []struct {
		v      Version
		policy VersionPolicy
		want   bool
	}{
		{Version{5, 1, 0, 0}, PolicyAtLeast, true},
		{Version{5, 1, 1, 0}, PolicyAtLeast, true},
		{Version{5, 0, 3, 2}, PolicyAtLeast, false},
		{Version{4, 1, 0, 0}, PolicyAtLeast, false},
		{Version{6, 0, 0, 0}, PolicyAtLeast, false},
		{Version{5, 0, 3, 2}, PolicySameMajor, true},
		{Version{6, 1, 0, 0}, PolicySameMajor, false},
		{Version{5, 1, 0, 0}, PolicyExact, true},
		{Version{5, 1, 0, 1}, PolicyExact, false},
	}
	for _, tc := range cases {
		if got := tc.v.IsCompatible(base, tc.policy); got != tc.want {
			t.Errorf("%s under %s: got %v, want %v", tc.v, tc.policy, got, tc.want)
		}
	}
}

func TestCheckVersion(t *testing.T) {
	h := Header{Signature: Signature, Version: Version{Major: 4}}
	if err := checkVersion(h, PolicySameMajor); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("got %v", err)
	}
}

func TestVersionCompare(t *testing.T) {
	a := Version{5, 0, 3, 0}
	b := Version{5, 1, 0, 0}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Fatal("compare is not ordered by major, minor, build, revision")
	}
	if a.String() != "5.0.3.0" {
		t.Fatalf("String() = %q", a.String())
	}
}

func TestParseVersionPolicy(t *testing.T) {
	for _, p := range []VersionPolicy{PolicyAtLeast, PolicySameMajor, PolicyExact} {
		got, err := ParseVersionPolicy(p.String())
		if err != nil || got != p {
			t.Fatalf("ParseVersionPolicy(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParseVersionPolicy("newest"); err == nil {
		t.Fatal("expected error")
	}
}
