package hwp

import "fmt"

// Version is an HWP format version as stored in the FileHeader stream.
type Version struct {
	Major    uint8
	Minor    uint8
	Build    uint8
	Revision uint8
}

// SupportedVersion is the baseline that parsed versions are checked against.
var SupportedVersion = Version{Major: 5, Minor: 1, Build: 0, Revision: 0}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// Compare returns -1, 0 or +1 depending on whether v is older than, equal to
// or newer than o. Fields are compared from Major down to Revision.
func (v Version) Compare(o Version) int {
	a := [4]uint8{v.Major, v.Minor, v.Build, v.Revision}
	b := [4]uint8{o.Major, o.Minor, o.Build, o.Revision}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// AtLeast reports whether v is equal to or newer than o.
func (v Version) AtLeast(o Version) bool { return v.Compare(o) >= 0 }

// VersionPolicy selects how a document version is matched against a baseline.
// Every policy requires the major versions to be equal.
type VersionPolicy uint8

const (
	// PolicyAtLeast accepts versions of the baseline's major line that are
	// not older than the baseline.
	PolicyAtLeast VersionPolicy = iota
	// PolicySameMajor accepts any version of the baseline's major line.
	PolicySameMajor
	// PolicyExact accepts the baseline only.
	PolicyExact
)

func (p VersionPolicy) String() string {
	switch p {
	case PolicyAtLeast:
		return "at-least"
	case PolicySameMajor:
		return "same-major"
	case PolicyExact:
		return "exact"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParseVersionPolicy maps the names returned by VersionPolicy.String back to
// policies.
func ParseVersionPolicy(s string) (VersionPolicy, error) {
	switch s {
	case "", "at-least":
		return PolicyAtLeast, nil
	case "same-major":
		return PolicySameMajor, nil
	case "exact":
		return PolicyExact, nil
	}
	return 0, fmt.Errorf("unknown version policy %q", s)
}

// IsCompatible reports whether v is accepted against base under policy p.
func (v Version) IsCompatible(base Version, p VersionPolicy) bool {
	if v.Major != base.Major {
		return false
	}
	switch p {
	case PolicySameMajor:
		return true
	case PolicyExact:
		return v == base
	default:
		return v.AtLeast(base)
	}
}
