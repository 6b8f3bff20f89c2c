package hwp

import (
	"errors"
	"fmt"
)

var (
	ErrMissingEntry       = errors.New("hwp: missing entry")
	ErrInvalidSignature   = errors.New("hwp: invalid signature")
	ErrUnsupportedVersion = errors.New("hwp: unsupported version")
	ErrDecompression      = errors.New("hwp: decompression failed")
	ErrMalformedRecord    = errors.New("hwp: malformed record")
	ErrInvalidHeader      = errors.New("hwp: invalid file header")
	ErrInvalidContainer   = errors.New("hwp: invalid compound file")
	ErrLimitExceeded      = errors.New("hwp: limit exceeded")
	ErrInvalidSnapshot    = errors.New("hwp: invalid snapshot")
	ErrValidation         = errors.New("hwp: document validation failed")
)

// Stage identifies the step of the parse pipeline that failed.
type Stage uint8

const (
	StageContainer Stage = iota + 1
	StageHeader
	StageDocInfo
	StageSection
	StageBinData
)

func (s Stage) String() string {
	switch s {
	case StageContainer:
		return "container"
	case StageHeader:
		return "header"
	case StageDocInfo:
		return "docinfo"
	case StageSection:
		return "section"
	case StageBinData:
		return "bindata"
	default:
		return fmt.Sprintf("stage(%d)", uint8(s))
	}
}

// ParseError is returned by the Parse family of functions. It records which
// stage and which container entry failed; Err is one of the sentinel errors
// above, possibly wrapped with more detail.
type ParseError struct {
	Stage Stage
	Entry string // container path such as "BodyText/Section1"; empty for StageContainer
	// Section is the zero-based section index for StageSection, -1 otherwise.
	Section int
	Err     error
}

func (e *ParseError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Entry, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
