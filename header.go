package hwp

import (
	"encoding/binary"
	"fmt"
)

// Signature is the literal that starts every HWP 5 FileHeader stream.
const Signature = "HWP Document File"

const (
	signatureLen         = len(Signature)
	versionOffset        = 32
	propertiesOffset     = 36
	licenseOffset        = 40
	encryptVersionOffset = 44
	koglOffset           = 48
)

// HeaderFlags is the properties bit field of the FileHeader.
type HeaderFlags uint32

const (
	FlagCompressed HeaderFlags = 1 << iota
	FlagEncrypted
	FlagDistribution
	FlagScript
	FlagDRM
	FlagXMLTemplate
	FlagHistory
	FlagSigned
	FlagCertEncrypted
	FlagSignatureSpare
	FlagCertDRM
	FlagCCL
)

func (f HeaderFlags) Compressed() bool    { return f&FlagCompressed != 0 }
func (f HeaderFlags) Encrypted() bool     { return f&FlagEncrypted != 0 }
func (f HeaderFlags) Distribution() bool  { return f&FlagDistribution != 0 }
func (f HeaderFlags) Script() bool        { return f&FlagScript != 0 }
func (f HeaderFlags) DRM() bool           { return f&FlagDRM != 0 }
func (f HeaderFlags) XMLTemplate() bool   { return f&FlagXMLTemplate != 0 }
func (f HeaderFlags) History() bool       { return f&FlagHistory != 0 }
func (f HeaderFlags) Signed() bool        { return f&FlagSigned != 0 }
func (f HeaderFlags) CertEncrypted() bool { return f&FlagCertEncrypted != 0 }
func (f HeaderFlags) CertDRM() bool       { return f&FlagCertDRM != 0 }
func (f HeaderFlags) CCL() bool           { return f&FlagCCL != 0 }

// Header is the validated content of the FileHeader stream.
type Header struct {
	Signature      string
	Version        Version
	Flags          HeaderFlags
	License        uint32
	EncryptVersion uint32
	KOGLCountry    uint8
}

// ParseFileHeader validates the signature of a FileHeader stream and reads its
// version and property fields. It does not check version compatibility; see
// Version.IsCompatible.
func ParseFileHeader(data []byte) (Header, error) {
	if len(data) < signatureLen {
		return Header{}, fmt.Errorf("%w: header is %d bytes", ErrInvalidSignature, len(data))
	}
	sig := latin1(data[:signatureLen])
	if sig != Signature {
		return Header{}, fmt.Errorf("%w: got %q", ErrInvalidSignature, sig)
	}
	if len(data) < versionOffset+4 {
		return Header{}, fmt.Errorf("%w: header is %d bytes, version needs %d", ErrInvalidHeader, len(data), versionOffset+4)
	}
	// Stored as revision, build, minor, major.
	vb := data[versionOffset : versionOffset+4]
	h := Header{
		Signature: sig,
		Version:   Version{Major: vb[3], Minor: vb[2], Build: vb[1], Revision: vb[0]},
	}
	if len(data) >= propertiesOffset+4 {
		h.Flags = HeaderFlags(binary.LittleEndian.Uint32(data[propertiesOffset:]))
	}
	if len(data) >= licenseOffset+4 {
		h.License = binary.LittleEndian.Uint32(data[licenseOffset:])
	}
	if len(data) >= encryptVersionOffset+4 {
		h.EncryptVersion = binary.LittleEndian.Uint32(data[encryptVersionOffset:])
	}
	if len(data) > koglOffset {
		h.KOGLCountry = data[koglOffset]
	}
	return h, nil
}

// checkVersion applies the compatibility policy to a parsed header.
func checkVersion(h Header, p VersionPolicy) error {
	if !h.Version.IsCompatible(SupportedVersion, p) {
		return fmt.Errorf("%w: %s is not compatible with %s (%s)", ErrUnsupportedVersion, h.Version, SupportedVersion, p)
	}
	return nil
}

// latin1 maps each byte to the rune with the same value.
func latin1(b []byte) string {
	r := make([]rune, len(b))
	for i, c := range b {
		r[i] = rune(c)
	}
	return string(r)
}
