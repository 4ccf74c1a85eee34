package str

import (
	"bytes"

	"github.com/wippyai/strbridge/encoding"
	"github.com/wippyai/strbridge/errors"
)

// New builds a string from length bytes of b under the given encoding.
// A nil b allocates length zero-initialized bytes; otherwise exactly
// length bytes are copied. A nil encoding means raw binary.
func New(b []byte, length int, enc *encoding.Encoding) (*String, error) {
	if length < 0 {
		return nil, errors.NegativeSize(errors.PhaseConstruct, int64(length))
	}
	if enc == nil {
		enc = encoding.ASCII8BIT()
	}
	if b != nil && length > len(b) {
		return nil, errors.OutOfBounds(errors.PhaseConstruct, int64(length), int64(len(b)))
	}

	s := alloc(length, enc)
	if b != nil {
		copy(s.buf, b[:length])
	}
	s.length = length
	return s, nil
}

// NewCString builds a binary string from b up to the first NUL byte, or
// all of b when it contains none.
func NewCString(b []byte) (*String, error) {
	n := bytes.IndexByte(b, 0)
	if n < 0 {
		n = len(b)
	}
	return New(b, n, encoding.ASCII8BIT())
}

// NewBuffer allocates an empty string with pre-reserved capacity.
func NewBuffer(capacity int) (*String, error) {
	if capacity < 0 {
		return nil, errors.NegativeSize(errors.PhaseConstruct, int64(capacity))
	}
	return alloc(capacity, encoding.ASCII8BIT()), nil
}

// NewUTF8 builds a UTF-8 tagged string.
func NewUTF8(b []byte, length int) (*String, error) {
	return New(b, length, encoding.UTF8())
}

// NewUSASCII builds a US-ASCII tagged string.
func NewUSASCII(b []byte, length int) (*String, error) {
	return New(b, length, encoding.USASCII())
}

// NewTainted builds a binary string carrying the legacy taint flag.
func NewTainted(b []byte, length int) (*String, error) {
	s, err := New(b, length, nil)
	if err != nil {
		return nil, err
	}
	s.Taint()
	return s, nil
}

// NewTaintedCString is NewCString plus the taint flag.
func NewTaintedCString(b []byte) (*String, error) {
	s, err := NewCString(b)
	if err != nil {
		return nil, err
	}
	s.Taint()
	return s, nil
}

// NewTaintedWithEncoding builds a tainted string under a given encoding.
func NewTaintedWithEncoding(b []byte, length int, enc *encoding.Encoding) (*String, error) {
	s, err := New(b, length, enc)
	if err != nil {
		return nil, err
	}
	s.Taint()
	return s, nil
}

// NewExternalWithEncoding ingests foreign bytes under an explicit
// external encoding, applying the external-string normalization rule:
// content tagged US-ASCII that is not 7-bit clean is retagged as raw
// binary instead of being transcoded; everything else is associated with
// the external encoding and converted to the default internal encoding
// when one is configured. External strings carry the taint flag.
func NewExternalWithEncoding(b []byte, length int, eenc *encoding.Encoding) (*String, error) {
	s, err := NewTaintedWithEncoding(b, length, eenc)
	if err != nil {
		return nil, err
	}
	return externalize(s, eenc), nil
}

func externalize(s *String, eenc *encoding.Encoding) *String {
	if eenc == encoding.USASCII() && s.Coderange() != encoding.CoderangeSevenBit {
		s.ForceEncoding(encoding.ASCII8BIT())
		return s
	}
	s.ForceEncoding(eenc)

	internal := encoding.DefaultInternal()
	if internal == nil || internal == eenc {
		return s
	}
	// Default-internal normalization is best effort: content that does
	// not convert keeps its external encoding.
	converted, err := Convert(s, eenc, internal, encoding.PolicyFail)
	if err != nil {
		return s
	}
	return converted
}

// NewExternal ingests foreign bytes under the default external encoding.
func NewExternal(b []byte, length int) (*String, error) {
	return NewExternalWithEncoding(b, length, encoding.DefaultExternal())
}

// NewExternalCString is NewExternal with a NUL-scanned length.
func NewExternalCString(b []byte) (*String, error) {
	return NewExternalWithEncoding(b, cstrLen(b), encoding.DefaultExternal())
}

// NewLocale ingests foreign bytes under the locale encoding.
func NewLocale(b []byte, length int) (*String, error) {
	return NewExternalWithEncoding(b, length, encoding.Locale())
}

// NewLocaleCString is NewLocale with a NUL-scanned length.
func NewLocaleCString(b []byte) (*String, error) {
	return NewExternalWithEncoding(b, cstrLen(b), encoding.Locale())
}

// NewFilesystem ingests foreign path bytes under the filesystem encoding.
func NewFilesystem(b []byte, length int) (*String, error) {
	return NewExternalWithEncoding(b, length, encoding.Filesystem())
}

// NewFilesystemCString is NewFilesystem with a NUL-scanned length.
func NewFilesystemCString(b []byte) (*String, error) {
	return NewExternalWithEncoding(b, cstrLen(b), encoding.Filesystem())
}

func cstrLen(b []byte) int {
	if n := bytes.IndexByte(b, 0); n >= 0 {
		return n
	}
	return len(b)
}

// Duplicate returns an independent copy sharing no storage with s.
// Taint propagates; frozen state does not.
func Duplicate(s *String) *String {
	d := alloc(s.length, s.enc)
	copy(d.buf, s.buf[:s.length])
	d.length = s.length
	d.cr = s.cr
	d.tainted = s.tainted
	return d
}

// NewFrozen returns s itself when already frozen, otherwise a frozen
// independent copy.
func NewFrozen(s *String) *String {
	if s.frozen {
		return s
	}
	d := Duplicate(s)
	d.Freeze()
	return d
}
