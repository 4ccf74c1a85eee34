package str

import (
	"math"

	"github.com/wippyai/strbridge/encoding"
	"github.com/wippyai/strbridge/errors"
)

// MaxLength is the largest logical string length the bridge accepts,
// matching the 32-bit extent foreign callers assume.
const MaxLength = math.MaxInt32

// String is one managed string value: byte content tagged with an
// encoding, a coderange cache and the legacy taint/freeze flags.
type String struct {
	// buf holds capacity+1 bytes; the final byte is reserved for the
	// C terminator and never counts toward capacity.
	buf     []byte
	length  int
	enc     *encoding.Encoding
	cr      encoding.Coderange
	tainted bool
	frozen  bool
}

// alloc returns a String with zeroed storage for capacity bytes.
func alloc(capacity int, enc *encoding.Encoding) *String {
	return &String{
		buf: make([]byte, capacity+1),
		enc: enc,
	}
}

func (s *String) capacity() int { return len(s.buf) - 1 }

// Len returns the logical length in bytes.
func (s *String) Len() int { return s.length }

// Capacity returns the size of the backing storage in bytes.
func (s *String) Capacity() int { return s.capacity() }

// Encoding returns the string's encoding tag.
func (s *String) Encoding() *encoding.Encoding { return s.enc }

// ForceEncoding retags the string without touching bytes. The coderange
// cache is reset since validity depends on the encoding.
func (s *String) ForceEncoding(enc *encoding.Encoding) {
	s.enc = enc
	s.cr = encoding.CoderangeUnknown
}

// Coderange returns the cached byte classification, scanning on demand.
func (s *String) Coderange() encoding.Coderange {
	if s.cr == encoding.CoderangeUnknown {
		s.cr = encoding.Scan(s.Bytes(), s.enc)
	}
	return s.cr
}

// Tainted reports the legacy taint flag.
func (s *String) Tainted() bool { return s.tainted }

// Taint sets the legacy taint flag. Purely advisory.
func (s *String) Taint() { s.tainted = true }

// Untaint clears the legacy taint flag.
func (s *String) Untaint() { s.tainted = false }

// Frozen reports whether the string rejects mutation.
func (s *String) Frozen() bool { return s.frozen }

// Freeze marks the string immutable.
func (s *String) Freeze() { s.frozen = true }

// Bytes materializes the current content as a borrowed view of exactly
// Len() bytes. The view is valid until the next mutating call on s; it is
// never nil, even when the string is empty.
func (s *String) Bytes() []byte {
	return s.buf[:s.length]
}

// CString materializes the content with a guaranteed NUL terminator at
// index Len(). The returned slice has Len()+1 bytes; the final byte is
// the terminator and not part of the logical content. Validity follows
// the same rules as Bytes. This is a pure read: the terminator is an
// invariant kept by every mutating operation, so shared strings can be
// materialized concurrently.
func (s *String) CString() []byte {
	return s.buf[:s.length+1]
}

// String returns the content as a Go string copy. Debug/display use.
func (s *String) String() string {
	return string(s.Bytes())
}

// Modify prepares the string for a direct buffer write: it fails on
// frozen strings and resets the coderange cache. Callers publish the new
// extent with SetLen afterward.
func (s *String) Modify() error {
	if s.frozen {
		return errors.Frozen(errors.PhaseMutate)
	}
	s.cr = encoding.CoderangeUnknown
	return nil
}

// terminate plants the NUL at index length. Every operation that moves
// the logical length or rewrites content calls this last; construction
// gets it for free from zeroed allocation.
func (s *String) terminate() {
	s.buf[s.length] = 0
}

// validateExtent is the single bounds check used by every operation that
// moves the logical length within existing storage.
func validateExtent(requested, capacity int) error {
	if requested < 0 || requested > capacity {
		return errors.BufferOverflow(errors.PhaseMutate, int64(requested), int64(capacity))
	}
	return nil
}

// ensureCapacity grows backing storage so at least need bytes fit,
// doubling to amortize repeated appends. Logical length is unchanged.
func (s *String) ensureCapacity(need int) {
	if need <= s.capacity() {
		return
	}
	newCap := s.capacity() * 2
	if newCap < need {
		newCap = need
	}
	if newCap > MaxLength {
		newCap = MaxLength
		if newCap < need {
			newCap = need
		}
	}
	buf := make([]byte, newCap+1)
	copy(buf, s.buf[:s.length])
	s.buf = buf
}
