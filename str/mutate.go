package str

import (
	"github.com/wippyai/strbridge/encoding"
	"github.com/wippyai/strbridge/errors"
)

// SetLen publishes a new logical length, planting the terminator at the
// new extent. Used after writing directly into a materialized buffer;
// content below the extent is untouched.
func (s *String) SetLen(n int) error {
	if s.frozen {
		return errors.Frozen(errors.PhaseMutate)
	}
	if err := validateExtent(n, s.capacity()); err != nil {
		return err
	}
	s.length = n
	s.terminate()
	s.cr = encoding.CoderangeUnknown
	return nil
}

// Resize moves the logical length within the current capacity. Growing
// exposes zeroed bytes; shrinking never deallocates. Lengths outside
// [0, capacity] fail with a buffer overflow carrying both values.
func (s *String) Resize(n int) error {
	if s.frozen {
		return errors.Frozen(errors.PhaseMutate)
	}
	if err := validateExtent(n, s.capacity()); err != nil {
		return err
	}
	if n > s.length {
		clear(s.buf[s.length:n])
	}
	s.length = n
	s.terminate()
	s.cr = encoding.CoderangeUnknown
	return nil
}

// Expand grows the backing storage by extra bytes without changing the
// logical length. Used to pre-reserve space before direct writes or
// appends. Previously materialized views are invalidated.
func (s *String) Expand(extra int) error {
	if s.frozen {
		return errors.Frozen(errors.PhaseMutate)
	}
	if extra < 0 {
		return errors.NegativeExpand(int64(extra))
	}
	if extra > MaxLength-s.length {
		return errors.SizeTooBig(int64(s.length)+int64(extra), MaxLength)
	}

	if extra > 0 {
		buf := make([]byte, s.capacity()+extra+1)
		copy(buf, s.buf[:s.length])
		s.buf = buf
	}
	s.cr = encoding.CoderangeUnknown
	return nil
}

// Cat appends b to the string, growing storage as needed. An empty b is
// a no-op with no allocation.
func (s *String) Cat(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if s.frozen {
		return errors.Frozen(errors.PhaseMutate)
	}
	if len(b) > MaxLength-s.length {
		return errors.SizeTooBig(int64(s.length)+int64(len(b)), MaxLength)
	}

	old := s.length
	s.ensureCapacity(old + len(b))
	copy(s.buf[old:], b)
	s.length = old + len(b)
	s.terminate()
	// Concatenation can change the 7-bit classification.
	s.cr = encoding.CoderangeUnknown
	return nil
}

// CatBytes appends exactly length bytes of b, keeping the foreign
// explicit-length contract: zero is a no-op, negative fails.
func (s *String) CatBytes(b []byte, length int) error {
	if length == 0 {
		return nil
	}
	if length < 0 {
		return errors.NegativeSize(errors.PhaseMutate, int64(length))
	}
	if length > len(b) {
		return errors.OutOfBounds(errors.PhaseMutate, int64(length), int64(len(b)))
	}
	return s.Cat(b[:length])
}

// CatString appends the bytes of a Go string.
func (s *String) CatString(str string) error {
	return s.Cat([]byte(str))
}

// Append appends another managed string, checking encoding
// compatibility and propagating taint.
func (s *String) Append(other *String) error {
	enc, err := compatibleEncoding(s, other)
	if err != nil {
		return err
	}
	if err := s.Cat(other.Bytes()); err != nil {
		return err
	}
	s.enc = enc
	s.tainted = s.tainted || other.tainted
	return nil
}

// Replace swaps in the content and encoding of another string. The two
// strings are fully independent afterward.
func (s *String) Replace(other *String) error {
	if s.frozen {
		return errors.Frozen(errors.PhaseMutate)
	}

	n := other.length
	if n > s.capacity() {
		s.buf = make([]byte, n+1)
	}
	copy(s.buf, other.buf[:n])
	s.length = n
	s.terminate()
	s.enc = other.enc
	s.cr = other.cr
	s.tainted = s.tainted || other.tainted
	return nil
}

// DropBytes removes the first n bytes in place. n larger than the
// current length drops everything; this is not an error.
func (s *String) DropBytes(n int) error {
	if s.frozen {
		return errors.Frozen(errors.PhaseMutate)
	}
	if n < 0 {
		n = 0
	}
	if n > s.length {
		n = s.length
	}
	copy(s.buf, s.buf[n:s.length])
	s.length -= n
	s.terminate()
	s.cr = encoding.CoderangeUnknown
	return nil
}

// Splice replaces the byte range [start, start+length) with the content
// of other. The range is clamped to the current extent.
func (s *String) Splice(start, length int, other *String) error {
	if s.frozen {
		return errors.Frozen(errors.PhaseMutate)
	}
	if start < 0 || length < 0 {
		return errors.InvalidArgument(errors.PhaseMutate, "negative splice range")
	}
	if start > s.length {
		return errors.OutOfBounds(errors.PhaseMutate, int64(start), int64(s.length))
	}
	if length > s.length-start {
		length = s.length - start
	}

	ins := other.Bytes()
	newLen := s.length - length + len(ins)
	if newLen > MaxLength {
		return errors.SizeTooBig(int64(newLen), MaxLength)
	}
	s.ensureCapacity(newLen)

	copy(s.buf[start+len(ins):], s.buf[start+length:s.length])
	copy(s.buf[start:], ins)
	s.length = newLen
	s.terminate()
	s.cr = encoding.CoderangeUnknown
	s.tainted = s.tainted || other.tainted
	return nil
}

// compatibleEncoding resolves the result encoding for an operation that
// merges two strings, or fails when the encodings cannot be reconciled.
func compatibleEncoding(a, b *String) (*encoding.Encoding, error) {
	if a.enc == b.enc {
		return a.enc, nil
	}
	if b.Coderange() == encoding.CoderangeSevenBit && a.enc.IsASCIICompatible() {
		return a.enc, nil
	}
	if a.Coderange() == encoding.CoderangeSevenBit && b.enc.IsASCIICompatible() {
		return b.enc, nil
	}
	return nil, errors.Conversion(a.enc.Name(), b.enc.Name(), "incompatible character encodings", nil)
}
