package str

import (
	"bytes"

	"github.com/wippyai/strbridge/encoding"
	"github.com/wippyai/strbridge/errors"
)

// SubseqBytes extracts a byte-exact slice as a new independent string.
// No character boundary validation is performed; the slice keeps the
// source encoding tag and taint. Ranges past the end are clamped.
func (s *String) SubseqBytes(start, length int) (*String, error) {
	if start < 0 || length < 0 {
		return nil, errors.InvalidArgument(errors.PhaseMutate, "negative byte range")
	}
	if start > s.length {
		start = s.length
	}
	if length > s.length-start {
		length = s.length - start
	}

	d := alloc(length, s.enc)
	copy(d.buf, s.buf[start:start+length])
	d.length = length
	d.tainted = s.tainted
	return d, nil
}

// SubseqChars extracts a character-aware slice: offsets count characters
// under the string's encoding, with boundary computation delegated to
// the encoding layer.
func (s *String) SubseqChars(start, length int) (*String, error) {
	off, n, err := encoding.CharRange(s.Bytes(), s.enc, start, length)
	if err != nil {
		return nil, err
	}
	return s.SubseqBytes(off, n)
}

// CharLen returns the length in characters under the string's encoding.
func (s *String) CharLen() (int, error) {
	return encoding.CharLen(s.Bytes(), s.enc)
}

// Plus concatenates two strings into a new one, reconciling encodings
// the same way Append does.
func Plus(a, b *String) (*String, error) {
	enc, err := compatibleEncoding(a, b)
	if err != nil {
		return nil, err
	}
	if a.length > MaxLength-b.length {
		return nil, errors.SizeTooBig(int64(a.length)+int64(b.length), MaxLength)
	}

	d := alloc(a.length+b.length, enc)
	copy(d.buf, a.buf[:a.length])
	copy(d.buf[a.length:], b.buf[:b.length])
	d.length = a.length + b.length
	d.tainted = a.tainted || b.tainted
	return d, nil
}

// Times repeats the content n times into a new string.
func Times(s *String, n int) (*String, error) {
	if n < 0 {
		return nil, errors.NegativeSize(errors.PhaseConstruct, int64(n))
	}
	if n > 0 && s.length > MaxLength/n {
		return nil, errors.SizeTooBig(int64(s.length)*int64(n), MaxLength)
	}

	content := bytes.Repeat(s.Bytes(), n)
	d := alloc(len(content), s.enc)
	copy(d.buf, content)
	d.length = len(content)
	d.tainted = s.tainted
	return d, nil
}
