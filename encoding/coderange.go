package encoding

import (
	"unicode/utf8"

	"github.com/wippyai/strbridge/errors"
)

// Coderange classifies byte content under an encoding. It is a cache
// value: Unknown forces a rescan, and any byte mutation resets it.
type Coderange uint8

const (
	CoderangeUnknown Coderange = iota
	CoderangeSevenBit
	CoderangeValid
	CoderangeBroken
)

func (c Coderange) String() string {
	switch c {
	case CoderangeSevenBit:
		return "7bit"
	case CoderangeValid:
		return "valid"
	case CoderangeBroken:
		return "broken"
	default:
		return "unknown"
	}
}

// Scan classifies b under e. ASCII-8BIT content never scans Broken.
// Encodings registered through the IANA fallback have no character
// decoder; their non-ASCII content is assumed Valid.
func Scan(b []byte, e *Encoding) Coderange {
	ascii := true
	for _, c := range b {
		if c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii && e.asciiCompat {
		return CoderangeSevenBit
	}
	if e == encASCII8 {
		return CoderangeValid
	}
	if e.decodeChar == nil {
		return CoderangeValid
	}

	for i := 0; i < len(b); {
		n := e.decodeChar(b[i:])
		if n <= 0 {
			return CoderangeBroken
		}
		i += n
	}
	return CoderangeValid
}

// CharLen counts characters in b under e. Broken sequences count one
// character per byte, matching how the managed runtime reports lengths
// for invalid content.
func CharLen(b []byte, e *Encoding) (int, error) {
	if e.decodeChar == nil {
		return 0, errors.Unsupported(errors.PhaseConvert, "character operations not supported for "+e.name)
	}
	count := 0
	for i := 0; i < len(b); {
		n := e.decodeChar(b[i:])
		if n <= 0 {
			n = 1
		}
		i += n
		count++
	}
	return count, nil
}

// CharRange maps a character offset and count to a byte offset and byte
// count in b. Ranges extending past the end of the content are clamped.
func CharRange(b []byte, e *Encoding, start, count int) (off, n int, err error) {
	if start < 0 || count < 0 {
		return 0, 0, errors.InvalidArgument(errors.PhaseConvert, "negative character range")
	}
	if e.decodeChar == nil {
		return 0, 0, errors.Unsupported(errors.PhaseConvert, "character operations not supported for "+e.name)
	}

	advance := func(from, chars int) int {
		i := from
		for c := 0; c < chars && i < len(b); c++ {
			w := e.decodeChar(b[i:])
			if w <= 0 {
				w = 1
			}
			i += w
		}
		return i
	}

	off = advance(0, start)
	end := advance(off, count)
	return off, end - off, nil
}

// Per-encoding character decoders. Each returns the byte width of the
// first character, or -1 when the leading bytes are invalid or truncated.

func utf8DecodeChar(b []byte) int {
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return -1
	}
	return size
}

func asciiDecodeChar(b []byte) int {
	if len(b) == 0 || b[0] >= 0x80 {
		return -1
	}
	return 1
}

func byteDecodeChar(b []byte) int {
	if len(b) == 0 {
		return -1
	}
	return 1
}

func sjisDecodeChar(b []byte) int {
	if len(b) == 0 {
		return -1
	}
	c := b[0]
	switch {
	case c < 0x80:
		return 1
	case c >= 0xA1 && c <= 0xDF: // halfwidth katakana
		return 1
	case (c >= 0x81 && c <= 0x9F) || (c >= 0xE0 && c <= 0xFC):
		if len(b) < 2 {
			return -1
		}
		t := b[1]
		if (t >= 0x40 && t <= 0x7E) || (t >= 0x80 && t <= 0xFC) {
			return 2
		}
		return -1
	default:
		return -1
	}
}

func eucjpDecodeChar(b []byte) int {
	if len(b) == 0 {
		return -1
	}
	c := b[0]
	switch {
	case c < 0x80:
		return 1
	case c == 0x8E: // halfwidth katakana
		if len(b) >= 2 && b[1] >= 0xA1 && b[1] <= 0xDF {
			return 2
		}
		return -1
	case c == 0x8F: // JIS X 0212
		if len(b) >= 3 && b[1] >= 0xA1 && b[1] <= 0xFE && b[2] >= 0xA1 && b[2] <= 0xFE {
			return 3
		}
		return -1
	case c >= 0xA1 && c <= 0xFE:
		if len(b) >= 2 && b[1] >= 0xA1 && b[1] <= 0xFE {
			return 2
		}
		return -1
	default:
		return -1
	}
}

func utf16DecodeChar(little bool) func(b []byte) int {
	unit := func(b []byte) uint16 {
		if little {
			return uint16(b[0]) | uint16(b[1])<<8
		}
		return uint16(b[0])<<8 | uint16(b[1])
	}
	return func(b []byte) int {
		if len(b) < 2 {
			return -1
		}
		u := unit(b)
		switch {
		case u >= 0xD800 && u <= 0xDBFF: // high surrogate
			if len(b) < 4 {
				return -1
			}
			if lo := unit(b[2:]); lo >= 0xDC00 && lo <= 0xDFFF {
				return 4
			}
			return -1
		case u >= 0xDC00 && u <= 0xDFFF: // unpaired low surrogate
			return -1
		default:
			return 2
		}
	}
}

func utf32DecodeChar(little bool) func(b []byte) int {
	return func(b []byte) int {
		if len(b) < 4 {
			return -1
		}
		var v uint32
		if little {
			v = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
		} else {
			v = uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
		}
		if v > 0x10FFFF || (v >= 0xD800 && v <= 0xDFFF) {
			return -1
		}
		return 4
	}
}
