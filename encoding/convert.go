package encoding

import (
	"bytes"
	"unicode/utf8"

	xencoding "golang.org/x/text/encoding"

	"github.com/wippyai/strbridge/errors"
)

// Policy selects how Convert treats invalid source bytes and characters
// undefined in the target encoding.
type Policy uint8

const (
	// PolicyFail raises a conversion error. This is the default contract
	// foreign callers get.
	PolicyFail Policy = iota
	// PolicyReplace substitutes U+FFFD for Unicode targets, '?' otherwise.
	PolicyReplace
	// PolicySkip drops the offending unit.
	PolicySkip
)

// Convert transcodes b from one encoding to another. The source bytes are
// never modified; the result is always freshly allocated.
func Convert(b []byte, from, to *Encoding, policy Policy) ([]byte, error) {
	if from == nil || to == nil {
		return nil, errors.InvalidArgument(errors.PhaseConvert, "nil encoding")
	}
	if from == to {
		return append([]byte(nil), b...), nil
	}

	// Raw binary has no character semantics: converting to it adopts the
	// source bytes verbatim, regardless of the source encoding.
	if to == encASCII8 {
		return append([]byte(nil), b...), nil
	}

	// 7-bit content is identical in any pair of ASCII-compatible encodings.
	if from.asciiCompat && to.asciiCompat && Scan(b, from) == CoderangeSevenBit {
		return append([]byte(nil), b...), nil
	}

	mid, err := decodeToUTF8(b, from, to, policy)
	if err != nil {
		return nil, err
	}
	return encodeFromUTF8(mid, from, to, policy)
}

func substitute(to *Encoding) []byte {
	if to.isUnicode {
		return []byte("�")
	}
	return []byte("?")
}

func decodeToUTF8(b []byte, from, to *Encoding, policy Policy) ([]byte, error) {
	switch from {
	case encUTF8:
		return validateUTF8(b, from, to, policy)
	case encUSASCII, encASCII8:
		return filterASCII(b, from, to, policy)
	}

	if from.decodeChar == nil {
		// IANA-fallback encodings carry no validator; x/text substitutes
		// U+FFFD for anything it cannot decode.
		out, err := from.codec.NewDecoder().Bytes(b)
		if err != nil {
			return nil, errors.Conversion(from.name, to.name, "invalid byte sequence", err)
		}
		return out, nil
	}

	if Scan(b, from) != CoderangeBroken {
		out, err := from.codec.NewDecoder().Bytes(b)
		if err != nil {
			return nil, errors.Conversion(from.name, to.name, "invalid byte sequence", err)
		}
		return out, nil
	}

	// Broken content: walk character by character so the policy can be
	// applied to exactly the offending bytes.
	var out bytes.Buffer
	for i := 0; i < len(b); {
		n := from.decodeChar(b[i:])
		if n <= 0 {
			switch policy {
			case PolicyReplace:
				out.Write(substitute(to))
			case PolicySkip:
			default:
				return nil, errors.Conversion(from.name, to.name, "invalid byte sequence", nil)
			}
			i++
			continue
		}
		seg, err := from.codec.NewDecoder().Bytes(b[i : i+n])
		if err != nil {
			return nil, errors.Conversion(from.name, to.name, "invalid byte sequence", err)
		}
		out.Write(seg)
		i += n
	}
	return out.Bytes(), nil
}

func validateUTF8(b []byte, from, to *Encoding, policy Policy) ([]byte, error) {
	if utf8.Valid(b) {
		return append([]byte(nil), b...), nil
	}
	var out bytes.Buffer
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			switch policy {
			case PolicyReplace:
				out.Write(substitute(to))
			case PolicySkip:
			default:
				return nil, errors.Conversion(from.name, to.name, "invalid byte sequence", nil)
			}
			i++
			continue
		}
		out.Write(b[i : i+size])
		i += size
	}
	return out.Bytes(), nil
}

func filterASCII(b []byte, from, to *Encoding, policy Policy) ([]byte, error) {
	var out bytes.Buffer
	for _, c := range b {
		if c < 0x80 {
			out.WriteByte(c)
			continue
		}
		switch policy {
		case PolicyReplace:
			out.Write(substitute(to))
		case PolicySkip:
		default:
			return nil, errors.Conversion(from.name, to.name, "invalid byte sequence", nil)
		}
	}
	return out.Bytes(), nil
}

func encodeFromUTF8(mid []byte, from, to *Encoding, policy Policy) ([]byte, error) {
	switch to {
	case encUTF8:
		return mid, nil
	case encUSASCII:
		var out bytes.Buffer
		for _, r := range string(mid) {
			if r < 0x80 {
				out.WriteByte(byte(r))
				continue
			}
			switch policy {
			case PolicyReplace:
				out.WriteByte('?')
			case PolicySkip:
			default:
				return nil, errors.Conversion(from.name, to.name, "undefined character", nil)
			}
		}
		return out.Bytes(), nil
	}

	switch policy {
	case PolicyReplace:
		enc := xencoding.ReplaceUnsupported(to.codec.NewEncoder())
		out, err := enc.Bytes(mid)
		if err != nil {
			return nil, errors.Conversion(from.name, to.name, "undefined character", err)
		}
		return out, nil
	case PolicySkip:
		var out bytes.Buffer
		var tmp [utf8.UTFMax]byte
		for _, r := range string(mid) {
			n := utf8.EncodeRune(tmp[:], r)
			seg, err := to.codec.NewEncoder().Bytes(tmp[:n])
			if err != nil {
				continue
			}
			out.Write(seg)
		}
		return out.Bytes(), nil
	default:
		out, err := to.codec.NewEncoder().Bytes(mid)
		if err != nil {
			return nil, errors.Conversion(from.name, to.name, "undefined character", err)
		}
		return out, nil
	}
}
