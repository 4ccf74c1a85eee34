package str

import (
	"bytes"
	"hash/fnv"

	"github.com/wippyai/strbridge/encoding"
)

// Compare orders two strings: byte order first, then encoding as a
// tiebreaker. On equal bytes all 7-bit-clean strings form one
// equivalence class (ASCII content compares equal across compatible
// encodings) ordered before every non-7-bit string; two non-7-bit
// strings break the tie by encoding name. The order is total and
// consistent with Equal.
func Compare(a, b *String) int {
	if c := bytes.Compare(a.Bytes(), b.Bytes()); c != 0 {
		return c
	}
	a7 := a.Coderange() == encoding.CoderangeSevenBit
	b7 := b.Coderange() == encoding.CoderangeSevenBit
	switch {
	case a7 && b7:
		return 0
	case a7:
		return -1
	case b7:
		return 1
	}
	if a.enc == b.enc {
		return 0
	}
	if a.enc.Name() < b.enc.Name() {
		return -1
	}
	return 1
}

// Equal reports content equality; it agrees with Compare == 0.
func Equal(a, b *String) bool {
	return Compare(a, b) == 0
}

// Hash returns a content hash consistent with Equal: equal strings hash
// equal. The encoding only participates for non-7-bit content, mirroring
// the comparison rules.
func (s *String) Hash() uint64 {
	h := fnv.New64a()
	h.Write(s.Bytes())
	if s.Coderange() != encoding.CoderangeSevenBit {
		h.Write([]byte(s.enc.Name()))
	}
	return h.Sum64()
}
