package str

import (
	"github.com/wippyai/strbridge/encoding"
)

// Convert transcodes s between two encodings. A nil to, or identical
// source and target, returns s itself without copying; otherwise a new
// independent String is produced. from defaults to the string's own
// encoding when nil.
func Convert(s *String, from, to *encoding.Encoding, policy encoding.Policy) (*String, error) {
	if to == nil {
		return s, nil
	}
	if from == nil {
		from = s.enc
	}
	if from == to {
		return s, nil
	}

	out, err := encoding.Convert(s.Bytes(), from, to, policy)
	if err != nil {
		return nil, err
	}

	ns := alloc(len(out), to)
	copy(ns.buf, out)
	ns.length = len(out)
	ns.tainted = s.tainted
	return ns, nil
}

// Export converts s from its own encoding to the default external
// encoding.
func Export(s *String) (*String, error) {
	return Convert(s, s.enc, encoding.DefaultExternal(), encoding.PolicyFail)
}

// ExportLocale converts s from its own encoding to the locale encoding.
func ExportLocale(s *String) (*String, error) {
	return Convert(s, s.enc, encoding.Locale(), encoding.PolicyFail)
}

// ExportTo converts s from its own encoding to enc.
func ExportTo(s *String, enc *encoding.Encoding) (*String, error) {
	return Convert(s, s.enc, enc, encoding.PolicyFail)
}
