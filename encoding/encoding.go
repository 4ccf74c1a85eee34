package encoding

import (
	"os"
	"strings"
	"sync"

	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"

	"github.com/wippyai/strbridge/errors"
)

// Encoding describes one byte encoding. Descriptors are process-wide
// singletons; compare them by pointer identity, never by name.
type Encoding struct {
	name        string
	codec       xencoding.Encoding
	decodeChar  func(b []byte) int
	minWidth    int
	maxWidth    int
	asciiCompat bool
	isUnicode   bool
}

// Name returns the canonical encoding name.
func (e *Encoding) Name() string { return e.name }

// IsASCIICompatible reports whether 7-bit bytes are ASCII characters in
// this encoding.
func (e *Encoding) IsASCIICompatible() bool { return e.asciiCompat }

// IsFixedWidth reports whether every character occupies the same number
// of bytes.
func (e *Encoding) IsFixedWidth() bool { return e.minWidth == e.maxWidth }

func (e *Encoding) String() string { return e.name }

var (
	registryMu sync.RWMutex
	byName     = map[string]*Encoding{}

	encUTF8     *Encoding
	encUSASCII  *Encoding
	encASCII8   *Encoding
	encISO88591 *Encoding
)

func register(e *Encoding, aliases ...string) *Encoding {
	byName[strings.ToLower(e.name)] = e
	for _, a := range aliases {
		byName[strings.ToLower(a)] = e
	}
	if e.codec != nil {
		// Cache the IANA canonical name so dynamic lookups dedupe onto
		// the builtin descriptor.
		if n, err := ianaindex.IANA.Name(e.codec); err == nil {
			byName[strings.ToLower(n)] = e
		}
	}
	return e
}

func init() {
	encUTF8 = register(&Encoding{
		name:        "UTF-8",
		decodeChar:  utf8DecodeChar,
		minWidth:    1,
		maxWidth:    4,
		asciiCompat: true,
		isUnicode:   true,
	}, "CP65001")

	encUSASCII = register(&Encoding{
		name:        "US-ASCII",
		decodeChar:  asciiDecodeChar,
		minWidth:    1,
		maxWidth:    1,
		asciiCompat: true,
	}, "ASCII", "ANSI_X3.4-1968", "646")

	encASCII8 = register(&Encoding{
		name:        "ASCII-8BIT",
		decodeChar:  byteDecodeChar,
		minWidth:    1,
		maxWidth:    1,
		asciiCompat: true,
	}, "BINARY")

	encISO88591 = register(&Encoding{
		name:        "ISO-8859-1",
		codec:       charmap.ISO8859_1,
		decodeChar:  byteDecodeChar,
		minWidth:    1,
		maxWidth:    1,
		asciiCompat: true,
	}, "Latin-1", "ISO8859-1")

	register(&Encoding{
		name:        "Windows-1252",
		codec:       charmap.Windows1252,
		decodeChar:  byteDecodeChar,
		minWidth:    1,
		maxWidth:    1,
		asciiCompat: true,
	}, "CP1252")

	register(&Encoding{
		name:        "Shift_JIS",
		codec:       japanese.ShiftJIS,
		decodeChar:  sjisDecodeChar,
		minWidth:    1,
		maxWidth:    2,
		asciiCompat: true,
	}, "SJIS")

	register(&Encoding{
		name:        "EUC-JP",
		codec:       japanese.EUCJP,
		decodeChar:  eucjpDecodeChar,
		minWidth:    1,
		maxWidth:    3,
		asciiCompat: true,
	}, "eucJP")

	register(&Encoding{
		name:       "UTF-16BE",
		codec:      unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
		decodeChar: utf16DecodeChar(false),
		minWidth:   2,
		maxWidth:   4,
		isUnicode:  true,
	})

	register(&Encoding{
		name:       "UTF-16LE",
		codec:      unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
		decodeChar: utf16DecodeChar(true),
		minWidth:   2,
		maxWidth:   4,
		isUnicode:  true,
	})

	register(&Encoding{
		name:       "UTF-32BE",
		codec:      utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
		decodeChar: utf32DecodeChar(false),
		minWidth:   4,
		maxWidth:   4,
		isUnicode:  true,
	})

	register(&Encoding{
		name:       "UTF-32LE",
		codec:      utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
		decodeChar: utf32DecodeChar(true),
		minWidth:   4,
		maxWidth:   4,
		isUnicode:  true,
	})

	defaultExternal = encUTF8
}

// UTF8 returns the UTF-8 descriptor.
func UTF8() *Encoding { return encUTF8 }

// USASCII returns the US-ASCII descriptor.
func USASCII() *Encoding { return encUSASCII }

// ASCII8BIT returns the raw binary descriptor.
func ASCII8BIT() *Encoding { return encASCII8 }

// Lookup resolves an encoding by name or alias, falling back to the IANA
// index for anything x/text can transcode. The same descriptor is returned
// for every spelling of a name.
func Lookup(name string) (*Encoding, error) {
	key := strings.ToLower(name)

	registryMu.RLock()
	e, ok := byName[key]
	registryMu.RUnlock()
	if ok {
		return e, nil
	}

	codec, err := ianaindex.IANA.Encoding(name)
	if err != nil || codec == nil {
		return nil, errors.UnknownEncoding(name)
	}
	canonical, err := ianaindex.IANA.Name(codec)
	if err != nil {
		canonical = name
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	// The canonical name may already be registered (builtin or an earlier
	// dynamic lookup); alias this spelling onto it.
	if e, ok := byName[strings.ToLower(canonical)]; ok {
		byName[key] = e
		return e, nil
	}

	e = &Encoding{
		name:     canonical,
		codec:    codec,
		minWidth: 1,
		maxWidth: 4,
	}
	byName[strings.ToLower(canonical)] = e
	byName[key] = e
	return e, nil
}

var (
	defaultsMu      sync.RWMutex
	defaultExternal *Encoding
	defaultInternal *Encoding

	localeOnce sync.Once
	localeEnc  *Encoding
)

// DefaultExternal returns the encoding assumed for bytes entering the
// process. UTF-8 unless reconfigured.
func DefaultExternal() *Encoding {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaultExternal
}

// SetDefaultExternal reconfigures the default external encoding.
func SetDefaultExternal(e *Encoding) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultExternal = e
}

// DefaultInternal returns the encoding strings are normalized to after
// ingestion, or nil when no normalization is configured.
func DefaultInternal() *Encoding {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaultInternal
}

// SetDefaultInternal reconfigures the default internal encoding.
// nil disables normalization.
func SetDefaultInternal(e *Encoding) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultInternal = e
}

// Locale returns the encoding named by the process locale, resolved once
// from LC_ALL, LC_CTYPE and LANG. The C and POSIX locales map to US-ASCII.
func Locale() *Encoding {
	localeOnce.Do(func() {
		localeEnc = localeFromEnv(os.Getenv("LC_ALL"), os.Getenv("LC_CTYPE"), os.Getenv("LANG"))
	})
	return localeEnc
}

// Filesystem returns the encoding for file system paths. On Unix this is
// the locale encoding.
func Filesystem() *Encoding {
	return Locale()
}

func localeFromEnv(vars ...string) *Encoding {
	for _, v := range vars {
		if v == "" {
			continue
		}
		if v == "C" || v == "POSIX" {
			return encUSASCII
		}
		if i := strings.IndexByte(v, '.'); i >= 0 {
			charset := v[i+1:]
			if j := strings.IndexByte(charset, '@'); j >= 0 {
				charset = charset[:j]
			}
			if e, err := Lookup(charset); err == nil {
				return e
			}
		}
		return encUSASCII
	}
	return encUSASCII
}
