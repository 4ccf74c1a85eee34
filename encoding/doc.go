// Package encoding provides the encoding descriptors and the transcoding
// engine used by the string bridge.
//
// # Descriptors
//
// An Encoding identifies a named byte encoding plus a small set of
// classification rules (ASCII compatibility, fixed character width). The
// process-wide registry is populated at init with the encodings the bridge
// understands natively and is extended lazily through the IANA index for
// anything golang.org/x/text can transcode:
//
//	enc, err := encoding.Lookup("Shift_JIS")
//
// Descriptors are singletons: equality is pointer identity, and Lookup
// always returns the same *Encoding for a name or any of its aliases.
//
// # Defaults
//
// DefaultExternal, DefaultInternal, Locale and Filesystem mirror the
// environment-configured encodings a managed runtime applies when
// ingesting bytes from outside. Locale is derived once from LC_ALL,
// LC_CTYPE and LANG.
//
// # Coderange
//
// Scan classifies byte content under an encoding as SevenBit, Valid or
// Broken. The result is a cache value owned by the string layer; it is
// recomputed on demand and reset to Unknown after any byte mutation.
//
// # Conversion
//
// Convert transcodes between two descriptors through UTF-8, using the
// x/text codecs. Invalid input bytes and unencodable characters follow the
// requested Policy:
//
//	PolicyFail     error out (default foreign-caller contract)
//	PolicyReplace  substitute U+FFFD (Unicode targets) or '?'
//	PolicySkip     drop the offending unit
package encoding
