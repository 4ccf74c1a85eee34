package strbridge

import (
	"sync"

	"github.com/wippyai/strbridge/encoding"
	"github.com/wippyai/strbridge/errors"
	"github.com/wippyai/strbridge/str"
)

// Handle identifies a bridge-owned string. Handle 0 is always invalid.
type Handle = str.Handle

// Bridge is the facade foreign callers talk to. It owns a handle table
// of managed strings and exposes every bridge operation in terms of
// handles. All methods are safe for concurrent use.
type Bridge struct {
	table *str.Table

	mu       sync.Mutex
	interned map[*str.String]Handle
}

// New creates an empty bridge.
func New() *Bridge {
	return &Bridge{
		table:    str.NewTable(),
		interned: make(map[*str.String]Handle),
	}
}

func (b *Bridge) get(phase errors.Phase, h Handle) (*str.String, error) {
	s, ok := b.table.Get(h)
	if !ok {
		return nil, errors.InvalidHandle(phase, uint32(h))
	}
	return s, nil
}

func (b *Bridge) insert(s *str.String, err error) (Handle, error) {
	if err != nil {
		return 0, err
	}
	return b.table.Insert(s), nil
}

// Construction

// NewString builds a string from length bytes of content under enc.
// Nil content allocates zeroed bytes; nil enc means raw binary.
func (b *Bridge) NewString(content []byte, length int, enc *encoding.Encoding) (Handle, error) {
	return b.insert(str.New(content, length, enc))
}

// NewCString builds a binary string from content up to its first NUL.
func (b *Bridge) NewCString(content []byte) (Handle, error) {
	return b.insert(str.NewCString(content))
}

// NewBuffer allocates an empty string with pre-reserved capacity.
func (b *Bridge) NewBuffer(capacity int) (Handle, error) {
	return b.insert(str.NewBuffer(capacity))
}

// NewUTF8 builds a UTF-8 tagged string from all of content.
func (b *Bridge) NewUTF8(content []byte) (Handle, error) {
	return b.insert(str.NewUTF8(content, len(content)))
}

// NewUSASCII builds a US-ASCII tagged string from all of content.
func (b *Bridge) NewUSASCII(content []byte) (Handle, error) {
	return b.insert(str.NewUSASCII(content, len(content)))
}

// NewTainted builds a binary string carrying the legacy taint flag.
func (b *Bridge) NewTainted(content []byte, length int) (Handle, error) {
	return b.insert(str.NewTainted(content, length))
}

// NewTaintedCString is NewCString plus the taint flag.
func (b *Bridge) NewTaintedCString(content []byte) (Handle, error) {
	return b.insert(str.NewTaintedCString(content))
}

// NewTaintedWithEncoding builds a tainted string under a given encoding.
func (b *Bridge) NewTaintedWithEncoding(content []byte, length int, enc *encoding.Encoding) (Handle, error) {
	return b.insert(str.NewTaintedWithEncoding(content, length, enc))
}

// NewExternal ingests foreign bytes under the default external encoding,
// applying the external-string normalization rules.
func (b *Bridge) NewExternal(content []byte, length int) (Handle, error) {
	return b.insert(str.NewExternal(content, length))
}

// NewExternalCString is NewExternal with a NUL-scanned length.
func (b *Bridge) NewExternalCString(content []byte) (Handle, error) {
	return b.insert(str.NewExternalCString(content))
}

// NewExternalWithEncoding ingests foreign bytes under an explicit
// external encoding.
func (b *Bridge) NewExternalWithEncoding(content []byte, length int, enc *encoding.Encoding) (Handle, error) {
	return b.insert(str.NewExternalWithEncoding(content, length, enc))
}

// NewLocale ingests foreign bytes under the locale encoding.
func (b *Bridge) NewLocale(content []byte, length int) (Handle, error) {
	return b.insert(str.NewLocale(content, length))
}

// NewLocaleCString is NewLocale with a NUL-scanned length.
func (b *Bridge) NewLocaleCString(content []byte) (Handle, error) {
	return b.insert(str.NewLocaleCString(content))
}

// NewFilesystem ingests foreign path bytes under the filesystem encoding.
func (b *Bridge) NewFilesystem(content []byte, length int) (Handle, error) {
	return b.insert(str.NewFilesystem(content, length))
}

// NewFilesystemCString is NewFilesystem with a NUL-scanned length.
func (b *Bridge) NewFilesystemCString(content []byte) (Handle, error) {
	return b.insert(str.NewFilesystemCString(content))
}

// Duplicate produces an independent copy under a fresh handle. Taint
// propagates; frozen state does not.
func (b *Bridge) Duplicate(h Handle) (Handle, error) {
	s, err := b.get(errors.PhaseConstruct, h)
	if err != nil {
		return 0, err
	}
	return b.table.Insert(str.Duplicate(s)), nil
}

// NewFrozen returns a handle to a frozen version of h's string: the
// string itself when already frozen, otherwise a frozen copy.
func (b *Bridge) NewFrozen(h Handle) (Handle, error) {
	s, err := b.get(errors.PhaseConstruct, h)
	if err != nil {
		return 0, err
	}
	f := str.NewFrozen(s)
	if f == s {
		return h, nil
	}
	return b.table.Insert(f), nil
}

// Intern returns a stable handle to the canonical frozen string for
// h's content and encoding. Interning equal content always yields the
// same handle.
func (b *Bridge) Intern(h Handle) (Handle, error) {
	s, err := b.get(errors.PhaseConstruct, h)
	if err != nil {
		return 0, err
	}
	c := str.Intern(s)

	b.mu.Lock()
	defer b.mu.Unlock()
	if hh, ok := b.interned[c]; ok {
		return hh, nil
	}
	hh := b.table.Insert(c)
	b.interned[c] = hh
	return hh, nil
}

// Conversion

// Convert transcodes h's string between two encodings under a loss
// policy. A nil target, or identical source and target, returns h
// itself; otherwise a fresh handle to the converted string.
func (b *Bridge) Convert(h Handle, from, to *encoding.Encoding, policy encoding.Policy) (Handle, error) {
	s, err := b.get(errors.PhaseConvert, h)
	if err != nil {
		return 0, err
	}
	out, err := str.Convert(s, from, to, policy)
	if err != nil {
		return 0, err
	}
	if out == s {
		return h, nil
	}
	return b.table.Insert(out), nil
}

// Export converts h to the default external encoding.
func (b *Bridge) Export(h Handle) (Handle, error) {
	s, err := b.get(errors.PhaseConvert, h)
	if err != nil {
		return 0, err
	}
	out, err := str.Export(s)
	return b.exportResult(h, s, out, err)
}

// ExportLocale converts h to the locale encoding.
func (b *Bridge) ExportLocale(h Handle) (Handle, error) {
	s, err := b.get(errors.PhaseConvert, h)
	if err != nil {
		return 0, err
	}
	out, err := str.ExportLocale(s)
	return b.exportResult(h, s, out, err)
}

// ExportTo converts h to an explicit target encoding.
func (b *Bridge) ExportTo(h Handle, enc *encoding.Encoding) (Handle, error) {
	s, err := b.get(errors.PhaseConvert, h)
	if err != nil {
		return 0, err
	}
	out, err := str.ExportTo(s, enc)
	return b.exportResult(h, s, out, err)
}

func (b *Bridge) exportResult(h Handle, s, out *str.String, err error) (Handle, error) {
	if err != nil {
		return 0, err
	}
	if out == s {
		return h, nil
	}
	return b.table.Insert(out), nil
}

// Inspection

// Bytes materializes h's content as a borrowed view of exactly Len
// bytes. The view stays valid until the next mutation of the same
// string; it is never nil.
func (b *Bridge) Bytes(h Handle) ([]byte, error) {
	s, err := b.get(errors.PhaseMaterialize, h)
	if err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

// CString materializes h's content with a NUL terminator at index Len.
func (b *Bridge) CString(h Handle) ([]byte, error) {
	s, err := b.get(errors.PhaseMaterialize, h)
	if err != nil {
		return nil, err
	}
	return s.CString(), nil
}

// Len returns the logical length in bytes.
func (b *Bridge) Len(h Handle) (int, error) {
	s, err := b.get(errors.PhaseMaterialize, h)
	if err != nil {
		return 0, err
	}
	return s.Len(), nil
}

// CharLen returns the length in characters under h's encoding.
func (b *Bridge) CharLen(h Handle) (int, error) {
	s, err := b.get(errors.PhaseMaterialize, h)
	if err != nil {
		return 0, err
	}
	return s.CharLen()
}

// Capacity returns the size of the backing storage in bytes.
func (b *Bridge) Capacity(h Handle) (int, error) {
	s, err := b.get(errors.PhaseMaterialize, h)
	if err != nil {
		return 0, err
	}
	return s.Capacity(), nil
}

// EncodingOf returns h's encoding tag.
func (b *Bridge) EncodingOf(h Handle) (*encoding.Encoding, error) {
	s, err := b.get(errors.PhaseLookup, h)
	if err != nil {
		return nil, err
	}
	return s.Encoding(), nil
}

// Coderange returns h's byte classification, scanning on demand.
func (b *Bridge) Coderange(h Handle) (encoding.Coderange, error) {
	s, err := b.get(errors.PhaseMaterialize, h)
	if err != nil {
		return encoding.CoderangeUnknown, err
	}
	return s.Coderange(), nil
}

// Hash returns a content hash consistent with Equal.
func (b *Bridge) Hash(h Handle) (uint64, error) {
	s, err := b.get(errors.PhaseMaterialize, h)
	if err != nil {
		return 0, err
	}
	return s.Hash(), nil
}

// Tainted reports the legacy taint flag.
func (b *Bridge) Tainted(h Handle) (bool, error) {
	s, err := b.get(errors.PhaseMaterialize, h)
	if err != nil {
		return false, err
	}
	return s.Tainted(), nil
}

// Taint sets the legacy taint flag.
func (b *Bridge) Taint(h Handle) error {
	s, err := b.get(errors.PhaseMutate, h)
	if err != nil {
		return err
	}
	s.Taint()
	return nil
}

// Untaint clears the legacy taint flag.
func (b *Bridge) Untaint(h Handle) error {
	s, err := b.get(errors.PhaseMutate, h)
	if err != nil {
		return err
	}
	s.Untaint()
	return nil
}

// Frozen reports whether h's string rejects mutation.
func (b *Bridge) Frozen(h Handle) (bool, error) {
	s, err := b.get(errors.PhaseMaterialize, h)
	if err != nil {
		return false, err
	}
	return s.Frozen(), nil
}

// Freeze marks h's string immutable.
func (b *Bridge) Freeze(h Handle) error {
	s, err := b.get(errors.PhaseMutate, h)
	if err != nil {
		return err
	}
	s.Freeze()
	return nil
}

// ForceEncoding retags h's string without touching bytes.
func (b *Bridge) ForceEncoding(h Handle, enc *encoding.Encoding) error {
	s, err := b.get(errors.PhaseMutate, h)
	if err != nil {
		return err
	}
	s.ForceEncoding(enc)
	return nil
}

// Mutation

// Cat appends content in place. Appending nothing is a no-op.
func (b *Bridge) Cat(h Handle, content []byte) error {
	s, err := b.get(errors.PhaseMutate, h)
	if err != nil {
		return err
	}
	return s.Cat(content)
}

// CatBytes appends exactly n bytes of content in place.
func (b *Bridge) CatBytes(h Handle, content []byte, n int) error {
	s, err := b.get(errors.PhaseMutate, h)
	if err != nil {
		return err
	}
	return s.CatBytes(content, n)
}

// Append appends src's content to dst, reconciling encodings.
func (b *Bridge) Append(dst, src Handle) error {
	d, err := b.get(errors.PhaseMutate, dst)
	if err != nil {
		return err
	}
	s, err := b.get(errors.PhaseMutate, src)
	if err != nil {
		return err
	}
	return d.Append(s)
}

// Resize moves the logical length within existing capacity, zero
// filling growth. Extents outside [0, capacity] fail.
func (b *Bridge) Resize(h Handle, n int) error {
	s, err := b.get(errors.PhaseMutate, h)
	if err != nil {
		return err
	}
	return s.Resize(n)
}

// Expand grows capacity by extra bytes without changing length.
func (b *Bridge) Expand(h Handle, extra int) error {
	s, err := b.get(errors.PhaseMutate, h)
	if err != nil {
		return err
	}
	return s.Expand(extra)
}

// SetLen publishes a new logical length after a direct buffer write.
func (b *Bridge) SetLen(h Handle, n int) error {
	s, err := b.get(errors.PhaseMutate, h)
	if err != nil {
		return err
	}
	return s.SetLen(n)
}

// Replace copies src's content, encoding and taint over dst.
func (b *Bridge) Replace(dst, src Handle) error {
	d, err := b.get(errors.PhaseMutate, dst)
	if err != nil {
		return err
	}
	s, err := b.get(errors.PhaseMutate, src)
	if err != nil {
		return err
	}
	return d.Replace(s)
}

// DropBytes removes the first n bytes in place, clamping n to the
// current length.
func (b *Bridge) DropBytes(h Handle, n int) error {
	s, err := b.get(errors.PhaseMutate, h)
	if err != nil {
		return err
	}
	return s.DropBytes(n)
}

// Splice replaces a clamped byte range of h with src's content.
func (b *Bridge) Splice(h Handle, start, length int, src Handle) error {
	d, err := b.get(errors.PhaseMutate, h)
	if err != nil {
		return err
	}
	s, err := b.get(errors.PhaseMutate, src)
	if err != nil {
		return err
	}
	return d.Splice(start, length, s)
}

// Slicing and combination

// SubseqBytes extracts a byte-exact slice under a fresh handle.
func (b *Bridge) SubseqBytes(h Handle, start, length int) (Handle, error) {
	s, err := b.get(errors.PhaseConstruct, h)
	if err != nil {
		return 0, err
	}
	return b.insert(s.SubseqBytes(start, length))
}

// SubseqChars extracts a character-aware slice under a fresh handle.
func (b *Bridge) SubseqChars(h Handle, start, length int) (Handle, error) {
	s, err := b.get(errors.PhaseConstruct, h)
	if err != nil {
		return 0, err
	}
	return b.insert(s.SubseqChars(start, length))
}

// Plus concatenates two strings into a new one.
func (b *Bridge) Plus(x, y Handle) (Handle, error) {
	a, err := b.get(errors.PhaseConstruct, x)
	if err != nil {
		return 0, err
	}
	c, err := b.get(errors.PhaseConstruct, y)
	if err != nil {
		return 0, err
	}
	return b.insert(str.Plus(a, c))
}

// Times repeats h's content n times into a new string.
func (b *Bridge) Times(h Handle, n int) (Handle, error) {
	s, err := b.get(errors.PhaseConstruct, h)
	if err != nil {
		return 0, err
	}
	return b.insert(str.Times(s, n))
}

// Comparison

// Compare orders two strings; see str.Compare for the rules.
func (b *Bridge) Compare(x, y Handle) (int, error) {
	a, err := b.get(errors.PhaseMaterialize, x)
	if err != nil {
		return 0, err
	}
	c, err := b.get(errors.PhaseMaterialize, y)
	if err != nil {
		return 0, err
	}
	return str.Compare(a, c), nil
}

// Equal reports content equality consistent with Compare.
func (b *Bridge) Equal(x, y Handle) (bool, error) {
	a, err := b.get(errors.PhaseMaterialize, x)
	if err != nil {
		return false, err
	}
	c, err := b.get(errors.PhaseMaterialize, y)
	if err != nil {
		return false, err
	}
	return str.Equal(a, c), nil
}

// Lifecycle

// Free is the foreign-facing deallocation call. The bridge owns all
// string storage, so it validates the handle and otherwise does
// nothing; use Release to actually reclaim a handle.
func (b *Bridge) Free(h Handle) error {
	_, err := b.get(errors.PhaseMutate, h)
	return err
}

// Release reclaims a handle on the owning side. The handle value may
// be recycled by later constructions.
func (b *Bridge) Release(h Handle) bool {
	return b.table.Release(h)
}

// Count returns the number of live strings.
func (b *Bridge) Count() int {
	return b.table.Len()
}

// Each iterates over live handles until fn returns false.
func (b *Bridge) Each(fn func(Handle, *str.String) bool) {
	b.table.Each(fn)
}

// Close releases every string and invalidates all handles.
func (b *Bridge) Close() {
	b.mu.Lock()
	b.interned = make(map[*str.String]Handle)
	b.mu.Unlock()
	b.table.Close()
}
