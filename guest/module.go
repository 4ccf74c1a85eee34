package guest

import (
	"context"
	goerrors "errors"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	strbridge "github.com/wippyai/strbridge"
	"github.com/wippyai/strbridge/encoding"
	"github.com/wippyai/strbridge/errors"
)

// ModuleName is the import namespace guests bind against.
const ModuleName = "wippy:strings"

// Negative i64 results returned to guests in place of a value.
const (
	errnoInvalidArgument int64 = -1
	errnoBufferOverflow  int64 = -2
	errnoUnknownEncoding int64 = -3
	errnoConversion      int64 = -4
	errnoInvalidHandle   int64 = -5
	errnoFrozen          int64 = -6
	errnoTypeConversion  int64 = -7
	errnoUnsupported     int64 = -8
	errnoOutOfBounds     int64 = -9
)

// fail writes a negative code into the i64 ABI slot.
func fail(stack []uint64, code int64) {
	stack[0] = uint64(code)
}

// errno maps a bridge error onto the guest ABI's negative result space.
func errno(err error) int64 {
	var be *errors.Error
	if !goerrors.As(err, &be) {
		return errnoInvalidArgument
	}
	switch be.Kind {
	case errors.KindBufferOverflow:
		return errnoBufferOverflow
	case errors.KindUnknownEncoding:
		return errnoUnknownEncoding
	case errors.KindConversion:
		return errnoConversion
	case errors.KindInvalidHandle:
		return errnoInvalidHandle
	case errors.KindFrozen:
		return errnoFrozen
	case errors.KindTypeConversion:
		return errnoTypeConversion
	case errors.KindUnsupported:
		return errnoUnsupported
	case errors.KindOutOfBounds:
		return errnoOutOfBounds
	default:
		return errnoInvalidArgument
	}
}

// host carries the bridge into the wazero handler closures.
type host struct {
	bridge *strbridge.Bridge
}

// Register instantiates the "wippy:strings" host module on rt, backed
// by b. It must be called before any guest importing the module is
// instantiated.
func Register(ctx context.Context, rt wazero.Runtime, b *strbridge.Bridge) (api.Module, error) {
	h := &host{bridge: b}
	builder := rt.NewHostModuleBuilder(ModuleName)

	i32 := api.ValueTypeI32
	i64 := api.ValueTypeI64

	type export struct {
		name    string
		fn      api.GoModuleFunc
		params  []api.ValueType
		results []api.ValueType
	}

	exports := []export{
		{"str-new", h.strNew, []api.ValueType{i32, i32}, []api.ValueType{i64}},
		{"str-new-enc", h.strNewEnc, []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i64}},
		{"str-new-cstr", h.strNewCStr, []api.ValueType{i32, i32}, []api.ValueType{i64}},
		{"str-buf", h.strBuf, []api.ValueType{i32}, []api.ValueType{i64}},
		{"str-cat", h.strCat, []api.ValueType{i32, i32, i32}, []api.ValueType{i64}},
		{"str-append", h.strAppend, []api.ValueType{i32, i32}, []api.ValueType{i64}},
		{"str-resize", h.strResize, []api.ValueType{i32, i32}, []api.ValueType{i64}},
		{"str-expand", h.strExpand, []api.ValueType{i32, i32}, []api.ValueType{i64}},
		{"str-set-len", h.strSetLen, []api.ValueType{i32, i32}, []api.ValueType{i64}},
		{"str-len", h.strLen, []api.ValueType{i32}, []api.ValueType{i64}},
		{"str-char-len", h.strCharLen, []api.ValueType{i32}, []api.ValueType{i64}},
		{"str-capacity", h.strCapacity, []api.ValueType{i32}, []api.ValueType{i64}},
		{"str-read", h.strRead, []api.ValueType{i32, i32, i32}, []api.ValueType{i64}},
		{"str-read-cstr", h.strReadCStr, []api.ValueType{i32, i32, i32}, []api.ValueType{i64}},
		{"str-subseq", h.strSubseq, []api.ValueType{i32, i32, i32}, []api.ValueType{i64}},
		{"str-subseq-chars", h.strSubseqChars, []api.ValueType{i32, i32, i32}, []api.ValueType{i64}},
		{"str-drop-bytes", h.strDropBytes, []api.ValueType{i32, i32}, []api.ValueType{i64}},
		{"str-dup", h.strDup, []api.ValueType{i32}, []api.ValueType{i64}},
		{"str-intern", h.strIntern, []api.ValueType{i32}, []api.ValueType{i64}},
		{"str-freeze", h.strFreeze, []api.ValueType{i32}, []api.ValueType{i64}},
		{"str-conv-enc", h.strConvEnc, []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i64}},
		{"str-encoding-name", h.strEncodingName, []api.ValueType{i32, i32, i32}, []api.ValueType{i64}},
		{"str-force-enc", h.strForceEnc, []api.ValueType{i32, i32, i32}, []api.ValueType{i64}},
		{"str-compare", h.strCompare, []api.ValueType{i32, i32}, []api.ValueType{i64}},
		{"str-equal", h.strEqual, []api.ValueType{i32, i32}, []api.ValueType{i64}},
		{"str-hash", h.strHash, []api.ValueType{i32, i32}, []api.ValueType{i64}},
		{"str-free", h.strFree, []api.ValueType{i32}, []api.ValueType{i64}},
		{"str-release", h.strRelease, []api.ValueType{i32}, []api.ValueType{i64}},
	}

	for _, e := range exports {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(e.fn, e.params, e.results).
			Export(e.name)
	}

	return builder.Instantiate(ctx)
}

// readGuest copies length bytes at ptr out of the guest's linear memory.
func readGuest(mod api.Module, ptr, length uint32) ([]byte, bool) {
	if length == 0 {
		return []byte{}, true
	}
	return mod.Memory().Read(ptr, length)
}

// writeGuest copies b into the guest's linear memory at ptr, bounded by
// capacity. Returns the number of bytes written, or false when the
// destination range is not addressable.
func writeGuest(mod api.Module, ptr, capacity uint32, b []byte) (int, bool) {
	n := uint32(len(b))
	if n > capacity {
		n = capacity
	}
	if n == 0 {
		return 0, true
	}
	if !mod.Memory().Write(ptr, b[:n]) {
		return 0, false
	}
	return int(n), true
}

func (h *host) lookupGuestEncoding(mod api.Module, ptr, length uint32) (*encoding.Encoding, int64) {
	name, ok := readGuest(mod, ptr, length)
	if !ok {
		return nil, errnoOutOfBounds
	}
	enc, err := encoding.Lookup(string(name))
	if err != nil {
		return nil, errno(err)
	}
	return enc, 0
}

func guestPolicy(v uint32) (encoding.Policy, bool) {
	switch v {
	case 0:
		return encoding.PolicyFail, true
	case 1:
		return encoding.PolicyReplace, true
	case 2:
		return encoding.PolicySkip, true
	default:
		return encoding.PolicyFail, false
	}
}

// result folds a (value, error) pair into the i64 ABI slot.
func result(stack []uint64, v int64, err error) {
	if err != nil {
		fail(stack, errno(err))
		return
	}
	stack[0] = uint64(v)
}

func (h *host) strNew(_ context.Context, mod api.Module, stack []uint64) {
	ptr, length := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])
	b, ok := readGuest(mod, ptr, length)
	if !ok {
		fail(stack, errnoOutOfBounds)
		return
	}
	handle, err := h.bridge.NewString(b, len(b), encoding.UTF8())
	result(stack, int64(handle), err)
}

func (h *host) strNewEnc(_ context.Context, mod api.Module, stack []uint64) {
	ptr, length := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])
	namePtr, nameLen := api.DecodeU32(stack[2]), api.DecodeU32(stack[3])

	enc, code := h.lookupGuestEncoding(mod, namePtr, nameLen)
	if code != 0 {
		fail(stack, code)
		return
	}
	b, ok := readGuest(mod, ptr, length)
	if !ok {
		fail(stack, errnoOutOfBounds)
		return
	}
	handle, err := h.bridge.NewString(b, len(b), enc)
	result(stack, int64(handle), err)
}

func (h *host) strNewCStr(_ context.Context, mod api.Module, stack []uint64) {
	ptr, maxLen := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])
	b, ok := readGuest(mod, ptr, maxLen)
	if !ok {
		fail(stack, errnoOutOfBounds)
		return
	}
	handle, err := h.bridge.NewCString(b)
	result(stack, int64(handle), err)
}

func (h *host) strBuf(_ context.Context, _ api.Module, stack []uint64) {
	capacity := api.DecodeU32(stack[0])
	handle, err := h.bridge.NewBuffer(int(capacity))
	result(stack, int64(handle), err)
}

func (h *host) strCat(_ context.Context, mod api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	ptr, length := api.DecodeU32(stack[1]), api.DecodeU32(stack[2])
	b, ok := readGuest(mod, ptr, length)
	if !ok {
		fail(stack, errnoOutOfBounds)
		return
	}
	if err := h.bridge.Cat(handle, b); err != nil {
		fail(stack, errno(err))
		return
	}
	n, err := h.bridge.Len(handle)
	result(stack, int64(n), err)
}

func (h *host) strAppend(_ context.Context, _ api.Module, stack []uint64) {
	dst := strbridge.Handle(api.DecodeU32(stack[0]))
	src := strbridge.Handle(api.DecodeU32(stack[1]))
	if err := h.bridge.Append(dst, src); err != nil {
		fail(stack, errno(err))
		return
	}
	n, err := h.bridge.Len(dst)
	result(stack, int64(n), err)
}

func (h *host) strResize(_ context.Context, _ api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	n := int32(api.DecodeU32(stack[1]))
	result(stack, int64(n), h.bridge.Resize(handle, int(n)))
}

func (h *host) strExpand(_ context.Context, _ api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	extra := int32(api.DecodeU32(stack[1]))
	if err := h.bridge.Expand(handle, int(extra)); err != nil {
		fail(stack, errno(err))
		return
	}
	c, err := h.bridge.Capacity(handle)
	result(stack, int64(c), err)
}

func (h *host) strSetLen(_ context.Context, _ api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	n := int32(api.DecodeU32(stack[1]))
	result(stack, int64(n), h.bridge.SetLen(handle, int(n)))
}

func (h *host) strLen(_ context.Context, _ api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	n, err := h.bridge.Len(handle)
	result(stack, int64(n), err)
}

func (h *host) strCharLen(_ context.Context, _ api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	n, err := h.bridge.CharLen(handle)
	result(stack, int64(n), err)
}

func (h *host) strCapacity(_ context.Context, _ api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	c, err := h.bridge.Capacity(handle)
	result(stack, int64(c), err)
}

func (h *host) strRead(_ context.Context, mod api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	dst, dstCap := api.DecodeU32(stack[1]), api.DecodeU32(stack[2])
	b, err := h.bridge.Bytes(handle)
	if err != nil {
		fail(stack, errno(err))
		return
	}
	n, ok := writeGuest(mod, dst, dstCap, b)
	if !ok {
		fail(stack, errnoOutOfBounds)
		return
	}
	stack[0] = uint64(int64(n))
}

func (h *host) strReadCStr(_ context.Context, mod api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	dst, dstCap := api.DecodeU32(stack[1]), api.DecodeU32(stack[2])
	b, err := h.bridge.CString(handle)
	if err != nil {
		fail(stack, errno(err))
		return
	}
	// The terminator must fit; a partial C string is useless to a guest.
	if uint32(len(b)) > dstCap {
		fail(stack, errnoBufferOverflow)
		return
	}
	n, ok := writeGuest(mod, dst, dstCap, b)
	if !ok {
		fail(stack, errnoOutOfBounds)
		return
	}
	stack[0] = uint64(int64(n))
}

func (h *host) strSubseq(_ context.Context, _ api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	start := int32(api.DecodeU32(stack[1]))
	length := int32(api.DecodeU32(stack[2]))
	sub, err := h.bridge.SubseqBytes(handle, int(start), int(length))
	result(stack, int64(sub), err)
}

func (h *host) strSubseqChars(_ context.Context, _ api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	start := int32(api.DecodeU32(stack[1]))
	length := int32(api.DecodeU32(stack[2]))
	sub, err := h.bridge.SubseqChars(handle, int(start), int(length))
	result(stack, int64(sub), err)
}

func (h *host) strDropBytes(_ context.Context, _ api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	n := int32(api.DecodeU32(stack[1]))
	if err := h.bridge.DropBytes(handle, int(n)); err != nil {
		fail(stack, errno(err))
		return
	}
	l, err := h.bridge.Len(handle)
	result(stack, int64(l), err)
}

func (h *host) strDup(_ context.Context, _ api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	dup, err := h.bridge.Duplicate(handle)
	result(stack, int64(dup), err)
}

func (h *host) strIntern(_ context.Context, _ api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	canon, err := h.bridge.Intern(handle)
	result(stack, int64(canon), err)
}

func (h *host) strFreeze(_ context.Context, _ api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	frozen, err := h.bridge.NewFrozen(handle)
	result(stack, int64(frozen), err)
}

func (h *host) strConvEnc(_ context.Context, mod api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	namePtr, nameLen := api.DecodeU32(stack[1]), api.DecodeU32(stack[2])
	policyRaw := api.DecodeU32(stack[3])

	enc, code := h.lookupGuestEncoding(mod, namePtr, nameLen)
	if code != 0 {
		fail(stack, code)
		return
	}
	policy, ok := guestPolicy(policyRaw)
	if !ok {
		fail(stack, errnoInvalidArgument)
		return
	}
	out, err := h.bridge.Convert(handle, nil, enc, policy)
	result(stack, int64(out), err)
}

func (h *host) strEncodingName(_ context.Context, mod api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	dst, dstCap := api.DecodeU32(stack[1]), api.DecodeU32(stack[2])
	enc, err := h.bridge.EncodingOf(handle)
	if err != nil {
		fail(stack, errno(err))
		return
	}
	n, ok := writeGuest(mod, dst, dstCap, []byte(enc.Name()))
	if !ok {
		fail(stack, errnoOutOfBounds)
		return
	}
	stack[0] = uint64(int64(n))
}

func (h *host) strForceEnc(_ context.Context, mod api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	namePtr, nameLen := api.DecodeU32(stack[1]), api.DecodeU32(stack[2])
	enc, code := h.lookupGuestEncoding(mod, namePtr, nameLen)
	if code != 0 {
		fail(stack, code)
		return
	}
	result(stack, 0, h.bridge.ForceEncoding(handle, enc))
}

func (h *host) strCompare(_ context.Context, _ api.Module, stack []uint64) {
	x := strbridge.Handle(api.DecodeU32(stack[0]))
	y := strbridge.Handle(api.DecodeU32(stack[1]))
	c, err := h.bridge.Compare(x, y)
	if err != nil {
		fail(stack, errno(err))
		return
	}
	// Comparison results share the negative space with errors, so they
	// are shifted: 0 less, 1 equal, 2 greater.
	stack[0] = uint64(int64(c + 1))
}

func (h *host) strEqual(_ context.Context, _ api.Module, stack []uint64) {
	x := strbridge.Handle(api.DecodeU32(stack[0]))
	y := strbridge.Handle(api.DecodeU32(stack[1]))
	eq, err := h.bridge.Equal(x, y)
	if err != nil {
		fail(stack, errno(err))
		return
	}
	if eq {
		stack[0] = 1
	} else {
		stack[0] = 0
	}
}

func (h *host) strHash(_ context.Context, mod api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	outPtr := api.DecodeU32(stack[1])
	hash, err := h.bridge.Hash(handle)
	if err != nil {
		fail(stack, errno(err))
		return
	}
	if !mod.Memory().WriteUint64Le(outPtr, hash) {
		fail(stack, errnoOutOfBounds)
		return
	}
	stack[0] = 0
}

func (h *host) strFree(_ context.Context, _ api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	result(stack, 0, h.bridge.Free(handle))
}

func (h *host) strRelease(_ context.Context, _ api.Module, stack []uint64) {
	handle := strbridge.Handle(api.DecodeU32(stack[0]))
	if !h.bridge.Release(handle) {
		fail(stack, errnoInvalidHandle)
		return
	}
	stack[0] = 0
}
