package str

import (
	"sync"

	"go.uber.org/zap"
)

// Handle is an opaque reference to a table-owned string.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Table owns managed strings on behalf of foreign callers: the bridge
// hands out handles, never ownership. Released handles are recycled
// through a free list.
type Table struct {
	mu       sync.RWMutex
	entries  []tableEntry
	freeList []Handle
	closed   bool
}

type tableEntry struct {
	s     *String
	valid bool
}

// NewTable creates an empty string table.
func NewTable() *Table {
	return &Table{
		entries:  make([]tableEntry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Insert stores a string and returns its handle. Returns 0 after Close.
func (t *Table) Insert(s *String) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0
	}

	e := tableEntry{s: s, valid: true}

	var handle Handle
	if len(t.freeList) > 0 {
		handle = t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[handle-1] = e
	} else {
		t.entries = append(t.entries, e)
		handle = Handle(len(t.entries))
	}

	Logger().Debug("string inserted",
		zap.Uint32("handle", uint32(handle)),
		zap.Int("length", s.Len()),
		zap.String("encoding", s.Encoding().Name()))
	return handle
}

// Get resolves a handle to its string.
func (t *Table) Get(handle Handle) (*String, bool) {
	if handle == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := handle - 1
	if int(idx) >= len(t.entries) {
		return nil, false
	}

	e := t.entries[idx]
	if !e.valid {
		return nil, false
	}
	return e.s, true
}

// Release drops a handle and recycles it. This is the owning side's
// reclamation; the foreign-facing free is a no-op.
func (t *Table) Release(handle Handle) bool {
	if handle == 0 {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := handle - 1
	if int(idx) >= len(t.entries) {
		return false
	}

	e := &t.entries[idx]
	if !e.valid {
		return false
	}

	e.valid = false
	e.s = nil
	t.freeList = append(t.freeList, handle)

	Logger().Debug("string released", zap.Uint32("handle", uint32(handle)))
	return true
}

// Len returns the number of live strings.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, e := range t.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each iterates over live strings until fn returns false.
func (t *Table) Each(fn func(Handle, *String) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i, e := range t.entries {
		if e.valid {
			if !fn(Handle(i+1), e.s) {
				break
			}
		}
	}
}

// Close drops all strings and stops accepting inserts.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	t.entries = nil
	t.freeList = nil
}
