package str

import (
	"sync"
)

// internPool deduplicates frozen strings by content and encoding,
// supporting symbol-like usage from foreign callers.
type internPool struct {
	mu      sync.Mutex
	entries map[string]*String
}

var interned = internPool{entries: map[string]*String{}}

// Intern returns the canonical frozen string for s's content and
// encoding. Repeated calls with equal content yield the same *String.
// The canonical entry never carries the taint flag.
func Intern(s *String) *String {
	key := s.enc.Name() + "\x00" + string(s.Bytes())

	interned.mu.Lock()
	defer interned.mu.Unlock()

	if c, ok := interned.entries[key]; ok {
		return c
	}

	c := Duplicate(s)
	c.Untaint()
	c.Freeze()
	interned.entries[key] = c
	return c
}
