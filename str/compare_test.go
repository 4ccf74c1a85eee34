package str

import (
	"testing"

	"github.com/wippyai/strbridge/encoding"
)

func TestCompare(t *testing.T) {
	utf8 := encoding.UTF8()
	ascii := encoding.USASCII()
	bin := encoding.ASCII8BIT()

	tests := []struct {
		name string
		a, b *String
		want int
	}{
		{"equal same encoding", mustNew(t, "abc", utf8), mustNew(t, "abc", utf8), 0},
		{"byte order", mustNew(t, "abc", utf8), mustNew(t, "abd", utf8), -1},
		{"prefix shorter first", mustNew(t, "ab", utf8), mustNew(t, "abc", utf8), -1},
		{"7bit across encodings", mustNew(t, "abc", utf8), mustNew(t, "abc", ascii), 0},
		{"non-7bit across encodings", mustNew(t, "\xC3\xA9", bin), mustNew(t, "\xC3\xA9", utf8), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Compare = %d, want %d", got, tt.want)
			}
			// Antisymmetry.
			if rev := Compare(tt.b, tt.a); rev != -got {
				t.Errorf("Compare reversed = %d, want %d", rev, -got)
			}
		})
	}
}

func TestCompare_TransitiveOnEqualBytes(t *testing.T) {
	// Same bytes under three encodings: two 7-bit-clean taggings that
	// compare equal, and a non-7-bit tagging whose name sorts between
	// theirs. The 7-bit pair must land on the same side of the third.
	a := mustNew(t, "abc", encoding.UTF8())
	c := mustNew(t, "abc", encoding.USASCII())
	b := mustNew(t, "abc", encoding.UTF8())
	b.ForceEncoding(mustEnc(t, "UTF-16LE"))

	if got := Compare(a, c); got != 0 {
		t.Fatalf("Compare(a, c) = %d, want 0", got)
	}
	ab, cb := Compare(a, b), Compare(c, b)
	if ab != cb {
		t.Fatalf("equal strings diverge against a third: Compare(a, b) = %d, Compare(c, b) = %d", ab, cb)
	}
	if ab != -1 {
		t.Errorf("7-bit class should order before non-7-bit: Compare(a, b) = %d", ab)
	}
}

func TestEqual_AgreesWithCompare(t *testing.T) {
	a := mustNew(t, "same", encoding.UTF8())
	b := mustNew(t, "same", encoding.USASCII())
	if !Equal(a, b) {
		t.Error("7-bit content should be equal across compatible encodings")
	}

	c := mustNew(t, "caf\xC3\xA9", encoding.UTF8())
	d := mustNew(t, "caf\xC3\xA9", encoding.ASCII8BIT())
	if Equal(c, d) {
		t.Error("non-7-bit content under different encodings must not be equal")
	}
}

func TestHash_ConsistentWithEqual(t *testing.T) {
	a := mustNew(t, "same", encoding.UTF8())
	b := mustNew(t, "same", encoding.USASCII())
	if a.Hash() != b.Hash() {
		t.Error("equal strings must hash equal")
	}

	c := mustNew(t, "caf\xC3\xA9", encoding.UTF8())
	d := mustNew(t, "caf\xC3\xA9", encoding.ASCII8BIT())
	if c.Hash() == d.Hash() {
		t.Error("unequal strings should not collide here")
	}

	e := mustNew(t, "other", encoding.UTF8())
	if a.Hash() == e.Hash() {
		t.Error("distinct content should not collide here")
	}
}
