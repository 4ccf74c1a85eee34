package str

import (
	"testing"

	"github.com/wippyai/strbridge/encoding"
)

func TestIntern_Dedup(t *testing.T) {
	a := mustNew(t, "symbolic", encoding.UTF8())
	b := mustNew(t, "symbolic", encoding.UTF8())

	ca := Intern(a)
	cb := Intern(b)
	if ca != cb {
		t.Fatal("equal content/encoding must intern to the same canonical string")
	}
	if !ca.Frozen() {
		t.Error("canonical entries are frozen")
	}
	if ca.Tainted() {
		t.Error("canonical entries never carry taint")
	}
}

func TestIntern_EncodingSeparates(t *testing.T) {
	a := mustNew(t, "caf\xC3\xA9", encoding.UTF8())
	b := mustNew(t, "caf\xC3\xA9", encoding.ASCII8BIT())

	if Intern(a) == Intern(b) {
		t.Error("same bytes under different encodings intern separately")
	}
}

func TestIntern_SourceUntouched(t *testing.T) {
	s := mustNew(t, "keep me mutable", encoding.UTF8())
	s.Taint()
	Intern(s)

	if s.Frozen() {
		t.Error("interning must not freeze the source")
	}
	if !s.Tainted() {
		t.Error("interning must not untaint the source")
	}
	if err := s.Cat([]byte("!")); err != nil {
		t.Fatalf("source should stay mutable: %v", err)
	}
}
