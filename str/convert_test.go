package str

import (
	"bytes"
	"testing"

	"github.com/wippyai/strbridge/encoding"
)

func TestConvert_NoOpReturnsSame(t *testing.T) {
	s := mustNew(t, "content", encoding.UTF8())

	same, err := Convert(s, nil, nil, encoding.PolicyFail)
	if err != nil || same != s {
		t.Fatalf("nil target must return the string itself, got %v, %v", same, err)
	}

	same, err = Convert(s, encoding.UTF8(), encoding.UTF8(), encoding.PolicyFail)
	if err != nil || same != s {
		t.Fatalf("identity conversion must return the string itself, got %v, %v", same, err)
	}
}

func TestConvert_Transcodes(t *testing.T) {
	s := mustNew(t, "é", encoding.UTF8())
	s.Taint()

	out, err := Convert(s, nil, mustEnc(t, "UTF-16LE"), encoding.PolicyFail)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if out == s {
		t.Fatal("a real conversion must produce a new string")
	}
	if !bytes.Equal(out.Bytes(), []byte{0xE9, 0x00}) {
		t.Errorf("got % x", out.Bytes())
	}
	if out.Encoding() != mustEnc(t, "UTF-16LE") {
		t.Errorf("encoding = %s", out.Encoding().Name())
	}
	if !out.Tainted() {
		t.Error("taint should survive conversion")
	}
	if s.String() != "é" {
		t.Error("source mutated by conversion")
	}
}

func TestConvert_PolicyOnLossy(t *testing.T) {
	s := mustNew(t, "héllo", encoding.UTF8())

	if _, err := Convert(s, nil, encoding.USASCII(), encoding.PolicyFail); err == nil {
		t.Error("lossy conversion must fail under PolicyFail")
	}

	out, err := Convert(s, nil, encoding.USASCII(), encoding.PolicyReplace)
	if err != nil {
		t.Fatalf("Convert replace: %v", err)
	}
	if out.String() != "h?llo" {
		t.Errorf("replace output = %q", out.String())
	}

	out, err = Convert(s, nil, encoding.USASCII(), encoding.PolicySkip)
	if err != nil {
		t.Fatalf("Convert skip: %v", err)
	}
	if out.String() != "hllo" {
		t.Errorf("skip output = %q", out.String())
	}
}

func TestExportTo(t *testing.T) {
	s := mustNew(t, "A", encoding.UTF8())
	out, err := ExportTo(s, mustEnc(t, "UTF-16BE"))
	if err != nil {
		t.Fatalf("ExportTo: %v", err)
	}
	if !bytes.Equal(out.Bytes(), []byte{0x00, 0x41}) {
		t.Errorf("got % x", out.Bytes())
	}
}

func TestExternal_USASCIIRetagsBinary(t *testing.T) {
	// Non-7-bit content claimed to be US-ASCII is retagged raw binary
	// rather than rejected or transcoded.
	s, err := NewExternalWithEncoding([]byte{0xFF, 0x41}, 2, encoding.USASCII())
	if err != nil {
		t.Fatalf("NewExternalWithEncoding: %v", err)
	}
	if s.Encoding() != encoding.ASCII8BIT() {
		t.Errorf("encoding = %s, want ASCII-8BIT", s.Encoding().Name())
	}
	if !bytes.Equal(s.Bytes(), []byte{0xFF, 0x41}) {
		t.Errorf("content changed: % x", s.Bytes())
	}
	if !s.Tainted() {
		t.Error("external strings carry the taint flag")
	}
}

func TestExternal_CleanContentKeepsEncoding(t *testing.T) {
	s, err := NewExternalWithEncoding([]byte("plain"), 5, encoding.USASCII())
	if err != nil {
		t.Fatalf("NewExternalWithEncoding: %v", err)
	}
	if s.Encoding() != encoding.USASCII() {
		t.Errorf("encoding = %s, want US-ASCII", s.Encoding().Name())
	}
}

func TestExternal_DefaultInternalNormalization(t *testing.T) {
	prev := encoding.DefaultInternal()
	encoding.SetDefaultInternal(encoding.UTF8())
	defer encoding.SetDefaultInternal(prev)

	// 0xE9 is é in Latin-1; normalization converts to the internal
	// encoding when one is configured.
	s, err := NewExternalWithEncoding([]byte{0xE9}, 1, mustEnc(t, "ISO-8859-1"))
	if err != nil {
		t.Fatalf("NewExternalWithEncoding: %v", err)
	}
	if s.Encoding() != encoding.UTF8() {
		t.Errorf("encoding = %s, want UTF-8", s.Encoding().Name())
	}
	if s.String() != "é" {
		t.Errorf("content = %q", s.String())
	}
}
