package encoding

import (
	"errors"
	"testing"

	bridgeerrors "github.com/wippyai/strbridge/errors"
)

func TestLookup_Identity(t *testing.T) {
	tests := []struct {
		name  string
		alias string
	}{
		{"UTF-8", "utf-8"},
		{"US-ASCII", "ASCII"},
		{"ASCII-8BIT", "BINARY"},
		{"ISO-8859-1", "Latin-1"},
		{"Shift_JIS", "SJIS"},
		{"Windows-1252", "CP1252"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", tt.name, err)
			}
			b, err := Lookup(tt.alias)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", tt.alias, err)
			}
			if a != b {
				t.Errorf("alias %q resolved to a different descriptor than %q", tt.alias, tt.name)
			}
		})
	}
}

func TestLookup_Singletons(t *testing.T) {
	if e, _ := Lookup("UTF-8"); e != UTF8() {
		t.Error("Lookup(UTF-8) should return the UTF8 singleton")
	}
	if e, _ := Lookup("US-ASCII"); e != USASCII() {
		t.Error("Lookup(US-ASCII) should return the USASCII singleton")
	}
	if e, _ := Lookup("binary"); e != ASCII8BIT() {
		t.Error("Lookup(binary) should return the ASCII8BIT singleton")
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("NOT-A-REAL-ENCODING-42")
	if err == nil {
		t.Fatal("expected error for unknown encoding")
	}
	var be *bridgeerrors.Error
	if !errors.As(err, &be) || be.Kind != bridgeerrors.KindUnknownEncoding {
		t.Fatalf("expected unknown_encoding, got %v", err)
	}
}

func TestLookup_IANAFallback(t *testing.T) {
	// KOI8-R is not a builtin; it should resolve through the IANA index
	// and return the same descriptor on repeated lookups.
	a, err := Lookup("KOI8-R")
	if err != nil {
		t.Fatalf("Lookup(KOI8-R): %v", err)
	}
	b, err := Lookup("koi8-r")
	if err != nil {
		t.Fatalf("Lookup(koi8-r): %v", err)
	}
	if a != b {
		t.Error("repeated lookups should return the same descriptor")
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name        string
		asciiCompat bool
		fixedWidth  bool
	}{
		{"UTF-8", true, false},
		{"US-ASCII", true, true},
		{"ASCII-8BIT", true, true},
		{"Shift_JIS", true, false},
		{"UTF-16LE", false, false},
		{"UTF-32BE", false, true},
	}

	for _, tt := range tests {
		e, err := Lookup(tt.name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", tt.name, err)
		}
		if e.IsASCIICompatible() != tt.asciiCompat {
			t.Errorf("%s: IsASCIICompatible = %v, want %v", tt.name, e.IsASCIICompatible(), tt.asciiCompat)
		}
		if e.IsFixedWidth() != tt.fixedWidth {
			t.Errorf("%s: IsFixedWidth = %v, want %v", tt.name, e.IsFixedWidth(), tt.fixedWidth)
		}
	}
}

func TestDefaults(t *testing.T) {
	if DefaultExternal() != UTF8() {
		t.Error("default external should start as UTF-8")
	}
	if DefaultInternal() != nil {
		t.Error("default internal should start unset")
	}

	SetDefaultExternal(USASCII())
	if DefaultExternal() != USASCII() {
		t.Error("SetDefaultExternal did not take effect")
	}
	SetDefaultExternal(UTF8())

	SetDefaultInternal(UTF8())
	if DefaultInternal() != UTF8() {
		t.Error("SetDefaultInternal did not take effect")
	}
	SetDefaultInternal(nil)
}

func TestLocaleFromEnv(t *testing.T) {
	tests := []struct {
		env  string
		want *Encoding
	}{
		{"en_US.UTF-8", UTF8()},
		{"C", USASCII()},
		{"POSIX", USASCII()},
		{"ja_JP.eucJP", mustLookup(t, "EUC-JP")},
		{"de_DE.UTF-8@euro", UTF8()},
		{"en_US", USASCII()},
	}

	for _, tt := range tests {
		if got := localeFromEnv(tt.env); got != tt.want {
			t.Errorf("localeFromEnv(%q) = %s, want %s", tt.env, got.Name(), tt.want.Name())
		}
	}
}

func mustLookup(t *testing.T, name string) *Encoding {
	t.Helper()
	e, err := Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", name, err)
	}
	return e
}
