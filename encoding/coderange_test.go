package encoding

import "testing"

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		enc  string
		b    []byte
		want Coderange
	}{
		{"ascii utf8", "UTF-8", []byte("hello"), CoderangeSevenBit},
		{"multibyte utf8", "UTF-8", []byte("héllo"), CoderangeValid},
		{"broken utf8", "UTF-8", []byte{0xFF, 0xFE}, CoderangeBroken},
		{"empty utf8", "UTF-8", nil, CoderangeSevenBit},
		{"ascii usascii", "US-ASCII", []byte("hello"), CoderangeSevenBit},
		{"high byte usascii", "US-ASCII", []byte{0xFF}, CoderangeBroken},
		{"binary never broken", "ASCII-8BIT", []byte{0xFF, 0x00, 0x80}, CoderangeValid},
		{"ascii binary", "ASCII-8BIT", []byte("abc"), CoderangeSevenBit},
		{"sjis valid", "Shift_JIS", []byte{0x82, 0xA0}, CoderangeValid}, // あ
		{"sjis truncated", "Shift_JIS", []byte{0x82}, CoderangeBroken},
		{"eucjp valid", "EUC-JP", []byte{0xA4, 0xA2}, CoderangeValid}, // あ
		{"eucjp broken", "EUC-JP", []byte{0xA4, 0x20}, CoderangeBroken},
		{"utf16le bmp", "UTF-16LE", []byte{0x41, 0x00}, CoderangeValid},
		{"utf16le odd length", "UTF-16LE", []byte{0x41}, CoderangeBroken},
		{"utf16be surrogate pair", "UTF-16BE", []byte{0xD8, 0x3D, 0xDE, 0x00}, CoderangeValid},
		{"utf16be lone surrogate", "UTF-16BE", []byte{0xD8, 0x3D}, CoderangeBroken},
		{"utf32be valid", "UTF-32BE", []byte{0x00, 0x00, 0x00, 0x41}, CoderangeValid},
		{"utf32be out of range", "UTF-32BE", []byte{0x00, 0x11, 0x00, 0x00}, CoderangeBroken},
		{"utf16 ascii bytes not 7bit", "UTF-16LE", []byte{0x41, 0x00, 0x42, 0x00}, CoderangeValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := mustLookup(t, tt.enc)
			if got := Scan(tt.b, enc); got != tt.want {
				t.Errorf("Scan(%v, %s) = %s, want %s", tt.b, tt.enc, got, tt.want)
			}
		})
	}
}

func TestCharLen(t *testing.T) {
	tests := []struct {
		name string
		enc  string
		b    []byte
		want int
	}{
		{"ascii", "UTF-8", []byte("hello"), 5},
		{"multibyte", "UTF-8", []byte("héllo"), 5},
		{"empty", "UTF-8", nil, 0},
		{"binary counts bytes", "ASCII-8BIT", []byte{0xFF, 0x00}, 2},
		{"sjis pair", "Shift_JIS", []byte{0x82, 0xA0, 0x41}, 2},
		{"utf16le", "UTF-16LE", []byte{0x41, 0x00, 0x42, 0x00}, 2},
		{"broken counts per byte", "UTF-8", []byte{0xFF, 0xFF}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := mustLookup(t, tt.enc)
			got, err := CharLen(tt.b, enc)
			if err != nil {
				t.Fatalf("CharLen: %v", err)
			}
			if got != tt.want {
				t.Errorf("CharLen = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCharRange(t *testing.T) {
	// "héllo" = h(1) é(2) l(1) l(1) o(1)
	b := []byte("héllo")
	enc := UTF8()

	off, n, err := CharRange(b, enc, 1, 2)
	if err != nil {
		t.Fatalf("CharRange: %v", err)
	}
	if string(b[off:off+n]) != "él" {
		t.Errorf("CharRange(1,2) = %q, want %q", b[off:off+n], "él")
	}

	// Past-the-end ranges clamp.
	off, n, err = CharRange(b, enc, 3, 10)
	if err != nil {
		t.Fatalf("CharRange: %v", err)
	}
	if string(b[off:off+n]) != "lo" {
		t.Errorf("CharRange(3,10) = %q, want %q", b[off:off+n], "lo")
	}

	off, n, err = CharRange(b, enc, 99, 1)
	if err != nil {
		t.Fatalf("CharRange: %v", err)
	}
	if n != 0 || off != len(b) {
		t.Errorf("CharRange past end = (%d,%d), want (%d,0)", off, n, len(b))
	}

	if _, _, err := CharRange(b, enc, -1, 1); err == nil {
		t.Error("negative start should fail")
	}
}
