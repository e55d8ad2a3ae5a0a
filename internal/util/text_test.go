package util

import "testing"

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"ADAMS":     "Adams",
		"van  wert": "Van Wert",
		"Van Wert":  "Van Wert",
		" cuyahoga": "Cuyahoga",
	}
	for in, want := range cases {
		if got := TitleCase(in); got != want {
			t.Fatalf("TitleCase(%q) = %q want %q", in, got, want)
		}
	}
}

func TestSquashKey(t *testing.T) {
	if SquashKey("Van Wert") != "VANWERT" || SquashKey("van-wert") != "VANWERT" {
		t.Fatalf("squash mismatch")
	}
}

func TestDecodeText(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("County Name,Adams\xff\n")...)
	got := DecodeText(raw)
	if got != "County Name,Adams\n" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeTextSameKeyWithAndWithoutBOM(t *testing.T) {
	body := "Adams,Sm\xffith (D),10\n"
	plain := DecodeText([]byte(body))
	withBOM := DecodeText(append([]byte{0xEF, 0xBB, 0xBF}, body...))
	if plain != "Adams,Smith (D),10\n" {
		t.Fatalf("plain = %q", plain)
	}
	if withBOM != plain {
		t.Fatalf("bom = %q, plain = %q", withBOM, plain)
	}
}
