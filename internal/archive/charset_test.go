package archive

import (
	"strings"
	"testing"
)

func TestDecodeText_DeclaredCharsetWins(t *testing.T) {
	// "café" in windows-1252: é is 0xE9, invalid as UTF-8.
	raw := []byte{'c', 'a', 'f', 0xE9}
	text, lossy := DecodeText(raw, "windows-1252", "text/plain")
	if lossy {
		t.Fatalf("unexpected lossy decode")
	}
	if text != "café" {
		t.Fatalf("got %q, want %q", text, "café")
	}
}

func TestDecodeText_FallbackPrefersCP949(t *testing.T) {
	// "한글" in CP949: C7 D1 B1 DB. Invalid UTF-8, valid CP949; the chain
	// must return the CP949 decoding, never the replacement text.
	raw := []byte{0xC7, 0xD1, 0xB1, 0xDB}
	text, lossy := DecodeText(raw, "", "text/plain")
	if lossy {
		t.Fatalf("unexpected lossy decode")
	}
	if text != "한글" {
		t.Fatalf("got %q, want %q", text, "한글")
	}
}

func TestDecodeText_SniffsHTMLCharset(t *testing.T) {
	body := `<html><head><meta charset="euc-kr"></head><body>`
	raw := append([]byte(body), 0xC7, 0xD1)
	raw = append(raw, []byte("</body></html>")...)

	text, lossy := DecodeText(raw, "", "text/html")
	if lossy {
		t.Fatalf("unexpected lossy decode")
	}
	if want := "한"; !strings.Contains(text, want) {
		t.Fatalf("sniffed decode missing %q: %q", want, text)
	}
}

func TestDecodeText_UndefinedCP1252ByteFallsThroughToLatin1(t *testing.T) {
	// 0x81 is undefined in CP1252 and an impossible CP949 sequence when
	// followed by a space, so only the Latin-1 tail can take it.
	raw := []byte("ab\x81 cd")
	text, lossy := DecodeText(raw, "", "text/plain")
	if lossy {
		t.Fatalf("unexpected lossy decode")
	}
	if text != "ab cd" {
		t.Fatalf("got %q, want %q", text, "ab cd")
	}
}

func TestDecodeText_ValidUTF8Unchanged(t *testing.T) {
	raw := []byte("plain ascii and 유니코드")
	text, lossy := DecodeText(raw, "", "text/html")
	if lossy || text != string(raw) {
		t.Fatalf("got %q lossy=%v", text, lossy)
	}
}

func TestSniffCharset(t *testing.T) {
	cases := map[string]string{
		`<meta charset="utf-8">`:                                   "utf-8",
		`<meta http-equiv="Content-Type" content="text/html; charset=EUC-KR">`: "EUC-KR",
		`<html><body>nothing here</body></html>`:                   "",
	}
	for in, want := range cases {
		if got := SniffCharset([]byte(in)); got != want {
			t.Fatalf("SniffCharset(%q): got %q, want %q", in, got, want)
		}
	}
}
