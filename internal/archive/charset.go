package archive

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/korean"
)

// fallbackEncodings is the fixed chain tried after the declared or sniffed
// charset. Order matters: CP949 and EUC-KR cover Korean chat exports that
// ship without charset metadata; Latin-1 accepts any byte sequence and
// terminates the chain.
var fallbackEncodings = []string{"utf-8", "cp949", "euc-kr", "windows-1252", "latin-1"}

var charsetTokenRe = regexp.MustCompile(`(?i)charset\s*=\s*["']?([A-Za-z0-9._-]+)`)

// DecodeText decodes a part payload using the first candidate encoding that
// decodes without error. Candidates are: the declared charset, a charset
// sniffed from the payload head for HTML parts lacking one, then the fixed
// fallback chain, deduplicated case-insensitively. When every candidate
// fails the payload is force-decoded as UTF-8 with replacement characters
// and the second return value reports the lossy decode.
func DecodeText(raw []byte, declared, contentType string) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	candidates := make([]string, 0, len(fallbackEncodings)+2)
	seen := make(map[string]bool)
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if seen[key] {
			return
		}
		seen[key] = true
		candidates = append(candidates, name)
	}

	add(declared)
	if declared == "" && contentType == "text/html" {
		add(SniffCharset(raw))
	}
	for _, name := range fallbackEncodings {
		add(name)
	}

	for _, name := range candidates {
		if text, ok := tryDecode(raw, name); ok {
			return text, false
		}
	}
	return strings.ToValidUTF8(string(raw), "�"), true
}

// SniffCharset scans the first 4096 bytes, read as ASCII, for a charset=
// token as emitted by <meta charset> or http-equiv declarations.
func SniffCharset(raw []byte) string {
	head := raw
	if len(head) > 4096 {
		head = head[:4096]
	}
	m := charsetTokenRe.FindSubmatch(head)
	if m == nil {
		return ""
	}
	return strings.Trim(string(m[1]), `"'`)
}

func tryDecode(raw []byte, name string) (string, bool) {
	// Some chain members are not WHATWG labels: "latin-1" is absent from the
	// index (and ISO-8859-1 aliases to windows-1252 there), and "cp949" only
	// exists under its "euc-kr" umbrella. Resolve those directly.
	switch strings.ToLower(name) {
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1":
		return decodeStrict(charmap.ISO8859_1, raw)
	case "cp949", "uhc", "windows-949", "ms949":
		return decodeStrict(korean.EUCKR, raw)
	case "windows-1252", "cp1252", "x-cp1252":
		// The WHATWG decoder maps all 256 bytes, unlike CP1252 proper
		// which leaves five code points undefined. Reject those bytes so
		// the chain can still fall through to Latin-1.
		for _, b := range []byte{0x81, 0x8d, 0x8f, 0x90, 0x9d} {
			if bytes.IndexByte(raw, b) >= 0 {
				return "", false
			}
		}
		return decodeStrict(charmap.Windows1252, raw)
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", false
	}
	canonical, err := htmlindex.Name(enc)
	if err == nil && canonical == "utf-8" {
		if !utf8.Valid(raw) {
			return "", false
		}
		return string(raw), true
	}
	return decodeStrict(enc, raw)
}

func decodeStrict(enc encoding.Encoding, raw []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	// The x/text decoders substitute U+FFFD instead of failing; treat any
	// substitution the payload did not already carry as a decode error.
	if bytes.ContainsRune(out, utf8.RuneError) && !bytes.ContainsRune(raw, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}
