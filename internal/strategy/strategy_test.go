package strategy

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

const grokHTML = `<html><body>
<div dir="ltr" class="css-x r-imh66m r-1kt6imw"><p>question text</p></div>
<div dir="ltr" class="css-x r-imh66m"><p>answer text</p></div>
<div dir="ltr" class="css-x r-other"><p>chrome</p></div>
</body></html>`

const glmHTML = `<html><body>
<div id="message-1" class="user-message"><div class="chat-user"><div class="rounded-xl"><p>ask</p></div></div></div>
<div id="message-2" class=""><div class="chat-assistant"><div class="markdown-prose"><p>reply</p></div></div></div>
</body></html>`

const chatgptHTML = `<html><body>
<user-query><p>q</p></user-query>
<message-content><p>a</p></message-content>
</body></html>`

const chatgptRoleAttrHTML = `<html><body>
<div data-message-author-role="user"><p>q</p></div>
<div data-message-author-role="assistant"><p>a</p></div>
</body></html>`

const geminiHTML = `<html><body><chat-window-content>
<user-query><p>q</p></user-query>
<model-response><p>a</p></model-response>
</chat-window-content></body></html>`

func TestDetect_PicksSiteStrategy(t *testing.T) {
	cases := map[string]string{
		grokHTML:            "grok",
		glmHTML:             "glm",
		chatgptHTML:         "chatgpt",
		chatgptRoleAttrHTML: "chatgpt",
		geminiHTML:          "gemini",
		"<html><body><p>just an article paragraph</p></body></html>": "generic",
	}
	for html, want := range cases {
		if got := Detect(parseDoc(t, html)).Name(); got != want {
			t.Fatalf("Detect: got %q, want %q", got, want)
		}
	}
}

func TestForName(t *testing.T) {
	s, err := ForName("glm")
	if err != nil || s.Name() != "glm" {
		t.Fatalf("ForName(glm): %v, %v", s, err)
	}
	if _, err := ForName("nope"); err == nil {
		t.Fatalf("expected error for unknown name")
	}
}

func rolesOf(frags []Fragment) []Role {
	roles := make([]Role, len(frags))
	for i, f := range frags {
		roles[i] = f.Role
	}
	return roles
}

func TestFragments_RolesInDocumentOrder(t *testing.T) {
	cases := []struct {
		name string
		html string
	}{
		{"grok", grokHTML},
		{"glm", glmHTML},
		{"chatgpt", chatgptHTML},
		{"chatgpt-attr", chatgptRoleAttrHTML},
		{"gemini", geminiHTML},
	}
	for _, tc := range cases {
		doc := parseDoc(t, tc.html)
		frags := Detect(doc).Fragments(doc)
		if len(frags) != 2 {
			t.Fatalf("%s: got %d fragments, want 2", tc.name, len(frags))
		}
		got := rolesOf(frags)
		if got[0] != RoleUser || got[1] != RoleModel {
			t.Fatalf("%s: roles %v", tc.name, got)
		}
	}
}

func TestGLM_SkipHiddenThinking(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<div class="thinking-chain-container"></div>
		<div class="overflow-hidden h-0"></div>
		<div class="overflow-hidden"></div>
		<div class="citations-list"></div>
		<div class="markdown-prose"></div>
	</body></html>`)
	var s GLM
	divs := doc.Find("body div").Nodes
	want := []bool{true, true, false, true, false}
	for i, n := range divs {
		if got := s.Skip(n); got != want[i] {
			t.Fatalf("div %d: Skip=%v, want %v", i, got, want[i])
		}
	}
}

func TestGLM_DropImage(t *testing.T) {
	var s GLM
	if !s.DropImage("https://icon.z.ai/x.png") || !s.DropImage("https://example.com/favicon.ico") {
		t.Fatalf("external icons should drop")
	}
	if s.DropImage("cid:img@x") || s.DropImage("data:image/png;base64,AAA") {
		t.Fatalf("embedded payloads must keep")
	}
}

func TestChatGPT_CleanDialogDropsExporterLabels(t *testing.T) {
	var s ChatGPT
	got := s.CleanDialog(RoleUser, "You said:\nwhat is go?")
	if got != "what is go?" {
		t.Fatalf("user cleanup: %q", got)
	}
	got = s.CleanDialog(RoleModel, "2025-03-01\n\nChatGPT said:\na language\n3\nmore detail")
	if got != "a language\nmore detail" {
		t.Fatalf("model cleanup: %q", got)
	}
}

func TestChatGPT_CleanDialogKeepsLeadingDateOnUser(t *testing.T) {
	var s ChatGPT
	got := s.CleanDialog(RoleUser, "2025-03-01\nwhen was that?")
	if got != "2025-03-01\nwhen was that?" {
		t.Fatalf("user date must survive: %q", got)
	}
}

func TestGLM_CleanDialogDropsCitationResidue(t *testing.T) {
	var s GLM
	in := "Sources\nGo is compiled.\n12\nexample.com\nThought Process\nIt ships a runtime."
	got := s.CleanDialog(RoleModel, in)
	want := "Go is compiled.\nIt ships a runtime."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGLM_CleanDialogScrubsInlineDomains(t *testing.T) {
	var s GLM
	got := s.CleanDialog(RoleModel, "Per golang.org the spec is stable.")
	if got != "Per the spec is stable." {
		t.Fatalf("inline domain: %q", got)
	}
	got = s.CleanDialog(RoleModel, "![image](assets/chat-img001.png)")
	if got != "![image](assets/chat-img001.png)" {
		t.Fatalf("parenthesized ref must survive: %q", got)
	}
}

func TestGrok_HeadingCue(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<span style="display: block; margin-top: 8px;">subtitle</span>
		<span style="color: red">plain</span>
	</body></html>`)
	var s Grok
	spans := doc.Find("span").Nodes
	if !s.HeadingCue(spans[0]) {
		t.Fatalf("styled span should be a heading cue")
	}
	if s.HeadingCue(spans[1]) {
		t.Fatalf("plain span is not a heading cue")
	}
}

func TestGeneric_Paragraphs(t *testing.T) {
	long := strings.Repeat("word ", 12)
	doc := parseDoc(t, `<html><body>
		<p>`+long+`one</p>
		<p>short</p>
		<p>`+long+`one</p>
		<p>`+long+`two</p>
		<p>客服工作时间 9:00</p>
		<p>`+long+`after stop</p>
	</body></html>`)
	var s Generic
	paras := s.Paragraphs(doc)
	if len(paras) != 2 {
		t.Fatalf("got %d paragraphs: %v", len(paras), paras)
	}
	if !strings.HasSuffix(paras[0], "one") || !strings.HasSuffix(paras[1], "two") {
		t.Fatalf("unexpected paragraphs: %v", paras)
	}
}
