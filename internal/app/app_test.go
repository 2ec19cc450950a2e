package app

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kkmin1/mhtml2html/internal/archive"
	"github.com/kkmin1/mhtml2html/internal/format"
)

const chatPage = `<html><head><title>Chat Session</title></head><body>
<user-query><p>What is MHTML?</p></user-query>
<message-content><p>A web archive format. <img src="cid:pic1" alt="diagram"></p></message-content>
<user-query><p>Thanks!</p></user-query>
</body></html>`

func buildArchive(t *testing.T, page string) []byte {
	t.Helper()
	var b strings.Builder
	w := func(s string) { b.WriteString(s); b.WriteString("\r\n") }
	w("From: <Saved by Blink>")
	w("MIME-Version: 1.0")
	w(`Content-Type: multipart/related; boundary="----MultipartBoundary--test----"`)
	w("")
	w("------MultipartBoundary--test----")
	w("Content-Type: text/html; charset=utf-8")
	w("Content-Location: https://example.com/chat")
	w("")
	w(page)
	w("------MultipartBoundary--test----")
	w("Content-Type: image/png")
	w("Content-Transfer-Encoding: base64")
	w("Content-ID: <pic1>")
	w("")
	w(base64.StdEncoding.EncodeToString([]byte{0x89, 0x50, 0x4e, 0x47}))
	w("------MultipartBoundary--test------")
	return []byte(b.String())
}

func writeInput(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func TestRunMarkdown(t *testing.T) {
	input := writeInput(t, "chat.mhtml", buildArchive(t, chatPage))
	res, err := Run(context.Background(), Config{InputPath: input, Format: FormatMarkdown})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Strategy != "chatgpt" {
		t.Fatalf("strategy = %q", res.Strategy)
	}
	if res.Turns != 2 {
		t.Fatalf("turns = %d", res.Turns)
	}
	if res.Assets != 1 {
		t.Fatalf("assets = %d", res.Assets)
	}
	if res.OutputPath != strings.TrimSuffix(input, ".mhtml")+".md" {
		t.Fatalf("output path = %q", res.OutputPath)
	}

	out, err := os.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	text := string(out)
	for _, want := range []string{
		"# Chat Session",
		"## Turn 1",
		"What is MHTML?",
		"A web archive format.",
		"(assets/chat-img001.png)",
		"## Turn 2",
		"(no answer)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}

	asset := filepath.Join(filepath.Dir(res.OutputPath), "assets", "chat-img001.png")
	data, err := os.ReadFile(asset)
	if err != nil {
		t.Fatalf("read asset: %v", err)
	}
	if string(data) != "\x89PNG" {
		t.Fatalf("asset bytes corrupted: %q", data)
	}
}

func TestRunDropsExporterLabelLines(t *testing.T) {
	page := `<html><head><title>Labels</title></head><body>
<div data-message-author-role="user"><p>You said:</p><p>what is go?</p></div>
<div data-message-author-role="assistant"><p>2025-03-01</p><p>ChatGPT said:</p><p>a language</p><p>3</p></div>
</body></html>`
	input := writeInput(t, "labels.mhtml", buildArchive(t, page))
	res, err := Run(context.Background(), Config{InputPath: input, Format: FormatText})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out, err := os.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	text := string(out)
	for _, label := range []string{"You said:", "ChatGPT said:", "2025-03-01", "\n3\n"} {
		if strings.Contains(text, label) {
			t.Fatalf("exporter line %q survived:\n%s", label, text)
		}
	}
	turns := format.ParseTranscript(text)
	if len(turns) != 1 || turns[0].Question != "what is go?" || turns[0].Answer != "a language" {
		t.Fatalf("unexpected turns: %+v", turns)
	}
}

func TestRunTextRoundTrip(t *testing.T) {
	input := writeInput(t, "chat.mhtml", buildArchive(t, chatPage))
	res, err := Run(context.Background(), Config{InputPath: input, Format: FormatText})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out, err := os.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	turns := format.ParseTranscript(string(out))
	if len(turns) != 2 || turns[0].Question != "What is MHTML?" {
		t.Fatalf("unexpected turns: %+v", turns)
	}
}

func TestRunHTML(t *testing.T) {
	input := writeInput(t, "chat.mhtml", buildArchive(t, chatPage))
	res, err := Run(context.Background(), Config{InputPath: input, Format: FormatHTML, MathJax: false})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out, err := os.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	text := string(out)
	if strings.Contains(text, "cid:pic1") {
		t.Fatalf("cid reference survived:\n%s", text)
	}
	if !strings.Contains(text, "data:image/png;base64,") {
		t.Fatalf("image not inlined:\n%s", text)
	}
	if !strings.Contains(text, `id="clean-content-style"`) {
		t.Fatalf("cleanup stylesheet missing:\n%s", text)
	}
}

func TestRunGenericParagraphs(t *testing.T) {
	long := strings.Repeat("plain article sentence ", 3)
	page := "<html><head><title>Article</title></head><body><p>" + long +
		"one</p><p>" + long + "two</p></body></html>"
	input := writeInput(t, "page.html", []byte(page))
	res, err := Run(context.Background(), Config{InputPath: input, Format: FormatMarkdown})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Strategy != "generic" {
		t.Fatalf("strategy = %q", res.Strategy)
	}
	if res.Paragraphs != 2 || res.Turns != 0 || res.Empty {
		t.Fatalf("unexpected result: %+v", res)
	}
	out, _ := os.ReadFile(res.OutputPath)
	if !strings.Contains(string(out), "# Article") {
		t.Fatalf("title missing:\n%s", out)
	}
}

func TestRunEmptyExtraction(t *testing.T) {
	input := writeInput(t, "empty.html", []byte("<html><head><title>x</title></head><body><p>hi</p></body></html>"))
	res, err := Run(context.Background(), Config{InputPath: input, Format: FormatMarkdown})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Empty {
		t.Fatalf("expected empty result, got %+v", res)
	}
	if _, err := os.Stat(res.OutputPath); err != nil {
		t.Fatalf("output not written for empty extraction: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	if _, err := Run(context.Background(), Config{Format: FormatMarkdown}); err == nil {
		t.Fatal("missing input accepted")
	}
	input := writeInput(t, "chat.mhtml", buildArchive(t, chatPage))
	if _, err := Run(context.Background(), Config{InputPath: input, Format: "docx"}); err == nil {
		t.Fatal("unknown format accepted")
	}
	if _, err := Run(context.Background(), Config{InputPath: input, Format: FormatMarkdown, Strategy: "nope"}); err == nil {
		t.Fatal("unknown strategy accepted")
	}
	if _, err := Run(context.Background(), Config{InputPath: filepath.Join(t.TempDir(), "gone.mhtml"), Format: FormatMarkdown}); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestRunNoHTMLPart(t *testing.T) {
	var b strings.Builder
	w := func(s string) { b.WriteString(s); b.WriteString("\r\n") }
	w(`Content-Type: multipart/related; boundary="b"`)
	w("")
	w("--b")
	w("Content-Type: image/png")
	w("")
	w("xx")
	w("--b--")
	input := writeInput(t, "img.mhtml", []byte(b.String()))
	_, err := Run(context.Background(), Config{InputPath: input, Format: FormatMarkdown})
	if !errors.Is(err, archive.ErrNoHTMLPart) {
		t.Fatalf("expected ErrNoHTMLPart, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	input := writeInput(t, "chat.mhtml", buildArchive(t, chatPage))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, Config{InputPath: input, Format: FormatMarkdown}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
