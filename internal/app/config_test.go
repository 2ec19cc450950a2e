package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOutputPath(t *testing.T) {
	cases := []struct{ in, format, want string }{
		{"a.mhtml", FormatMarkdown, "a.md"},
		{"a.mhtml", FormatText, "a.qa.txt"},
		{"dir/b.mhtml", FormatHTML, "dir/b.html"},
		{"c.mhtml", FormatPDF, "c.pdf"},
		{"noext", FormatMarkdown, "noext.md"},
	}
	for _, c := range cases {
		if got := DefaultOutputPath(c.in, c.format); got != c.want {
			t.Fatalf("DefaultOutputPath(%q, %q) = %q, want %q", c.in, c.format, got, c.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := (&Config{Format: FormatMarkdown}).Validate(); err == nil {
		t.Fatal("missing input accepted")
	}
	if err := (&Config{InputPath: "a.mhtml"}).Validate(); err == nil {
		t.Fatal("missing format accepted")
	}
	if err := (&Config{InputPath: "a.mhtml", Format: "doc"}).Validate(); err == nil {
		t.Fatal("unknown format accepted")
	}
	if err := (&Config{InputPath: "a.mhtml", Format: FormatText}).Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestLoadConfigFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conv.yaml")
	body := "input: chat.mhtml\nformat: html\nstrategy: gemini\nmathjax: true\nassets:\n  dir: media\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if fc.Input != "chat.mhtml" || fc.Format != "html" || fc.Strategy != "gemini" {
		t.Fatalf("unexpected config: %+v", fc)
	}
	if fc.MathJax == nil || !*fc.MathJax {
		t.Fatal("mathjax not parsed")
	}

	cfg := Config{Format: FormatMarkdown}
	ApplyFileConfig(&cfg, fc)
	if cfg.InputPath != "chat.mhtml" || cfg.Format != "html" || cfg.AssetsDir != "media" || !cfg.MathJax {
		t.Fatalf("overlay failed: %+v", cfg)
	}
}

func TestApplyFileConfigKeepsExplicitFlags(t *testing.T) {
	fc := FileConfig{Input: "file.mhtml", Output: "file.md", Strategy: "glm"}
	cfg := Config{InputPath: "flag.mhtml", OutputPath: "flag.md", Strategy: "grok", Format: FormatText}
	ApplyFileConfig(&cfg, fc)
	if cfg.InputPath != "flag.mhtml" || cfg.OutputPath != "flag.md" || cfg.Strategy != "grok" {
		t.Fatalf("flag values overridden: %+v", cfg)
	}
	if cfg.Format != FormatText {
		t.Fatalf("format overridden: %+v", cfg)
	}
}
