package app

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Output formats.
const (
	FormatMarkdown = "md"
	FormatText     = "txt"
	FormatHTML     = "html"
	FormatPDF      = "pdf"
)

// Config holds runtime configuration for one conversion run.
type Config struct {
	// InputPath is the .mhtml archive, or a bare .html capture.
	InputPath string
	// OutputPath is where the converted document is written; empty derives
	// it from the input path and format.
	OutputPath string
	// Format selects the output surface: md, txt, html or pdf.
	Format string

	// Strategy pins a site strategy by name; empty or "auto" probes the
	// document shape.
	Strategy string
	// Primary picks the HTML part when an archive carries several:
	// "longest" (default) or "first".
	Primary string
	// Title overrides the document title; empty falls back to the page
	// <title>, then the input file stem.
	Title string

	// AssetsDir is the directory for extracted images, relative to the
	// output file. Empty means "assets".
	AssetsDir string

	// MathJax injects the math renderer into HTML output.
	MathJax bool

	Verbose bool
}

// Validate reports the first configuration problem.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputPath) == "" {
		return fmt.Errorf("input path is required")
	}
	switch c.Format {
	case FormatMarkdown, FormatText, FormatHTML, FormatPDF:
	case "":
		return fmt.Errorf("output format is required")
	default:
		return fmt.Errorf("unknown output format %q (have md, txt, html, pdf)", c.Format)
	}
	return nil
}

// extByFormat maps a format to its output file suffix.
var extByFormat = map[string]string{
	FormatMarkdown: ".md",
	FormatText:     ".qa.txt",
	FormatHTML:     ".html",
	FormatPDF:      ".pdf",
}

// DefaultOutputPath derives the output file from the input file by swapping
// the extension for the format's suffix.
func DefaultOutputPath(input, format string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + extByFormat[format]
}

// stem returns the file name without directory or extension, used for
// fallback titles and asset prefixes.
func stem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
