package resource

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// extByMIME picks asset file extensions; unknown payloads get .bin.
var extByMIME = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// ExtensionForMIME returns the asset extension for a MIME type.
func ExtensionForMIME(mime string) string {
	if ext, ok := extByMIME[strings.ToLower(strings.TrimSpace(mime))]; ok {
		return ext
	}
	return ".bin"
}

// AssetWriter writes extracted payloads beside the output file with
// run-scoped sequential names (img001.png, svg001.svg, ...). The optional
// prefix, usually derived from the source file name, keeps parallel runs
// writing into one directory from colliding.
type AssetWriter struct {
	// Dir is where asset files are written.
	Dir string
	// OutDir anchors the relative paths referenced from emitted text.
	OutDir string
	// Prefix is prepended to every generated name; may be empty.
	Prefix string

	imgSeq int
	svgSeq int
	// Count is the number of assets written so far in this run.
	Count int
}

// WriteImage stores an image payload and returns its output-relative path.
func (w *AssetWriter) WriteImage(mime string, data []byte) (string, error) {
	w.imgSeq++
	name := fmt.Sprintf("%simg%03d%s", w.Prefix, w.imgSeq, ExtensionForMIME(mime))
	return w.write(name, data)
}

// WriteSVG stores serialized inline SVG markup, restoring the camelCase
// attribute names HTML parsers lowercase, and returns the relative path.
func (w *AssetWriter) WriteSVG(markup string) (string, error) {
	w.svgSeq++
	name := fmt.Sprintf("%ssvg%03d.svg", w.Prefix, w.svgSeq)
	return w.write(name, []byte(NormalizeSVG(markup)))
}

func (w *AssetWriter) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create assets dir: %w", err)
	}
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}
	w.Count++

	out := w.OutDir
	if out == "" {
		out = "."
	}
	rel, err := filepath.Rel(out, path)
	if err != nil {
		rel = name
	}
	return filepath.ToSlash(rel), nil
}

// svgAttrCase restores SVG attribute casing that renderers require. HTML
// parsing lowercases every attribute name, which breaks viewBox and friends
// when the markup is re-opened as standalone SVG.
var svgAttrCase = map[string]string{
	"viewbox=":             "viewBox=",
	"markerwidth=":         "markerWidth=",
	"markerheight=":        "markerHeight=",
	"refx=":                "refX=",
	"refy=":                "refY=",
	"preserveaspectratio=": "preserveAspectRatio=",
	"baseprofile=":         "baseProfile=",
	"clippathunits=":       "clipPathUnits=",
	"gradientunits=":       "gradientUnits=",
	"gradienttransform=":   "gradientTransform=",
	"patternunits=":        "patternUnits=",
	"patterncontentunits=": "patternContentUnits=",
	"patterntransform=":    "patternTransform=",
	"maskunits=":           "maskUnits=",
	"maskcontentunits=":    "maskContentUnits=",
	"contentscripttype=":   "contentScriptType=",
	"contentstyletype=":    "contentStyleType=",
}

type svgAttrFix struct {
	re    *regexp.Regexp
	camel string
}

var svgAttrFixes = func() []svgAttrFix {
	fixes := make([]svgAttrFix, 0, len(svgAttrCase))
	for low, camel := range svgAttrCase {
		fixes = append(fixes, svgAttrFix{
			re:    regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(low)),
			camel: camel,
		})
	}
	return fixes
}()

// NormalizeSVG fixes attribute casing and prepends an XML declaration when
// one is missing, producing files that open as standalone SVG documents.
func NormalizeSVG(markup string) string {
	fixed := markup
	for _, f := range svgAttrFixes {
		fixed = f.re.ReplaceAllString(fixed, f.camel)
	}
	head := fixed
	if len(head) > 80 {
		head = head[:80]
	}
	if !strings.Contains(head, "<?xml") {
		fixed = `<?xml version="1.0" encoding="UTF-8"?>` + "\n" + fixed
	}
	return fixed
}
