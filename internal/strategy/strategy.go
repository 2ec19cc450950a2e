// Package strategy holds the per-site extraction strategies. Each chat
// platform export has its own DOM shape; a strategy knows how to locate the
// role-tagged message fragments and how to classify chrome and hidden
// reasoning nodes. The pipeline selects one strategy per input instead of
// branching on site specifics inside the renderer.
package strategy

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Role tags a message fragment by author.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Fragment is one role-tagged message subtree in document order.
type Fragment struct {
	Role Role
	Node *html.Node
}

// Strategy is the per-site capability bundle: locate role fragments and
// classify non-content nodes.
type Strategy interface {
	Name() string
	// Detect reports whether this strategy recognizes the document shape.
	Detect(doc *goquery.Document) bool
	// Fragments returns the role-tagged message subtrees in document order.
	Fragments(doc *goquery.Document) []Fragment
	// Skip classifies chrome and hidden reasoning nodes for the renderer.
	Skip(n *html.Node) bool
	// HeadingCue marks elements that behave as headings without being one.
	HeadingCue(n *html.Node) bool
	// DropImage reports decorative images (citation favicons and the like)
	// that must vanish from text output.
	DropImage(src string) bool
	// ContentRoot is a selector for the single element the HTML output is
	// narrowed to; empty means keep the whole document.
	ContentRoot() string
	// HideCSS is the chrome-suppression stylesheet injected into HTML
	// output; empty means none beyond the shared baseline.
	HideCSS() string
}

// ParagraphExtractor is implemented by strategies that harvest a plain
// document instead of chat turns.
type ParagraphExtractor interface {
	Paragraphs(doc *goquery.Document) []string
}

// DialogCleaner is implemented by strategies whose exports interleave UI
// label lines (speaker tags, citation numbers, date stamps) with the
// message text. CleanDialog filters a rendered fragment before turn
// segmentation.
type DialogCleaner interface {
	CleanDialog(role Role, text string) string
}

// All lists the registered strategies in detection order; Generic accepts
// anything and must stay last.
func All() []Strategy {
	return []Strategy{&Gemini{}, &Grok{}, &GLM{}, &ChatGPT{}, &Generic{}}
}

// ForName returns the named strategy, or an error listing valid names.
func ForName(name string) (Strategy, error) {
	for _, s := range All() {
		if s.Name() == name {
			return s, nil
		}
	}
	names := make([]string, 0, 5)
	for _, s := range All() {
		names = append(names, s.Name())
	}
	return nil, fmt.Errorf("unknown strategy %q (have %s)", name, strings.Join(names, ", "))
}

// Detect probes the registered strategies in order and returns the first
// that recognizes the document. Generic always matches.
func Detect(doc *goquery.Document) Strategy {
	for _, s := range All() {
		if s.Detect(doc) {
			return s
		}
	}
	return &Generic{}
}

// base supplies the no-op defaults most strategies share.
type base struct{}

func (base) Skip(*html.Node) bool       { return false }
func (base) HeadingCue(*html.Node) bool { return false }
func (base) DropImage(string) bool      { return false }
func (base) ContentRoot() string        { return "" }
func (base) HideCSS() string            { return "" }

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func classAttr(n *html.Node) string { return attr(n, "class") }

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(classAttr(n)) {
		if c == class {
			return true
		}
	}
	return false
}
