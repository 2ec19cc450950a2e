// Package render walks normalized HTML trees and emits an ordered stream of
// block-level render events, then assembles the stream into Markdown-shaped
// text. It is the canonical converter for arbitrary nested markup; regex
// scanning is deliberately not used here.
package render

import (
	"strings"

	"golang.org/x/net/html"
)

// Options customize a walk. All hooks are optional; a nil hook means the
// default behavior (drop images and inline SVG, skip nothing, no extra
// heading cues).
type Options struct {
	// Image maps an <img> src to a rendered reference. Returning false
	// drops the image silently (unresolvable sources, decorative favicons).
	Image func(src string) (string, bool)
	// InlineSVG maps an inline <svg> subtree to an asset reference.
	InlineSVG func(n *html.Node) (string, bool)
	// Skip reports subtrees to drop entirely: site chrome, hidden
	// reasoning panels. Nodes it cannot classify are left untouched.
	Skip func(n *html.Node) bool
	// HeadingCue reports elements that are not literal headings but behave
	// as one (block-styled spans with a heading-like style signature).
	HeadingCue func(n *html.Node) bool
}

// skippedTags never contribute content regardless of strategy.
var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"textarea": true,
	"button":   true,
	"iframe":   true,
	"head":     true,
	"path":     true,
}

// blockTags force a line-break boundary before and after their content.
var blockTags = map[string]bool{
	"p":          true,
	"div":        true,
	"section":    true,
	"article":    true,
	"blockquote": true,
	"pre":        true,
}

// Walk produces the event stream for a (sub)tree in document order.
func Walk(root *html.Node, opts Options) []Event {
	w := &walker{opts: opts}
	w.walk(root)
	return w.events
}

// Fragment renders a subtree straight to cleaned Markdown-shaped text.
func Fragment(root *html.Node, opts Options) string {
	return Markdown(Walk(root, opts))
}

type listScope struct {
	ordered bool
	counter int
}

type walker struct {
	opts   Options
	events []Event
	lists  []listScope
}

func (w *walker) emit(ev Event) { w.events = append(w.events, ev) }

func (w *walker) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *walker) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		// The parser already unescaped entities; normalize NBSP here.
		text := strings.ReplaceAll(n.Data, " ", " ")
		if strings.TrimSpace(text) == "" {
			// Newline-bearing whitespace is pretty-printing between tags;
			// space-only nodes separate inline siblings and must survive.
			if strings.ContainsAny(text, "\n\r") || text == "" {
				return
			}
			text = " "
		}
		w.emit(Event{Kind: KindText, Text: text})
		return
	case html.ElementNode:
		// handled below
	default:
		w.children(n)
		return
	}

	if w.opts.Skip != nil && w.opts.Skip(n) {
		return
	}

	name := n.Data
	if skippedTags[name] {
		return
	}

	switch name {
	case "svg":
		if w.opts.InlineSVG != nil {
			if ref, ok := w.opts.InlineSVG(n); ok {
				w.emit(Event{Kind: KindImage, Ref: ref, Text: "svg"})
			}
		}
		return

	case "img":
		src := attr(n, "src")
		if src == "" || w.opts.Image == nil {
			return
		}
		if ref, ok := w.opts.Image(src); ok {
			w.emit(Event{Kind: KindImage, Ref: ref, Text: "image"})
		}
		return

	case "br":
		w.emit(Event{Kind: KindBreak, Newlines: 1})
		return

	case "table":
		w.renderTable(n)
		return

	case "ul", "ol":
		w.emit(Event{Kind: KindBreak, Newlines: 1})
		w.lists = append(w.lists, listScope{ordered: name == "ol"})
		w.children(n)
		w.lists = w.lists[:len(w.lists)-1]
		w.emit(Event{Kind: KindBreak, Newlines: 1})
		return

	case "li":
		w.emit(Event{Kind: KindBreak, Newlines: 1})
		item := Event{Kind: KindListItem}
		if len(w.lists) > 0 {
			item.Depth = len(w.lists) - 1
			top := &w.lists[len(w.lists)-1]
			if top.ordered {
				top.counter++
				item.Ordinal = top.counter
			}
		}
		w.emit(item)
		w.children(n)
		w.emit(Event{Kind: KindBreak, Newlines: 1})
		return

	case "h1", "h2", "h3", "h4", "h5", "h6":
		if text := w.textContent(n); text != "" {
			w.emit(Event{Kind: KindHeading, Level: int(name[1] - '0'), Text: text})
		}
		return

	case "a":
		// Link targets are discarded; only the inner content renders.
		w.children(n)
		return
	}

	if w.opts.HeadingCue != nil && w.opts.HeadingCue(n) {
		if text := w.textContent(n); text != "" {
			w.emit(Event{Kind: KindHeading, Level: 0, Text: text})
		}
		return
	}

	if blockTags[name] {
		w.emit(Event{Kind: KindBreak, Newlines: 1})
		w.children(n)
		w.emit(Event{Kind: KindBreak, Newlines: 1})
		return
	}

	w.children(n)
}

// renderTable collects the table row-by-row and emits one KindTableRow per
// non-empty row. Rows with zero cells are dropped; a table with zero rows
// emits nothing at all.
func (w *walker) renderTable(table *html.Node) {
	var rows [][]string
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			row := w.collectRow(n)
			keep := false
			for _, c := range row {
				if strings.TrimSpace(c) != "" {
					keep = true
					break
				}
			}
			if keep {
				rows = append(rows, row)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(table)

	if len(rows) == 0 {
		return
	}
	w.emit(Event{Kind: KindBreak, Newlines: 2})
	for _, row := range rows {
		w.emit(Event{Kind: KindTableRow, Cells: row})
	}
	w.emit(Event{Kind: KindBreak, Newlines: 2})
}

func (w *walker) collectRow(tr *html.Node) []string {
	var cells []string
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "th" || n.Data == "td") {
			text := w.textContent(n)
			cells = append(cells, strings.ReplaceAll(text, "|", `\|`))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(tr)
	return cells
}

// textContent accumulates text across nested inline elements, honoring the
// skip predicate, with whitespace runs collapsed to single spaces.
func (w *walker) textContent(n *html.Node) string {
	var b strings.Builder
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(strings.ReplaceAll(n.Data, " ", " "))
			return
		case html.ElementNode:
			if skippedTags[n.Data] || n.Data == "svg" {
				return
			}
			if w.opts.Skip != nil && w.opts.Skip(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Title returns the document title text, or "".
func Title(root *html.Node) string {
	var res string
	var visit func(n *html.Node) bool
	visit = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" {
			var b strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					b.WriteString(c.Data)
				}
			}
			res = strings.TrimSpace(b.String())
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if visit(c) {
				return true
			}
		}
		return false
	}
	visit(root)
	return res
}
