// Package sanitize rewrites an archived chat page into a standalone HTML
// document: cid references become inline data URIs, the app shell loses its
// scripts and preload hints, and the markup is narrowed to the conversation
// content.
package sanitize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kkmin1/mhtml2html/internal/archive"
	"github.com/kkmin1/mhtml2html/internal/resource"
	"github.com/kkmin1/mhtml2html/internal/strategy"
)

// baseCSS is injected into every cleaned document ahead of the strategy's
// chrome-suppression rules.
const baseCSS = `body {
  overflow-x: hidden;
}`

// mathJaxConfig pins delimiters so TeX survives outside the live app.
const mathJaxConfig = `window.MathJax = {
  tex: {
    inlineMath: [['$', '$'], ['\\(', '\\)']],
    displayMath: [['$$', '$$'], ['\\[', '\\]']]
  },
  options: {
    skipHtmlTags: ['script', 'noscript', 'style', 'textarea', 'pre', 'code']
  }
};`

const mathJaxSrc = "https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-mml-chtml.js"

// Normalizer cleans a parsed document in place. Resolver supplies the
// archive's subresources; Strategy supplies the site-specific content root
// and hide rules. Every step is best effort: an unresolvable reference is
// left alone, never fatal.
type Normalizer struct {
	Resolver *resource.Resolver
	Strategy strategy.Strategy
	// MathJax injects the math renderer into the output head.
	MathJax bool
}

// Clean applies the full rewrite. Step order matters: stylesheets are
// inlined before cid rewriting so their url() references go through the
// same pass, and scripts are dropped before the MathJax loader is added.
func (n *Normalizer) Clean(doc *goquery.Document) {
	n.inlineStylesheets(doc)
	n.rewriteAttrRefs(doc)
	n.rewriteInlineCSS(doc)
	dropPreloads(doc)
	n.dropSkipped(doc)
	StripLiteralBold(doc)
	doc.Find("script").Remove()
	n.narrowToContentRoot(doc)
	n.decorateHead(doc)
}

// inlineStylesheets replaces <link href="cid:..."> pointing at archived CSS
// with a <style> element carrying the rewritten sheet. Links whose target
// is missing or not CSS are dropped rather than left dangling.
func (n *Normalizer) inlineStylesheets(doc *goquery.Document) {
	doc.Find(`link[href^="cid:"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		part, ok := n.Resolver.Lookup(href)
		if !ok || !strings.HasPrefix(part.ContentType, "text/css") {
			log.Debug().Str("href", href).Msg("sanitize: dropping unresolvable stylesheet link")
			s.Remove()
			return
		}
		css, _ := archive.DecodeText(part.Body, part.Charset, part.ContentType)
		style := newElement("style")
		style.AppendChild(&html.Node{Type: html.TextNode, Data: n.Resolver.RewriteCSS(css)})
		s.ReplaceWithNodes(style)
	})
}

// rewriteAttrRefs inlines cid references carried by the common URL
// attributes. Unresolved references stay verbatim.
func (n *Normalizer) rewriteAttrRefs(doc *goquery.Document) {
	for _, attr := range []string{"src", "href", "poster"} {
		doc.Find("[" + attr + `^="cid:"]`).Each(func(_ int, s *goquery.Selection) {
			ref, _ := s.Attr(attr)
			if uri, ok := n.Resolver.DataURI(ref); ok {
				s.SetAttr(attr, uri)
			}
		})
	}
}

// rewriteInlineCSS handles url(cid:...) inside style attributes and
// embedded <style> blocks.
func (n *Normalizer) rewriteInlineCSS(doc *goquery.Document) {
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		if strings.Contains(style, "cid:") {
			s.SetAttr("style", n.Resolver.RewriteCSS(style))
		}
	})
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode && strings.Contains(c.Data, "cid:") {
				c.Data = n.Resolver.RewriteCSS(c.Data)
			}
		}
	})
}

// dropSkipped removes the chrome and hidden reasoning panels the strategy
// classifies as non-content, so they do not ship in standalone output.
func (n *Normalizer) dropSkipped(doc *goquery.Document) {
	var doomed []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && n.Strategy.Skip(node) {
			doomed = append(doomed, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	for _, d := range doomed {
		if d.Parent != nil {
			d.Parent.RemoveChild(d)
		}
	}
}

// dropPreloads removes resource hints that reference the dead app shell.
func dropPreloads(doc *goquery.Document) {
	doc.Find("link[rel]").Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		for _, v := range strings.Fields(rel) {
			if strings.EqualFold(v, "preload") {
				s.Remove()
				return
			}
		}
	})
}

// narrowToContentRoot moves the strategy's conversation element into a
// fresh <body><main id="content-root">, discarding the surrounding shell.
// Documents without the expected element keep their body.
func (n *Normalizer) narrowToContentRoot(doc *goquery.Document) {
	selector := n.Strategy.ContentRoot()
	if selector == "" {
		return
	}
	content := doc.Find(selector).First()
	body := doc.Find("body").First()
	if content.Length() == 0 || body.Length() == 0 {
		log.Debug().Str("selector", selector).Msg("sanitize: content root not found, keeping full body")
		return
	}

	node := content.Get(0)
	node.Parent.RemoveChild(node)

	main := newElement("main")
	main.Attr = append(main.Attr, html.Attribute{Key: "id", Val: "content-root"})
	main.AppendChild(node)

	bodyNode := body.Get(0)
	for c := bodyNode.FirstChild; c != nil; {
		next := c.NextSibling
		bodyNode.RemoveChild(c)
		c = next
	}
	bodyNode.AppendChild(main)
}

// decorateHead injects the cleanup stylesheet, the optional MathJax runtime,
// and a UTF-8 charset declaration. The output bytes are always UTF-8
// regardless of the archive's original charset.
func (n *Normalizer) decorateHead(doc *goquery.Document) {
	head := ensureHead(doc)
	if head == nil {
		return
	}

	css := baseCSS
	if hide := n.Strategy.HideCSS(); hide != "" {
		css = hide + "\n\n" + baseCSS
	}
	style := newElement("style")
	style.Attr = append(style.Attr, html.Attribute{Key: "id", Val: "clean-content-style"})
	style.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	head.AppendChild(style)

	if n.MathJax {
		cfg := newElement("script")
		cfg.AppendChild(&html.Node{Type: html.TextNode, Data: mathJaxConfig})
		head.AppendChild(cfg)

		loader := newElement("script")
		loader.Attr = append(loader.Attr,
			html.Attribute{Key: "src", Val: mathJaxSrc},
			html.Attribute{Key: "id", Val: "mathjax-script"},
			html.Attribute{Key: "defer", Val: ""},
		)
		head.AppendChild(loader)
	}

	if doc.Find("meta[charset]").Length() == 0 {
		meta := newElement("meta")
		meta.Attr = append(meta.Attr, html.Attribute{Key: "charset", Val: "UTF-8"})
		head.InsertBefore(meta, head.FirstChild)
	}
}

// ensureHead returns the document's head element, creating one as the first
// child of <html> when the archive omitted it.
func ensureHead(doc *goquery.Document) *html.Node {
	if sel := doc.Find("head").First(); sel.Length() > 0 {
		return sel.Get(0)
	}
	htmlSel := doc.Find("html").First()
	if htmlSel.Length() == 0 {
		return nil
	}
	root := htmlSel.Get(0)
	head := newElement("head")
	root.InsertBefore(head, root.FirstChild)
	return head
}

func newElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}
