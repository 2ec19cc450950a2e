package strategy

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Grok exports mark message blocks with generated utility classes: the
// block marker class identifies a message container and a second class
// distinguishes user bubbles from model responses.
const (
	grokBlockClass = "r-imh66m"
	grokUserClass  = "r-1kt6imw"
)

type Grok struct{ base }

func (Grok) Name() string { return "grok" }

func (Grok) Detect(doc *goquery.Document) bool {
	return doc.Find(`div[dir="ltr"][class*="` + grokBlockClass + `"]`).Length() > 0
}

func (Grok) Fragments(doc *goquery.Document) []Fragment {
	var frags []Fragment
	doc.Find(`div[dir="ltr"][class*="` + grokBlockClass + `"]`).Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		role := RoleModel
		if strings.Contains(classAttr(n), grokUserClass) {
			role = RoleUser
		}
		frags = append(frags, Fragment{Role: role, Node: n})
	})
	return frags
}

// HeadingCue matches the subtitle lines Grok renders as block-styled spans
// with a margin-top instead of heading tags.
func (Grok) HeadingCue(n *html.Node) bool {
	if n.Data != "span" {
		return false
	}
	style := attr(n, "style")
	return strings.Contains(style, "display: block") && strings.Contains(style, "margin-top")
}
