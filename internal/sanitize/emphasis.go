package sanitize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	// boldTextRe matches a literal **...** pair confined to one text node.
	// The body must not contain * or a newline so legitimate uses like
	// a ** b ** c spanning lines are left alone.
	boldTextRe = regexp.MustCompile(`\*\*([^*\n][^*\n]*?)\*\*`)
	// boldSpanRe matches pairs that straddle child elements, applied to a
	// block's inner HTML.
	boldSpanRe = regexp.MustCompile(`(?s)\*\*(.+?)\*\*`)
)

// boldSkipTags are containers whose text is code or user input; literal
// asterisks there are content.
var boldSkipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
}

// boldBlockSelector lists the block containers checked for marker pairs
// split across inline children.
const boldBlockSelector = "p, li, h1, h2, h3, h4, h5, h6, td, th"

// StripLiteralBold removes **...** markdown markers the exporting app never
// rendered. Single-node pairs are unwrapped in place; pairs split across
// inline children (for example **text <span>more</span>**) are handled by
// rewriting the enclosing block's inner HTML.
func StripLiteralBold(doc *goquery.Document) {
	for _, root := range doc.Nodes {
		stripBoldText(root)
	}

	doc.Find(boldBlockSelector).Each(func(_ int, s *goquery.Selection) {
		inner, err := s.Html()
		if err != nil || !strings.Contains(inner, "**") {
			return
		}
		cleaned := boldSpanRe.ReplaceAllString(inner, "$1")
		if cleaned != inner {
			s.SetHtml(cleaned)
		}
	})
}

func stripBoldText(n *html.Node) {
	if n.Type == html.ElementNode && boldSkipTags[n.Data] {
		return
	}
	if n.Type == html.TextNode && strings.Contains(n.Data, "**") {
		n.Data = boldTextRe.ReplaceAllString(n.Data, "$1")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		stripBoldText(c)
	}
}
