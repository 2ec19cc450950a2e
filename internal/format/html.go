package format

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTML serializes a cleaned document. A final sweep removes any ** marker
// pairs the node-level pass could not unwrap, such as markers split across
// block boundaries.
func HTML(doc *goquery.Document) (string, error) {
	out, err := doc.Html()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(out, "**", ""), nil
}
