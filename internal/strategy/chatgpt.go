package strategy

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ChatGPT handles both export shapes seen in the wild: dedicated
// <user-query>/<message-content> elements, and older captures that only
// carry data-message-author-role attributes.
type ChatGPT struct{ base }

func (ChatGPT) Name() string { return "chatgpt" }

func (ChatGPT) Detect(doc *goquery.Document) bool {
	if doc.Find("user-query, message-content").Length() > 0 {
		return true
	}
	return doc.Find(`div[data-message-author-role]`).Length() > 0
}

func (ChatGPT) Fragments(doc *goquery.Document) []Fragment {
	var frags []Fragment

	tagged := doc.Find("user-query, message-content")
	if tagged.Length() > 0 {
		tagged.Each(func(_ int, s *goquery.Selection) {
			role := RoleModel
			if goquery.NodeName(s) == "user-query" {
				role = RoleUser
			}
			frags = append(frags, Fragment{Role: role, Node: s.Nodes[0]})
		})
		return frags
	}

	doc.Find(`div[data-message-author-role]`).Each(func(_ int, s *goquery.Selection) {
		role := RoleModel
		if v, _ := s.Attr("data-message-author-role"); v == "user" {
			role = RoleUser
		}
		frags = append(frags, Fragment{Role: role, Node: s.Nodes[0]})
	})
	return frags
}

// Speaker labels the export renders above each message.
var chatgptLabelLines = map[string]bool{
	"ChatGPT said:": true,
	"You said:":     true,
	"사용자 said:":     true,
}

var (
	chatgptBareNumberRe  = regexp.MustCompile(`^\d+$`)
	chatgptLeadingDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\n+`)
	chatgptBlankRunsRe   = regexp.MustCompile(`\n{3,}`)
)

// CleanDialog drops the exporter's UI lines: speaker labels, bare citation
// numbers, and the date stamp model messages open with.
func (ChatGPT) CleanDialog(role Role, text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		if s == "" {
			lines = append(lines, "")
			continue
		}
		if chatgptLabelLines[s] || chatgptBareNumberRe.MatchString(s) {
			continue
		}
		lines = append(lines, line)
	}
	out := strings.TrimSpace(strings.Join(lines, "\n"))
	if role == RoleModel {
		out = chatgptLeadingDateRe.ReplaceAllString(out, "")
	}
	return strings.TrimSpace(chatgptBlankRunsRe.ReplaceAllString(out, "\n\n"))
}
