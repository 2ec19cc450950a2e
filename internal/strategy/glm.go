package strategy

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GLM handles z.ai chat exports: messages live in div[id^=message-]
// containers, and collapsed "thinking" panels hide behind a zero-height
// class paired with an overflow-clipping class.
type GLM struct{ base }

func (GLM) Name() string { return "glm" }

func (GLM) Detect(doc *goquery.Document) bool {
	if doc.Find(`div[id^="message-"]`).Length() == 0 {
		return false
	}
	return doc.Find(".chat-user, .chat-assistant").Length() > 0
}

func (GLM) Fragments(doc *goquery.Document) []Fragment {
	var frags []Fragment
	doc.Find(`div[id^="message-"]`).Each(func(_ int, s *goquery.Selection) {
		if s.HasClass("user-message") {
			content := s.Find(".chat-user .rounded-xl").First()
			if content.Length() == 0 {
				content = s.Find(".chat-user").First()
			}
			if content.Length() > 0 {
				frags = append(frags, Fragment{Role: RoleUser, Node: content.Nodes[0]})
			}
			return
		}
		content := s.Find(".chat-assistant .markdown-prose").First()
		if content.Length() == 0 {
			content = s.Find(".chat-assistant").First()
		}
		if content.Length() > 0 {
			frags = append(frags, Fragment{Role: RoleModel, Node: content.Nodes[0]})
		}
	})
	return frags
}

// Skip drops hidden reasoning panels and message chrome. The structural
// h-0 + overflow-hidden pair denotes a collapsed panel regardless of what
// visual CSS the export carried.
func (GLM) Skip(n *html.Node) bool {
	cls := classAttr(n)
	if strings.Contains(cls, "thinking-chain-container") || strings.Contains(cls, "thinking-block") {
		return true
	}
	if hasClass(n, "overflow-hidden") && hasClass(n, "h-0") {
		return true
	}
	for _, marker := range []string{"citations", "tooltip", "edit-user-message-button"} {
		if strings.Contains(cls, marker) {
			return true
		}
	}
	return false
}

// DropImage rejects citation favicons; in these exports every external web
// image is a citation icon, only cid: and data: payloads carry content.
func (GLM) DropImage(src string) bool {
	if strings.Contains(src, "icon.z.ai") {
		return true
	}
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Citation residue the export leaves between paragraphs: section labels,
// bare footnote numbers, and bare source domains.
var glmNoiseLines = map[string]bool{
	"sources":         true,
	"thought process": true,
}

var (
	glmBareNumberRe = regexp.MustCompile(`^\d{1,3}$`)
	glmDomainLineRe = regexp.MustCompile(`^(?:[A-Za-z0-9-]+\.)+[A-Za-z]{2,}$`)
	glmDomainRe     = regexp.MustCompile(`\b(?:[A-Za-z0-9-]+\.)+[A-Za-z]{2,}\b`)
	glmBlankRunsRe  = regexp.MustCompile(`\n{3,}`)
	glmSpaceRunsRe  = regexp.MustCompile(`[ \t]{2,}`)
)

// CleanDialog drops citation residue line by line, then scrubs inline bare
// domains. Domains inside parentheses survive so markdown link and image
// targets stay intact.
func (GLM) CleanDialog(_ Role, text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		if s == "" {
			lines = append(lines, "")
			continue
		}
		if glmNoiseLines[strings.ToLower(s)] ||
			glmBareNumberRe.MatchString(s) ||
			glmDomainLineRe.MatchString(s) {
			continue
		}
		lines = append(lines, line)
	}
	out := stripBareDomains(strings.Join(lines, "\n"))
	out = glmSpaceRunsRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(glmBlankRunsRe.ReplaceAllString(out, "\n\n"))
}

func stripBareDomains(s string) string {
	matches := glmDomainRe.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if (start > 0 && s[start-1] == '(') || (end < len(s) && s[end] == ')') {
			continue
		}
		b.WriteString(s[last:start])
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}
