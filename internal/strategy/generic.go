package strategy

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Generic is the fallback for captures that are not chat transcripts: it
// harvests the main paragraphs of the page instead of role fragments.
// It must stay last in the detection order since it accepts anything.
type Generic struct{ base }

func (Generic) Name() string { return "generic" }

func (Generic) Detect(*goquery.Document) bool { return true }

func (Generic) Fragments(*goquery.Document) []Fragment { return nil }

// Portal boilerplate seen on re-published article pages; a paragraph
// matching it is navigation or monetization chrome, not body text.
var genericChromeRe = regexp.MustCompile(
	`(微信|支付宝|VIP|恢复|商户|扫码|支付|个人图书馆|收藏|阅读|转藏|来源|展开全文|登录|注册|分享|猜你喜欢|相关推荐|热门|关注|回复|评论|举报|版权|免责声明|360doc)`)

// genericStopRe marks the start of footer matter; harvesting stops there.
var genericStopRe = regexp.MustCompile(`(\|\||客服工作时间)`)

const genericMinParagraphRunes = 30

// Paragraphs returns the de-duplicated main body paragraphs, skipping short
// fragments and recognizable chrome. When too little survives, the page
// abstract meta tag is used as a fallback.
func (Generic) Paragraphs(doc *goquery.Document) []string {
	var paras []string
	seen := make(map[string]bool)
	stopped := false

	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if stopped {
			return
		}
		text := strings.Join(strings.Fields(strings.ReplaceAll(s.Text(), " ", " ")), " ")
		if text == "" {
			return
		}
		if genericStopRe.MatchString(text) {
			stopped = true
			return
		}
		if utf8.RuneCountInString(text) < genericMinParagraphRunes {
			return
		}
		if genericChromeRe.MatchString(text) || seen[text] {
			return
		}
		seen[text] = true
		paras = append(paras, text)
	})

	if len(paras) < 3 {
		if abstract, ok := doc.Find(`meta[name="360docabstract"]`).Attr("content"); ok {
			if abstract = strings.TrimSpace(abstract); abstract != "" {
				paras = append(paras, abstract)
			}
		}
	}
	return paras
}
