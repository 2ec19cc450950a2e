package strategy

import (
	"github.com/PuerkitoBio/goquery"
)

// Gemini handles Bard/Gemini app captures. The conversation body lives in
// <chat-window-content>; everything around it is app shell that the HTML
// output suppresses with a fixed selector list.
type Gemini struct{ base }

func (Gemini) Name() string { return "gemini" }

func (Gemini) Detect(doc *goquery.Document) bool {
	if doc.Find("chat-window-content").Length() > 0 {
		return true
	}
	return doc.Find("user-query, model-response").Length() > 0 &&
		doc.Find("chat-window, bard-sidenav-container").Length() > 0
}

func (Gemini) Fragments(doc *goquery.Document) []Fragment {
	var frags []Fragment
	doc.Find("user-query, model-response").Each(func(_ int, s *goquery.Selection) {
		role := RoleModel
		if goquery.NodeName(s) == "user-query" {
			role = RoleUser
		}
		frags = append(frags, Fragment{Role: role, Node: s.Nodes[0]})
	})
	return frags
}

func (Gemini) ContentRoot() string { return "chat-window-content" }

func (Gemini) HideCSS() string { return geminiHideCSS }

// geminiHideCSS keeps only conversation content when the archived app shell
// is re-rendered as standalone HTML.
const geminiHideCSS = `/* Keep only conversation content */
.boqOnegoogleliteOgbOneGoogleBar,
#gb,
side-nav-menu-button,
bard-mode-switcher,
top-bar-actions,
input-area-v2,
input-container,
chat-app-banners,
chat-app-tooltips,
chat-notifications,
file-drop-indicator,
toolbox-drawer,
auto-suggest,
at-mentions-menu,
uploader-signed-out-tooltip,
search-nav-button,
whale-quicksearch,
bot-banner,
condensed-tos-disclaimer,
hallucination-disclaimer,
freemium-rag-disclaimer,
freemium-file-upload-near-quota-disclaimer,
freemium-file-upload-quota-exceeded-disclaimer,
sensitive-memories-banner,
response-container-header,
message-actions,
copy-button,
thumb-up-button,
thumb-down-button,
tts-control,
regenerate-button,
conversation-action-menu,
conversation-actions-icon,
button.action-button,
button.main-menu-button,
deepl-input-controller,
.glasp-extension-toaster,
#extension-mmplj,
#glasp-extension-toast-container,
.glasp-ui-wrapper,
#naver_dic-window,
.gb_T,
.cdk-describedby-message-container,
.cdk-live-announcer-element,
audio#naver_dic_audio_controller {
  display: none !important;
}

chat-app,
main.chat-app,
bard-sidenav-container,
bard-sidenav-content,
chat-window,
chat-window-content,
.chat-history-scroll-container,
infinite-scroller.chat-history {
  max-width: 980px !important;
  width: 100% !important;
  margin-left: auto !important;
  margin-right: auto !important;
}

body {
  overflow-x: hidden;
}`
