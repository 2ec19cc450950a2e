package format

import (
	"html/template"
	"strings"

	"github.com/kkmin1/mhtml2html/internal/transcript"
)

// qaPageTmpl renders a transcript as a self-contained chat-bubble page.
var qaPageTmpl = template.Must(template.New("qa").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body {
    margin: 0;
    padding: 24px;
    background: #f3f2ee;
    color: #1f2523;
    font-family: "Segoe UI", "Noto Sans KR", sans-serif;
  }
  .container { max-width: 860px; margin: 0 auto; }
  h1 { font-size: 1.3rem; }
  .message { display: flex; gap: 10px; margin: 14px 0; }
  .message.user { flex-direction: row-reverse; }
  .avatar {
    flex: 0 0 34px;
    height: 34px;
    border-radius: 50%;
    background: #0f766e;
    color: #fff;
    display: flex;
    align-items: center;
    justify-content: center;
    font-weight: 700;
  }
  .message.user .avatar { background: #5d6763; }
  .bubble {
    background: #fffdf8;
    border: 1px solid #d6d2c8;
    border-radius: 12px;
    padding: 10px 14px;
    max-width: 80%;
  }
  .label { font-size: 0.8rem; color: #5c6662; margin-bottom: 4px; font-weight: 600; }
  .text { white-space: pre-wrap; word-break: break-word; }
</style>
</head>
<body>
<main class="container">
<h1>{{.Title}}</h1>
{{range .Turns}}
<div class="message user">
  <div class="avatar">U</div>
  <div class="bubble">
    <div class="label">Question</div>
    <div class="text">{{.Question}}</div>
  </div>
</div>
<div class="message model">
  <div class="avatar">A</div>
  <div class="bubble">
    <div class="label">Answer</div>
    <div class="text">{{.Answer}}</div>
  </div>
</div>
{{end}}
</main>
</body>
</html>
`))

// QAHTML renders turns as a standalone chat-bubble page, one user and one
// model bubble per turn. Text is escaped, not interpreted as markup.
func QAHTML(title string, turns []transcript.Turn) (string, error) {
	var b strings.Builder
	err := qaPageTmpl.Execute(&b, struct {
		Title string
		Turns []transcript.Turn
	}{Title: title, Turns: turns})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
