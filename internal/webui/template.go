package webui

import "html/template"

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Chat Archive Converter</title>
  <style>
    :root {
      --bg: #f3f2ee;
      --panel: #fffdf8;
      --line: #d6d2c8;
      --text: #1f2523;
      --muted: #5c6662;
      --accent: #0f766e;
      --error: #b42318;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 24px;
      background: var(--bg);
      color: var(--text);
      font-family: "Segoe UI", "Noto Sans KR", sans-serif;
    }
    .wrap {
      max-width: 960px;
      margin: 0 auto;
      background: var(--panel);
      border: 1px solid var(--line);
      border-radius: 14px;
      padding: 20px;
    }
    h1 { margin: 0 0 12px; font-size: 1.35rem; }
    p { color: var(--muted); margin-top: 0; }
    form { display: grid; gap: 12px; }
    label { font-weight: 600; font-size: 0.95rem; }
    select, input {
      width: 100%;
      margin-top: 6px;
      border: 1px solid var(--line);
      border-radius: 8px;
      padding: 10px;
      font-size: 0.95rem;
    }
    .row { display: grid; gap: 12px; grid-template-columns: 1fr 1fr; }
    button {
      border: 0;
      border-radius: 8px;
      padding: 10px 14px;
      font-weight: 700;
      color: #fff;
      background: var(--accent);
      cursor: pointer;
      justify-self: start;
    }
    pre {
      white-space: pre-wrap;
      word-break: break-word;
      background: #f7f8f8;
      border: 1px solid var(--line);
      border-radius: 8px;
      padding: 12px;
      max-height: 420px;
      overflow: auto;
    }
    .ok { color: var(--accent); font-weight: 700; }
    .error { color: var(--error); font-weight: 700; }
    .preview { border-top: 1px solid var(--line); margin-top: 16px; padding-top: 12px; }
    @media (max-width: 760px) { .row { grid-template-columns: 1fr; } }
  </style>
</head>
<body>
  <main class="wrap">
    <h1>Chat Archive Converter</h1>
    <p>Pick a saved capture and an output format. Files are read from and written to the served directory.</p>

    <form method="post" action="/convert">
      <label>
        Capture file
        <select name="file" required>
          <option value="">-- select --</option>
          {{range .Files}}
            <option value="{{.}}" {{if eq $.Selected .}}selected{{end}}>{{.}}</option>
          {{end}}
        </select>
      </label>

      <div class="row">
        <label>
          Output format
          <select name="format">
            {{range .Formats}}
              <option value="{{.}}" {{if eq $.Format .}}selected{{end}}>{{.}}</option>
            {{end}}
          </select>
        </label>
        <label>
          Site strategy
          <select name="strategy">
            {{range .Strategies}}
              <option value="{{.}}" {{if eq $.Strategy .}}selected{{end}}>{{.}}</option>
            {{end}}
          </select>
        </label>
      </div>

      <label>
        <input type="checkbox" name="mathjax" value="1" style="width:auto"> Inject MathJax into HTML output
      </label>

      <button type="submit">Convert</button>
    </form>

    {{if .Ran}}
      <section class="preview">
        {{if .Err}}
          <p class="error">Conversion failed: {{.Err}}</p>
        {{else}}
          <p class="ok">Wrote {{.Result.OutputPath}}</p>
          <p>strategy: <code>{{.Result.Strategy}}</code>,
             turns: {{.Result.Turns}},
             paragraphs: {{.Result.Paragraphs}},
             assets: {{.Result.Assets}}{{if .Result.Empty}},
             <span class="error">no content extracted</span>{{end}}</p>
          {{if .Preview}}<div>{{.Preview}}</div>{{end}}
          {{if .RawText}}<pre>{{.RawText}}</pre>{{end}}
        {{end}}
      </section>
    {{end}}
  </main>
</body>
</html>
`))
