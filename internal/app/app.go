// Package app wires the conversion pipeline: read an archive, pick the
// primary document and a site strategy, and write the requested output
// surface.
package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"github.com/kkmin1/mhtml2html/internal/archive"
	"github.com/kkmin1/mhtml2html/internal/format"
	"github.com/kkmin1/mhtml2html/internal/render"
	"github.com/kkmin1/mhtml2html/internal/resource"
	"github.com/kkmin1/mhtml2html/internal/sanitize"
	"github.com/kkmin1/mhtml2html/internal/strategy"
	"github.com/kkmin1/mhtml2html/internal/transcript"
)

// Result summarizes one conversion run.
type Result struct {
	OutputPath string
	Strategy   string
	// Turns is the number of question/answer exchanges extracted; zero for
	// pure HTML cleaning and paragraph harvests.
	Turns int
	// Paragraphs counts harvested paragraphs on the generic path.
	Paragraphs int
	// Assets counts image files written next to the output.
	Assets int
	// Lossy reports that the primary document needed replacement-character
	// decoding.
	Lossy bool
	// Empty reports that extraction produced no content. The output file is
	// still written so the caller can inspect it.
	Empty bool
}

// Run executes one conversion. All extraction misses are soft; the only
// fatal conditions are unreadable input, an unparseable archive, an archive
// without HTML, and output write failures.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	text, lossy, arc, err := loadInput(cfg)
	if err != nil {
		return nil, err
	}
	if lossy {
		log.Warn().Str("input", cfg.InputPath).
			Msg("app: primary document decoded with replacement characters")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	strat, err := pickStrategy(cfg.Strategy, doc)
	if err != nil {
		return nil, err
	}

	outPath := cfg.OutputPath
	if outPath == "" {
		outPath = DefaultOutputPath(cfg.InputPath, cfg.Format)
	}

	res := &Result{OutputPath: outPath, Strategy: strat.Name(), Lossy: lossy}
	log.Info().Str("input", cfg.InputPath).Str("strategy", strat.Name()).
		Str("format", cfg.Format).Msg("app: converting")

	resolver := &resource.Resolver{Archive: arc}

	if cfg.Format == FormatHTML {
		n := &sanitize.Normalizer{Resolver: resolver, Strategy: strat, MathJax: cfg.MathJax}
		n.Clean(doc)
		out, err := format.HTML(doc)
		if err != nil {
			return nil, fmt.Errorf("serialize html: %w", err)
		}
		if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
			return nil, fmt.Errorf("write output: %w", err)
		}
		return res, nil
	}

	assetsDir := cfg.AssetsDir
	if assetsDir == "" {
		assetsDir = "assets"
	}
	outDir := filepath.Dir(outPath)
	writer := &resource.AssetWriter{
		Dir:    filepath.Join(outDir, assetsDir),
		OutDir: outDir,
		Prefix: stem(outPath) + "-",
	}
	resolver.Writer = writer

	title := documentTitle(cfg, doc)
	body, turns, paragraphs := extract(doc, strat, resolver, writer, title)
	res.Turns = turns
	res.Paragraphs = paragraphs
	res.Assets = writer.Count
	if turns == 0 && paragraphs == 0 {
		res.Empty = true
		log.Warn().Str("input", cfg.InputPath).Msg("app: extraction produced no content")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out string
	switch cfg.Format {
	case FormatText:
		out = body.text
	case FormatMarkdown:
		out = body.markdown
	case FormatPDF:
		if err := format.PDF(body.markdown, outPath); err != nil {
			return nil, fmt.Errorf("write pdf: %w", err)
		}
		return res, nil
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	return res, nil
}

// loadInput reads the input file. Archives are parsed and their primary
// part decoded; bare .html captures skip the multipart layer and get an
// empty resource table.
func loadInput(cfg Config) (string, bool, *archive.Archive, error) {
	raw, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return "", false, nil, fmt.Errorf("read input: %w", err)
	}

	switch strings.ToLower(filepath.Ext(cfg.InputPath)) {
	case ".html", ".htm":
		text, lossy := archive.DecodeText(raw, "", "text/html")
		return text, lossy, &archive.Archive{Resources: map[string]*archive.Part{}}, nil
	}

	arc, err := archive.Parse(raw)
	if err != nil {
		return "", false, nil, err
	}
	policy, err := archive.ParsePolicy(cfg.Primary)
	if err != nil {
		return "", false, nil, err
	}
	doc, err := arc.Primary(policy)
	if err != nil {
		return "", false, nil, err
	}
	return doc.Text, doc.Lossy, arc, nil
}

func pickStrategy(name string, doc *goquery.Document) (strategy.Strategy, error) {
	if name == "" || name == "auto" {
		return strategy.Detect(doc), nil
	}
	return strategy.ForName(name)
}

func documentTitle(cfg Config, doc *goquery.Document) string {
	if cfg.Title != "" {
		return cfg.Title
	}
	if len(doc.Nodes) > 0 {
		if t := render.Title(doc.Nodes[0]); t != "" {
			return t
		}
	}
	return stem(cfg.InputPath)
}

// rendered carries both text surfaces so one extraction pass feeds md, txt
// and pdf alike.
type rendered struct {
	markdown string
	text     string
}

// extract walks the strategy's fragments into turns, or falls back to the
// paragraph harvest for non-chat pages, and lays out both text surfaces.
func extract(doc *goquery.Document, strat strategy.Strategy, resolver *resource.Resolver, writer *resource.AssetWriter, title string) (rendered, int, int) {
	opts := render.Options{
		Skip:       strat.Skip,
		HeadingCue: strat.HeadingCue,
		Image: func(src string) (string, bool) {
			return resolveImage(src, strat, resolver, writer)
		},
		InlineSVG: func(n *html.Node) (string, bool) {
			var buf bytes.Buffer
			if err := html.Render(&buf, n); err != nil {
				log.Debug().Err(err).Msg("app: inline svg serialization failed")
				return "", false
			}
			rel, err := writer.WriteSVG(buf.String())
			if err != nil {
				log.Warn().Err(err).Msg("app: svg asset write failed")
				return "", false
			}
			return rel, true
		},
	}

	cleaner, _ := strat.(strategy.DialogCleaner)

	var frags []transcript.Fragment
	for _, f := range strat.Fragments(doc) {
		text := render.Fragment(f.Node, opts)
		if cleaner != nil {
			text = cleaner.CleanDialog(f.Role, text)
		}
		frags = append(frags, transcript.Fragment{
			Role: f.Role,
			Text: text,
		})
	}
	if turns := transcript.Build(frags); len(turns) > 0 {
		return rendered{
			markdown: format.Markdown(title, turns),
			text:     format.PlainText(turns),
		}, len(turns), 0
	}

	// Non-chat page: harvest paragraphs when the strategy supports it.
	if pe, ok := strat.(strategy.ParagraphExtractor); ok {
		if paras := pe.Paragraphs(doc); len(paras) > 0 {
			body := format.Document(title, paras)
			return rendered{markdown: body, text: body}, 0, len(paras)
		}
	}
	empty := format.Markdown(title, nil)
	return rendered{markdown: empty, text: ""}, 0, 0
}

// resolveImage maps an img src to an output-relative asset path. Archived
// and embedded payloads are written to disk; external URLs pass through
// unless the strategy classifies them as decoration.
func resolveImage(src string, strat strategy.Strategy, resolver *resource.Resolver, writer *resource.AssetWriter) (string, bool) {
	if strat.DropImage(src) {
		return "", false
	}
	if strings.HasPrefix(src, "cid:") {
		return resolver.ExtractAsset(src)
	}
	if mime, data, ok := resource.DecodeDataURI(src); ok {
		var (
			rel string
			err error
		)
		if strings.Contains(mime, "svg") {
			rel, err = writer.WriteSVG(string(data))
		} else {
			rel, err = writer.WriteImage(mime, data)
		}
		if err != nil {
			log.Warn().Err(err).Msg("app: embedded image write failed")
			return "", false
		}
		return rel, true
	}
	return src, true
}
