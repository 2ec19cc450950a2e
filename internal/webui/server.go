// Package webui is a small local web front end for the converter: it lists
// the capture files in a directory and runs conversions in process.
package webui

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"

	"github.com/kkmin1/mhtml2html/internal/app"
	"github.com/kkmin1/mhtml2html/internal/strategy"
)

// inputGlobs are the capture file patterns offered for conversion.
var inputGlobs = []string{"*.mhtml", "*.mht", "*.html", "*.htm"}

// Server serves the converter UI over a single directory of captures.
type Server struct {
	router chi.Router
	// BaseDir is the only directory inputs are read from and outputs are
	// written to.
	BaseDir string
	// Timeout bounds one conversion's wall clock.
	Timeout time.Duration
}

// NewServer creates and configures the UI server.
func NewServer(baseDir string, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	s := &Server{BaseDir: baseDir, Timeout: timeout}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Post("/convert", s.handleConvert)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// pageData feeds the single page template for both the form and the result
// view.
type pageData struct {
	Files      []string
	Strategies []string
	Formats    []string

	Selected string
	Format   string
	Strategy string

	Ran     bool
	Err     string
	Result  *app.Result
	Preview template.HTML
	RawText string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, &pageData{})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	data := &pageData{
		Ran:      true,
		Selected: r.FormValue("file"),
		Format:   r.FormValue("format"),
		Strategy: r.FormValue("strategy"),
	}

	// Inputs are restricted to the served directory; the name from the form
	// is reduced to its base before joining.
	name := filepath.Base(data.Selected)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		data.Err = "no input file selected"
		s.renderPage(w, data)
		return
	}

	cfg := app.Config{
		InputPath: filepath.Join(s.BaseDir, name),
		Format:    data.Format,
		Strategy:  data.Strategy,
		MathJax:   r.FormValue("mathjax") != "",
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.Timeout)
	defer cancel()

	res, err := app.Run(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Str("input", name).Msg("webui: conversion failed")
		data.Err = err.Error()
		s.renderPage(w, data)
		return
	}
	data.Result = res
	s.attachPreview(data, res)
	s.renderPage(w, data)
}

// attachPreview reads small text outputs back for display: Markdown is
// rendered to HTML, transcripts are shown raw.
func (s *Server) attachPreview(data *pageData, res *app.Result) {
	switch data.Format {
	case app.FormatMarkdown:
		raw, err := os.ReadFile(res.OutputPath)
		if err != nil {
			return
		}
		var buf bytes.Buffer
		if err := goldmark.Convert(raw, &buf); err != nil {
			log.Debug().Err(err).Msg("webui: markdown preview failed")
			return
		}
		data.Preview = template.HTML(buf.String())
	case app.FormatText:
		raw, err := os.ReadFile(res.OutputPath)
		if err != nil {
			return
		}
		data.RawText = string(raw)
	}
}

func (s *Server) renderPage(w http.ResponseWriter, data *pageData) {
	data.Files = s.listInputs()
	data.Formats = []string{app.FormatMarkdown, app.FormatText, app.FormatHTML, app.FormatPDF}
	data.Strategies = []string{"auto"}
	for _, st := range strategy.All() {
		data.Strategies = append(data.Strategies, st.Name())
	}
	if data.Format == "" {
		data.Format = app.FormatMarkdown
	}
	if data.Strategy == "" {
		data.Strategy = "auto"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		log.Warn().Err(err).Msg("webui: template render failed")
	}
}

func (s *Server) listInputs() []string {
	seen := make(map[string]bool)
	var files []string
	for _, glob := range inputGlobs {
		matches, err := filepath.Glob(filepath.Join(s.BaseDir, glob))
		if err != nil {
			continue
		}
		for _, m := range matches {
			name := filepath.Base(m)
			if !seen[name] {
				seen[name] = true
				files = append(files, name)
			}
		}
	}
	sort.Strings(files)
	return files
}
