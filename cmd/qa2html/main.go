// qa2html turns a plain-text transcript produced by mhtmlconv -format txt
// back into a chat-bubble HTML page.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kkmin1/mhtml2html/internal/format"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		inputPath  string
		outputPath string
		title      string
	)
	flag.StringVar(&inputPath, "input", "", "Path to the .qa.txt transcript")
	flag.StringVar(&outputPath, "output", "", "Path to write the HTML page (default: input path with .html)")
	flag.StringVar(&title, "title", "", "Page title (default: input file stem)")
	flag.Parse()

	if inputPath == "" && flag.NArg() > 0 {
		inputPath = flag.Arg(0)
	}
	if inputPath == "" {
		log.Error().Msg("input transcript is required")
		os.Exit(2)
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		log.Error().Err(err).Msg("read transcript")
		os.Exit(1)
	}

	turns := format.ParseTranscript(string(raw))
	if len(turns) == 0 {
		log.Error().Str("input", inputPath).Msg("no turns found in transcript")
		os.Exit(1)
	}

	if title == "" {
		name := filepath.Base(inputPath)
		name = strings.TrimSuffix(name, filepath.Ext(name))
		title = strings.TrimSuffix(name, ".qa")
	}
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, ".txt") + ".html"
	}

	page, err := format.QAHTML(title, turns)
	if err != nil {
		log.Error().Err(err).Msg("render page")
		os.Exit(1)
	}
	if err := os.WriteFile(outputPath, []byte(page), 0o644); err != nil {
		log.Error().Err(err).Msg("write output")
		os.Exit(1)
	}

	fmt.Println(outputPath)
	log.Info().Int("turns", len(turns)).Str("output", outputPath).Msg("transcript rendered")
}
