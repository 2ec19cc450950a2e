package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kkmin1/mhtml2html/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		inputPath  string
		outputPath string
		formatName string
		strategy   string
		primary    string
		title      string
		assetsDir  string
		mathJax    bool
		configPath string
		verbose    bool
	)

	flag.StringVar(&inputPath, "input", os.Getenv("MHTMLCONV_INPUT"), "Path to the saved .mhtml archive or .html capture")
	flag.StringVar(&outputPath, "output", "", "Path to write the converted document (default: input path with the format's suffix)")
	flag.StringVar(&formatName, "format", "md", "Output format: md, txt, html or pdf")
	flag.StringVar(&strategy, "strategy", "auto", "Site strategy: auto, gemini, grok, glm, chatgpt or generic")
	flag.StringVar(&primary, "primary", "", "Primary HTML part policy when an archive has several: longest (default) or first")
	flag.StringVar(&title, "title", "", "Document title override")
	flag.StringVar(&assetsDir, "assets.dir", "", "Directory for extracted images, relative to the output file (default: assets)")
	flag.BoolVar(&mathJax, "mathjax", false, "Inject the MathJax renderer into HTML output")
	flag.StringVar(&configPath, "config", os.Getenv("MHTMLCONV_CONFIG"), "Optional YAML or JSON config file; flags win over file values")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	// A single positional argument is accepted as the input path.
	if inputPath == "" && flag.NArg() > 0 {
		inputPath = flag.Arg(0)
	}

	cfg := app.Config{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Format:     formatName,
		Strategy:   strategy,
		Primary:    primary,
		Title:      title,
		AssetsDir:  assetsDir,
		MathJax:    mathJax,
		Verbose:    verbose,
	}
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config file")
			os.Exit(2)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	res, err := app.Run(context.Background(), cfg)
	if err != nil {
		log.Error().Err(err).Msg("conversion failed")
		os.Exit(1)
	}

	fmt.Println(res.OutputPath)
	if res.Empty {
		log.Warn().Msg("no content extracted; check -strategy")
	}
}
