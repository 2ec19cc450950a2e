package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kkmin1/mhtml2html/internal/webui"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		addr    string
		dir     string
		timeout time.Duration
		verbose bool
	)
	flag.StringVar(&addr, "addr", ":8032", "Listen address")
	flag.StringVar(&dir, "dir", ".", "Directory of capture files to serve")
	flag.DurationVar(&timeout, "timeout", 30*time.Minute, "Wall-clock budget per conversion")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	srv := webui.NewServer(dir, timeout)
	log.Info().Str("addr", addr).Str("dir", dir).Msg("converter ui listening")
	if err := http.ListenAndServe(addr, srv); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
