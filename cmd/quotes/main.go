// Command quotes prints stock quotes for the symbols given on the command
// line, e.g. `quotes MSFT GOOG yelp`.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"stockquotes/internal/app"
	"stockquotes/internal/config"
	"stockquotes/internal/quote"
)

func main() {
	config.AddFlags(flag.CommandLine)
	asJSON := flag.Bool("json", false, "print the quotes as a JSON object keyed by symbol")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] SYMBOL...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.LoadFlags(flag.CommandLine)
	if err != nil {
		log.WithError(err).Fatal("Couldn't load config")
	}
	cfg.LogConfig().Set()

	symbols := quote.Unique(quote.ParseSymbols(strings.Join(flag.Args(), " ")))
	if len(symbols) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log.StandardLogger())
	if err != nil {
		log.WithError(err).Fatal("Couldn't build resolver")
	}
	defer a.Close()

	quotes := a.NewResolver().Resolve(ctx, symbols)
	if *asJSON {
		err = writeJSON(os.Stdout, quotes)
	} else {
		err = writeText(os.Stdout, symbols, quotes)
	}
	if err != nil {
		log.WithError(err).Error("write output")
	}
}
