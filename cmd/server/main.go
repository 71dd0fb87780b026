// Command server exposes the quote resolver over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"stockquotes/internal/app"
	"stockquotes/internal/config"
)

func main() {
	config.AddFlags(flag.CommandLine)
	flag.String("port", config.Default().Server.Port, "listen port")
	flag.Parse()

	cfg, err := config.LoadFlags(flag.CommandLine)
	if err != nil {
		log.WithError(err).Fatal("Couldn't load config")
	}
	cfg.LogConfig().Set()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log.StandardLogger())
	if err != nil {
		log.WithError(err).Fatal("Couldn't build resolver")
	}

	newResolver := func() Resolver { return a.NewResolver() }
	h := newHandler(newResolver, time.Duration(cfg.Server.RequestTimeoutSec)*time.Second, log.StandardLogger())
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           h.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{"port": cfg.Server.Port, "source": a.Source.Name()}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown")
	}
	if err := a.Close(); err != nil {
		log.WithError(err).Warn("closing cache")
	}
}
