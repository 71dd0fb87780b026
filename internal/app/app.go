// Package app wires configuration into the cache, provider and Resolvers
// used by the front ends.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"stockquotes/internal/cache"
	"stockquotes/internal/config"
	"stockquotes/internal/httpx"
	"stockquotes/internal/provider"
	"stockquotes/internal/provider/financego"
	"stockquotes/internal/provider/yql"
	"stockquotes/internal/resolver"
)

// Sources accepted in provider.source.
const (
	SourceYQL       = "yql"
	SourceFinanceGo = "financego"
)

// App holds the long-lived collaborators. A Resolver's store never evicts,
// so callers take a fresh one per unit of work.
type App struct {
	Cache   *cache.Client
	Source  provider.Source
	fetcher provider.Fetcher
	opts    []resolver.Option
}

// NewSource builds the quote source named in cfg.
func NewSource(cfg config.Config) (provider.Source, error) {
	httpClient := httpx.New(cfg.ProviderTimeout())
	if cfg.Provider.UserAgent != "" {
		httpClient.UserAgent = cfg.Provider.UserAgent
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider.Source)) {
	case "", SourceYQL:
		return yql.New(
			yql.WithHTTPClient(httpClient),
			yql.WithBaseURL(cfg.Provider.Endpoint),
			yql.WithUserAgent(cfg.Provider.UserAgent),
		), nil
	case SourceFinanceGo, "finance-go":
		return financego.New(httpClient.HTTP), nil
	default:
		return nil, fmt.Errorf("unknown provider source %q", cfg.Provider.Source)
	}
}

// New opens the cache and builds the source. Only an unknown source is an
// error; cache trouble degrades to no caching.
func New(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*App, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	src, err := NewSource(cfg)
	if err != nil {
		return nil, err
	}
	c := cache.Open(ctx, cfg.CacheOptions(), log)
	log.WithFields(logrus.Fields{
		"source": src.Name(),
		"cache":  c.Enabled(),
		"ttl":    c.TTL(),
	}).Debug("app ready")
	return &App{
		Cache:   c,
		Source:  src,
		fetcher: provider.NewBatch(src, cfg.ProviderTimeout(), log),
		opts: []resolver.Option{
			resolver.WithConcurrency(cfg.Resolver.Concurrency),
			resolver.WithLogger(log),
		},
	}, nil
}

// NewResolver returns a Resolver with an empty store over the shared cache
// and provider.
func (a *App) NewResolver() *resolver.Resolver {
	return resolver.New(a.fetcher, a.Cache, a.opts...)
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.Cache.Close()
}
