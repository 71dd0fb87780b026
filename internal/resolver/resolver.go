// Package resolver looks up quotes in three tiers: the in-process store,
// the shared cache, and finally one batched provider call for whatever is
// still missing.
package resolver

import (
	"context"
	"maps"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"stockquotes/internal/cache"
	"stockquotes/internal/provider"
	"stockquotes/internal/quote"
)

// DefaultConcurrency bounds parallel cache lookups per Resolve call.
const DefaultConcurrency = 8

// Resolver is safe for concurrent use.
type Resolver struct {
	fetcher     provider.Fetcher
	cache       *cache.Client
	store       *QuoteStore
	log         logrus.FieldLogger
	concurrency int

	// coalesces concurrent provider calls for an identical pending batch
	inflight singleflight.Group
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithConcurrency sets how many cache lookups may run at once.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// New returns a Resolver with an empty store. A nil cache client means no
// caching.
func New(fetcher provider.Fetcher, c *cache.Client, opts ...Option) *Resolver {
	if c == nil {
		c = cache.Disabled()
	}
	r := &Resolver{
		fetcher:     fetcher,
		cache:       c,
		store:       NewQuoteStore(),
		log:         logrus.StandardLogger(),
		concurrency: DefaultConcurrency,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ResolveString resolves a space-delimited list such as "MSFT GOOG yelp".
func (r *Resolver) ResolveString(ctx context.Context, symbols string) map[string]quote.Record {
	return r.Resolve(ctx, quote.ParseSymbols(symbols))
}

// Resolve returns quotes for the requested symbols keyed by their
// upper-case form. Symbols that could not be resolved are absent; that is
// not an error. Returned records are copies and may be modified freely.
func (r *Resolver) Resolve(ctx context.Context, symbols []string) map[string]quote.Record {
	requested := quote.NormalizeAll(symbols)
	out := make(map[string]quote.Record, len(requested))
	if len(requested) == 0 {
		return out
	}

	pending, cacheHits := r.classify(ctx, quote.Unique(requested))
	fetched := 0
	if len(pending) > 0 {
		fetched = r.fetch(ctx, pending)
	}

	for _, s := range requested {
		if rec, ok := r.store.Get(s); ok {
			out[s] = maps.Clone(rec)
		}
	}

	r.log.WithFields(logrus.Fields{
		"requested":  len(requested),
		"cache_hits": cacheHits,
		"pending":    len(pending),
		"fetched":    fetched,
		"resolved":   len(out),
	}).Debug("quotes resolved")
	return out
}

// classify checks the store, then the cache, and returns the symbols that
// need a provider call in request order.
func (r *Resolver) classify(ctx context.Context, symbols []string) ([]string, int) {
	missing := make([]bool, len(symbols))
	var hits atomic.Int64

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, s := range symbols {
		if r.store.Has(s) {
			continue
		}
		if !r.cache.Enabled() {
			missing[i] = true
			continue
		}
		g.Go(func() error {
			if rec, ok := r.cache.Lookup(ctx, s); ok {
				r.store.Put(s, rec)
				hits.Add(1)
				return nil
			}
			missing[i] = true
			return nil
		})
	}
	_ = g.Wait()

	pending := make([]string, 0, len(symbols))
	for i, s := range symbols {
		if missing[i] {
			pending = append(pending, s)
		}
	}
	return pending, int(hits.Load())
}

// fetch makes the single provider call for pending and stores what comes
// back. Callers racing on the same batch share one call, so it runs detached
// from any one caller's cancellation; the Fetcher bounds it with its own
// timeout.
func (r *Resolver) fetch(ctx context.Context, pending []string) int {
	if r.fetcher == nil {
		return 0
	}
	v, _, _ := r.inflight.Do(strings.Join(pending, " "), func() (any, error) {
		shared := context.WithoutCancel(ctx)
		n := 0
		for _, rec := range r.fetcher.FetchBatch(shared, pending) {
			if r.add(shared, rec) {
				n++
			}
		}
		return n, nil
	})
	n, _ := v.(int)
	return n
}

// add stores rec under its own symbol and writes it through to the cache.
func (r *Resolver) add(ctx context.Context, rec quote.Record) bool {
	sym, ok := rec.Symbol()
	if !ok {
		r.log.WithField("record", rec).Debug("dropping quote without symbol")
		return false
	}
	r.store.Put(quote.Normalize(sym), rec)
	r.cache.Fill(ctx, rec)
	return true
}
