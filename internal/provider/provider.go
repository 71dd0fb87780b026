package provider

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"stockquotes/internal/quote"
)

// Source is a remote quote provider. Implementations report transport,
// status and decoding failures as errors; unknown symbols are simply absent.
type Source interface {
	Name() string
	Quotes(ctx context.Context, symbols []string) ([]quote.Record, error)
}

// Fetcher resolves one batch of symbols in a single round trip. It never
// fails: a failed round yields no records.
//
//go:generate mockgen -package=provider -destination=mock_provider_test.go -source=provider.go
type Fetcher interface {
	FetchBatch(ctx context.Context, symbols []string) []quote.Record
}

// Batch adapts a Source into a Fetcher. Errors are logged and swallowed and
// records without a usable symbol are dropped.
type Batch struct {
	Source  Source
	Timeout time.Duration
	Log     logrus.FieldLogger
}

func NewBatch(src Source, timeout time.Duration, log logrus.FieldLogger) *Batch {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Batch{Source: src, Timeout: timeout, Log: log}
}

func (b *Batch) FetchBatch(ctx context.Context, symbols []string) []quote.Record {
	if b.Source == nil || len(symbols) == 0 {
		return nil
	}
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	start := time.Now()
	recs, err := b.Source.Quotes(ctx, symbols)
	log := b.logger().WithFields(logrus.Fields{
		"source":  b.Source.Name(),
		"symbols": len(symbols),
		"elapsed": time.Since(start).String(),
	})
	if err != nil {
		log.WithError(err).Warn("quote batch failed")
		return nil
	}

	out := make([]quote.Record, 0, len(recs))
	for _, r := range recs {
		if !r.Valid() {
			log.WithField("record", r).Debug("dropping quote without symbol")
			continue
		}
		out = append(out, r)
	}
	log.WithField("records", len(out)).Debug("quote batch fetched")
	return out
}

func (b *Batch) logger() logrus.FieldLogger {
	if b.Log == nil {
		return logrus.StandardLogger()
	}
	return b.Log
}
