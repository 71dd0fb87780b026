// Package financego serves quotes from Yahoo Finance through
// github.com/piquette/finance-go.
package financego

import (
	"context"
	"net/http"

	finance "github.com/piquette/finance-go"
	fquote "github.com/piquette/finance-go/quote"

	"stockquotes/internal/quote"
)

// Lister fetches quotes for a batch of symbols. The default is the
// finance-go quote iterator.
type Lister func(symbols []string) ([]finance.Quote, error)

// Source implements provider.Source on top of finance-go.
type Source struct {
	list Lister
}

// New returns a Source using the finance-go global backend. A non-nil
// httpClient replaces the library's default client.
func New(httpClient *http.Client) *Source {
	if httpClient != nil {
		finance.SetHTTPClient(httpClient)
	}
	return &Source{list: listQuotes}
}

// NewWithLister is used by tests and alternative backends.
func NewWithLister(l Lister) *Source { return &Source{list: l} }

func (s *Source) Name() string { return "finance-go" }

// Quotes runs the lookup in a goroutine because finance-go takes no context;
// the caller's deadline bounds how long we wait for it.
func (s *Source) Quotes(ctx context.Context, symbols []string) ([]quote.Record, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	type result struct {
		quotes []finance.Quote
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		qs, err := s.list(symbols)
		ch <- result{qs, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		out := make([]quote.Record, 0, len(r.quotes))
		for _, q := range r.quotes {
			out = append(out, toRecord(q))
		}
		return out, nil
	}
}

func listQuotes(symbols []string) ([]finance.Quote, error) {
	var quotes []finance.Quote
	iter := fquote.List(symbols)
	for iter.Next() {
		quotes = append(quotes, *iter.Quote())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return quotes, nil
}

// toRecord maps a finance-go quote onto the provider field names used
// throughout the cache and the front ends.
func toRecord(q finance.Quote) quote.Record {
	r := quote.Record{
		quote.FieldSymbol:    q.Symbol,
		quote.FieldChange:    q.RegularMarketChange,
		"ChangePercent":      q.RegularMarketChangePercent,
		quote.FieldDaysLow:   q.RegularMarketDayLow,
		quote.FieldDaysHigh:  q.RegularMarketDayHigh,
		quote.FieldLastTrade: q.RegularMarketPrice,
		"PreviousClose":      q.RegularMarketPreviousClose,
		"Open":               q.RegularMarketOpen,
		"Volume":             q.RegularMarketVolume,
	}
	if q.ShortName != "" {
		r[quote.FieldName] = q.ShortName
	}
	if q.CurrencyID != "" {
		r[quote.FieldCurrency] = q.CurrencyID
	}
	if q.FullExchangeName != "" {
		r["StockExchange"] = q.FullExchangeName
	}
	return r
}
