package yql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strings"

	"stockquotes/internal/quote"
)

// response is the envelope around a YQL result set.
//
//	{"query": {"count": 2, "created": "...", "results": {"quote": [{...}, {...}]}}}
//
// A single match comes back as an object instead of an array, and no match
// as "results": null.
type response struct {
	Query struct {
		Count   int `json:"count"`
		Results *struct {
			Quote json.RawMessage `json:"quote"`
		} `json:"results"`
	} `json:"query"`
}

// Statement builds the YQL select for a batch of symbols.
func Statement(symbols []string) string {
	quoted := make([]string, 0, len(symbols))
	for _, s := range symbols {
		// YQL string literals are single quoted; a quote inside a symbol is never valid.
		quoted = append(quoted, "'"+strings.ReplaceAll(s, "'", "")+"'")
	}
	return fmt.Sprintf("select * from %s where symbol in (%s)", quoteTable, strings.Join(quoted, ","))
}

// Quotes fetches quotes for all symbols in a single request.
func (c *Client) Quotes(ctx context.Context, symbols []string) ([]quote.Record, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	query := maps.Clone(c.query)
	query.Set("q", Statement(symbols))

	url := fmt.Sprintf("%s?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
	case res.StatusCode == http.StatusBadRequest:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return nil, fmt.Errorf("bad request: %s", strings.TrimSpace(string(b)))
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited")
	default:
		return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	var body response
	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if body.Query.Results == nil {
		return nil, nil
	}

	recs, err := quote.DecodeList(body.Query.Results.Quote)
	if err != nil {
		return nil, fmt.Errorf("decoding quotes: %w", err)
	}
	return recs, nil
}
