package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"stockquotes/internal/quote"
)

const currency = "USD"

// usd renders d as dollars with two decimals and thousands separators. The
// sign goes in front of the currency symbol: -$1.25.
func usd(d decimal.Decimal) string {
	cents := d.Shift(2).Round(0).IntPart()
	return money.New(cents, currency).Display()
}

// line formats one record as
//
//	[MSFT] Microsoft Corporation | Change: $1.25 / Low: $70.10 / High: $72.00
//
// A record without a company name is an unknown symbol.
func line(symbol string, r quote.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] ", symbol)

	name, ok := r.Name()
	if !ok {
		b.WriteString("Invalid stock symbol")
		return b.String()
	}
	b.WriteString(name)

	change, _ := r.Change()
	b.WriteString(" | Change: " + usd(change))
	if low, ok := r.DaysLow(); ok {
		b.WriteString(" / Low: " + usd(low))
	}
	if high, ok := r.DaysHigh(); ok {
		b.WriteString(" / High: " + usd(high))
	}
	return b.String()
}

// writeText prints one line per resolved symbol in request order. Symbols
// the provider did not return are skipped.
func writeText(w io.Writer, symbols []string, quotes map[string]quote.Record) error {
	for _, s := range symbols {
		r, ok := quotes[s]
		if !ok {
			continue
		}
		if _, err := fmt.Fprintln(w, line(s, r)); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, quotes map[string]quote.Record) error {
	if quotes == nil {
		quotes = map[string]quote.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(quotes)
}
