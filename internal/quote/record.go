package quote

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Well-known record fields, named after the provider's quote vocabulary.
const (
	FieldSymbol    = "Symbol"
	FieldName      = "Name"
	FieldChange    = "Change"
	FieldDaysLow   = "DaysLow"
	FieldDaysHigh  = "DaysHigh"
	FieldLastTrade = "LastTradePriceOnly"
	FieldCurrency  = "Currency"
)

// Record is the quote for one symbol as returned by a provider.
// Only Symbol is inspected by the resolver; every other field passes through.
type Record map[string]any

// Symbol returns the record's own symbol field. ok is false when the field
// is missing, not a string, or empty; such records are never stored.
func (r Record) Symbol() (string, bool) {
	if r == nil {
		return "", false
	}
	s, ok := r[FieldSymbol].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Valid reports whether the record can be stored and cached.
func (r Record) Valid() bool {
	_, ok := r.Symbol()
	return ok
}

// Name returns the display name, if the provider sent one.
func (r Record) Name() (string, bool) {
	s, ok := r[FieldName].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Decimal parses a numeric field. Providers send numbers as quoted strings
// ("+1.23"), JSON numbers, or null.
func (r Record) Decimal(key string) (decimal.Decimal, bool) {
	switch v := r[key].(type) {
	case string:
		s := strings.TrimPrefix(strings.TrimSpace(v), "+")
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	default:
		return decimal.Zero, false
	}
}

// Change is the day's price change.
func (r Record) Change() (decimal.Decimal, bool) { return r.Decimal(FieldChange) }

// DaysLow is the day's low price.
func (r Record) DaysLow() (decimal.Decimal, bool) { return r.Decimal(FieldDaysLow) }

// DaysHigh is the day's high price.
func (r Record) DaysHigh() (decimal.Decimal, bool) { return r.Decimal(FieldDaysHigh) }
