package quote

import "strings"

// Normalize returns the canonical form of a ticker symbol.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// NormalizeAll upper-cases every symbol and drops blanks, keeping order.
func NormalizeAll(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if n := Normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// ParseSymbols splits a whitespace-delimited list such as "MSFT goog yelp".
// Commas are accepted as separators too, so query strings like "A,B" work.
func ParseSymbols(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	return NormalizeAll(fields)
}

// Unique drops repeated symbols, keeping the first occurrence.
func Unique(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
