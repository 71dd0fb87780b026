package resolver

import (
	"sync"

	"stockquotes/internal/quote"
)

// QuoteStore holds every quote resolved during a Resolver's lifetime. Entries
// are never evicted.
type QuoteStore struct {
	mu     sync.RWMutex
	quotes map[string]quote.Record
}

func NewQuoteStore() *QuoteStore {
	return &QuoteStore{quotes: make(map[string]quote.Record)}
}

func (s *QuoteStore) Get(symbol string) (quote.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.quotes[symbol]
	return r, ok
}

func (s *QuoteStore) Has(symbol string) bool {
	_, ok := s.Get(symbol)
	return ok
}

func (s *QuoteStore) Put(symbol string, r quote.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[symbol] = r
}

func (s *QuoteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quotes)
}
