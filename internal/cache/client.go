package cache

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"stockquotes/internal/quote"
)

// DefaultPrefix namespaces quote keys in a shared backend.
const DefaultPrefix = "stocks_"

// Client is the resolver's view of the shared cache: prefixed keys, a fixed
// TTL and a record codec. Every backend failure degrades to a miss or a
// failed write; nothing is returned to the caller as an error.
type Client struct {
	store  Store
	prefix string
	ttl    time.Duration
	codec  quote.Codec
	log    logrus.FieldLogger
}

// Option customizes a Client.
type Option func(*Client)

// WithPrefix sets the key prefix.
func WithPrefix(p string) Option { return func(c *Client) { c.prefix = p } }

// WithCodec replaces the JSON codec.
func WithCodec(codec quote.Codec) Option {
	return func(c *Client) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithLogger sets the logger used for degraded operations.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient wraps store. A nil store or a ttl <= 0 yields a disabled client
// that never touches the backend.
func NewClient(store Store, ttl time.Duration, opts ...Option) *Client {
	c := &Client{
		store:  store,
		prefix: DefaultPrefix,
		ttl:    ttl,
		codec:  quote.JSONCodec{},
		log:    logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Disabled returns a client on which every lookup misses.
func Disabled() *Client { return NewClient(nil, 0) }

// Enabled reports whether lookups and fills reach a backend.
func (c *Client) Enabled() bool {
	return c != nil && c.store != nil && c.ttl > 0
}

// TTL is the expiry applied to every fill.
func (c *Client) TTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.ttl
}

// Key builds the backend key for a symbol.
func (c *Client) Key(symbol string) string { return c.prefix + quote.Normalize(symbol) }

// Lookup returns the cached record for symbol. Absent keys, backend errors,
// undecodable payloads and records without a symbol are all misses.
func (c *Client) Lookup(ctx context.Context, symbol string) (quote.Record, bool) {
	if !c.Enabled() {
		return nil, false
	}
	key := c.Key(symbol)
	log := c.log.WithField("key", key)

	exists, err := c.store.Exists(ctx, key)
	if err != nil {
		log.WithError(err).Debug("cache exists failed")
		return nil, false
	}
	if !exists {
		return nil, false
	}

	b, ok, err := c.store.Get(ctx, key)
	if err != nil {
		log.WithError(err).Debug("cache get failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	rec, err := c.codec.Decode(b)
	if err != nil {
		log.WithError(err).Debug("cache payload undecodable")
		return nil, false
	}
	if !rec.Valid() {
		return nil, false
	}
	return rec, true
}

// Fill writes rec under its own symbol. It reports whether the write landed.
func (c *Client) Fill(ctx context.Context, rec quote.Record) bool {
	if !c.Enabled() {
		return false
	}
	sym, ok := rec.Symbol()
	if !ok {
		return false
	}
	b, err := c.codec.Encode(rec)
	if err != nil {
		c.log.WithError(err).WithField("symbol", sym).Debug("cache encode failed")
		return false
	}
	key := c.Key(sym)
	if err := c.store.SetWithExpiry(ctx, key, b, c.ttl); err != nil {
		c.log.WithError(err).WithField("key", key).Debug("cache set failed")
		return false
	}
	return true
}

// Close releases the backend connection.
func (c *Client) Close() error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Close()
}
