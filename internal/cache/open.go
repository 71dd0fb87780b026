package cache

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Backends accepted by Open.
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Options describes how to build a Client from configuration.
type Options struct {
	Backend  string
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
	Timeout  time.Duration
	MaxItems int
}

// Open builds a Client. Caching is off when TTL <= 0 or the backend is
// "none". An unreachable Redis is logged and also turns caching off; it
// never prevents start-up.
func Open(ctx context.Context, opts Options, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	clientOpts := []Option{WithLogger(log)}
	if opts.Prefix != "" {
		clientOpts = append(clientOpts, WithPrefix(opts.Prefix))
	}

	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if opts.TTL <= 0 || backend == BackendNone {
		log.WithField("ttl", opts.TTL.String()).Info("quote cache disabled")
		return NewClient(nil, 0, clientOpts...)
	}

	switch backend {
	case BackendMemory:
		log.WithFields(logrus.Fields{"backend": backend, "ttl": opts.TTL.String()}).Info("quote cache enabled")
		return NewClient(NewMemory(opts.MaxItems), opts.TTL, clientOpts...)
	case "", BackendRedis:
		rdb, err := DialRedis(ctx, RedisOptions{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
			Timeout:  opts.Timeout,
		})
		if err != nil {
			log.WithError(err).Warn("quote cache unavailable; continuing without it")
			return NewClient(nil, 0, clientOpts...)
		}
		log.WithFields(logrus.Fields{"backend": BackendRedis, "addr": opts.Addr, "ttl": opts.TTL.String()}).Info("quote cache enabled")
		return NewClient(rdb, opts.TTL, clientOpts...)
	default:
		log.WithField("backend", opts.Backend).Warn("unknown cache backend; continuing without cache")
		return NewClient(nil, 0, clientOpts...)
	}
}
