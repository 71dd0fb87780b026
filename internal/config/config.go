package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"stockquotes/internal/cache"
)

// EnvPrefix is prepended to every environment override, e.g.
// STOCKQUOTES_CACHE_TTL_SEC=0 turns caching off.
const EnvPrefix = "STOCKQUOTES"

type Provider struct {
	Source     string `mapstructure:"source"`
	Endpoint   string `mapstructure:"endpoint"`
	UserAgent  string `mapstructure:"user_agent"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

type Cache struct {
	Backend    string `mapstructure:"backend"`
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	Prefix     string `mapstructure:"prefix"`
	TTLSeconds int    `mapstructure:"ttl_sec"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
	MaxItems   int    `mapstructure:"max_items"`
}

type Resolver struct {
	Concurrency int `mapstructure:"concurrency"`
}

type Server struct {
	Port              string `mapstructure:"port"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
}

type Log struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

type Config struct {
	Provider Provider `mapstructure:"provider"`
	Cache    Cache    `mapstructure:"cache"`
	Resolver Resolver `mapstructure:"resolver"`
	Server   Server   `mapstructure:"server"`
	Log      Log      `mapstructure:"log"`
}

func Default() Config {
	return Config{
		Provider: Provider{
			Source:     "yql",
			Endpoint:   "https://query.yahooapis.com/v1/public/yql",
			UserAgent:  "stockquotes/1.0",
			TimeoutSec: 2,
		},
		Cache: Cache{
			Backend:    cache.BackendRedis,
			Addr:       "127.0.0.1:6379",
			Prefix:     cache.DefaultPrefix,
			TTLSeconds: 60,
			TimeoutSec: 2,
			MaxItems:   10000,
		},
		Resolver: Resolver{Concurrency: 8},
		Server:   Server{Port: "8080", RequestTimeoutSec: 10},
		Log:      Log{Level: "info", JSON: true},
	}
}

// Load reads an optional JSON or YAML config file and applies environment
// overrides. If path is empty, ./config.json is used when present and
// defaults otherwise; a named file that cannot be read is an error.
func Load(path string) (Config, error) {
	v, err := read(path)
	if err != nil {
		return Default(), err
	}
	return Decode(v)
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"source":        "provider.source",
	"endpoint":      "provider.endpoint",
	"user-agent":    "provider.user_agent",
	"timeout":       "provider.timeout_sec",
	"cache-backend": "cache.backend",
	"cache-addr":    "cache.addr",
	"cache-ttl":     "cache.ttl_sec",
	"concurrency":   "resolver.concurrency",
	"port":          "server.port",
	"log-level":     "log.level",
	"log-json":      "log.json",
}

// AddFlags registers the flags shared by every command. Commands may add
// their own (e.g. --port) before calling LoadFlags.
func AddFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "path to a JSON or YAML config file")
	fs.String("source", d.Provider.Source, "quote source; choices: yql, financego")
	fs.String("endpoint", d.Provider.Endpoint, "quote provider endpoint")
	fs.String("user-agent", d.Provider.UserAgent, "User-Agent sent to the provider")
	fs.Int("timeout", d.Provider.TimeoutSec, "provider timeout in seconds")
	fs.String("cache-backend", d.Cache.Backend, "cache backend; choices: redis, memory, none")
	fs.String("cache-addr", d.Cache.Addr, "redis address")
	fs.Int("cache-ttl", d.Cache.TTLSeconds, "cache ttl in seconds; 0 disables caching")
	fs.Int("concurrency", d.Resolver.Concurrency, "parallel cache lookups")
	fs.String("log-level", d.Log.Level, "show logs at or above this level; choices: trace, debug, info, warn, error")
	fs.Bool("log-json", d.Log.JSON, "log in json format")
}

// LoadFlags is Load with the file path taken from --config and every flag
// the user set winning over file and environment.
func LoadFlags(fs *pflag.FlagSet) (Config, error) {
	path, _ := fs.GetString("config")
	v, err := read(path)
	if err != nil {
		return Default(), err
	}
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return Default(), fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return Decode(v)
}

// read loads path into a fresh viper. A named file must exist; only the
// implicit ./config.json is optional.
func read(path string) (*viper.Viper, error) {
	v := New()
	if path == "" {
		if _, err := os.Stat("config.json"); err != nil {
			return v, nil
		}
		path = "config.json"
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return v, nil
}

// New returns a viper instance with every key defaulted and bound to its
// STOCKQUOTES_* environment variable.
func New() *viper.Viper {
	v := viper.New()
	d := Default()
	for key, val := range map[string]any{
		"provider.source":            d.Provider.Source,
		"provider.endpoint":          d.Provider.Endpoint,
		"provider.user_agent":        d.Provider.UserAgent,
		"provider.timeout_sec":       d.Provider.TimeoutSec,
		"cache.backend":              d.Cache.Backend,
		"cache.addr":                 d.Cache.Addr,
		"cache.password":             d.Cache.Password,
		"cache.db":                   d.Cache.DB,
		"cache.prefix":               d.Cache.Prefix,
		"cache.ttl_sec":              d.Cache.TTLSeconds,
		"cache.timeout_sec":          d.Cache.TimeoutSec,
		"cache.max_items":            d.Cache.MaxItems,
		"resolver.concurrency":       d.Resolver.Concurrency,
		"server.port":                d.Server.Port,
		"server.request_timeout_sec": d.Server.RequestTimeoutSec,
		"log.level":                  d.Log.Level,
		"log.json":                   d.Log.JSON,
	} {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Decode unmarshals v into a Config and clamps nonsensical values.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	if cfg.Provider.TimeoutSec <= 0 {
		cfg.Provider.TimeoutSec = Default().Provider.TimeoutSec
	}
	if cfg.Cache.TTLSeconds < 0 {
		cfg.Cache.TTLSeconds = 0
	}
	if cfg.Resolver.Concurrency <= 0 {
		cfg.Resolver.Concurrency = 1
	}
	return cfg, nil
}

// CacheOptions maps the cache section onto cache.Open options.
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:  c.Cache.Backend,
		Addr:     c.Cache.Addr,
		Password: c.Cache.Password,
		DB:       c.Cache.DB,
		Prefix:   c.Cache.Prefix,
		TTL:      time.Duration(c.Cache.TTLSeconds) * time.Second,
		Timeout:  time.Duration(c.Cache.TimeoutSec) * time.Second,
		MaxItems: c.Cache.MaxItems,
	}
}

// ProviderTimeout bounds one batched provider call.
func (c Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSec) * time.Second
}
