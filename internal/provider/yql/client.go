package yql

import (
	"net/http"
	"net/url"
)

const (
	baseURL = "https://query.yahooapis.com/v1/public/yql"
	// quoteTable is the community table that answers quote lookups.
	quoteTable = "yahoo.finance.quote"
	tablesEnv  = "store://datatables.org/alltableswithkeys"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=yql_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the Yahoo Query Language quote endpoint.
type Client struct {
	// baseURL is the endpoint the query is sent to.
	baseURL string
	// httpClient is the HTTP client.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// query contains additional query parameters to be sent with each request.
	query url.Values
}

// Option is a configuration option for the YQL client.
type Option func(*Client)

// WithBaseURL sets the endpoint URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) Option {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.header.Set("User-Agent", ua)
		}
	}
}

// New creates a new YQL client.
func New(options ...Option) *Client {
	var c = &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
	}
	c.query.Set("format", "json")
	c.query.Set("diagnostics", "false")
	c.query.Set("env", tablesEnv)
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Client) Name() string { return "YQL" }
