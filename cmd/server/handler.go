package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"stockquotes/internal/quote"
)

const maxSymbols = 1000

// Resolver is the part of resolver.Resolver the handlers use.
type Resolver interface {
	Resolve(ctx context.Context, symbols []string) map[string]quote.Record
}

type quotesResponse struct {
	Quotes map[string]quote.Record `json:"quotes"`
}

type postBody struct {
	Symbols []string `json:"symbols"`
}

type handler struct {
	// newResolver is called per request; each Resolver sees a fresh store
	// over the shared cache.
	newResolver func() Resolver
	timeout  time.Duration
	log      logrus.FieldLogger
}

func newHandler(newResolver func() Resolver, timeout time.Duration, log logrus.FieldLogger) *handler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &handler{newResolver: newResolver, timeout: timeout, log: log}
}

func (h *handler) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/api/quotes", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.getQuotes(w, r)
		case http.MethodPost:
			h.postQuotes(w, r)
		default:
			httpError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	return withRequestID(withAccessLog(h.log, withJSONHeaders(withGzip(recoverPanic(h.log, limitBody(mux))))))
}

// getQuotes accepts ?symbols=A,B or ?symbols=A+B.
func (h *handler) getQuotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("symbols")
	if strings.TrimSpace(q) == "" {
		httpError(w, "missing symbols query param", http.StatusBadRequest)
		return
	}
	h.writeQuotes(w, r, quote.ParseSymbols(q))
}

func (h *handler) postQuotes(w http.ResponseWriter, r *http.Request) {
	var b postBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		httpError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	h.writeQuotes(w, r, quote.NormalizeAll(b.Symbols))
}

func (h *handler) writeQuotes(w http.ResponseWriter, r *http.Request, symbols []string) {
	if len(symbols) == 0 {
		httpError(w, "symbols cannot be empty", http.StatusBadRequest)
		return
	}
	if len(symbols) > maxSymbols {
		httpError(w, "too many symbols (max 1000)", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	quotes := h.newResolver().Resolve(ctx, symbols)
	if quotes == nil {
		quotes = map[string]quote.Record{}
	}

	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(quotesResponse{Quotes: quotes}); err != nil {
		loggerFrom(r.Context(), h.log).WithError(err).Debug("write response")
	}
}

func httpError(w http.ResponseWriter, msg string, code int) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
