// Package api holds the HTTP clients for the search and allocation services.
package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-ID"

// transport stamps a request id, optionally paces requests, and logs outcomes
type transport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
	log     zerolog.Logger
}

// newTransport wraps next; maxRPS <= 0 disables pacing
func newTransport(next http.RoundTripper, maxRPS float64, log zerolog.Logger) *transport {
	if next == nil {
		next = http.DefaultTransport
	}
	t := &transport{next: next, log: log}
	if maxRPS > 0 {
		burst := int(maxRPS)
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(maxRPS), burst)
	}
	return t
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	req = req.Clone(req.Context())
	id := uuid.NewString()
	req.Header.Set(requestIDHeader, id)

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	ev := t.log.Debug().
		Str("request_id", id).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Dur("elapsed", time.Since(start))
	if err != nil {
		ev.Err(err).Msg("request failed")
		return nil, err
	}
	ev.Int("status", resp.StatusCode).Msg("request completed")
	return resp, nil
}

// newHTTPClient builds a client with no explicit timeout; callers bound requests with ctx
func newHTTPClient(base *http.Client, maxRPS float64, log zerolog.Logger) *http.Client {
	var next http.RoundTripper
	if base != nil {
		next = base.Transport
	}
	return &http.Client{Transport: newTransport(next, maxRPS, log)}
}

func bearer(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}
