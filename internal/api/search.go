package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"openingfinder/internal/domain"
)

// maxBodyBytes caps how much of a response is read
const maxBodyBytes = 4 << 20

// searchResponse mirrors the search service's OpeningSearchList
type searchResponse struct {
	Openings      []domain.Opening `json:"openings"`
	TotalElements int              `json:"totalElements"`
}

// SearchClient queries GET {base}/api/v1/search
type SearchClient struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// SearchOption customises a SearchClient
type SearchOption func(*searchOptions)

type searchOptions struct {
	httpClient *http.Client
	maxRPS     float64
}

// WithHTTPClient uses base's transport underneath the client's own round tripper
func WithHTTPClient(c *http.Client) SearchOption {
	return func(o *searchOptions) { o.httpClient = c }
}

// WithMaxRPS paces outgoing searches; 0 disables pacing
func WithMaxRPS(rps float64) SearchOption {
	return func(o *searchOptions) { o.maxRPS = rps }
}

// NewSearchClient creates a client for the search service at baseURL
func NewSearchClient(baseURL string, log zerolog.Logger, opts ...SearchOption) *SearchClient {
	var o searchOptions
	for _, opt := range opts {
		opt(&o)
	}
	log = log.With().Str("component", "search-client").Logger()
	return &SearchClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(o.httpClient, o.maxRPS, log),
		log:     log,
	}
}

// Search fetches one page of openings matching q.Text. Every failure, whatever
// its cause, is reported as ErrSearchFailed; the cause is only logged.
func (c *SearchClient) Search(ctx context.Context, token string, q domain.Query) (domain.Page[domain.Opening], error) {
	page, err := c.search(ctx, token, q)
	if err != nil {
		c.log.Warn().Err(err).Str("text", q.Text).Int("page", q.PageIndex).Int("size", q.PageSize).Msg("search failed")
		return domain.Page[domain.Opening]{}, ErrSearchFailed
	}
	return page, nil
}

func (c *SearchClient) search(ctx context.Context, token string, q domain.Query) (domain.Page[domain.Opening], error) {
	var empty domain.Page[domain.Opening]

	params := url.Values{}
	params.Set("searchText", q.Text)
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	params.Set("pageNumber", strconv.Itoa(q.PageIndex))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/search?"+params.Encode(), nil)
	if err != nil {
		return empty, fmt.Errorf("failed to build request: %w", err)
	}
	bearer(req, token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return empty, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return empty, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var out searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
		return empty, fmt.Errorf("failed to decode search response: %w", err)
	}
	if out.TotalElements < 0 {
		return empty, fmt.Errorf("negative totalElements %d", out.TotalElements)
	}
	if out.Openings == nil {
		out.Openings = []domain.Opening{}
	}

	return domain.Page[domain.Opening]{Items: out.Openings, TotalElements: out.TotalElements}, nil
}
