//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Opening mirrors the search service's JSON shape
type Opening struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Details     string   `json:"details"`
	Level       int      `json:"level"`
	Location    string   `json:"location"`
	Status      string   `json:"status"`
	ProjectName string   `json:"projectName"`
	Skills      []string `json:"skills"`
}

// Backend fakes both the search and the allocation service
type Backend struct {
	Token string

	srv *httptest.Server

	mu        sync.Mutex
	openings  []Opening
	applies   []string
	applyCode int
	applyBody string
}

// BackendOption configures the fake backend
type BackendOption func(*Backend)

// WithOpenings replaces the default catalogue
func WithOpenings(openings ...Opening) BackendOption {
	return func(b *Backend) { b.openings = openings }
}

// WithApplyError makes every apply fail with the given status and body
func WithApplyError(code int, body string) BackendOption {
	return func(b *Backend) {
		b.applyCode = code
		b.applyBody = body
	}
}

// Catalogue builds n openings titled "Opening 1".."Opening n"
func Catalogue(n int) []Opening {
	out := make([]Opening, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Opening{
			ID:          int64(i),
			Title:       fmt.Sprintf("Opening %d", i),
			Details:     fmt.Sprintf("Details of opening %d", i),
			Level:       i%3 + 1,
			Location:    "Remote",
			Status:      "OPEN",
			ProjectName: "Atlas",
			Skills:      []string{"Go", "SQL"},
		})
	}
	return out
}

// CreateBackend starts the fake services for this test
func (tf *TUITestFramework) CreateBackend(opts ...BackendOption) *Backend {
	b := &Backend{Token: "e2e-token", openings: Catalogue(10), applyCode: http.StatusCreated}
	for _, opt := range opts {
		opt(b)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", b.search)
	mux.HandleFunc("POST /api/v1/applications/openings/{id}", b.apply)
	b.srv = httptest.NewServer(mux)

	tf.backend = b
	return b
}

// CreateTestWorkspace creates the temporary home of the app under test
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// ConfigPath is where the app under test keeps its settings
func (tf *TUITestFramework) ConfigPath() string {
	return filepath.Join(tf.workspace, "config.toml")
}

// URL is the base URL of both fake services
func (b *Backend) URL() string {
	return b.srv.URL
}

// Applies returns the opening ids applied for so far
func (b *Backend) Applies() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.applies...)
}

// Close stops the fake services
func (b *Backend) Close() {
	b.srv.Close()
}

func (b *Backend) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+b.Token
}

func (b *Backend) search(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	q := r.URL.Query()
	text := strings.ToLower(q.Get("searchText"))
	size, _ := strconv.Atoi(q.Get("pageSize"))
	page, _ := strconv.Atoi(q.Get("pageNumber"))
	if size <= 0 {
		size = 4
	}

	b.mu.Lock()
	var matched []Opening
	for _, o := range b.openings {
		if text == "" || strings.Contains(strings.ToLower(o.Title), text) {
			matched = append(matched, o)
		}
	}
	b.mu.Unlock()

	items := []Opening{}
	for i := page * size; i < len(matched) && i < (page+1)*size; i++ {
		items = append(items, matched[i])
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"openings":      items,
		"totalElements": len(matched),
	})
}

func (b *Backend) apply(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	b.mu.Lock()
	b.applies = append(b.applies, r.PathValue("id"))
	code, body := b.applyCode, b.applyBody
	b.mu.Unlock()

	if code >= 300 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
		return
	}
	w.WriteHeader(code)
}
