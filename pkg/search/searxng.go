package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
)

// Result is one web hit, in the order the engine ranked it.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher looks up a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

const maxResults = 8

// SearxngClient queries SearXNG instances round robin, trying each once per call.
type SearxngClient struct {
	urls    []string
	counter uint64
	client  *http.Client
	cache   *cache.Cache
}

var _ Searcher = &SearxngClient{}

func NewSearxngClient(urls []string, cacheTTL time.Duration) *SearxngClient {
	normalized := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSuffix(strings.TrimSpace(u), "/"); u != "" {
			normalized = append(normalized, u)
		}
	}
	if len(normalized) == 0 {
		normalized = []string{"http://localhost:8080"}
	}
	return &SearxngClient{
		urls:   normalized,
		client: &http.Client{Timeout: 30 * time.Second},
		cache:  cache.New(cacheTTL, 2*cacheTTL),
	}
}

func (c *SearxngClient) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}

	key := strings.ToLower(query)
	if cached, found := c.cache.Get(key); found {
		return cached.([]Result), nil
	}

	start := atomic.AddUint64(&c.counter, 1) - 1
	var lastErr error
	for attempt := 0; attempt < len(c.urls); attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		base := c.urls[(start+uint64(attempt))%uint64(len(c.urls))]
		results, err := c.searchOne(ctx, base, query)
		if err != nil {
			lastErr = err
			continue
		}
		if len(results) > 0 {
			c.cache.Set(key, results, cache.DefaultExpiration)
		}
		return results, nil
	}

	return nil, fmt.Errorf("all %d SearXNG instances failed, last error: %w", len(c.urls), lastErr)
}

type searxngResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func (c *SearxngClient) searchOne(ctx context.Context, base, query string) ([]Result, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s&format=json&safesearch=1", base, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "VentureAI/1.0 (Bot)")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	var parsed searxngResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	results := make([]Result, 0, maxResults)
	for _, r := range parsed.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, Result{Title: r.Title, URL: r.URL, Snippet: r.Content})
		if len(results) == maxResults {
			break
		}
	}
	return results, nil
}
