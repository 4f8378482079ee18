package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{"results":[
	{"title":"Acme raises seed","url":"https://news.example.com/acme","content":"Acme Robotics raised..."},
	{"title":"no url","url":"","content":"dropped"},
	{"title":"Warehouse market","url":"https://research.example.com/market","content":"$800M market"}
]}`

func TestSearchParsesAndCaches(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "acme robotics", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	c := NewSearxngClient([]string{srv.URL + "/"}, time.Minute)

	results, err := c.Search(context.Background(), "acme robotics")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "https://news.example.com/acme", results[0].URL)
	assert.Equal(t, "Acme Robotics raised...", results[0].Snippet)

	_, err = c.Search(context.Background(), "ACME robotics")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second lookup should be served from cache")
}

func TestSearchFallsBackToNextInstance(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer good.Close()

	c := NewSearxngClient([]string{bad.URL, good.URL}, time.Minute)
	results, err := c.Search(context.Background(), "acme")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchAllInstancesFail(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	c := NewSearxngClient([]string{bad.URL}, time.Minute)
	_, err := c.Search(context.Background(), "acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status: 502")
}

func TestSearchEmptyResultsNotCached(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := NewSearxngClient([]string{srv.URL}, time.Minute)
	for i := 0; i < 2; i++ {
		results, err := c.Search(context.Background(), "$1B TAM")
		require.NoError(t, err)
		assert.Empty(t, results)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	_, err := NewSearxngClient(nil, time.Minute).Search(context.Background(), "  ")
	assert.Error(t, err)
}
