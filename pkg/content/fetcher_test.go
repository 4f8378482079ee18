package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"venture-ai-be/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchHTTPText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Acme   Robotics\n\nTeam: Alice & Bob"))
	}))
	defer srv.Close()

	doc, err := NewRefFetcher(0).Fetch(context.Background(), srv.URL+"/deck.txt")
	require.NoError(t, err)
	assert.Equal(t, "Acme Robotics\n\nTeam: Alice & Bob", doc.Text)
	assert.Equal(t, "text/plain; charset=utf-8", doc.ContentType)
}

func TestFetchFailuresAreContentUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/binary":
			_, _ = w.Write([]byte{0xff, 0xfe, 0x00, 0x81})
		case "/broken.pdf":
			_, _ = w.Write([]byte("%PDF-1.4 not really a pdf"))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		case "/empty":
		}
	}))
	defer srv.Close()

	f := NewRefFetcher(32, WithLocalFiles())
	refs := []string{
		srv.URL + "/missing",
		srv.URL + "/binary",
		srv.URL + "/broken.pdf",
		srv.URL + "/big",
		srv.URL + "/empty",
		"ftp://example.com/deck.pdf",
		"file:///definitely/not/here.pdf",
	}
	for _, ref := range refs {
		t.Run(ref, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), ref)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrContentUnavailable), "got %v", err)
		})
	}
}

func TestFetchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.md")
	require.NoError(t, os.WriteFile(path, []byte("# Acme\nTAM: $1B TAM"), 0o644))

	f := NewRefFetcher(0, WithLocalFiles())
	for _, ref := range []string{"file://" + path, path} {
		doc, err := f.Fetch(context.Background(), ref)
		require.NoError(t, err, ref)
		assert.Contains(t, doc.Text, "$1B TAM")
		assert.Equal(t, int64(19), doc.Size)
	}
}

func TestFetchRejectsLocalFilesByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.txt")
	require.NoError(t, os.WriteFile(path, []byte("do not leak"), 0o644))

	for _, ref := range []string{"file://" + path, path, "file:///etc/hostname"} {
		t.Run(ref, func(t *testing.T) {
			doc, err := NewRefFetcher(0).Fetch(context.Background(), ref)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.True(t, errors.Is(err, apperror.ErrContentUnavailable), "got %v", err)
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b\n\nc", normalizeWhitespace("a \t b\n\nc"))
}
