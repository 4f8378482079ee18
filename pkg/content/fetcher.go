package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"venture-ai-be/internal/apperror"
)

// Document is fetched source content reduced to text.
type Document struct {
	Ref         string
	ContentType string
	Text        string
	PageCount   int
	Size        int64
}

// Fetcher resolves a content reference to a Document.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (*Document, error)
}

// RefFetcher handles http(s):// references, and file:// references or bare
// paths when local files are enabled.
type RefFetcher struct {
	client     *http.Client
	maxBytes   int64
	localFiles bool
}

var _ Fetcher = &RefFetcher{}

type Option func(*RefFetcher)

// WithLocalFiles allows reading from the host filesystem. Only for trusted
// callers such as the CLI; network-facing fetchers must not enable it.
func WithLocalFiles() Option {
	return func(f *RefFetcher) {
		f.localFiles = true
	}
}

func NewRefFetcher(maxBytes int64, opts ...Option) *RefFetcher {
	if maxBytes <= 0 {
		maxBytes = 20 * 1024 * 1024
	}
	f := &RefFetcher{
		client:   &http.Client{Timeout: 60 * time.Second},
		maxBytes: maxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func unavailable(ref string, err error, format string, args ...any) error {
	e := apperror.Wrap(apperror.KindContentUnavailable, err, format, args...)
	e.Message = fmt.Sprintf("%s (%s)", e.Message, ref)
	return e
}

func (f *RefFetcher) Fetch(ctx context.Context, ref string) (*Document, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, unavailable(ref, err, "invalid content reference")
	}

	var data []byte
	var contentType string
	switch u.Scheme {
	case "http", "https":
		data, contentType, err = f.fetchHTTP(ctx, u.String())
	case "file", "":
		if !f.localFiles {
			return nil, unavailable(ref, nil, "local file references are not allowed")
		}
		data, err = f.readFile(u.Path)
	default:
		return nil, unavailable(ref, nil, "unsupported scheme %q", u.Scheme)
	}
	if err != nil {
		return nil, unavailable(ref, err, "fetch failed")
	}

	return f.decode(ref, data, contentType)
}

func (f *RefFetcher) fetchHTTP(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := readLimited(resp.Body, f.maxBytes)
	return data, resp.Header.Get("Content-Type"), err
}

func (f *RefFetcher) readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return readLimited(file, f.maxBytes)
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("content exceeds %d bytes", maxBytes)
	}
	return data, nil
}

func (f *RefFetcher) decode(ref string, data []byte, contentType string) (*Document, error) {
	if len(data) == 0 {
		return nil, unavailable(ref, nil, "content is empty")
	}

	if isPDF(data) {
		text, pages, err := extractPDFText(data)
		if err != nil {
			return nil, unavailable(ref, err, "unreadable PDF")
		}
		return &Document{Ref: ref, ContentType: "application/pdf", Text: text, PageCount: pages, Size: int64(len(data))}, nil
	}

	if !utf8.Valid(data) {
		return nil, unavailable(ref, nil, "unsupported binary content %q", contentType)
	}
	if contentType == "" {
		contentType = "text/plain"
	}
	return &Document{Ref: ref, ContentType: contentType, Text: cleanText(string(data)), Size: int64(len(data))}, nil
}
