package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is write-once blob storage for generated documents.
type Store interface {
	// Put writes data at pathHint and returns its public URL.
	Put(ctx context.Context, data []byte, pathHint, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
}

// LocalStore writes under a directory served statically at /uploads.
type LocalStore struct {
	dir     string
	baseURL string
}

var _ Store = &LocalStore{}

func NewLocalStore(dir, baseURL string) *LocalStore {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *LocalStore) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + path)
	if clean == "/" {
		return "", fmt.Errorf("invalid artifact path %q", path)
	}
	return filepath.Join(s.dir, clean), nil
}

func (s *LocalStore) Put(ctx context.Context, data []byte, pathHint, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dst, err := s.resolve(pathHint)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}
	// O_EXCL keeps artifacts write-once
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create artifact: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/uploads/%s", s.baseURL, strings.TrimPrefix(filepath.ToSlash(pathHint), "/")), nil
}

func (s *LocalStore) Delete(ctx context.Context, path string) error {
	dst, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
